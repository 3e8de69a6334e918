// Package report renders filter results and option universes for the
// terminal or for export.
//
// The package is organized around four concerns:
//
//   - Documents (report.go, options.go): the [Report] and [Options] values
//     every formatter consumes, built from a table and a filter result.
//
//   - Formatters (format.go): table, json, yaml, and csv renderings selected
//     with [NewFormatter] and [NewOptionsFormatter].
//
//   - Charts (chart.go): horizontal text bar charts for the per-dimension
//     distributions, with optional ANSI color.
//
//   - Destinations (writer.go): [Render] and [RenderOptions] deliver the
//     buffered output to stdout or to a file chosen with [To].
package report
