package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/filter"
)

// DefaultBarWidth is the length of the longest bar.
const DefaultBarWidth = 40

const barRune = "█"

// ANSI escape codes.
const (
	ansiBold   = "\033[1m"
	ansiCyan   = "\033[36m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
)

// chartTitles are the section headings of the charted dimensions.
var chartTitles = map[dataset.Dimension]string{
	dataset.Position:  "Distribution by position",
	dataset.Direction: "Distribution by direction",
	dataset.Location:  "Distribution by location",
}

var chartColors = map[dataset.Dimension]string{
	dataset.Position:  ansiCyan,
	dataset.Direction: ansiGreen,
	dataset.Location:  ansiYellow,
}

// ChartTitle returns the heading for d.
func ChartTitle(d dataset.Dimension) string {
	if t, ok := chartTitles[d]; ok {
		return t
	}

	return "Distribution by " + string(d)
}

// Chart is a horizontal bar chart of one dimension.
type Chart struct {
	Title   string
	Entries []filter.Entry
	Width   int
	Color   string
}

// NewChart builds the chart for d from res.
func NewChart(res *filter.Result, d dataset.Dimension) Chart {
	return Chart{
		Title:   ChartTitle(d),
		Entries: res.Counts[d].Sorted(),
		Width:   DefaultBarWidth,
		Color:   chartColors[d],
	}
}

// bar returns the bar for n scaled against max. Non-zero counts get at
// least one cell.
func bar(n, largest, width int) string {
	if n <= 0 || largest <= 0 || width <= 0 {
		return ""
	}

	cells := n * width / largest
	if cells == 0 {
		cells = 1
	}

	return strings.Repeat(barRune, cells)
}

// Write renders the chart. Empty charts print "(no data)".
func (c Chart) Write(w io.Writer, color bool) error {
	title := c.Title
	if color {
		title = ansiBold + title + ansiReset
	}

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	if len(c.Entries) == 0 {
		_, err := fmt.Fprintln(w, "  (no data)")
		return err
	}

	largest := c.Entries[0].Count

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, e := range c.Entries {
		b := bar(e.Count, largest, c.Width)
		if color && c.Color != "" {
			b = c.Color + b + ansiReset
		}

		_, _ = fmt.Fprintf(tw, "  %s\t%d\t%s\n", label(e.Value), e.Count, b)
	}

	return tw.Flush()
}

// label makes empty values visible.
func label(v string) string {
	if v == "" {
		return "(empty)"
	}

	return v
}
