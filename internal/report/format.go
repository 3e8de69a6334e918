package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/filter"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatTable, FormatJSON, FormatYAML, FormatCSV}

// Formatter writes a report to a writer.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// FormatOptions tunes the human-readable formatter.
type FormatOptions struct {
	// Limit caps the listed rows. 0 lists every row.
	Limit int
	// Color enables ANSI colors in charts.
	Color bool
}

// NewFormatter returns a formatter for the given format name.
// Supported: "table" (default), "json", "yaml", "csv".
func NewFormatter(format string, opts FormatOptions) (Formatter, error) {
	switch normalizeFormat(format) {
	case "", FormatTable:
		return &TableFormatter{Limit: opts.Limit, Color: opts.Color}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML, "yml":
		return &YAMLFormatter{}, nil
	case FormatCSV:
		return &CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q: use table, json, yaml, or csv", format)
	}
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// --- Table Formatter ---

// TableFormatter writes the match count, a row listing, and the
// distribution charts.
type TableFormatter struct {
	Limit int
	Color bool
}

// Format writes the report as human-readable text.
func (f *TableFormatter) Format(w io.Writer, r *Report) error {
	res := r.Result

	if _, err := fmt.Fprintf(w, "Found %d vacancies after applying filters.\n", res.Total); err != nil {
		return err
	}

	if res.Total > 0 {
		_, _ = fmt.Fprintln(w)

		if err := f.writeRows(w, r); err != nil {
			return err
		}
	}

	for _, d := range filter.ChartedDimensions {
		_, _ = fmt.Fprintln(w)

		if err := NewChart(res, d).Write(w, f.Color); err != nil {
			return err
		}
	}

	return nil
}

func (f *TableFormatter) writeRows(w io.Writer, r *Report) error {
	rows := r.Result.Records
	if f.Limit > 0 && len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, len(r.Columns))
	rule := make([]string, len(r.Columns))

	for i, c := range r.Columns {
		header[i] = strings.ToUpper(c)
		rule[i] = strings.Repeat("-", len([]rune(c)))
	}

	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	_, _ = fmt.Fprintln(tw, strings.Join(rule, "\t"))

	cells := make([]string, len(r.Columns))

	for _, rec := range rows {
		for i, c := range r.Columns {
			cells[i] = cellText(rec.Column(c))
		}

		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(rows) < len(r.Result.Records) {
		_, _ = fmt.Fprintf(w, "... %d more row(s), use --limit 0 to list all\n", len(r.Result.Records)-len(rows))
	}

	return nil
}

// cellText keeps a cell on one tabwriter line.
func cellText(s string) string {
	if s == "" {
		return "-"
	}

	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}

// --- JSON Formatter ---

// JSONFormatter writes the report as indented JSON.
type JSONFormatter struct{}

// Format writes the report as JSON.
func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(r.document())
}

// --- YAML Formatter ---

// YAMLFormatter writes the report as YAML.
type YAMLFormatter struct{}

// Format writes the report as YAML.
func (f *YAMLFormatter) Format(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r.document()); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}

	return enc.Close()
}

// --- CSV Formatter ---

// CSVFormatter writes the matching rows as delimited text in the report's
// column order, ready to be loaded again.
type CSVFormatter struct{}

// Format writes the matching rows as CSV.
func (f *CSVFormatter) Format(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(r.Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	row := make([]string, len(r.Columns))

	for _, rec := range r.Result.Records {
		for i, c := range r.Columns {
			row[i] = rec.Column(c)
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}
