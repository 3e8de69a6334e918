package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSources is returned when Load is called without any path.
var ErrNoSources = errors.New("no data sources given")

// LoadOptions configures how sources are read.
type LoadOptions struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
	// Logger receives data-quality diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

func (o LoadOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return slog.Default()
}

// Load reads every path and concatenates the resulting tables.
func Load(ctx context.Context, opts LoadOptions, paths ...string) (*Table, error) {
	if len(paths) == 0 {
		return nil, ErrNoSources
	}

	tables := make([]*Table, 0, len(paths))

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t, err := LoadFile(p, opts)
		if err != nil {
			return nil, err
		}

		tables = append(tables, t)
	}

	if len(tables) == 1 {
		return tables[0], nil
	}

	return Concat(tables...), nil
}

// LoadFile reads a single delimited file.
func LoadFile(path string, opts LoadOptions) (*Table, error) {
	id, err := SourceIdentity(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // user-supplied data file
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f, filepath.Base(path), opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	t.Identity = id

	return t, nil
}

// Read parses delimited text from r. name labels the records' Source.
func Read(r io.Reader, name string, opts LoadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{Sources: []string{name}}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := canonicalHeader(header)
	t := &Table{Sources: []string{name}}

	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if !seen[c] {
			seen[c] = true
			t.Columns = append(t.Columns, c)
		}
	}

	logger := opts.logger()
	line := 1

	for {
		row, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		line++

		if readErr != nil {
			return nil, fmt.Errorf("line %d: %w", line, readErr)
		}

		rec := buildRecord(columns, row)
		rec.Source = name

		if rec.Date == nil {
			logger.Debug("unparseable date",
				slog.String("source", name),
				slog.Int("line", line),
				slog.String("value", cell(columns, row, ColumnDate)),
			)
		}

		t.Records = append(t.Records, rec)
	}

	logger.Debug("source loaded",
		slog.String("source", name),
		slog.Int("records", len(t.Records)),
		slog.Int("columns", len(t.Columns)),
	)

	return t, nil
}

// canonicalHeader lower-cases and trims header cells so that sources with
// differently-cased headers line up. Blank headers get positional names.
func canonicalHeader(header []string) []string {
	out := make([]string, len(header))

	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}

		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			h = fmt.Sprintf("column_%d", i)
		}

		out[i] = h
	}

	return out
}

func cell(columns, row []string, name string) string {
	for i, c := range columns {
		if c == name && i < len(row) {
			return row[i]
		}
	}

	return ""
}

// buildRecord maps a raw row onto a JobRecord. Short rows are padded with
// empty cells; surplus cells are ignored.
func buildRecord(columns, row []string) JobRecord {
	var rec JobRecord

	for i, c := range columns {
		v := ""
		if i < len(row) {
			v = row[i]
		}

		switch c {
		case string(Position):
			rec.Position = v
		case string(Direction):
			rec.Direction = v
		case string(Experience):
			rec.Experience = v
		case string(Location):
			rec.Location = v
		case string(Company):
			rec.Company = v
		case string(Skills):
			rec.Skills = v
		case ColumnDate:
			if d, ok := ParseDate(v); ok {
				rec.Date = &d
			}
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}

			rec.Extra[c] = v
		}
	}

	rec.SkillsList = SplitSkills(rec.Skills)

	return rec
}

// SourceIdentity fingerprints a file by absolute path, size and
// modification time.
func SourceIdentity(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("reading %s: is a directory", path)
	}

	return fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano()), nil
}
