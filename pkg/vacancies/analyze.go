// Package vacancies provides a public Go API for filtering and aggregating
// job-posting tables collected from Telegram channels.
//
// This package exposes the vacancies analysis pipeline as a library,
// allowing programmatic use without the CLI.
//
// Basic usage:
//
//	result, err := vacancies.Analyze(ctx, []string{"IT_Jobs.csv"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Total)
//
// With options:
//
//	result, err := vacancies.Analyze(ctx, []string{"IT_Jobs.csv", "UzDev_Jobs.csv"},
//	    vacancies.WithInclude(vacancies.Position, "Backend"),
//	    vacancies.WithExclude(vacancies.Company, "EPAM"),
//	    vacancies.WithDateRange(from, to),
//	)
package vacancies

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/filter"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/logging"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/report"
)

// Dimension names a filterable column.
type Dimension = dataset.Dimension

// Filterable dimensions.
const (
	Position   = dataset.Position
	Direction  = dataset.Direction
	Experience = dataset.Experience
	Location   = dataset.Location
	Company    = dataset.Company
	Skills     = dataset.Skills
)

// All is the include value that keeps every value of a dimension. Skills
// have no such value.
const All = filter.All

// Record is one job posting.
type Record = dataset.JobRecord

// Entry is one value of a distribution with its count.
type Entry = filter.Entry

// ErrMissingColumn is wrapped by the error Analyze returns when a data
// file lacks a required column.
var ErrMissingColumn = filter.ErrMissingColumn

// Option configures an analysis run.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	include map[Dimension][]string
	exclude map[Dimension][]string
	from    time.Time
	to      time.Time
	comma   rune
	logger  *slog.Logger
	cache   *Cache
}

// WithInclude keeps only rows whose d value is one of values. For skills a
// row is kept when it has any of the values. Repeated calls for the same
// dimension replace each other.
func WithInclude(d Dimension, values ...string) Option {
	return func(o *options) { o.include[d] = values }
}

// WithExclude drops rows whose d value is one of values, even when they
// are also included. Repeated calls add up.
func WithExclude(d Dimension, values ...string) Option {
	return func(o *options) { o.exclude[d] = append(o.exclude[d], values...) }
}

// WithDateRange keeps rows posted from from through to, inclusive. A zero
// bound keeps the table's own earliest or latest date. Explicit bounds in
// the wrong order are an error; a single bound beyond the table's dates
// simply matches nothing.
func WithDateRange(from, to time.Time) Option {
	return func(o *options) { o.from, o.to = from, to }
}

// WithComma sets the field delimiter of the data files. The default is ','.
func WithComma(r rune) Option { return func(o *options) { o.comma = r } }

// WithLogger sets the logger for data-quality diagnostics. The default
// discards all output.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithCache reuses tables and results across calls. Files that change on
// disk are reloaded.
func WithCache(c *Cache) Option { return func(o *options) { o.cache = c } }

// Cache holds loaded tables and computed results between Analyze calls.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	tables  map[rune]*dataset.Cache
	results *filter.Memo
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		tables:  make(map[rune]*dataset.Cache),
		results: filter.NewMemo(filter.DefaultMemoSize),
	}
}

func (c *Cache) tableCache(opts dataset.LoadOptions) *dataset.Cache {
	c.mu.Lock()
	defer c.mu.Unlock()

	tc, ok := c.tables[opts.Comma]
	if !ok {
		tc = dataset.NewCache(opts)
		c.tables[opts.Comma] = tc
	}

	return tc
}

// Result holds the outcome of an analysis run.
type Result struct {
	// Total is the number of matching rows.
	Total int

	// Records are the matching rows in file order. They are shared with
	// the cache and must not be modified.
	Records []*Record

	// Counts holds the distribution of the matches over position,
	// direction, and location, most frequent first.
	Counts map[Dimension][]Entry

	// Sources names the loaded files.
	Sources []string

	// From and To are the date bounds that were applied.
	From time.Time
	To   time.Time

	table *dataset.Table
	res   *filter.Result
}

// Write renders the result in one of the report formats: table, json,
// yaml, or csv. The table format lists every row.
func (r *Result) Write(w io.Writer, format string) error {
	f, err := report.NewFormatter(format, report.FormatOptions{})
	if err != nil {
		return err
	}

	return f.Format(w, report.New(r.table, r.res))
}

// Analyze loads the data files at paths, applies the filters, and returns
// the matching rows with their distributions.
//
// Without options every row with a parseable date matches.
func Analyze(ctx context.Context, paths []string, opts ...Option) (*Result, error) {
	if len(paths) == 0 {
		return nil, errors.New("at least one data file is required")
	}

	o := &options{
		include: make(map[Dimension][]string),
		exclude: make(map[Dimension][]string),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	for d := range o.include {
		if !isDimension(d) {
			return nil, fmt.Errorf("unknown dimension %q", d)
		}
	}

	for d := range o.exclude {
		if !isDimension(d) {
			return nil, fmt.Errorf("unknown dimension %q", d)
		}
	}

	loadOpts := dataset.LoadOptions{Comma: o.comma, Logger: o.logger}

	var (
		table *dataset.Table
		err   error
	)

	if o.cache != nil {
		table, err = o.cache.tableCache(loadOpts).Load(ctx, paths...)
	} else {
		table, err = dataset.Load(ctx, loadOpts, paths...)
	}

	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}

	req, err := buildRequest(table, o)
	if err != nil {
		return nil, err
	}

	var res *filter.Result

	if o.cache != nil {
		res, err = o.cache.results.Apply(ctx, table, req)
	} else {
		res, err = filter.Apply(ctx, table, req)
	}

	if err != nil {
		return nil, fmt.Errorf("filtering: %w", err)
	}

	out := &Result{
		Total:   res.Total,
		Records: res.Records,
		Counts:  make(map[Dimension][]Entry, len(filter.ChartedDimensions)),
		Sources: table.Sources,
		From:    req.DateRange.Start,
		To:      req.DateRange.End,
		table:   table,
		res:     res,
	}

	for _, d := range filter.ChartedDimensions {
		out.Counts[d] = res.Counts[d].Sorted()
	}

	return out, nil
}

func isDimension(d Dimension) bool {
	got, ok := dataset.ParseDimension(string(d))
	return ok && got == d
}

func buildRequest(t *dataset.Table, o *options) (filter.Request, error) {
	req := filter.DefaultRequest(t)

	for _, d := range dataset.AllDimensions {
		sel := req.Selection(d)

		if inc, ok := o.include[d]; ok {
			sel = filter.Only(inc...)
		}

		if exc := o.exclude[d]; len(exc) > 0 {
			sel = sel.Except(exc...)
		}

		req = req.With(d, sel)
	}

	dr := req.DateRange
	if !o.from.IsZero() {
		dr.Start = o.from
	}

	if !o.to.IsZero() {
		dr.End = o.to
	}

	dr = filter.NewDateRange(dr.Start, dr.End)
	if !o.from.IsZero() && !o.to.IsZero() && dr.Start.After(dr.End) {
		return filter.Request{}, fmt.Errorf("date range %s is empty: start is after end", dr)
	}

	return req.WithDateRange(dr), nil
}
