package filter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/logging"
)

// ErrMissingColumn is wrapped by SchemaError.
var ErrMissingColumn = errors.New("missing required column")

// SchemaError reports a table that cannot be filtered because required
// columns are absent.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumn, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return ErrMissingColumn }

// ChartedDimensions are the dimensions counted in every result.
var ChartedDimensions = []dataset.Dimension{dataset.Position, dataset.Direction, dataset.Location}

// Result is the outcome of applying a request to a table.
type Result struct {
	// Records are the matching rows, in table order. They point into the
	// source table and must not be modified.
	Records []*dataset.JobRecord
	// Total is len(Records).
	Total int
	// Counts holds the per-value frequency of each charted dimension.
	Counts map[dataset.Dimension]Counts
	// Steps summarises every chain step.
	Steps []StepSummary
}

// BuildChain returns the filter chain for req: the five single-valued
// dimensions, then skills, then the date range.
func BuildChain(req Request) *Chain {
	filters := make([]Filter, 0, len(dataset.AllDimensions)+1)

	for _, d := range dataset.CategoricalDimensions {
		filters = append(filters, NewDimensionFilter(d, req.Selection(d)))
	}

	filters = append(filters,
		NewSkillsFilter(req.Skills),
		NewDateRangeFilter(req.DateRange),
	)

	return NewChain(filters...)
}

// Apply filters t with req and aggregates the survivors. The table is
// never modified. An empty result is not an error.
func Apply(ctx context.Context, t *dataset.Table, req Request) (*Result, error) {
	if t == nil {
		return nil, &SchemaError{Missing: dataset.RequiredColumns}
	}

	if missing := t.MissingColumns(); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	records := make([]*dataset.JobRecord, len(t.Records))
	for i := range t.Records {
		records[i] = &t.Records[i]
	}

	kept, steps, err := BuildChain(req).Apply(ctx, records)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Records: kept,
		Total:   len(kept),
		Counts:  make(map[dataset.Dimension]Counts, len(ChartedDimensions)),
		Steps:   steps,
	}

	for _, d := range ChartedDimensions {
		res.Counts[d] = Count(kept, d)
	}

	logging.FromContext(ctx).Debug("filters applied",
		slog.Int("input", len(t.Records)),
		slog.Int("matched", res.Total),
		slog.String("dateRange", req.DateRange.String()),
	)

	return res, nil
}
