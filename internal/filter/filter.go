package filter

import (
	"context"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
)

// Filter is the interface for all record filters.
// Filters are stateless: they receive a set of records and return
// an outcome without modifying shared state.
type Filter interface {
	// Name identifies the filter in step summaries and logs.
	Name() string
	// Apply runs the filter on the given records.
	Apply(ctx context.Context, records []*dataset.JobRecord) (*Outcome, error)
}

// DroppedRecord records a row removed by a filter.
type DroppedRecord struct {
	// Record is the dropped row.
	Record *dataset.JobRecord
	// Reason is a human-readable explanation for the drop.
	Reason string
}

// Outcome holds the result of one filter application.
type Outcome struct {
	// Kept are the records that passed the filter.
	Kept []*dataset.JobRecord
	// Dropped are the records removed by the filter.
	Dropped []DroppedRecord
}

// StepSummary reports how many records a chain step kept and dropped.
type StepSummary struct {
	Name    string `json:"name"`
	Kept    int    `json:"kept"`
	Dropped int    `json:"dropped"`
}

// Chain applies multiple filters sequentially, passing the records kept
// by each filter as input to the next.
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from the given filters.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Filters returns the filters of the chain in application order.
func (c *Chain) Filters() []Filter {
	return c.filters
}

// Apply runs all filters in order and returns the records kept by the last
// one, together with a summary of every step.
func (c *Chain) Apply(ctx context.Context, records []*dataset.JobRecord) ([]*dataset.JobRecord, []StepSummary, error) {
	current := records
	steps := make([]StepSummary, 0, len(c.filters))

	for _, f := range c.filters {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		o, err := f.Apply(ctx, current)
		if err != nil {
			return nil, nil, err
		}

		current = o.Kept

		steps = append(steps, StepSummary{
			Name:    f.Name(),
			Kept:    len(o.Kept),
			Dropped: len(o.Dropped),
		})
	}

	return current, steps, nil
}
