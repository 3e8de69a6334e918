package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/config"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/filter"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/logging"
)

// pipelineResult holds the intermediate outputs of one analysis run.
type pipelineResult struct {
	Table   *dataset.Table
	Request filter.Request
	Result  *filter.Result
}

// pipeline loads the sources, builds the request, and applies it. The
// cache and memo are optional; watch mode passes both so unchanged
// sources are not re-read.
type pipeline struct {
	paths   []string
	filters *filterOptions
	cache   *dataset.Cache
	memo    *filter.Memo
}

func newPipeline(ctx context.Context, cfg *config.Config, paths []string, filters *filterOptions) (*pipeline, error) {
	comma, err := cfg.Delimiter()
	if err != nil {
		return nil, usageError(err)
	}

	return &pipeline{
		paths:   paths,
		filters: filters,
		cache:   dataset.NewCache(dataset.LoadOptions{Comma: comma, Logger: logging.FromContext(ctx)}),
		memo:    filter.NewMemo(filter.DefaultMemoSize),
	}, nil
}

func (p *pipeline) run(ctx context.Context, cfg *config.Config) (*pipelineResult, error) {
	logger := logging.FromContext(ctx)

	table, err := p.cache.Load(ctx, p.paths...)
	if err != nil {
		return nil, err
	}

	logger.Info("sources loaded",
		slog.Any("sources", table.Sources),
		slog.Int("records", table.Len()),
	)

	req, err := p.filters.request(cfg, table)
	if err != nil {
		return nil, err
	}

	res, err := p.memo.Apply(ctx, table, req)
	if err != nil {
		var schemaErr *filter.SchemaError
		if errors.As(err, &schemaErr) {
			logger.Error("data files cannot be filtered", slog.Any("missing", schemaErr.Missing))
		}

		return nil, err
	}

	logger.Info("filters applied",
		slog.Int("matched", res.Total),
		slog.String("dateRange", req.DateRange.String()),
	)

	return &pipelineResult{Table: table, Request: req, Result: res}, nil
}
