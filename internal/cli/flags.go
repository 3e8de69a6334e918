package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/config"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/filter"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/report"
)

var (
	errNegativeLimit       = errors.New("--limit must not be negative")
	errNonPositiveDebounce = errors.New("--debounce must be positive")
)

// filterOptions holds the request-shaping flags shared by analyze and watch.
type filterOptions struct {
	include map[dataset.Dimension]*[]string
	exclude map[dataset.Dimension]*[]string

	from   string
	to     string
	preset string
}

// renderOptions holds the output flags shared by analyze and watch.
type renderOptions struct {
	format string
	output string
	limit  int
}

// dimensionFlag returns the flag name for d: "skills" becomes "skill".
func dimensionFlag(d dataset.Dimension) string {
	if d == dataset.Skills {
		return "skill"
	}

	return string(d)
}

// registerFilterFlags adds --<dim>/--exclude-<dim> pairs, the date range,
// and --preset to a cobra command.
func registerFilterFlags(cmd *cobra.Command, opts *filterOptions) {
	f := cmd.Flags()

	opts.include = make(map[dataset.Dimension]*[]string, len(dataset.AllDimensions))
	opts.exclude = make(map[dataset.Dimension]*[]string, len(dataset.AllDimensions))

	for _, d := range dataset.AllDimensions {
		name := dimensionFlag(d)

		inc, exc := new([]string), new([]string)
		opts.include[d], opts.exclude[d] = inc, exc

		incUsage := fmt.Sprintf("keep only this %s (repeatable, %q keeps all)", name, filter.All)
		if d == dataset.Skills {
			incUsage = "keep rows having any of these skills (repeatable, default: every skill)"
		}

		f.StringArrayVar(inc, name, nil, incUsage)
		f.StringArrayVar(exc, "exclude-"+name, nil, fmt.Sprintf("drop rows with this %s (repeatable)", name))
	}

	f.StringVar(&opts.from, "from", "", "first posting day to keep (YYYY-MM-DD, default: earliest date)")
	f.StringVar(&opts.to, "to", "", "last posting day to keep (YYYY-MM-DD, default: latest date)")
	f.StringVar(&opts.preset, "preset", "", "start from a preset defined in the config file")
}

// registerSourceFlags adds data loading flags to a cobra command.
func registerSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("comma", "", `field delimiter of the data files: one character or "tab" (default ",")`)
}

// registerRenderFlags adds output flags to a cobra command.
func registerRenderFlags(cmd *cobra.Command, opts *renderOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.format, "format", report.FormatTable, "output format: "+strings.Join(report.Formats, ", "))
	f.StringVarP(&opts.output, "output", "o", "", "write the report to this file instead of stdout")
	f.IntVar(&opts.limit, "limit", 20, "rows listed by the table format (0 lists all)")
}

// parseDay parses a --from/--to value.
func parseDay(flag, value string) (time.Time, error) {
	t, err := time.Parse(dataset.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", flag, value)
	}

	return t, nil
}

// validate checks what can be checked before any data is loaded.
func (o *filterOptions) validate(cfg *config.Config) error {
	var from, to time.Time

	var err error

	if o.preset != "" {
		if _, err = cfg.ResolvePreset(o.preset); err != nil {
			return err
		}
	}

	if o.from != "" {
		if from, err = parseDay("from", o.from); err != nil {
			return err
		}
	}

	if o.to != "" {
		if to, err = parseDay("to", o.to); err != nil {
			return err
		}
	}

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("--from %s is after --to %s", o.from, o.to)
	}

	return nil
}

// request builds the filter request for t. Layers apply in order: the
// table defaults, the preset, then the flags. An include flag replaces the
// included set; exclude flags add to the excluded set. A range that is
// empty only because one bound defaults to the table's dates yields no
// rows; two explicit bounds in the wrong order are a usage error.
func (o *filterOptions) request(cfg *config.Config, t *dataset.Table) (filter.Request, error) {
	req := filter.DefaultRequest(t)

	var startSet, endSet bool

	if o.preset != "" {
		p, err := cfg.ResolvePreset(o.preset)
		if err != nil {
			return filter.Request{}, usageError(err)
		}

		if req, err = applyPreset(req, p); err != nil {
			return filter.Request{}, usageError(err)
		}

		startSet, endSet = p.From != "", p.To != ""
	}

	for _, d := range dataset.AllDimensions {
		sel := req.Selection(d)

		if inc := *o.include[d]; len(inc) > 0 {
			excluded := sel.Excluded
			sel = filter.Only(inc...)
			sel.Excluded = excluded
		}

		if exc := *o.exclude[d]; len(exc) > 0 {
			sel = sel.Except(exc...)
		}

		req = req.With(d, sel)
	}

	dr := req.DateRange

	if o.from != "" {
		from, err := parseDay("from", o.from)
		if err != nil {
			return filter.Request{}, usageError(err)
		}

		dr.Start, startSet = from, true
	}

	if o.to != "" {
		to, err := parseDay("to", o.to)
		if err != nil {
			return filter.Request{}, usageError(err)
		}

		dr.End, endSet = to, true
	}

	if startSet && endSet && dr.Start.After(dr.End) {
		return filter.Request{}, usageError(fmt.Errorf("date range %s is empty: start is after end", dr))
	}

	return req.WithDateRange(dr), nil
}

// applyPreset layers a resolved preset over req.
func applyPreset(req filter.Request, p config.Preset) (filter.Request, error) {
	for _, d := range dataset.AllDimensions {
		sel := req.Selection(d)

		if inc := p.IncludeFor(d); inc != nil {
			sel = filter.Only(inc...)
		}

		if exc := p.ExcludeFor(d); len(exc) > 0 {
			sel = sel.Except(exc...)
		}

		req = req.With(d, sel)
	}

	from, to, err := p.Bounds()
	if err != nil {
		return filter.Request{}, err
	}

	dr := req.DateRange
	if !from.IsZero() {
		dr.Start = from
	}

	if !to.IsZero() {
		dr.End = to
	}

	return req.WithDateRange(dr), nil
}

// resolveSources returns the data files to load: the arguments, or the
// configured sources when there are none.
func resolveSources(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if len(cfg.Sources) > 0 {
		return cfg.Sources, nil
	}

	return nil, usageError(fmt.Errorf("no data files: pass one or more CSV files or set sources in the config file"))
}
