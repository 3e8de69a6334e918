package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/filter"
)

// Options lists what a user can choose from: the distinct values of each
// dimension and the date bounds of the loaded table.
type Options struct {
	Sources    []string          `json:"sources" yaml:"sources"`
	Records    int               `json:"records" yaml:"records"`
	Dimensions []DimensionValues `json:"dimensions" yaml:"dimensions"`
	From       string            `json:"from,omitempty" yaml:"from,omitempty"`
	To         string            `json:"to,omitempty" yaml:"to,omitempty"`
}

// DimensionValues is the option list of one dimension.
type DimensionValues struct {
	Dimension string   `json:"dimension" yaml:"dimension"`
	Sentinel  string   `json:"sentinel,omitempty" yaml:"sentinel,omitempty"`
	Values    []string `json:"values" yaml:"values"`
}

// BuildOptions collects the option universes of t. Values keep their
// first-appearance order.
func BuildOptions(t *dataset.Table) *Options {
	o := &Options{Sources: t.Sources, Records: t.Len()}

	for _, d := range dataset.AllDimensions {
		dv := DimensionValues{Dimension: string(d), Values: t.Universe(d)}
		if d != dataset.Skills {
			dv.Sentinel = filter.All
		}

		if dv.Values == nil {
			dv.Values = []string{}
		}

		o.Dimensions = append(o.Dimensions, dv)
	}

	if start, end, ok := t.DateBounds(); ok {
		o.From = start.Format(dataset.DateLayout)
		o.To = end.Format(dataset.DateLayout)
	}

	return o
}

// OptionsFormatter writes an option listing.
type OptionsFormatter interface {
	FormatOptions(w io.Writer, o *Options) error
}

// NewOptionsFormatter returns an options formatter for format.
// Supported: "table" (default), "json", "yaml".
func NewOptionsFormatter(format string) (OptionsFormatter, error) {
	switch normalizeFormat(format) {
	case "", FormatTable:
		return optionsText{}, nil
	case FormatJSON:
		return optionsJSON{}, nil
	case FormatYAML, "yml":
		return optionsYAML{}, nil
	default:
		return nil, fmt.Errorf("unsupported options format %q: use table, json, or yaml", format)
	}
}

type optionsText struct{}

func (optionsText) FormatOptions(w io.Writer, o *Options) error {
	_, _ = fmt.Fprintf(w, "Sources: %s (%d records)\n", strings.Join(o.Sources, ", "), o.Records)

	if o.From != "" {
		_, _ = fmt.Fprintf(w, "Dates: %s .. %s\n", o.From, o.To)
	} else {
		_, _ = fmt.Fprintln(w, "Dates: none parseable")
	}

	for _, dv := range o.Dimensions {
		_, _ = fmt.Fprintf(w, "\n%s (%d):\n", dv.Dimension, len(dv.Values))

		if dv.Sentinel != "" {
			_, _ = fmt.Fprintf(w, "  %s\n", dv.Sentinel)
		}

		for _, v := range dv.Values {
			if _, err := fmt.Fprintf(w, "  %s\n", label(v)); err != nil {
				return err
			}
		}
	}

	return nil
}

type optionsJSON struct{}

func (optionsJSON) FormatOptions(w io.Writer, o *Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(o)
}

type optionsYAML struct{}

func (optionsYAML) FormatOptions(w io.Writer, o *Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(o); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}

	return enc.Close()
}
