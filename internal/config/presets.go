package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
)

// maxPresetDepth bounds the extends chain.
const maxPresetDepth = 16

// Preset is a named, reusable filter selection loaded from the presets
// section of the config file:
//
//	presets:
//	  backend-tashkent:
//	    description: Backend roles in Tashkent
//	    include:
//	      position: [Backend]
//	      location: [Ташкент]
//	    exclude:
//	      company: [EPAM]
//	    from: 2024-01-01
//	    to: 2024-03-31
//	  backend-remote:
//	    extends: backend-tashkent
//	    include:
//	      location: [Удалённо]
type Preset struct {
	// Description is shown by the presets command.
	Description string `json:"description,omitempty"`

	// Extends names a preset whose values this one starts from.
	Extends string `json:"extends,omitempty"`

	// Include maps a dimension name to the values kept for it.
	Include map[string][]string `json:"include,omitempty"`

	// Exclude maps a dimension name to the values dropped for it.
	Exclude map[string][]string `json:"exclude,omitempty"`

	// From and To bound the posting date (inclusive). Either may be empty.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Validate checks dimension names and date bounds.
func (p Preset) Validate() error {
	for _, section := range []struct {
		name   string
		values map[string][]string
	}{
		{"include", p.Include},
		{"exclude", p.Exclude},
	} {
		for key := range section.values {
			if _, ok := dataset.ParseDimension(key); !ok {
				return fmt.Errorf("%s: unknown dimension %q", section.name, key)
			}
		}
	}

	from, err := parseBound("from", p.From)
	if err != nil {
		return err
	}

	to, err := parseBound("to", p.To)
	if err != nil {
		return err
	}

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("from %s is after to %s", p.From, p.To)
	}

	return nil
}

// Bounds returns the parsed date bounds. A zero time means unbounded.
func (p Preset) Bounds() (from, to time.Time, err error) {
	if from, err = parseBound("from", p.From); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if to, err = parseBound("to", p.To); err != nil {
		return time.Time{}, time.Time{}, err
	}

	return from, to, nil
}

// IncludeFor returns the include list for d, or nil when unset.
func (p Preset) IncludeFor(d dataset.Dimension) []string {
	return lookupDimension(p.Include, d)
}

// ExcludeFor returns the exclude list for d, or nil when unset.
func (p Preset) ExcludeFor(d dataset.Dimension) []string {
	return lookupDimension(p.Exclude, d)
}

func lookupDimension(m map[string][]string, d dataset.Dimension) []string {
	for key, values := range m {
		if got, ok := dataset.ParseDimension(key); ok && got == d {
			return values
		}
	}

	return nil
}

func parseBound(name, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}

	t, ok := dataset.ParseDate(value)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid %s date %q", name, value)
	}

	return t, nil
}

// ParsePresets parses the presets section from raw config file bytes.
func ParsePresets(data []byte) (map[string]Preset, error) {
	var raw struct {
		Presets map[string]Preset `json:"presets,omitempty"`
	}

	if err := sigsyaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}

	for name, p := range raw.Presets {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("preset with empty name")
		}

		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}

	return raw.Presets, nil
}

// LoadPresets reads and parses the presets section of the file at path.
func LoadPresets(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the config resolver
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	return ParsePresets(data)
}

// PresetNames returns the preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for n := range c.Presets {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// ResolvePreset returns the named preset with its extends chain flattened.
// Values of a child replace those of its parent per dimension; date bounds
// are inherited when the child leaves them empty.
func (c *Config) ResolvePreset(name string) (Preset, error) {
	var chain []Preset

	seen := make(map[string]bool)

	for cur := name; cur != ""; {
		if seen[cur] {
			return Preset{}, fmt.Errorf("preset %q: extends cycle through %q", name, cur)
		}

		if len(chain) == maxPresetDepth {
			return Preset{}, fmt.Errorf("preset %q: extends chain deeper than %d", name, maxPresetDepth)
		}

		p, ok := c.Presets[cur]
		if !ok {
			if cur == name {
				return Preset{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(c.PresetNames(), ", "))
			}

			return Preset{}, fmt.Errorf("preset %q extends unknown preset %q", name, cur)
		}

		seen[cur] = true
		chain = append(chain, p)
		cur = p.Extends
	}

	out := Preset{Include: map[string][]string{}, Exclude: map[string][]string{}}

	// Root first so children override.
	for i := len(chain) - 1; i >= 0; i-- {
		p := chain[i]

		if p.Description != "" {
			out.Description = p.Description
		}

		mergeDimensions(out.Include, p.Include)
		mergeDimensions(out.Exclude, p.Exclude)

		if p.From != "" {
			out.From = p.From
		}

		if p.To != "" {
			out.To = p.To
		}
	}

	if err := out.Validate(); err != nil {
		return Preset{}, fmt.Errorf("preset %q: %w", name, err)
	}

	return out, nil
}

// mergeDimensions copies src into dst keyed by canonical dimension name.
// An explicitly empty list stays non-nil: it selects nothing.
func mergeDimensions(dst, src map[string][]string) {
	for key, values := range src {
		d, ok := dataset.ParseDimension(key)
		if !ok {
			continue
		}

		dst[string(d)] = append(make([]string, 0, len(values)), values...)
	}
}
