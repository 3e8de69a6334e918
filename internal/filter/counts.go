package filter

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
)

// Counts maps a dimension value to its number of occurrences.
type Counts map[string]int

// Entry is one value/count pair.
type Entry struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Count tallies the values of d across records.
func Count(records []*dataset.JobRecord, d dataset.Dimension) Counts {
	c := make(Counts)
	for _, rec := range records {
		c[rec.Value(d)]++
	}

	return c
}

// Sum returns the total of all counts.
func (c Counts) Sum() int {
	total := 0
	for _, n := range c {
		total += n
	}

	return total
}

// Max returns the largest count, or 0 for empty counts.
func (c Counts) Max() int {
	m := 0
	for _, n := range c {
		if n > m {
			m = n
		}
	}

	return m
}

// Sorted returns the entries by count descending. Ties are ordered by
// Russian collation so that Cyrillic labels sort alphabetically.
func (c Counts) Sorted() []Entry {
	entries := make([]Entry, 0, len(c))
	for v, n := range c {
		entries = append(entries, Entry{Value: v, Count: n})
	}

	col := collate.New(language.Russian)

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}

		if cmp := col.CompareString(entries[i].Value, entries[j].Value); cmp != 0 {
			return cmp < 0
		}

		return entries[i].Value < entries[j].Value
	})

	return entries
}
