// Package dataset loads job-posting tables scraped from Telegram channels.
//
// A [Table] is the unified, read-only view over one or more delimited text
// sources. Each row becomes a [JobRecord] with a decomposed skill list and a
// best-effort parsed calendar date. Loading never fails on data quality:
// unparseable dates become nil and ragged rows are padded.
package dataset

import (
	"sort"
	"strings"
	"time"
)

// Dimension names one categorical column that can be filtered.
type Dimension string

// Filterable dimensions. The string values are the canonical column names.
const (
	Position   Dimension = "position"
	Direction  Dimension = "direction"
	Experience Dimension = "experience"
	Location   Dimension = "location"
	Company    Dimension = "company"
	Skills     Dimension = "skills"
)

// ColumnDate is the canonical name of the posting date column.
const ColumnDate = "date"

// SkillSeparator splits the raw skills cell into tokens.
const SkillSeparator = ", "

// CategoricalDimensions are the single-valued dimensions, in display order.
var CategoricalDimensions = []Dimension{Position, Direction, Experience, Location, Company}

// AllDimensions lists every filterable dimension, skills last.
var AllDimensions = []Dimension{Position, Direction, Experience, Location, Company, Skills}

// RequiredColumns are the columns a table must carry for filtering.
var RequiredColumns = []string{
	string(Position),
	string(Direction),
	string(Experience),
	string(Location),
	string(Company),
	ColumnDate,
	string(Skills),
}

// ParseDimension maps a user-supplied name to a Dimension.
func ParseDimension(name string) (Dimension, bool) {
	d := Dimension(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllDimensions {
		if d == known {
			return d, true
		}
	}

	return "", false
}

// JobRecord is one vacancy row.
type JobRecord struct {
	Position   string
	Direction  string
	Experience string
	Location   string
	Company    string

	// Date is the posting day at UTC midnight, or nil when the source
	// value could not be parsed.
	Date *time.Time

	// Skills is the raw cell; SkillsList is Skills split on ", ".
	Skills     string
	SkillsList []string

	// Extra carries the non-required columns of the source row.
	Extra map[string]string

	// Source is the name of the file the row was read from.
	Source string
}

// Value returns the value of a categorical dimension. For Skills it
// returns the raw skills cell.
func (r *JobRecord) Value(d Dimension) string {
	switch d {
	case Position:
		return r.Position
	case Direction:
		return r.Direction
	case Experience:
		return r.Experience
	case Location:
		return r.Location
	case Company:
		return r.Company
	case Skills:
		return r.Skills
	default:
		return r.Extra[string(d)]
	}
}

// Column returns the cell for a canonical column name, formatting the date
// as YYYY-MM-DD (empty when nil).
func (r *JobRecord) Column(name string) string {
	if name == ColumnDate {
		if r.Date == nil {
			return ""
		}

		return r.Date.Format(DateLayout)
	}

	if d, ok := ParseDimension(name); ok {
		return r.Value(d)
	}

	return r.Extra[name]
}

// SplitSkills decomposes a raw skills cell. An empty cell yields a single
// empty token, never nil.
func SplitSkills(raw string) []string {
	return strings.Split(raw, SkillSeparator)
}

// Table is the unified view over the loaded sources.
type Table struct {
	// Columns is the ordered union of the source headers.
	Columns []string
	Records []JobRecord
	// Sources lists the files the table was assembled from.
	Sources []string
	// Identity fingerprints the sources (path, size, modification time).
	// Empty for tables built in memory.
	Identity string
}

// HasColumn reports whether the table carries the canonical column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}

	return false
}

// MissingColumns returns the required columns the table lacks.
func (t *Table) MissingColumns() []string {
	var missing []string

	for _, c := range RequiredColumns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}

	return missing
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }

// Universe returns the distinct values of d in first-appearance order.
// For Skills it returns the distinct skill tokens.
func (t *Table) Universe(d Dimension) []string {
	if d == Skills {
		return t.SkillUniverse()
	}

	seen := make(map[string]bool)

	var values []string

	for i := range t.Records {
		v := t.Records[i].Value(d)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}

	return values
}

// SkillUniverse returns every distinct skill token in first-appearance order.
func (t *Table) SkillUniverse() []string {
	seen := make(map[string]bool)

	var skills []string

	for i := range t.Records {
		for _, s := range t.Records[i].SkillsList {
			if !seen[s] {
				seen[s] = true
				skills = append(skills, s)
			}
		}
	}

	return skills
}

// DateBounds returns the earliest and latest parseable dates. ok is false
// when no record carries a date.
func (t *Table) DateBounds() (start, end time.Time, ok bool) {
	for i := range t.Records {
		d := t.Records[i].Date
		if d == nil {
			continue
		}

		if !ok || d.Before(start) {
			start = *d
		}

		if !ok || d.After(end) {
			end = *d
		}

		ok = true
	}

	return start, end, ok
}

// Concat joins tables into one, preserving every column present in any of
// them. Records keep their original order, table by table.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	seen := make(map[string]bool)
	identities := make([]string, 0, len(tables))

	for _, t := range tables {
		if t == nil {
			continue
		}

		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				out.Columns = append(out.Columns, c)
			}
		}

		out.Records = append(out.Records, t.Records...)
		out.Sources = append(out.Sources, t.Sources...)

		if t.Identity != "" {
			identities = append(identities, t.Identity)
		}
	}

	if len(identities) == len(tables) && len(identities) > 0 {
		out.Identity = strings.Join(identities, ";")
	}

	return out
}

// SortedColumns returns the required columns first, in canonical order,
// followed by the remaining columns alphabetically.
func (t *Table) SortedColumns() []string {
	required := make(map[string]bool, len(RequiredColumns))
	cols := make([]string, 0, len(t.Columns))

	for _, c := range RequiredColumns {
		required[c] = true

		if t.HasColumn(c) {
			cols = append(cols, c)
		}
	}

	var rest []string

	for _, c := range t.Columns {
		if !required[c] {
			rest = append(rest, c)
		}
	}

	sort.Strings(rest)

	return append(cols, rest...)
}
