package filter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
)

// All is the included-set sentinel meaning "no restriction" for the
// single-valued dimensions. It has no special meaning for skills.
const All = "Все"

// FallbackDay bounds the default date range of a table without any
// parseable date.
var FallbackDay = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Set is an unordered set of exact string values. The zero Set is empty.
type Set struct {
	m mapset.Set[string]
}

// NewSet builds a set from values.
func NewSet(values ...string) Set {
	return Set{m: mapset.NewThreadUnsafeSet(values...)}
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	return s.m != nil && s.m.Contains(v)
}

// Any reports whether at least one of values is in the set.
func (s Set) Any(values []string) bool {
	for _, v := range values {
		if s.Has(v) {
			return true
		}
	}

	return false
}

// Len returns the number of members.
func (s Set) Len() int {
	if s.m == nil {
		return 0
	}

	return s.m.Cardinality()
}

// Values returns the set members sorted.
func (s Set) Values() []string {
	if s.m == nil {
		return []string{}
	}

	out := s.m.ToSlice()
	sort.Strings(out)

	return out
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	if s.m == nil {
		return NewSet()
	}

	return Set{m: s.m.Clone()}
}

// Selection is the include/exclude pair for one dimension.
type Selection struct {
	Included Set
	Excluded Set
}

// Everything selects the sentinel and excludes nothing.
func Everything() Selection {
	return Selection{Included: NewSet(All), Excluded: NewSet()}
}

// Only selects exactly values and excludes nothing.
func Only(values ...string) Selection {
	return Selection{Included: NewSet(values...), Excluded: NewSet()}
}

// Except returns a copy of s that additionally excludes values.
func (s Selection) Except(values ...string) Selection {
	out := s.clone()
	for _, v := range values {
		out.Excluded.m.Add(v)
	}

	return out
}

func (s Selection) clone() Selection {
	return Selection{Included: s.Included.Clone(), Excluded: s.Excluded.Clone()}
}

// Unrestricted reports whether the included set carries the sentinel.
func (s Selection) Unrestricted() bool {
	return s.Included.Has(All)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range truncated to day granularity.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: dataset.Day(start), End: dataset.Day(end)}
}

// Contains reports whether day falls within the range. Time of day is
// ignored.
func (r DateRange) Contains(day time.Time) bool {
	d := dataset.Day(day)
	return !d.Before(dataset.Day(r.Start)) && !d.After(dataset.Day(r.End))
}

// String formats the range as "start..end".
func (r DateRange) String() string {
	return r.Start.Format(dataset.DateLayout) + ".." + r.End.Format(dataset.DateLayout)
}

// Request is the immutable set of selections the engine applies. Use
// With / WithDateRange to derive modified copies.
type Request struct {
	Position   Selection
	Direction  Selection
	Experience Selection
	Location   Selection
	Company    Selection
	Skills     Selection
	DateRange  DateRange
}

// Selection returns the selection for d.
func (r Request) Selection(d dataset.Dimension) Selection {
	switch d {
	case dataset.Position:
		return r.Position
	case dataset.Direction:
		return r.Direction
	case dataset.Experience:
		return r.Experience
	case dataset.Location:
		return r.Location
	case dataset.Company:
		return r.Company
	case dataset.Skills:
		return r.Skills
	default:
		return Selection{}
	}
}

// With returns a copy of r with the selection for d replaced.
func (r Request) With(d dataset.Dimension, sel Selection) Request {
	out := r.clone()
	sel = sel.clone()

	switch d {
	case dataset.Position:
		out.Position = sel
	case dataset.Direction:
		out.Direction = sel
	case dataset.Experience:
		out.Experience = sel
	case dataset.Location:
		out.Location = sel
	case dataset.Company:
		out.Company = sel
	case dataset.Skills:
		out.Skills = sel
	}

	return out
}

// WithDateRange returns a copy of r with the date range replaced.
func (r Request) WithDateRange(dr DateRange) Request {
	out := r.clone()
	out.DateRange = NewDateRange(dr.Start, dr.End)

	return out
}

func (r Request) clone() Request {
	return Request{
		Position:   r.Position.clone(),
		Direction:  r.Direction.clone(),
		Experience: r.Experience.clone(),
		Location:   r.Location.clone(),
		Company:    r.Company.clone(),
		Skills:     r.Skills.clone(),
		DateRange:  r.DateRange,
	}
}

// Key returns a deterministic fingerprint of the request.
func (r Request) Key() string {
	var b strings.Builder

	for _, d := range dataset.AllDimensions {
		sel := r.Selection(d)
		fmt.Fprintf(&b, "%s+%q;%s-%q;", d, sel.Included.Values(), d, sel.Excluded.Values())
	}

	b.WriteString(r.DateRange.String())

	sum := sha256.Sum256([]byte(b.String()))

	return hex.EncodeToString(sum[:])
}

// DefaultRequest returns the request a fresh session starts with: the
// sentinel for every single-valued dimension, the whole skill universe,
// no exclusions, and the table's full date span.
func DefaultRequest(t *dataset.Table) Request {
	start, end, ok := t.DateBounds()
	if !ok {
		start, end = FallbackDay, FallbackDay
	}

	return Request{
		Position:   Everything(),
		Direction:  Everything(),
		Experience: Everything(),
		Location:   Everything(),
		Company:    Everything(),
		Skills:     Only(t.SkillUniverse()...),
		DateRange:  NewDateRange(start, end),
	}
}
