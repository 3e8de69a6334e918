package filter

import (
	"context"
	"fmt"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
)

// DimensionFilter narrows records on one single-valued dimension. Rows
// whose value is not included are dropped unless the included set carries
// the All sentinel; rows whose value is excluded are always dropped.
type DimensionFilter struct {
	dim dataset.Dimension
	sel Selection
}

// NewDimensionFilter creates a filter for dim.
func NewDimensionFilter(dim dataset.Dimension, sel Selection) *DimensionFilter {
	return &DimensionFilter{dim: dim, sel: sel}
}

// Name returns the dimension name.
func (f *DimensionFilter) Name() string { return string(f.dim) }

// Apply keeps included, non-excluded records.
func (f *DimensionFilter) Apply(_ context.Context, records []*dataset.JobRecord) (*Outcome, error) {
	o := &Outcome{}
	restrict := !f.sel.Unrestricted()

	for _, rec := range records {
		v := rec.Value(f.dim)

		switch {
		case restrict && !f.sel.Included.Has(v):
			o.Dropped = append(o.Dropped, DroppedRecord{
				Record: rec,
				Reason: fmt.Sprintf("%s not selected: %q", f.dim, v),
			})
		case f.sel.Excluded.Has(v):
			o.Dropped = append(o.Dropped, DroppedRecord{
				Record: rec,
				Reason: fmt.Sprintf("%s excluded: %q", f.dim, v),
			})
		default:
			o.Kept = append(o.Kept, rec)
		}
	}

	return o, nil
}

// SkillsFilter keeps records sharing at least one skill with the included
// set and drops records sharing any skill with the excluded set. There is
// no sentinel: pass the full skill universe to impose no restriction.
type SkillsFilter struct {
	sel Selection
}

// NewSkillsFilter creates a skills filter.
func NewSkillsFilter(sel Selection) *SkillsFilter {
	return &SkillsFilter{sel: sel}
}

// Name returns "skills".
func (f *SkillsFilter) Name() string { return string(dataset.Skills) }

// Apply keeps records whose skills intersect the included set and not the
// excluded set.
func (f *SkillsFilter) Apply(_ context.Context, records []*dataset.JobRecord) (*Outcome, error) {
	o := &Outcome{}

	for _, rec := range records {
		switch {
		case !f.sel.Included.Any(rec.SkillsList):
			o.Dropped = append(o.Dropped, DroppedRecord{
				Record: rec,
				Reason: fmt.Sprintf("no selected skill in %q", rec.Skills),
			})
		case f.sel.Excluded.Any(rec.SkillsList):
			o.Dropped = append(o.Dropped, DroppedRecord{
				Record: rec,
				Reason: fmt.Sprintf("excluded skill in %q", rec.Skills),
			})
		default:
			o.Kept = append(o.Kept, rec)
		}
	}

	return o, nil
}

// DateRangeFilter keeps records dated within an inclusive day range.
// Records without a date never match.
type DateRangeFilter struct {
	r DateRange
}

// NewDateRangeFilter creates a date range filter.
func NewDateRangeFilter(r DateRange) *DateRangeFilter {
	return &DateRangeFilter{r: r}
}

// Name returns "date".
func (f *DateRangeFilter) Name() string { return dataset.ColumnDate }

// Apply keeps records whose date falls within the range.
func (f *DateRangeFilter) Apply(_ context.Context, records []*dataset.JobRecord) (*Outcome, error) {
	o := &Outcome{}

	for _, rec := range records {
		switch {
		case rec.Date == nil:
			o.Dropped = append(o.Dropped, DroppedRecord{Record: rec, Reason: "no date"})
		case !f.r.Contains(*rec.Date):
			o.Dropped = append(o.Dropped, DroppedRecord{
				Record: rec,
				Reason: fmt.Sprintf("date %s outside %s", rec.Date.Format(dataset.DateLayout), f.r),
			})
		default:
			o.Kept = append(o.Kept, rec)
		}
	}

	return o, nil
}
