package report

import (
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/dataset"
	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/filter"
)

// Report is the renderable view of one filter run.
type Report struct {
	// Columns is the column order used for listings and exports.
	Columns []string
	// Sources names the files the table was loaded from.
	Sources []string
	// Result is the filter outcome.
	Result *filter.Result
}

// New builds a Report for res computed over t.
func New(t *dataset.Table, res *filter.Result) *Report {
	r := &Report{Result: res, Columns: dataset.RequiredColumns}
	if t != nil {
		r.Columns = t.SortedColumns()
		r.Sources = t.Sources
	}

	if r.Result == nil {
		r.Result = &filter.Result{Counts: map[dataset.Dimension]filter.Counts{}}
	}

	return r
}

// Distribution returns the sorted counts of a charted dimension.
func (r *Report) Distribution(d dataset.Dimension) []filter.Entry {
	return r.Result.Counts[d].Sorted()
}

// record is the serialized form of one JobRecord.
type record struct {
	Position   string            `json:"position" yaml:"position"`
	Direction  string            `json:"direction" yaml:"direction"`
	Experience string            `json:"experience" yaml:"experience"`
	Location   string            `json:"location" yaml:"location"`
	Company    string            `json:"company" yaml:"company"`
	Date       *string           `json:"date" yaml:"date"`
	Skills     []string          `json:"skills" yaml:"skills"`
	Source     string            `json:"source,omitempty" yaml:"source,omitempty"`
	Extra      map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// document is the json/yaml shape of a Report.
type document struct {
	Total   int                       `json:"total" yaml:"total"`
	Sources []string                  `json:"sources,omitempty" yaml:"sources,omitempty"`
	Records []record                  `json:"records" yaml:"records"`
	Counts  map[string][]filter.Entry `json:"counts" yaml:"counts"`
	Steps   []filter.StepSummary      `json:"steps,omitempty" yaml:"steps,omitempty"`
}

func (r *Report) document() document {
	doc := document{
		Total:   r.Result.Total,
		Sources: r.Sources,
		Records: make([]record, 0, len(r.Result.Records)),
		Counts:  make(map[string][]filter.Entry, len(filter.ChartedDimensions)),
		Steps:   r.Result.Steps,
	}

	for _, rec := range r.Result.Records {
		out := record{
			Position:   rec.Position,
			Direction:  rec.Direction,
			Experience: rec.Experience,
			Location:   rec.Location,
			Company:    rec.Company,
			Skills:     rec.SkillsList,
			Source:     rec.Source,
		}

		if rec.Date != nil {
			s := rec.Date.Format(dataset.DateLayout)
			out.Date = &s
		}

		if len(rec.Extra) > 0 {
			out.Extra = rec.Extra
		}

		doc.Records = append(doc.Records, out)
	}

	for _, d := range filter.ChartedDimensions {
		doc.Counts[string(d)] = r.Distribution(d)
	}

	return doc
}
