package watch

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/internal/filter"
)

// Summary renders the charted counts of res one "dimension: value = n"
// line at a time, in chart order. Two summaries diff cleanly line by line.
func Summary(res *filter.Result) string {
	var b strings.Builder

	_, _ = fmt.Fprintf(&b, "total = %d\n", res.Total)

	for _, d := range filter.ChartedDimensions {
		for _, e := range res.Counts[d].Sorted() {
			_, _ = fmt.Fprintf(&b, "%s: %s = %d\n", d, e.Value, e.Count)
		}
	}

	return b.String()
}

// DiffResult holds a unified diff between two run summaries.
type DiffResult struct {
	Unified        string
	HasDifferences bool
	Added          int
	Removed        int
}

// SummaryDiff computes the unified diff between the summaries of two runs.
func SummaryDiff(prev, curr *RunResult) (*DiffResult, error) {
	diff := difflib.UnifiedDiff{
		A:        splitLines(prev.Summary),
		B:        splitLines(curr.Summary),
		FromFile: "previous",
		ToFile:   "current",
		Context:  1,
	}

	unified, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	res := &DiffResult{Unified: unified, HasDifferences: unified != ""}

	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			res.Added++
		case strings.HasPrefix(line, "-"):
			res.Removed++
		}
	}

	return res, nil
}

// WriteDiff writes a formatted diff with optional ANSI colors.
func WriteDiff(w io.Writer, result *DiffResult, color bool) {
	if !result.HasDifferences {
		_, _ = fmt.Fprintln(w, "  no changes in distribution")
		return
	}

	for _, line := range strings.Split(strings.TrimRight(result.Unified, "\n"), "\n") {
		if color {
			writeColorLine(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

// writeColorLine writes a single diff line with ANSI color codes.
func writeColorLine(w io.Writer, line string) {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", bold, line, reset)
	case strings.HasPrefix(line, "@@"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", cyan, line, reset)
	case strings.HasPrefix(line, "-"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", red, line, reset)
	case strings.HasPrefix(line, "+"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", green, line, reset)
	default:
		_, _ = fmt.Fprintln(w, line)
	}
}

// splitLines splits s into lines that keep their trailing newline, as
// difflib expects.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}

	return strings.SplitAfter(s, "\n")
}
