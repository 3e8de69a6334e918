package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type analyzeDocument struct {
	Total   int `json:"total"`
	Records []struct {
		Position string   `json:"position"`
		Company  string   `json:"company"`
		Date     *string  `json:"date"`
		Skills   []string `json:"skills"`
	} `json:"records"`
	Counts map[string][]struct {
		Value string `json:"value"`
		Count int    `json:"count"`
	} `json:"counts"`
}

func analyzeJSON(t *testing.T, args ...string) analyzeDocument {
	t.Helper()

	stdout, _, err := executeCommand(append([]string{"analyze", "--format", "json"}, args...)...)
	require.NoError(t, err)

	var doc analyzeDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	return doc
}

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

func TestAnalyze_DefaultsKeepEveryDatedRow(t *testing.T) {
	stdout, _, err := executeCommand("analyze", itJobs)
	require.NoError(t, err)

	// The posting with an unparseable date never matches.
	assert.Contains(t, stdout, "Found 4 vacancies after applying filters.")
	assert.NotContains(t, stdout, "Payme")

	assert.Contains(t, stdout, "POSITION")
	assert.Contains(t, stdout, "CHANNEL")
	assert.Contains(t, stdout, "Distribution by position")
	assert.Contains(t, stdout, "Distribution by direction")
	assert.Contains(t, stdout, "Distribution by location")
	assert.NotContains(t, stdout, "\x1b[", "no colors when stdout is not a terminal")
}

func TestAnalyze_ConcatenatesFiles(t *testing.T) {
	doc := analyzeJSON(t, itJobs, uzDevJobs)

	// Eight rows, two without a parseable date.
	assert.Equal(t, 6, doc.Total)
	require.Len(t, doc.Records, 6)
	assert.Equal(t, "DevOps", doc.Records[4].Position)
	require.NotNil(t, doc.Records[4].Date)
	assert.Equal(t, "2024-02-15", *doc.Records[4].Date)

	// Offset timestamps keep their own calendar day.
	require.NotNil(t, doc.Records[5].Date)
	assert.Equal(t, "2024-02-20", *doc.Records[5].Date)
}

// ---------------------------------------------------------------------------
// Filters
// ---------------------------------------------------------------------------

func TestAnalyze_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"include position", []string{"--position", "Backend"}, 2},
		{"sentinel keeps all", []string{"--position", "Все"}, 4},
		{"include two positions", []string{"--position", "Backend", "--position", "QA"}, 3},
		{"exclude company", []string{"--position", "Backend", "--exclude-company", "Click"}, 1},
		{"exclusion wins", []string{"--position", "Backend", "--exclude-position", "Backend"}, 0},
		{"exclusion wins over sentinel", []string{"--location", "Все", "--exclude-location", "Ташкент"}, 2},
		{"skill intersection", []string{"--skill", "Docker"}, 2},
		{"any listed skill", []string{"--skill", "Go", "--skill", "Selenium"}, 2},
		{"exclude skill", []string{"--exclude-skill", "Python"}, 2},
		{"unknown value", []string{"--company", "Google"}, 0},
		{"date range inclusive", []string{"--from", "2024-01-10", "--to", "2024-01-20"}, 2},
		{"single day", []string{"--from", "2024-01-10", "--to", "2024-01-10"}, 1},
		{"open start", []string{"--to", "2024-01-10"}, 2},
		{"from after latest date", []string{"--from", "2024-06-01"}, 0},
		{"to before earliest date", []string{"--to", "2023-12-01"}, 0},
		{"experience", []string{"--experience", "1-3 года"}, 2},
		{"direction", []string{"--direction", "Тестирование"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := analyzeJSON(t, append([]string{itJobs}, tt.args...)...)
			assert.Equal(t, tt.want, doc.Total)
			assert.Len(t, doc.Records, tt.want)
		})
	}
}

func TestAnalyze_CountsFollowMatches(t *testing.T) {
	doc := analyzeJSON(t, itJobs, "--exclude-position", "QA")

	require.Len(t, doc.Counts["position"], 2)
	assert.Equal(t, "Backend", doc.Counts["position"][0].Value)
	assert.Equal(t, 2, doc.Counts["position"][0].Count)
	assert.Equal(t, "Frontend", doc.Counts["position"][1].Value)

	require.Len(t, doc.Counts["location"], 2)
	assert.Equal(t, "Ташкент", doc.Counts["location"][0].Value)
	assert.Equal(t, 2, doc.Counts["location"][0].Count)
}

func TestAnalyze_PresetRangeReversedByFlag(t *testing.T) {
	cfg := writeConfig(t, presetConfig)

	_, _, err := executeCommand("--config", cfg, "analyze", itJobs, "--preset", "january", "--to", "2023-12-01")
	requireExitCode(t, err, 2)
	assert.Contains(t, err.Error(), "start is after end")
}

func TestAnalyze_EmptyResult(t *testing.T) {
	stdout, _, err := executeCommand("analyze", itJobs, "--company", "Google")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Found 0 vacancies after applying filters.")
	assert.NotContains(t, stdout, "POSITION")
	assert.Contains(t, stdout, "(no data)")
}

func TestAnalyze_Limit(t *testing.T) {
	stdout, _, err := executeCommand("analyze", itJobs, "--limit", "1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "... 3 more row(s), use --limit 0 to list all")
}

// ---------------------------------------------------------------------------
// Formats and output
// ---------------------------------------------------------------------------

func TestAnalyze_CSVToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.csv")

	stdout, _, err := executeCommand("analyze", itJobs, "--position", "Backend", "--format", "csv", "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	f, err := os.Open(out) //nolint:gosec // test file
	require.NoError(t, err)

	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "position", rows[0][0])
	assert.Equal(t, "Backend", rows[1][0])
	assert.Equal(t, "Click", rows[2][4])
}

func TestAnalyze_YAML(t *testing.T) {
	stdout, _, err := executeCommand("analyze", itJobs, "--format", "yaml", "--position", "QA")
	require.NoError(t, err)

	var doc struct {
		Total   int `yaml:"total"`
		Records []struct {
			Location string   `yaml:"location"`
			Skills   []string `yaml:"skills"`
		} `yaml:"records"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))

	assert.Equal(t, 1, doc.Total)
	require.Len(t, doc.Records, 1)
	assert.Equal(t, "Самарканд", doc.Records[0].Location)
	assert.Equal(t, []string{"Python", "Selenium"}, doc.Records[0].Skills)
}

func TestAnalyze_CustomDelimiter(t *testing.T) {
	rows := []string{
		"position\tdirection\texperience\tlocation\tcompany\tdate\tskills",
		"Backend\tРазработка\t1-3 года\tТашкент\tUzum\t2024-01-05\tGo, Docker",
		"QA\tТестирование\t0\tТашкент\tClick\t2024-01-06\tSelenium",
	}

	p := filepath.Join(t.TempDir(), "jobs.tsv")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(rows, "\n")+"\n"), 0o600))

	doc := analyzeJSON(t, p, "--comma", "tab", "--skill", "Docker")
	assert.Equal(t, 1, doc.Total)
	require.Len(t, doc.Records, 1)
	assert.Equal(t, []string{"Go", "Docker"}, doc.Records[0].Skills)
}

// ---------------------------------------------------------------------------
// Presets
// ---------------------------------------------------------------------------

const presetConfig = `
presets:
  backend:
    description: Backend roles
    include:
      position: [Backend]
  backend-tashkent:
    extends: backend
    include:
      location: [Ташкент]
    exclude:
      company: [Click]
  january:
    from: 2024-01-01
    to: 2024-01-31
  nobody:
    include:
      position: []
`

func TestAnalyze_Preset(t *testing.T) {
	cfg := writeConfig(t, presetConfig)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"preset", []string{"--preset", "backend"}, 2},
		{"extended preset", []string{"--preset", "backend-tashkent"}, 1},
		{"flag replaces preset include", []string{"--preset", "backend", "--position", "QA"}, 1},
		{"preset exclusion survives include flag", []string{"--preset", "backend-tashkent", "--company", "Click"}, 0},
		{"preset dates", []string{"--preset", "january"}, 3},
		{"flag date overrides preset", []string{"--preset", "january", "--from", "2024-01-10"}, 2},
		{"empty preset include selects nothing", []string{"--preset", "nobody"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := analyzeJSON(t, append([]string{"--config", cfg, itJobs}, tt.args...)...)
			assert.Equal(t, tt.want, doc.Total)
		})
	}
}

func TestAnalyze_UnknownPreset(t *testing.T) {
	cfg := writeConfig(t, presetConfig)

	_, _, err := executeCommand("--config", cfg, "analyze", itJobs, "--preset", "nope")
	requireExitCode(t, err, 2)
	assert.Contains(t, err.Error(), `unknown preset "nope"`)
}

func TestAnalyze_SourcesFromConfig(t *testing.T) {
	abs, err := filepath.Abs(itJobs)
	require.NoError(t, err)

	cfg := writeConfig(t, "sources:\n  - "+abs+"\n")

	stdout, _, err := executeCommand("--config", cfg, "analyze")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 4 vacancies")
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestAnalyze_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"no files", []string{"analyze"}, "no data files"},
		{"bad format", []string{"analyze", itJobs, "--format", "xml"}, "unsupported output format"},
		{"negative limit", []string{"analyze", itJobs, "--limit", "-1"}, "--limit"},
		{"bad from", []string{"analyze", itJobs, "--from", "01/02/2024"}, "invalid --from"},
		{"reversed range", []string{"analyze", itJobs, "--from", "2024-02-01", "--to", "2024-01-01"}, "is after"},
		{"bad comma", []string{"analyze", itJobs, "--comma", ";;"}, "invalid delimiter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(tt.args...)
			requireExitCode(t, err, 2)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestAnalyze_MissingFile(t *testing.T) {
	_, _, err := executeCommand("analyze", "/nonexistent/jobs.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/jobs.csv")

	// Load failures are runtime errors, not usage errors.
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestAnalyze_MissingColumn(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.csv")
	require.NoError(t, os.WriteFile(p, []byte("position,skills\nQA,Go\n"), 0o600))

	_, stderr, err := executeCommand("analyze", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, stderr, "data files cannot be filtered")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(new(bytes.Buffer)))

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)

	defer func() { _ = f.Close() }()

	assert.False(t, isTerminal(f), "regular files are not terminals")
}
