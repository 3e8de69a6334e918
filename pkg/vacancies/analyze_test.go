package vacancies_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammaDIY125/Analysis-of-vacancies-in-tg-channels/pkg/vacancies"
)

var (
	itJobs    = "../../testdata/IT_Jobs.csv"
	uzDevJobs = "../../testdata/UzDev_Jobs.csv"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAnalyze_NoPaths(t *testing.T) {
	_, err := vacancies.Analyze(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one data file")
}

func TestAnalyze_MissingFile(t *testing.T) {
	_, err := vacancies.Analyze(context.Background(), []string{"/nonexistent/jobs.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading data")
}

func TestAnalyze_Defaults(t *testing.T) {
	res, err := vacancies.Analyze(context.Background(), []string{itJobs, uzDevJobs})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Total)
	assert.Len(t, res.Records, 6)
	assert.Equal(t, []string{"IT_Jobs.csv", "UzDev_Jobs.csv"}, res.Sources)
	assert.Equal(t, day(2024, 1, 5), res.From)
	assert.Equal(t, day(2024, 2, 20), res.To)

	require.NotEmpty(t, res.Counts[vacancies.Position])
	assert.Equal(t, vacancies.Entry{Value: "Backend", Count: 3}, res.Counts[vacancies.Position][0])
}

func TestAnalyze_Filters(t *testing.T) {
	tests := []struct {
		name string
		opts []vacancies.Option
		want int
	}{
		{"include", []vacancies.Option{vacancies.WithInclude(vacancies.Position, "Backend")}, 2},
		{"sentinel", []vacancies.Option{vacancies.WithInclude(vacancies.Location, vacancies.All)}, 4},
		{"exclusion wins", []vacancies.Option{
			vacancies.WithInclude(vacancies.Company, "Uzum"),
			vacancies.WithExclude(vacancies.Company, "Uzum"),
		}, 0},
		{"excludes add up", []vacancies.Option{
			vacancies.WithExclude(vacancies.Company, "Uzum"),
			vacancies.WithExclude(vacancies.Company, "EPAM"),
		}, 1},
		{"skills", []vacancies.Option{vacancies.WithInclude(vacancies.Skills, "Docker", "Selenium")}, 3},
		{"empty skills keep nothing", []vacancies.Option{vacancies.WithInclude(vacancies.Skills)}, 0},
		{"date range", []vacancies.Option{vacancies.WithDateRange(day(2024, 1, 10), day(2024, 1, 20))}, 2},
		{"open end", []vacancies.Option{vacancies.WithDateRange(day(2024, 1, 20), time.Time{})}, 2},
		{"start after latest date", []vacancies.Option{vacancies.WithDateRange(day(2024, 6, 1), time.Time{})}, 0},
		{"end before earliest date", []vacancies.Option{vacancies.WithDateRange(time.Time{}, day(2023, 12, 1))}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := vacancies.Analyze(context.Background(), []string{itJobs}, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Total)
		})
	}
}

func TestAnalyze_ReversedRange(t *testing.T) {
	_, err := vacancies.Analyze(context.Background(), []string{itJobs},
		vacancies.WithDateRange(day(2024, 2, 1), day(2024, 1, 1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start is after end")
}

func TestAnalyze_UnknownDimension(t *testing.T) {
	_, err := vacancies.Analyze(context.Background(), []string{itJobs},
		vacancies.WithInclude(vacancies.Dimension("salary"), "1000$"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown dimension "salary"`)
}

func TestAnalyze_MissingColumn(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.csv")
	require.NoError(t, os.WriteFile(p, []byte("position,date\nQA,2024-01-01\n"), 0o600))

	_, err := vacancies.Analyze(context.Background(), []string{p})
	require.Error(t, err)
	assert.ErrorIs(t, err, vacancies.ErrMissingColumn)
}

func TestAnalyze_WithCache(t *testing.T) {
	cache := vacancies.NewCache()

	first, err := vacancies.Analyze(context.Background(), []string{itJobs}, vacancies.WithCache(cache))
	require.NoError(t, err)

	second, err := vacancies.Analyze(context.Background(), []string{itJobs}, vacancies.WithCache(cache))
	require.NoError(t, err)

	// The same filtered rows are served from the cache.
	require.NotEmpty(t, first.Records)
	assert.Same(t, first.Records[0], second.Records[0])
}

func TestAnalyze_WithComma(t *testing.T) {
	p := filepath.Join(t.TempDir(), "jobs.csv")
	data := "position;direction;experience;location;company;date;skills\nQA;Тест;0;Ташкент;Uzum;2024-03-01;Go, SQL\n"
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))

	res, err := vacancies.Analyze(context.Background(), []string{p}, vacancies.WithComma(';'))
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, []string{"Go", "SQL"}, res.Records[0].SkillsList)
}

func TestResult_Write(t *testing.T) {
	res, err := vacancies.Analyze(context.Background(), []string{itJobs},
		vacancies.WithInclude(vacancies.Position, "QA"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, res.Write(&buf, "table"))
	assert.Contains(t, buf.String(), "Found 1 vacancies after applying filters.")

	buf.Reset()
	require.NoError(t, res.Write(&buf, "json"))
	assert.Contains(t, buf.String(), `"total": 1`)

	require.Error(t, res.Write(&buf, "xml"))
}
