package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lang-visible/internal/chart"
	"lang-visible/internal/config"
	"lang-visible/internal/dataset"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetChartFlags() {
	chartEvent = ""
	chartPeriod = ""
	chartRoute = ""
	chartLang = ""
	chartView = ""
	chartFormat = "table"
	chartLast = 8
	chartWatch = false
}

func runChartJSON(t *testing.T) chart.Configuration {
	t.Helper()

	chartFormat = "json"
	var out, errOut bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&errOut)

	require.NoError(t, runChart(c, nil), "stderr=%s", errOut.String())

	var cfg chart.Configuration
	require.NoError(t, json.Unmarshal(out.Bytes(), &cfg), "output=%s", out.String())
	return cfg
}

func seriesNamed(t *testing.T, cfg chart.Configuration, name string) chart.Series {
	t.Helper()
	for _, s := range cfg.Series {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("series %q not found", name)
	return chart.Series{}
}

// quarterSlice 返回 data 中 [from, to] 两个季度之间（含两端）的值。
func quarterSlice(data []float64, fromYear, fromQuarter, toYear, toQuarter int) []float64 {
	return data[chart.QuarterIndex(fromYear, fromQuarter) : chart.QuarterIndex(toYear, toQuarter)+1]
}

func runChartCSV(t *testing.T) [][]string {
	t.Helper()

	chartFormat = "csv"
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&out)
	require.NoError(t, runChart(c, nil))

	records, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	require.NoError(t, err)
	return records
}

// csvCell 按表头中的季度标签查找某一行的单元格。
func csvCell(t *testing.T, records [][]string, name, label string) string {
	t.Helper()

	col := -1
	for i, h := range records[0] {
		if h == label {
			col = i
		}
	}
	require.GreaterOrEqual(t, col, 0, "column %q not in header %v", label, records[0])

	for _, row := range records[1:] {
		if row[0] == name {
			return row[col]
		}
	}
	t.Fatalf("row %q not found", name)
	return ""
}

func TestChart_JSON_PercentageView(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())
	resetChartFlags()

	cfg := runChartJSON(t)

	assert.Equal(t, "Pull Requests", cfg.Title)
	assert.Len(t, cfg.Categories, 151)
	require.Len(t, cfg.Series, 3)
	assert.Equal(t, []string{"Go", "Rust", "Python"}, []string{cfg.Series[0].Name, cfg.Series[1].Name, cfg.Series[2].Name})

	goSeries := seriesNamed(t, cfg, "Go")
	assert.Equal(t, "#00ADD8", goSeries.Color)
	assert.True(t, goSeries.Visible)
	require.Len(t, goSeries.Data, chart.QuarterIndex(2024, 3)+1)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5}, quarterSlice(goSeries.Data, 2024, 1, 2024, 3), 1e-9)

	python := seriesNamed(t, cfg, "Python")
	assert.InDeltaSlice(t, []float64{0, 0.25, 1.0 / 3}, quarterSlice(python.Data, 2024, 1, 2024, 3), 1e-9)

	// 2024 年之前没有数据的季度占比为 0。
	for _, s := range cfg.Series {
		for _, v := range quarterSlice(s.Data, 2012, 2, 2023, 4) {
			assert.Zero(t, v, "%s before 2024", s.Name)
		}
	}
}

func TestChart_CountView(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())
	resetChartFlags()
	chartView = "count"

	cfg := runChartJSON(t)

	data := seriesNamed(t, cfg, "Go").Data
	require.Len(t, data, chart.QuarterIndex(2024, 3)+1)
	assert.Equal(t, []float64{10, 20, 30}, quarterSlice(data, 2024, 1, 2024, 3))
}

func TestChart_LangOverridesVisibility(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())
	resetChartFlags()
	chartLang = "Rust, Ruby"

	cfg := runChartJSON(t)

	assert.False(t, seriesNamed(t, cfg, "Go").Visible)
	assert.True(t, seriesNamed(t, cfg, "Rust").Visible)
	assert.False(t, seriesNamed(t, cfg, "Python").Visible)
}

func TestChart_ConfigVisibleLimit(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())
	setTestConfig(t, func(cfg *config.Config) { cfg.Visible = 1 })
	resetChartFlags()

	cfg := runChartJSON(t)

	assert.True(t, cfg.Series[0].Visible)
	assert.False(t, cfg.Series[1].Visible)
	assert.False(t, cfg.Series[2].Visible)
}

func TestChart_Route(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventStars, []dataset.Row{
		{Name: "Go", Year: 2023, Quarter: 4, Count: 5},
		{Name: "Zig", Year: 2023, Quarter: 4, Count: 1},
	})
	resetChartFlags()
	chartRoute = "/stars/2023/4/Zig"

	cfg := runChartJSON(t)

	assert.Equal(t, "Stars", cfg.Title)
	assert.False(t, seriesNamed(t, cfg, "Go").Visible)
	assert.True(t, seriesNamed(t, cfg, "Zig").Visible)
}

func TestChart_TopLimitsSeries(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())
	setTestConfig(t, func(cfg *config.Config) { cfg.Top = 2 })
	resetChartFlags()

	cfg := runChartJSON(t)

	names := make([]string, 0, len(cfg.Series))
	for _, s := range cfg.Series {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Go", "Python"}, names)
}

func TestChart_PeriodAfterLatestFallsBack(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())
	resetChartFlags()
	chartPeriod = "2030-Q1"
	chartFormat = "json"

	var out, errOut bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&errOut)

	require.NoError(t, runChart(c, nil))
	assert.Contains(t, errOut.String(), "warning: no data after 2024-Q3")
}

func TestChart_EmptyDataset(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, nil)
	resetChartFlags()

	cfg := runChartJSON(t)

	assert.Empty(t, cfg.Series)
	assert.Len(t, cfg.Categories, 151)
}

func TestChart_Table(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())
	resetChartFlags()

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&out)

	require.NoError(t, runChart(c, nil))
	assert.Contains(t, out.String(), "Pull Requests")
	assert.Contains(t, out.String(), "2022/Q4")
	assert.Contains(t, out.String(), "2024/Q3")
	assert.NotContains(t, out.String(), "2022/Q3")
	assert.NotContains(t, out.String(), "2012/Q2")
	assert.Contains(t, out.String(), "Share")
}

func TestChart_CSV(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())
	resetChartFlags()
	chartView = "count"

	records := runChartCSV(t)
	require.Len(t, records, 4)

	header := records[0]
	require.Len(t, header, 3+chart.QuarterIndex(2024, 3)+1)
	assert.Equal(t, []string{"name", "color", "visible", "2012/Q2", "2012/Q3", "2012/Q4", "2013/Q1"}, header[:7])
	assert.Equal(t, []string{"2024/Q1", "2024/Q2", "2024/Q3"}, header[len(header)-3:])

	goRow := records[1]
	assert.Equal(t, []string{"Go", "#00ADD8", "true"}, goRow[:3])
	assert.Equal(t, []string{"10", "20", "30"}, goRow[len(goRow)-3:])
	assert.Equal(t, "0", csvCell(t, records, "Go", "2023/Q4"))
}

func TestChart_CSV_LanguagesStartingInDifferentQuarters(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventStars, []dataset.Row{
		{Name: "Go", Year: 2023, Quarter: 4, Count: 5},
		{Name: "Go", Year: 2024, Quarter: 1, Count: 6},
		{Name: "Go", Year: 2024, Quarter: 2, Count: 8},
		{Name: "Rust", Year: 2024, Quarter: 2, Count: 7},
	})
	resetChartFlags()
	chartEvent = "stars"
	chartView = "count"

	records := runChartCSV(t)
	require.Len(t, records, 3)
	assert.Equal(t, "2024/Q2", records[0][len(records[0])-1])

	assert.Equal(t, "0", csvCell(t, records, "Go", "2023/Q3"))
	assert.Equal(t, "5", csvCell(t, records, "Go", "2023/Q4"))
	assert.Equal(t, "6", csvCell(t, records, "Go", "2024/Q1"))
	assert.Equal(t, "8", csvCell(t, records, "Go", "2024/Q2"))

	assert.Equal(t, "0", csvCell(t, records, "Rust", "2023/Q4"))
	assert.Equal(t, "0", csvCell(t, records, "Rust", "2024/Q1"))
	assert.Equal(t, "7", csvCell(t, records, "Rust", "2024/Q2"))
}

func TestChart_HTML(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())
	resetChartFlags()
	chartFormat = "html"

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&out)

	require.NoError(t, runChart(c, nil))
	assert.Contains(t, out.String(), "<html")
	assert.Contains(t, out.String(), "Python")
}

func TestChart_XLSX(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())
	resetChartFlags()
	chartFormat = "xlsx"

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})

	require.NoError(t, runChart(c, nil))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestChart_Errors(t *testing.T) {
	withTempHome(t)
	writeDataset(t, dataset.EventPullRequests, sampleRows())

	tests := []struct {
		name  string
		setup func()
		want  string
	}{
		{"unsupported format", func() { chartFormat = "xml" }, "unsupported format"},
		{"negative last", func() { chartLast = -1 }, "last must be >= 0"},
		{"unknown event", func() { chartEvent = "forks" }, "unknown event"},
		{"unknown view", func() { chartView = "log" }, "unsupported view"},
		{"invalid period", func() { chartPeriod = "2024-Q5" }, "quarter must be Q1-Q4"},
		{"invalid route", func() { chartRoute = "/stars/2024" }, "invalid route"},
		{"missing dataset", func() { chartEvent = "issues" }, "no dataset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetChartFlags()
			tt.setup()

			c := &cobra.Command{}
			c.SetOut(&bytes.Buffer{})
			c.SetErr(&bytes.Buffer{})

			err := runChart(c, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestChart_StrictModeMissingField(t *testing.T) {
	withTempHome(t)
	dir, err := config.DefaultDataDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pull_requests.json"),
		[]byte(`[{"name":"Go","year":2024,"quarter":1}]`), 0o644))
	setTestConfig(t, func(cfg *config.Config) { cfg.Strict = true })
	resetChartFlags()

	c := &cobra.Command{}
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})

	err = runChart(c, nil)
	require.ErrorIs(t, err, dataset.ErrMissingField)
}

func TestRefresh_SkipsUnchangedDataset(t *testing.T) {
	withTempHome(t)
	path := writeDataset(t, dataset.EventPullRequests, sampleRows())
	resetChartFlags()

	rc, err := prepareRun(chartOptions{})
	require.NoError(t, err)

	renders := 0
	render := func(*chart.Configuration) error {
		renders++
		return nil
	}

	var errOut bytes.Buffer
	state, err := rc.refresh(&errOut, chart.State{}, render)
	require.NoError(t, err)
	assert.Equal(t, 1, renders)

	// 同样的数据再次读取：跳过重建，不重新输出
	next, err := rc.refresh(&errOut, state, render)
	require.NoError(t, err)
	assert.Equal(t, 1, renders)
	assert.Same(t, state.Config, next.Config)

	// 新增一条记录：重建并输出
	rows := append(sampleRows(), dataset.Row{Name: "Go", Year: 2024, Quarter: 4, Count: 40})
	require.NoError(t, dataset.Save(path, rows))

	next, err = rc.refresh(&errOut, next, render)
	require.NoError(t, err)
	assert.Equal(t, 2, renders)
	assert.NotSame(t, state.Config, next.Config)
}

func TestWatchFile_NotifiesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pull_requests.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// 监听建立之前的写入可能丢失，因此持续写入直到收到通知。
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	timeout := time.After(5 * time.Second)

loop:
	for {
		select {
		case <-changed:
			break loop
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte("[ ]"), 0o644))
		case <-timeout:
			t.Fatal("no change notification")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not stop")
	}
}

func TestWatchFile_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pull_requests.json")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	calls := 0
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "stars.json"), []byte("[]"), 0o644)
	}()

	require.NoError(t, watchFile(ctx, path, func() { calls++ }))
	assert.Zero(t, calls)
}
