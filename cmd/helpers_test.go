package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"lang-visible/internal/config"
	"lang-visible/internal/dataset"

	"github.com/stretchr/testify/require"
)

func withTempHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	require.NoError(t, os.Setenv("HOME", home))
	t.Cleanup(func() {
		_ = os.Setenv("HOME", oldHome)
	})
	return home
}

// writeDataset 将 rows 写入默认数据目录下的 <event>.json，返回文件路径。
func writeDataset(t *testing.T, event dataset.Event, rows []dataset.Row) string {
	t.Helper()

	dir, err := config.DefaultDataDir()
	require.NoError(t, err)

	path := filepath.Join(dir, string(event)+".json")
	require.NoError(t, dataset.Save(path, rows))
	return path
}

func setTestConfig(t *testing.T, mutate func(cfg *config.Config)) {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)
	mutate(cfg)
	require.NoError(t, config.Save(*cfg))
}

// sampleRows 是 2024 年前三个季度 Go、Rust、Python 的 pull_requests 数据。
func sampleRows() []dataset.Row {
	return []dataset.Row{
		{Name: "Go", Year: 2024, Quarter: 1, Count: 10},
		{Name: "Rust", Year: 2024, Quarter: 1, Count: 10},
		{Name: "Python", Year: 2024, Quarter: 1, Count: 0},
		{Name: "Go", Year: 2024, Quarter: 2, Count: 20},
		{Name: "Rust", Year: 2024, Quarter: 2, Count: 10},
		{Name: "Python", Year: 2024, Quarter: 2, Count: 10},
		{Name: "Go", Year: 2024, Quarter: 3, Count: 30},
		{Name: "Rust", Year: 2024, Quarter: 3, Count: 10},
		{Name: "Python", Year: 2024, Quarter: 3, Count: 20},
	}
}
