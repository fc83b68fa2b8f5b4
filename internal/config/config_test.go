package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := withTempHome(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultEvent, cfg.Event)
	assert.Equal(t, filepath.Join(home, ".config", "lang-visible", "data"), cfg.DataDir)
	assert.Equal(t, DefaultTop, cfg.Top)
	assert.Equal(t, DefaultVisible, cfg.Visible)
	assert.Equal(t, DefaultView, cfg.View)
	assert.False(t, cfg.Strict)
	assert.Empty(t, cfg.Colors)
	assert.Empty(t, cfg.Repos)
}

func TestSaveThenLoad(t *testing.T) {
	withTempHome(t)

	want := Config{
		Event:   "stars",
		DataDir: "/data",
		Top:     20,
		Visible: 3,
		View:    "count",
		Strict:  true,
		Colors:  map[string]string{"brainfuck": "#2f2530"},
		Repos:   []string{"/code/a", "/code/b"},
	}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestLoad_EnvOverride(t *testing.T) {
	withTempHome(t)
	t.Setenv("LANG_VISIBLE_EVENT", "issues")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "issues", cfg.Event)
}

func TestLoad_InvalidYAML(t *testing.T) {
	withTempHome(t)
	require.NoError(t, EnsureDir())
	file, err := File()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, []byte("top: [unterminated\n"), 0o600))

	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Top: 50, Visible: 7, View: "percentage"}
	assert.NoError(t, valid.Validate())

	for _, c := range []Config{
		{Top: 0, Visible: 7, View: "percentage"},
		{Top: 51, Visible: 7, View: "percentage"},
		{Top: 10, Visible: -1, View: "percentage"},
		{Top: 10, Visible: 7, View: "log"},
	} {
		assert.Error(t, c.Validate(), "%+v", c)
	}
}
