package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"lang-visible/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeRoot 通过根命令执行子命令，返回 stdout 和 stderr 的合并输出。
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetRepoFlags() {
	addDepth = -1
	addExcludes = nil
	addDryRun = false
	listVerify = false
	removeInvalid = false
}

func makeGitDir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(path, ".git"), 0o755))
}

func TestAdd_ScansAndSavesRepositories(t *testing.T) {
	home := withTempHome(t)
	code := filepath.Join(home, "code")
	makeGitDir(t, filepath.Join(code, "api"))
	makeGitDir(t, filepath.Join(code, "web"))
	resetRepoFlags()

	out, err := executeRoot(t, "add", code)
	require.NoError(t, err)
	assert.Contains(t, out, "added 2 repositories")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(code, "api"), filepath.Join(code, "web")}, cfg.Repos)

	resetRepoFlags()
	out, err = executeRoot(t, "add", code)
	require.NoError(t, err)
	assert.Contains(t, out, "no new repositories to add")
}

func TestAdd_DryRunDoesNotSave(t *testing.T) {
	home := withTempHome(t)
	code := filepath.Join(home, "code")
	makeGitDir(t, filepath.Join(code, "api"))
	resetRepoFlags()

	out, err := executeRoot(t, "add", "--dry-run", code)
	require.NoError(t, err)
	assert.Contains(t, out, "dry run")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Repos)
}

func TestList_VerifyMarksInvalid(t *testing.T) {
	home := withTempHome(t)
	good := filepath.Join(home, "good")
	makeGitDir(t, good)
	gone := filepath.Join(home, "gone")
	setTestConfig(t, func(cfg *config.Config) { cfg.Repos = []string{good, gone} })
	resetRepoFlags()

	out, err := executeRoot(t, "list")
	require.NoError(t, err)
	assert.Equal(t, good+"\n"+gone+"\n", out)

	resetRepoFlags()
	out, err = executeRoot(t, "list", "--verify")
	require.NoError(t, err)
	assert.Equal(t, good+"\n"+gone+" (invalid)\n", out)
}

func TestList_Empty(t *testing.T) {
	withTempHome(t)
	resetRepoFlags()

	out, err := executeRoot(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no repositories added")
}

func TestRemove(t *testing.T) {
	home := withTempHome(t)
	good := filepath.Join(home, "good")
	makeGitDir(t, good)
	gone := filepath.Join(home, "gone")
	setTestConfig(t, func(cfg *config.Config) { cfg.Repos = []string{good, gone} })

	resetRepoFlags()
	_, err := executeRoot(t, "remove", filepath.Join(home, "other"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	resetRepoFlags()
	out, err := executeRoot(t, "remove", "--invalid")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 repositories")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{good}, cfg.Repos)

	resetRepoFlags()
	_, err = executeRoot(t, "remove", good)
	require.NoError(t, err)

	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Repos)
}
