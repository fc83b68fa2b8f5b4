package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultExcludes 是扫描时总是跳过的目录名。
var defaultExcludes = []string{"node_modules", "vendor"}

// ScanRepos 在 root 下查找 Git 仓库（包含 .git 的目录），找到后不再深入其子目录。
// depth < 0 表示不限深度；excludes 可以是目录名、绝对路径或相对 root 的路径。
func ScanRepos(root string, depth int, excludes []string) ([]string, error) {
	rootPath, err := NormalizePath(root)
	if err != nil {
		return nil, err
	}

	st, err := os.Stat(rootPath)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", rootPath)
	}

	excludes = append(normalizeExcludes(excludes), defaultExcludes...)

	var repos []string
	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() || d.Name() == ".git" {
			return nil
		}
		if path != rootPath && isExcluded(rootPath, path, d.Name(), excludes) {
			return fs.SkipDir
		}

		if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
			repos = append(repos, path)
			return fs.SkipDir
		}

		if depth >= 0 && dirDepth(rootPath, path) >= depth {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(repos)
	return repos, nil
}

func dirDepth(rootPath, path string) int {
	rel, err := filepath.Rel(rootPath, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(os.PathSeparator)) + 1
}

func normalizeExcludes(excludes []string) []string {
	out := make([]string, 0, len(excludes))
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		out = append(out, ex)
	}
	return out
}

func isExcluded(rootPath, path, name string, excludes []string) bool {
	path = filepath.Clean(path)
	sep := string(os.PathSeparator)

	for _, ex := range excludes {
		if ex == name {
			return true
		}

		if ex == "~" || strings.HasPrefix(ex, "~/") {
			if expanded, err := NormalizePath(ex); err == nil {
				ex = expanded
			}
		}

		exPath := filepath.Clean(ex)
		if !filepath.IsAbs(ex) {
			exPath = filepath.Join(rootPath, exPath)
		}

		if path == exPath || strings.HasPrefix(path, exPath+sep) {
			return true
		}
	}
	return false
}
