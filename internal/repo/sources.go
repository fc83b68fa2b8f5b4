package repo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"lang-visible/internal/config"
)

// NormalizePath 标准化路径：去除首尾空白、展开 ~、转换为绝对路径并清理。
func NormalizePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.New("empty path")
	}

	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// AddRepos 将仓库加入 cfg.Repos（已存在的静默忽略），返回实际新增的路径。
// 调用方负责保存配置。
func AddRepos(cfg *config.Config, paths []string) ([]string, error) {
	existing := make(map[string]struct{}, len(cfg.Repos))
	for _, p := range cfg.Repos {
		existing[p] = struct{}{}
	}

	var added []string
	for _, p := range paths {
		normalized, err := NormalizePath(p)
		if err != nil {
			return added, err
		}
		if _, ok := existing[normalized]; ok {
			continue
		}
		existing[normalized] = struct{}{}
		cfg.Repos = append(cfg.Repos, normalized)
		added = append(added, normalized)
	}
	return added, nil
}

// RemoveRepo 从 cfg.Repos 中移除仓库，返回是否确实移除了。
func RemoveRepo(cfg *config.Config, path string) (bool, error) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return false, err
	}

	kept := make([]string, 0, len(cfg.Repos))
	for _, p := range cfg.Repos {
		if p == normalized {
			continue
		}
		kept = append(kept, p)
	}

	removed := len(kept) != len(cfg.Repos)
	cfg.Repos = kept
	return removed, nil
}

// VerifyRepos 按是否为有效 Git 仓库（存在 .git）将路径分为两组。
func VerifyRepos(paths []string) (valid []string, invalid []string) {
	for _, p := range paths {
		if isValidRepo(p) {
			valid = append(valid, p)
			continue
		}
		invalid = append(invalid, p)
	}
	return valid, invalid
}

func isValidRepo(path string) bool {
	st, err := os.Stat(path)
	if err != nil || !st.IsDir() {
		return false
	}
	_, err = os.Stat(filepath.Join(path, ".git"))
	return err == nil
}
