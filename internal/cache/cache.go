// Package cache 缓存单个仓库的语言提交统计。
// 缓存文件存储在 ~/.config/lang-visible/cache/ 目录下，
// 以仓库名 + 参数哈希命名，HEAD 推进后自动失效。
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lang-visible/internal/config"
)

// Key 唯一标识一次仓库统计的输入。
type Key struct {
	RepoPath string
	HEADHash string
	Emails   []string // 排序后存储，保证顺序无关
}

// Entry 是持久化到磁盘的缓存条目。
type Entry struct {
	Key Key `json:"key"`
	// Counts 为 语言 -> 季度下标 -> 提交数。
	Counts    map[string]map[int]int `json:"counts"`
	CreatedAt time.Time              `json:"created_at"`
}

// String 返回稳定的短文件名 "{repoName}_{hash}.json"。
func (k Key) String() string {
	normalized := normalizeKey(k)
	repoName := sanitizeFileComponent(filepath.Base(normalized.RepoPath))
	if repoName == "" {
		repoName = "repo"
	}

	payload := strings.Join([]string{
		normalized.RepoPath,
		normalized.HEADHash,
		strings.Join(normalized.Emails, ","),
	}, "\n")
	digest := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%s_%x.json", repoName, digest[:8])
}

// Load 读取一条缓存，未命中时返回 os.ErrNotExist。
func Load(key Key) (*Entry, error) {
	path, err := entryPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", path, err)
	}
	return &entry, nil
}

// Save 写入一条缓存。counts 会被深拷贝。
func Save(key Key, counts map[string]map[int]int) error {
	path, err := entryPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	entry := Entry{
		Key:       normalizeKey(key),
		Counts:    make(map[string]map[int]int, len(counts)),
		CreatedAt: time.Now().UTC(),
	}
	for lang, quarters := range counts {
		cp := make(map[int]int, len(quarters))
		for q, n := range quarters {
			cp[q] = n
		}
		entry.Counts[lang] = cp
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func entryPath(key Key) (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache", key.String()), nil
}

func normalizeKey(key Key) Key {
	normalized := key
	normalized.RepoPath = filepath.Clean(strings.TrimSpace(normalized.RepoPath))
	normalized.HEADHash = strings.TrimSpace(normalized.HEADHash)

	if len(key.Emails) == 0 {
		normalized.Emails = nil
		return normalized
	}
	emails := make([]string, 0, len(key.Emails))
	for _, email := range key.Emails {
		if email = strings.TrimSpace(email); email != "" {
			emails = append(emails, email)
		}
	}
	sort.Strings(emails)
	normalized.Emails = emails
	return normalized
}

// sanitizeFileComponent 将路径分隔符、空格、冒号替换为下划线。
func sanitizeFileComponent(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.NewReplacer(
		string(filepath.Separator), "_",
		" ", "_",
		":", "_",
	).Replace(name)
}
