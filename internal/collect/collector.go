// Package collect 从本地 Git 仓库的提交历史中统计各语言每个季度的提交数。
package collect

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"lang-visible/internal/cache"
	"lang-visible/internal/chart"
	"lang-visible/internal/dataset"
)

// maxConcurrency 是并发处理仓库的最大数量，默认为 CPU 核心数。
var maxConcurrency = runtime.NumCPU()

// Counts 按语言和季度下标聚合的提交数：语言 -> 季度下标 -> 提交数。
type Counts map[string]map[int]int

func (c Counts) add(lang string, quarter, n int) {
	if c[lang] == nil {
		c[lang] = make(map[int]int)
	}
	c[lang][quarter] += n
}

func (c Counts) merge(other Counts) {
	for lang, quarters := range other {
		for q, n := range quarters {
			c.add(lang, q, n)
		}
	}
}

// Options 控制 Collect 的行为。
type Options struct {
	// UseCache 为 true 时按仓库 HEAD 复用上次的统计结果。
	UseCache bool
}

// Collect 并发统计多个仓库的提交。
// 每个提交对其修改的文件所涉及的每种语言各计 1 次，按作者时间归入季度；
// 早于横轴起点（2012 年 Q2）的提交被忽略。emails 为空时统计所有作者。
// 如果部分仓库收集失败，会返回已成功收集的数据和聚合的错误。
func Collect(repos []string, emails []string, opts Options) (Counts, error) {
	emailSet := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		if email == "" {
			continue
		}
		emailSet[email] = struct{}{}
	}

	out := make(Counts)

	var (
		wg   sync.WaitGroup // 等待所有 goroutine 完成
		mu   sync.Mutex     // 保护 out 和 errs
		pmu  sync.Mutex     // 保护进度条更新
		errs []error        // 收集所有错误
	)

	bar := newRepoProgressBar(len(repos))
	if bar != nil {
		defer func() { _ = bar.Finish() }()
	}

	// 使用信号量限制并发数
	sem := make(chan struct{}, maxConcurrency)

	for _, repoPath := range repos {
		wg.Add(1)
		go func(repoPath string) {
			sem <- struct{}{}
			defer func() { <-sem }()
			defer wg.Done()
			defer func() {
				if bar == nil {
					return
				}
				pmu.Lock()
				_ = bar.Add(1)
				pmu.Unlock()
			}()

			counts, err := collectRepo(repoPath, emails, emailSet, opts.UseCache)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			out.merge(counts)
		}(repoPath)
	}

	wg.Wait()

	if len(repos) > 0 && len(errs) == len(repos) {
		return nil, fmt.Errorf("all repositories failed: %w", errors.Join(errs...))
	}
	return out, errors.Join(errs...)
}

// newRepoProgressBar 创建仓库处理进度条。
// 仅当仓库数量 > 1 且在终端环境下才显示。
func newRepoProgressBar(total int) *progressbar.ProgressBar {
	if total <= 1 {
		return nil
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}

	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("collecting commits"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}

// collectRepo 遍历单个仓库从 HEAD 开始的提交历史。
func collectRepo(repoPath string, emails []string, emailSet map[string]struct{}, useCache bool) (Counts, error) {
	if _, err := os.Stat(repoPath); err != nil {
		return nil, fmt.Errorf("stat repo %s: %w", repoPath, err)
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open repo %s: %w", repoPath, err)
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("head repo %s: %w", repoPath, err)
	}

	key := cache.Key{RepoPath: repoPath, HEADHash: ref.Hash().String(), Emails: emails}
	if useCache {
		if entry, err := cache.Load(key); err == nil {
			log.WithField("repo", repoPath).Debug("using cached counts")
			return Counts(entry.Counts), nil
		}
	}

	iterator, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("log repo %s: %w", repoPath, err)
	}
	defer iterator.Close()

	out := make(Counts)
	err = iterator.ForEach(func(c *object.Commit) error {
		if len(emailSet) > 0 {
			if _, ok := emailSet[c.Author.Email]; !ok {
				return nil
			}
		}

		quarter := quarterIndexOf(c.Author.When)
		if quarter < 0 {
			return nil
		}

		fileStats, err := c.Stats()
		if err != nil {
			return fmt.Errorf("stats %s: %w", c.Hash, err)
		}

		langs := make(map[string]struct{})
		for _, fs := range fileStats {
			if lang := LanguageOf(fs.Name); lang != "" {
				langs[lang] = struct{}{}
			}
		}
		for lang := range langs {
			out.add(lang, quarter, 1)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate repo %s: %w", repoPath, err)
	}

	if useCache {
		if err := cache.Save(key, out); err != nil {
			log.WithError(err).WithField("repo", repoPath).Warn("failed to cache counts")
		}
	}
	return out, nil
}

// quarterIndexOf 返回时间所在季度在横轴上的下标（UTC）。
func quarterIndexOf(t time.Time) int {
	t = t.UTC()
	return chart.QuarterIndex(t.Year(), (int(t.Month())-1)/3+1)
}

// Rows 将统计结果转换为数据文件行。
// 每个语言都输出从横轴起点到最新季度的连续行（缺失季度计 0），
// 使所有序列与横轴对齐。行按语言名、季度排序。
func (c Counts) Rows() []dataset.Row {
	latest := -1
	for _, quarters := range c {
		for q := range quarters {
			latest = max(latest, q)
		}
	}

	langs := make([]string, 0, len(c))
	for lang := range c {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	rows := make([]dataset.Row, 0, len(langs)*(latest+1))
	for _, lang := range langs {
		for q := 0; q <= latest; q++ {
			year, quarter := chart.QuarterOf(q)
			rows = append(rows, dataset.Row{
				Name:    lang,
				Year:    year,
				Quarter: quarter,
				Count:   c[lang][q],
			})
		}
	}
	return rows
}
