package dataset

import (
	"errors"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"lang-visible/internal/chart"
)

// maxConcurrency 是并发读取数据文件的最大数量，默认为 CPU 核心数。
var maxConcurrency = runtime.NumCPU()

// LoadEvents 并发读取 dir 下多个事件的数据文件。
// 部分文件读取失败时，返回已成功读取的数据和聚合的错误。
func LoadEvents(dir string, events []Event, strict bool) (map[Event][]chart.RawRecord, error) {
	out := make(map[Event][]chart.RawRecord, len(events))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex // 保护 out 和 errs
		pmu  sync.Mutex // 保护进度条更新
		errs []error
	)

	bar := newLoadProgressBar(len(events))
	if bar != nil {
		defer func() { _ = bar.Finish() }()
	}

	sem := make(chan struct{}, maxConcurrency)

	for _, event := range events {
		wg.Add(1)
		go func(event Event) {
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

			records, err := loadEvent(dir, event, strict)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			out[event] = records
		}(event)
	}

	wg.Wait()

	return out, errors.Join(errs...)
}

func loadEvent(dir string, event Event, strict bool) ([]chart.RawRecord, error) {
	path, err := FindFile(dir, event)
	if err != nil {
		return nil, err
	}
	return Load(path, strict)
}

// newLoadProgressBar 创建数据文件读取进度条。
// 仅当文件数量 > 1 且在终端环境下才显示。
func newLoadProgressBar(total int) *progressbar.ProgressBar {
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
		progressbar.OptionSetDescription("loading datasets"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}
