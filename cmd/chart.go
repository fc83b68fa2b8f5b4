package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"lang-visible/internal/chart"
	"lang-visible/internal/dataset"
	"lang-visible/internal/export"
	"lang-visible/internal/stats"
)

// 命令行标志变量
var (
	chartEvent  string // 事件类型
	chartPeriod string // 排名使用的季度
	chartRoute  string // 路由形式的选择
	chartLang   string // 逗号分隔的可见语言
	chartView   string // percentage 或 count
	chartFormat string // 输出格式：table/json/csv/html/xlsx
	chartLast   int    // table 输出显示的季度数
	chartWatch  bool   // 数据文件变化时重新输出
)

// chartCmd 实现 chart 子命令，也是不带子命令运行时的默认命令。
// 用法: lang-visible chart [--event e] [--period 2024-Q3] [--lang Go,Rust] [-f format]
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show language popularity chart",
	Example: `  lang-visible chart --event stars --period 2024-Q3
  lang-visible chart --route /pull_requests/2024/3/Go,Rust -f json
  lang-visible chart --view count --last 4 --watch
  lang-visible chart -f xlsx > languages.xlsx`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

func init() {
	addChartFlags(rootCmd)
	addChartFlags(chartCmd)

	rootCmd.AddCommand(chartCmd)
}

// addChartFlags 为根命令和 chart 子命令注册相同的标志。
func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&chartEvent, "event", "e", "", "Event type: pushes/stars/issues/pull_requests/commits (default: config value)")
	cmd.Flags().StringVarP(&chartPeriod, "period", "p", "", "Quarter used for ranking, e.g. 2024-Q3 (default: latest in data)")
	cmd.Flags().StringVar(&chartRoute, "route", "", "Selection as /event/year/quarter/lang1,lang2")
	cmd.Flags().StringVarP(&chartLang, "lang", "l", "", "Comma separated languages to show")
	cmd.Flags().StringVar(&chartView, "view", "", "View: percentage/count (default: config value)")
	cmd.Flags().StringVarP(&chartFormat, "format", "f", "table", "Output format: table/json/csv/html/xlsx")
	cmd.Flags().IntVar(&chartLast, "last", 8, "Quarters shown in table output (0 for all)")
	cmd.Flags().BoolVarP(&chartWatch, "watch", "w", false, "Re-render when the dataset file changes")
}

func runChart(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(strings.TrimSpace(chartFormat))
	switch format {
	case "", "table", "json", "csv", "html", "xlsx":
	default:
		return fmt.Errorf("unsupported format %q (supported: table, json, csv, html, xlsx)", chartFormat)
	}
	if chartLast < 0 {
		return fmt.Errorf("last must be >= 0, got %d", chartLast)
	}

	rc, err := prepareRun(chartOptions{
		Event:  chartEvent,
		Period: chartPeriod,
		Route:  chartRoute,
		Lang:   chartLang,
		View:   chartView,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	render := func(cfg *chart.Configuration) error {
		return writeChart(out, cfg, format, rc.View)
	}

	var state chart.State
	state, err = rc.refresh(errOut, state, render)
	if err != nil {
		return err
	}
	if !chartWatch {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return watchFile(ctx, rc.Path, func() {
		next, err := rc.refresh(errOut, state, render)
		if err != nil {
			fmt.Fprintln(errOut, "warning:", err)
			return
		}
		state = next
	})
}

// refresh 重新读取数据文件并执行一次 Reduce，仅在配置发生变化时调用 render。
func (rc *RunContext) refresh(errOut io.Writer, prev chart.State, render func(*chart.Configuration) error) (chart.State, error) {
	records, err := dataset.Load(rc.Path, rc.Config.Strict)
	if err != nil {
		return prev, err
	}

	in := rc.buildInput(errOut, records)
	next, outcome := rc.Reducer.Reduce(prev, in)

	logger := log.WithFields(log.Fields{
		"event":   rc.Event,
		"records": len(records),
		"top":     in.Top.Len(),
	})
	switch {
	case !outcome.Rebuilt:
		logger.Debug("rebuild skipped")
		return next, nil
	case !outcome.Changed:
		logger.Debug("configuration unchanged")
		return next, nil
	}

	logger.WithField("series", len(next.Config.Series)).Debug("configuration changed")
	if err := render(next.Config); err != nil {
		return prev, err
	}
	return next, nil
}

// watchFile 监听 path 的写入、创建和重命名，直到 ctx 结束。
// 监听的是所在目录，编辑器以替换方式保存文件时也能收到通知。
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", target, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				log.WithField("op", ev.Op.String()).Debug("dataset changed")
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		}
	}
}

// writeChart 按格式输出图表配置。
func writeChart(out io.Writer, cfg *chart.Configuration, format string, view chart.View) error {
	percent := view == chart.ViewPercentage

	switch format {
	case "", "table":
		if len(cfg.Series) == 0 {
			fmt.Fprintln(out, "no data for the selected languages")
			return nil
		}
		fmt.Fprint(out, stats.RenderShareTable(cfg, chartLast, percent))
		fmt.Fprintln(out)
		fmt.Fprint(out, stats.RenderLegend())
		return nil
	case "json":
		return writeChartJSON(out, cfg)
	case "csv":
		return writeChartCSV(out, cfg)
	case "html":
		return export.HTML(out, cfg, percent)
	case "xlsx":
		return export.XLSX(out, cfg)
	default:
		return fmt.Errorf("unsupported format %q (supported: table, json, csv, html, xlsx)", format)
	}
}

func writeChartJSON(out io.Writer, cfg *chart.Configuration) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// writeChartCSV 每个系列输出一行，季度列使用 "2024/Q3" 形式的表头。
func writeChartCSV(out io.Writer, cfg *chart.Configuration) error {
	width := 0
	for _, s := range cfg.Series {
		width = max(width, len(s.Data))
	}

	w := csv.NewWriter(out)
	header := []string{"name", "color", "visible"}
	for i := 0; i < width; i++ {
		header = append(header, chart.QuarterLabel(i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range cfg.Series {
		row := []string{s.Name, s.Color, strconv.FormatBool(s.Visible)}
		for _, v := range s.Data {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
