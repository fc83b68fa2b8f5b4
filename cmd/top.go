package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"lang-visible/internal/chart"
	"lang-visible/internal/config"
	"lang-visible/internal/dataset"
	"lang-visible/internal/stats"

	"github.com/spf13/cobra"
)

var (
	topEvents []string
	topPeriod string
	topFormat string

	topNumber int
	topAll    bool
)

// topCmd 实现 top 子命令，显示某个季度最活跃的语言排行榜。
// 用法: lang-visible top [-e event...] [-p period] [-n number|--all] [-f format]
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show top languages of a quarter",
	Args:  cobra.NoArgs,
	RunE:  runTop,
}

func init() {
	topCmd.Flags().IntVarP(&topNumber, "number", "n", 10, "Number of languages to show")
	topCmd.Flags().BoolVar(&topAll, "all", false, "Show all languages")
	topCmd.MarkFlagsMutuallyExclusive("number", "all")

	topCmd.Flags().StringArrayVarP(&topEvents, "event", "e", nil, "Event type (repeatable, default: config value)")
	topCmd.Flags().StringVarP(&topPeriod, "period", "p", "", "Quarter, e.g. 2024-Q3 (default: latest in each dataset)")
	topCmd.Flags().StringVarP(&topFormat, "format", "f", "table", "Output format: table/json/csv")

	rootCmd.AddCommand(topCmd)
}

// eventRanking 是单个事件的排行榜，用于 JSON 输出。
type eventRanking struct {
	Event dataset.Event `json:"event"`
	stats.LanguageRanking
}

func runTop(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if !topAll && topNumber <= 0 {
		return fmt.Errorf("number must be > 0, got %d", topNumber)
	}

	format := strings.ToLower(strings.TrimSpace(topFormat))
	switch format {
	case "", "table", "json", "csv":
	default:
		return fmt.Errorf("unsupported format %q (supported: table, json, csv)", topFormat)
	}

	names := topEvents
	if len(names) == 0 {
		names = []string{cfg.Event}
	}
	events := make([]dataset.Event, 0, len(names))
	seen := make(map[dataset.Event]struct{}, len(names))
	for _, name := range names {
		e, err := dataset.ParseEvent(name)
		if err != nil {
			return err
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		events = append(events, e)
	}

	var period *stats.Period
	if strings.TrimSpace(topPeriod) != "" {
		p, err := stats.ParsePeriod(topPeriod)
		if err != nil {
			return err
		}
		period = &p
	}

	loaded, loadErr := dataset.LoadEvents(cfg.DataDir, events, cfg.Strict)
	if loadErr != nil {
		if len(loaded) == 0 {
			return loadErr
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", loadErr)
	}

	limit := topNumber
	if topAll {
		limit = 0
	}

	rankings := make([]eventRanking, 0, len(events))
	for _, e := range events {
		records, ok := loaded[e]
		if !ok {
			continue
		}
		idx, ok := resolveQuarter(cmd.ErrOrStderr(), records, period)
		if !ok {
			continue
		}
		rankings = append(rankings, eventRanking{
			Event:           e,
			LanguageRanking: stats.RankLanguages(records, idx, limit),
		})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return writeTopJSON(out, rankings)
	case "csv":
		return writeTopCSV(out, rankings)
	}

	if len(rankings) == 0 {
		fmt.Fprintln(out, "no data found")
		return nil
	}
	for i, r := range rankings {
		if i > 0 {
			fmt.Fprintln(out)
		}
		writeTopTable(out, r)
	}
	return nil
}

func writeTopTable(out io.Writer, r eventRanking) {
	period := stats.Period{Year: r.Year, Quarter: r.Quarter}
	if r.TotalCount == 0 {
		fmt.Fprintf(out, "%s (%s): no activity\n", r.Event.Title(), period)
		return
	}

	nameWidth := len("Language")
	for _, l := range r.Languages {
		nameWidth = max(nameWidth, len(l.Name))
	}

	rankWidth := max(len(fmt.Sprintf("%d", len(r.Languages))), 2)

	countWidth := len("Count")
	countWidth = max(countWidth, len(fmt.Sprintf("%d", r.TotalCount)))

	percentWidth := len("100.0%")

	lineLen := rankWidth + 3 + nameWidth + 1 + countWidth + 1 + percentWidth
	rule := strings.Repeat("─", lineLen)

	fmt.Fprintf(out, "Top %d languages by %s (%s)\n", len(r.Languages), r.Event.Title(), period)
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%*s   %-*s %*s %*s\n", rankWidth, "#", nameWidth, "Language", countWidth, "Count", percentWidth, "%")
	fmt.Fprintln(out, rule)

	for i, l := range r.Languages {
		percentStr := fmt.Sprintf("%.1f%%", l.Percent)
		fmt.Fprintf(out, "%*d   %-*s %*d %*s\n", rankWidth, i+1, nameWidth, l.Name, countWidth, l.Count, percentWidth, percentStr)
	}

	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%*s   %-*s %*d %*s\n", rankWidth, "", nameWidth, "Total", countWidth, r.TotalCount, percentWidth, "100.0%")
}

func writeTopJSON(out io.Writer, rankings []eventRanking) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rankings)
}

func writeTopCSV(out io.Writer, rankings []eventRanking) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"event", "quarter", "rank", "language", "count", "percent"}); err != nil {
		return err
	}
	for _, r := range rankings {
		quarter := chart.QuarterLabel(chart.QuarterIndex(r.Year, r.Quarter))
		for i, l := range r.Languages {
			if err := w.Write([]string{
				string(r.Event),
				quarter,
				fmt.Sprintf("%d", i+1),
				l.Name,
				fmt.Sprintf("%d", l.Count),
				fmt.Sprintf("%.1f", l.Percent),
			}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}
