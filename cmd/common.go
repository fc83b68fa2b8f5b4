package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"

	"lang-visible/internal/chart"
	"lang-visible/internal/config"
	"lang-visible/internal/dataset"
	"lang-visible/internal/stats"
)

var errNoRepositoriesAdded = errors.New("no repositories added")

// chartOptions 是 chart 命令在命令行上收到的原始选择。
type chartOptions struct {
	Event  string
	Period string
	Route  string
	Lang   string
	View   string
}

// RunContext 保存 chart 类命令公共初始化的结果。
type RunContext struct {
	Config *config.Config
	Event  dataset.Event
	Path   string
	View   chart.View
	// Period 为 nil 表示使用数据中最新的季度。
	Period *stats.Period
	// Languages 为 nil 表示使用默认的可见规则。
	Languages []string
	Reducer   *chart.Reducer
}

// prepareRun 执行公共初始化：加载配置，解析路由与标志，定位数据文件，构造 Reducer。
// 命令行标志优先于路由，路由优先于配置。
func prepareRun(o chartOptions) (*RunContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var route stats.Route
	if strings.TrimSpace(o.Route) != "" {
		route, err = stats.ParseRoute(o.Route)
		if err != nil {
			return nil, err
		}
	}

	eventName := firstNonEmpty(o.Event, route.Event, cfg.Event)
	event, err := dataset.ParseEvent(eventName)
	if err != nil {
		return nil, err
	}

	view, ok := chart.ParseView(strings.ToLower(firstNonEmpty(o.View, cfg.View)))
	if !ok {
		return nil, fmt.Errorf("unsupported view %q (supported: percentage, count)", o.View)
	}

	var period *stats.Period
	switch {
	case strings.TrimSpace(o.Period) != "":
		p, err := stats.ParsePeriod(o.Period)
		if err != nil {
			return nil, err
		}
		period = &p
	case route.Period.Year != 0:
		p := route.Period
		period = &p
	}

	languages := stats.SplitLanguages(o.Lang)
	if languages == nil {
		languages = route.Languages
	}

	path, err := dataset.FindFile(cfg.DataDir, event)
	if err != nil {
		return nil, err
	}

	colors, err := chart.NewColorAssigner(cfg.Colors)
	if err != nil {
		return nil, err
	}
	builder := chart.NewSeriesBuilder(colors)
	builder.DefaultVisible = cfg.Visible

	log.WithFields(log.Fields{
		"event": event,
		"file":  path,
		"view":  view,
	}).Debug("chart prepared")

	return &RunContext{
		Config:    cfg,
		Event:     event,
		Path:      path,
		View:      view,
		Period:    period,
		Languages: languages,
		Reducer:   chart.NewReducer(builder),
	}, nil
}

// resolveQuarter 返回排行使用的季度下标。
// 未指定季度时取数据中最新的季度；指定的季度晚于最新数据时回退到最新季度并给出警告。
func resolveQuarter(errOut io.Writer, records []chart.RawRecord, period *stats.Period) (int, bool) {
	year, quarter, ok := dataset.MaxDate(records)
	if !ok {
		return 0, false
	}
	latest := chart.QuarterIndex(year, quarter)
	if period == nil {
		return latest, true
	}

	idx := chart.QuarterIndex(period.Year, period.Quarter)
	if idx > latest {
		fmt.Fprintf(errOut, "warning: no data after %s, using it instead of %s\n",
			stats.Period{Year: year, Quarter: quarter}, period)
		return latest, true
	}
	return idx, true
}

// buildInput 按选中的季度排名并组装 Reducer 的输入。
func (rc *RunContext) buildInput(errOut io.Writer, records []chart.RawRecord) chart.Input {
	in := chart.Input{
		Records: records,
		Visible: rc.Languages,
		Title:   rc.Event.Title(),
		View:    rc.View,
	}

	idx, ok := resolveQuarter(errOut, records, rc.Period)
	if !ok {
		return in
	}
	ranking := stats.RankLanguages(records, idx, rc.Config.Top)
	in.Top = chart.NewTopNameSet(ranking.Names())
	return in
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
