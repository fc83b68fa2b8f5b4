// Package export 将图表配置导出为 HTML 页面（go-echarts）或 Excel 工作簿（excelize）。
package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"lang-visible/internal/chart"
)

const chartHeight = "600px"

// HTML 将 cfg 渲染为 ECharts 折线图，写入 w。
// 不可见的系列保留在图例中，但初始状态为未选中。
func HTML(w io.Writer, cfg *chart.Configuration, percent bool) error {
	if cfg == nil {
		return fmt.Errorf("nil configuration")
	}

	line := buildLine(cfg, percent)
	if err := line.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func buildLine(cfg *chart.Configuration, percent bool) *charts.Line {
	yName := "count"
	if percent {
		yName = "share"
	}

	selected := make(map[string]bool, len(cfg.Series))
	for _, s := range cfg.Series {
		selected[s.Name] = s.Visible
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: cfg.Title,
			Width:     "100%",
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{Title: cfg.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{
			Show:     opts.Bool(true),
			Type:     "scroll",
			Top:      "bottom",
			Selected: selected,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)

	line.SetXAxis(cfg.Categories)
	for _, s := range cfg.Series {
		data := make([]opts.LineData, len(s.Data))
		for i, v := range s.Data {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.Name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}
	return line
}
