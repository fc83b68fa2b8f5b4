// Package stats 提供语言排行榜、季度参数解析和终端表格渲染。
package stats

import (
	"fmt"
	"strconv"
	"strings"

	"lang-visible/internal/chart"
)

// ANSI 颜色代码常量，用于终端表格渲染。
const (
	colorReset = "\033[0m" // 重置颜色

	colorEmpty  = "\033[38;5;240m" // 灰色 - 无数据
	colorLow    = "\033[38;5;120m" // 浅绿 - 占比 < 5%
	colorMedium = "\033[38;5;76m"  // 中绿 - 占比 5%-15%
	colorHigh   = "\033[38;5;34m"  // 深绿 - 占比 >= 15%
)

const (
	lowShare  = 0.05
	highShare = 0.15
	cellWidth = 8
)

// RenderShareTable 将图表配置渲染为终端表格。
// 行为可见的序列，列为最近 last 个季度（last <= 0 时显示全部）；
// 单元格颜色按该语言在当季所有序列总和中的占比分级。
// percent 为 true 时数值按百分比显示，否则按计数显示。
func RenderShareTable(cfg *chart.Configuration, last int, percent bool) string {
	if cfg == nil || len(cfg.Series) == 0 {
		return ""
	}

	histSize := 0
	for _, s := range cfg.Series {
		histSize = max(histSize, len(s.Data))
	}
	start := 0
	if last > 0 && last < histSize {
		start = histSize - last
	}

	// 当季所有序列（包括不可见的）的总和，用于计算占比。
	totals := make([]float64, histSize)
	for _, s := range cfg.Series {
		for i, v := range s.Data {
			totals[i] += v
		}
	}

	nameWidth := len("Language")
	for _, s := range cfg.Series {
		if s.Visible {
			nameWidth = max(nameWidth, len(s.Name))
		}
	}

	var b strings.Builder
	if cfg.Title != "" {
		b.WriteString(cfg.Title)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "%-*s", nameWidth+2, "Language")
	for i := start; i < histSize; i++ {
		fmt.Fprintf(&b, "%*s", cellWidth, chart.QuarterLabel(i))
	}
	b.WriteByte('\n')

	for _, s := range cfg.Series {
		if !s.Visible {
			continue
		}
		b.WriteString(swatch(s.Color))
		b.WriteByte(' ')
		fmt.Fprintf(&b, "%-*s", nameWidth, s.Name)
		for i := start; i < histSize; i++ {
			v := s.Data[i]
			share := 0.0
			if totals[i] > 0 {
				share = v / totals[i]
			}
			b.WriteString(renderCell(formatValue(v, percent), share))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// renderCell 渲染单个单元格，按占比选择颜色：
//   - 0: 灰色
//   - (0, 5%): 浅绿
//   - [5%, 15%): 中绿
//   - >= 15%: 深绿
func renderCell(text string, share float64) string {
	color := colorEmpty
	switch {
	case share > 0 && share < lowShare:
		color = colorLow
	case share >= lowShare && share < highShare:
		color = colorMedium
	case share >= highShare:
		color = colorHigh
	}
	return color + fmt.Sprintf("%*s", cellWidth, text) + colorReset
}

func formatValue(v float64, percent bool) string {
	if percent {
		return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// swatch 用序列颜色渲染一个色块；颜色不是 #rrggbb 时使用默认颜色。
func swatch(color string) string {
	if !chart.IsHexColor(color) {
		return "■"
	}
	r, _ := strconv.ParseUint(color[1:3], 16, 8)
	g, _ := strconv.ParseUint(color[3:5], 16, 8)
	bl, _ := strconv.ParseUint(color[5:7], 16, 8)
	return fmt.Sprintf("\033[38;2;%d;%d;%dm■%s", r, g, bl, colorReset)
}
