package stats

import "strings"

// RenderLegend 渲染占比表格的图例。
// 输出包含 ANSI 颜色代码的字符串，可直接输出到终端。
func RenderLegend() string {
	var b strings.Builder

	b.WriteString("Share ")
	b.WriteString(colorEmpty)
	b.WriteString("░░")
	b.WriteString(colorReset)
	b.WriteByte(' ')
	b.WriteString(colorLow)
	b.WriteString("██")
	b.WriteString(colorReset)
	b.WriteByte(' ')
	b.WriteString(colorMedium)
	b.WriteString("██")
	b.WriteString(colorReset)
	b.WriteByte(' ')
	b.WriteString(colorHigh)
	b.WriteString("██")
	b.WriteString(colorReset)
	b.WriteByte('\n')

	b.WriteString("      0  <5% <15% 15%+\n")
	return b.String()
}
