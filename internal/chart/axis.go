package chart

import "strconv"

const (
	// EpochYear 是横轴的起始年份（包含）。
	EpochYear = 2012
	// AxisEndYear 是横轴的结束年份（不包含）。
	AxisEndYear = 2050
)

// Categories 生成横轴的季度标签。
// 每年占 4 个位置，只有 Q1 显示年份，其余三个季度为空字符串；
// 最后丢弃第一个位置，使下标 0 对应 2012 年 Q2（历史数据的起点）。
func Categories() []string {
	out := make([]string, 0, (AxisEndYear-EpochYear)*4)
	for y := EpochYear; y < AxisEndYear; y++ {
		for q := 1; q <= 4; q++ {
			if q == 1 {
				out = append(out, strconv.Itoa(y))
				continue
			}
			out = append(out, "")
		}
	}
	return out[1:]
}

// QuarterIndex 返回 year 年第 quarter 季度在横轴上的下标。
// 2012 年 Q2 为 0，2012 年 Q1 为 -1。
func QuarterIndex(year, quarter int) int {
	return (year-EpochYear)*4 + (quarter - 1) - 1
}

// QuarterOf 是 QuarterIndex 的逆运算。
func QuarterOf(index int) (year, quarter int) {
	slot := index + 1
	year = EpochYear + floorDiv(slot, 4)
	quarter = slot - floorDiv(slot, 4)*4 + 1
	return year, quarter
}

// QuarterLabel 返回形如 "2024/Q3" 的季度标签。
func QuarterLabel(index int) string {
	y, q := QuarterOf(index)
	return strconv.Itoa(y) + "/Q" + strconv.Itoa(q)
}

func floorDiv(a, b int) int {
	d := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		d--
	}
	return d
}
