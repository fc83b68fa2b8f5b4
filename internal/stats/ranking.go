package stats

import (
	"sort"

	"lang-visible/internal/chart"
)

// LanguageRank 表示单个语言在排行榜中的统计结果。
type LanguageRank struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// LanguageRanking 表示某个季度的语言排行榜。
type LanguageRanking struct {
	Year       int            `json:"year"`
	Quarter    int            `json:"quarter"`
	Languages  []LanguageRank `json:"languages"`
	TotalCount int            `json:"totalCount"`
}

type percentRemainder struct {
	index     int
	remainder int
	count     int
	name      string
}

// RankLanguages 计算 quarterIndex 对应季度的语言排行榜。
// limit:
//   - limit <= 0: 返回全部语言
//   - limit > 0: 返回 Top N
//
// 排序规则：按 count 倒序；相同 count 时按语言名升序。
// Percent 以 1 位小数输出，并保证所有输出行的百分比之和为 100.0（当 TotalCount > 0）。
func RankLanguages(records []chart.RawRecord, quarterIndex int, limit int) LanguageRanking {
	year, quarter := chart.QuarterOf(quarterIndex)

	totals := make(map[string]int)
	for _, r := range records {
		if r.QuarterIndex != quarterIndex || r.Name == "" {
			continue
		}
		totals[r.Name] += max(r.Count, 0)
	}

	rows := make([]LanguageRank, 0, len(totals))
	for name, count := range totals {
		rows = append(rows, LanguageRank{Name: name, Count: count})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})

	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	totalCount := 0
	for _, r := range rows {
		totalCount += r.Count
	}

	out := LanguageRanking{
		Year:      year,
		Quarter:   quarter,
		Languages: rows,
	}
	if totalCount <= 0 {
		return out
	}

	// 使用 0.1% 作为最小单位，确保显示到 1 位小数时合计为 100.0%。
	// 100.0% == 1000 units。
	const totalUnits = 1000

	units := make([]int, len(rows))
	rems := make([]percentRemainder, 0, len(rows))

	sumUnits := 0
	for i, r := range rows {
		numerator := r.Count * totalUnits
		u := numerator / totalCount
		units[i] = u
		sumUnits += u
		rems = append(rems, percentRemainder{
			index:     i,
			remainder: numerator % totalCount,
			count:     r.Count,
			name:      r.Name,
		})
	}

	left := totalUnits - sumUnits
	if left > 0 {
		sort.Slice(rems, func(i, j int) bool {
			if rems[i].remainder != rems[j].remainder {
				return rems[i].remainder > rems[j].remainder
			}
			if rems[i].count != rems[j].count {
				return rems[i].count > rems[j].count
			}
			return rems[i].name < rems[j].name
		})
		for i := 0; i < left && i < len(rems); i++ {
			units[rems[i].index]++
		}
	}

	for i := range rows {
		rows[i].Percent = float64(units[i]) / 10.0
	}
	out.TotalCount = totalCount
	return out
}

// Names 返回按排名顺序排列的语言名，用于构建 chart.TopNameSet。
func (r LanguageRanking) Names() []string {
	names := make([]string, 0, len(r.Languages))
	for _, l := range r.Languages {
		names = append(names, l.Name)
	}
	return names
}
