package chart

import (
	"math/rand"
	"slices"
	"sort"
)

// DefaultVisible 是没有可见性过滤时默认显示的序列数量。
const DefaultVisible = 7

// SeriesBuilder 根据原始记录构建图表序列。
type SeriesBuilder struct {
	Colors *ColorAssigner
	// DefaultVisible 为没有可见性过滤时，按迭代顺序默认显示的序列数量。
	DefaultVisible int
}

// NewSeriesBuilder 创建使用默认可见数量的 SeriesBuilder。
func NewSeriesBuilder(colors *ColorAssigner) *SeriesBuilder {
	return &SeriesBuilder{Colors: colors, DefaultVisible: DefaultVisible}
}

type observation struct {
	quarter int
	count   int
}

// Build 构建序列：
//  1. 按语言名分组，保留首次出现的顺序
//  2. 剔除不在 top 中的语言（以及空语言名）
//  3. 分配颜色和可见性：visible 非 nil 时只显示其中列出的语言，否则显示前 DefaultVisible 个
//  4. 每个语言的数据按季度升序排列，最后补零对齐
//
// visible 中不存在的语言会被忽略。
func (b *SeriesBuilder) Build(records []RawRecord, top TopNameSet, visible []string) []Series {
	order := make([]string, 0)
	grouped := make(map[string][]observation)
	for _, r := range records {
		if r.Name == "" || !top.Contains(r.Name) {
			continue
		}
		if _, ok := grouped[r.Name]; !ok {
			order = append(order, r.Name)
		}
		grouped[r.Name] = append(grouped[r.Name], observation{quarter: r.QuarterIndex, count: r.Count})
	}

	series := make([]Series, 0, len(order))
	for i, name := range order {
		obs := grouped[name]
		sort.SliceStable(obs, func(a, c int) bool { return obs[a].quarter < obs[c].quarter })

		data := make([]float64, len(obs))
		for j, o := range obs {
			data[j] = float64(o.count)
		}

		series = append(series, Series{
			Name:    name,
			Color:   b.color(name),
			Visible: b.visible(name, i, visible),
			Data:    data,
		})
	}

	return FillZeros(series)
}

func (b *SeriesBuilder) visible(name string, position int, override []string) bool {
	if override != nil {
		return slices.Contains(override, name)
	}
	return position < b.DefaultVisible
}

func (b *SeriesBuilder) color(name string) string {
	if b.Colors == nil {
		return randomColor(rand.Intn)
	}
	return b.Colors.Color(name)
}
