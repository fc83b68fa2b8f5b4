package chart

import "reflect"

// View 表示序列数值的展示方式。
type View string

const (
	// ViewPercentage 将每个季度换算为占比。
	ViewPercentage View = "percentage"
	// ViewCount 保留原始计数。
	ViewCount View = "count"
)

// ParseView 解析视图名称，空字符串视为 ViewPercentage。
func ParseView(s string) (View, bool) {
	switch View(s) {
	case "", ViewPercentage:
		return ViewPercentage, true
	case ViewCount:
		return ViewCount, true
	}
	return "", false
}

// Input 是一次重建所需的全部输入。
type Input struct {
	Records []RawRecord
	Top     TopNameSet
	// Visible 为显式的可见语言列表，nil 表示使用默认规则。
	Visible []string
	Title   string
	View    View
}

// State 是单个图表实例的记忆单元，只在一次完整的重建结束时更新。
// 零值表示尚未构建过。
type State struct {
	RecordCount int
	Top         TopNameSet
	Categories  []string
	Config      *Configuration
}

// Outcome 描述一次 Reduce 做了什么。
type Outcome struct {
	// Rebuilt 表示是否重新计算了序列。
	Rebuilt bool
	// Changed 表示存储的配置是否被替换。
	Changed bool
}

// Reducer 决定是否需要重建，并组装最终的 Configuration。
type Reducer struct {
	Series *SeriesBuilder
}

// NewReducer 创建 Reducer。
func NewReducer(series *SeriesBuilder) *Reducer {
	return &Reducer{Series: series}
}

// Reduce 根据上一次的状态和新的输入计算新的状态。
// 当记录数与上次相同、TopNameSet 未变化且非空时跳过重建，原样返回 prev。
// 重建后只有在结果与上次的配置结构不同时才替换配置，
// 否则保留原来的 *Configuration，避免下游重复渲染。
func (r *Reducer) Reduce(prev State, in Input) (State, Outcome) {
	if len(in.Records) == prev.RecordCount && in.Top.Equal(prev.Top) && in.Top.Len() > 0 {
		return prev, Outcome{}
	}

	next := State{
		RecordCount: len(in.Records),
		Top:         in.Top,
		Categories:  prev.Categories,
		Config:      prev.Config,
	}
	if next.Categories == nil {
		next.Categories = Categories()
	}

	series := r.Series.Build(in.Records, in.Top, in.Visible)
	if in.View != ViewCount {
		series = Percentage(series)
	}

	cfg := &Configuration{
		Categories: next.Categories,
		Series:     series,
		Title:      in.Title,
	}
	if prev.Config != nil && reflect.DeepEqual(prev.Config, cfg) {
		return next, Outcome{Rebuilt: true}
	}

	next.Config = cfg
	return next, Outcome{Rebuilt: true, Changed: true}
}
