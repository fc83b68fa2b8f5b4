package chart

import (
	"slices"
	"sort"
)

// MaxTopNames 是 TopNameSet 的容量上限。
const MaxTopNames = 50

// RawRecord 表示某个语言在某个季度的一次观测。
type RawRecord struct {
	Name         string `json:"name"`
	Count        int    `json:"count"`
	QuarterIndex int    `json:"quarter_index"`
}

// Series 是交给渲染器的一条数据序列。
type Series struct {
	Name    string    `json:"name"`
	Color   string    `json:"color"`
	Visible bool      `json:"visible"`
	Data    []float64 `json:"data"`
}

// Configuration 是流水线的最终产物，渲染器将其视为不透明配置。
type Configuration struct {
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
	Title      string   `json:"title"`
}

// TopNameSet 是按字母序排列、最多 MaxTopNames 个的语言名集合，用作成员过滤。
type TopNameSet struct {
	names []string
	index map[string]struct{}
}

// NewTopNameSet 取排名前 MaxTopNames 的语言名，去重后按字母序排列。
func NewTopNameSet(ranked []string) TopNameSet {
	if len(ranked) > MaxTopNames {
		ranked = ranked[:MaxTopNames]
	}

	names := make([]string, 0, len(ranked))
	index := make(map[string]struct{}, len(ranked))
	for _, name := range ranked {
		if name == "" {
			continue
		}
		if _, ok := index[name]; ok {
			continue
		}
		index[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	return TopNameSet{names: names, index: index}
}

// Contains 判断 name 是否在集合中。
func (s TopNameSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len 返回集合大小。
func (s TopNameSet) Len() int {
	return len(s.names)
}

// Names 返回按字母序排列的语言名副本。
func (s TopNameSet) Names() []string {
	return slices.Clone(s.names)
}

// Equal 判断两个集合是否包含相同的语言名。
func (s TopNameSet) Equal(other TopNameSet) bool {
	return slices.Equal(s.names, other.names)
}
