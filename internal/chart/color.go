package chart

import (
	_ "embed"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yml
var languagesYAML []byte

// hexColorRe 匹配 #rrggbb 形式的颜色值。
var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsHexColor 判断 s 是否为 #rrggbb 形式的颜色。
func IsHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// languageEntry 对应 languages.yml 中单个语言的条目。
type languageEntry struct {
	Color string `yaml:"color"`
}

// ColorAssigner 为语言分配显示颜色。
// 已知语言使用规范颜色；未知语言每次调用都随机生成一个颜色，
// 因此同一个未知语言在不同的重建中颜色可能不同。
type ColorAssigner struct {
	canonical map[string]string
	intN      func(n int) int
}

// NewColorAssigner 加载内置颜色表，并用 overrides 覆盖（语言名大小写不敏感）。
func NewColorAssigner(overrides map[string]string) (*ColorAssigner, error) {
	entries := make(map[string]languageEntry)
	if err := yaml.Unmarshal(languagesYAML, &entries); err != nil {
		return nil, fmt.Errorf("parse languages.yml: %w", err)
	}

	canonical := make(map[string]string, len(entries)+len(overrides))
	for name, e := range entries {
		if strings.TrimSpace(e.Color) == "" {
			continue
		}
		canonical[colorKey(name)] = e.Color
	}
	for name, color := range overrides {
		color = strings.TrimSpace(color)
		if color == "" {
			continue
		}
		canonical[colorKey(name)] = color
	}

	return &ColorAssigner{
		canonical: canonical,
		intN:      rand.Intn,
	}, nil
}

// Canonical 返回语言的规范颜色。
func (c *ColorAssigner) Canonical(name string) (string, bool) {
	color, ok := c.canonical[colorKey(name)]
	return color, ok
}

// Color 返回语言的显示颜色，没有规范颜色时随机生成。
func (c *ColorAssigner) Color(name string) string {
	if color, ok := c.Canonical(name); ok {
		return color
	}
	return randomColor(c.intN)
}

// randomColor 在 24 位颜色空间中均匀取一个 #rrggbb 颜色。
func randomColor(intN func(n int) int) string {
	return fmt.Sprintf("#%06x", intN(0x1000000))
}

func colorKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
