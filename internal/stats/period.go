package stats

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Period 表示一个季度。
type Period struct {
	Year    int
	Quarter int
}

// String 返回形如 "2024-Q3" 的季度表示。
func (p Period) String() string {
	return fmt.Sprintf("%d-Q%d", p.Year, p.Quarter)
}

// ParsePeriod 解析季度参数，支持：
//   - YYYY-QN / YYYY/QN: 如 2024-Q3
//   - YYYY-N / YYYY/N: 如 2024/3
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Period{}, fmt.Errorf("period is empty")
	}

	sep := strings.IndexAny(s, "-/")
	if sep < 0 {
		return Period{}, fmt.Errorf("invalid period %q (expected YYYY-QN or YYYY/N)", s)
	}

	yearStr := s[:sep]
	rest := strings.TrimPrefix(strings.TrimPrefix(s[sep+1:], "Q"), "q")

	if len(yearStr) != 4 || !isDigits(yearStr) {
		return Period{}, fmt.Errorf("invalid period %q: invalid year", s)
	}
	year, _ := strconv.Atoi(yearStr)

	if len(rest) != 1 || !isDigits(rest) {
		return Period{}, fmt.Errorf("invalid period %q (expected YYYY-QN or YYYY/N)", s)
	}
	quarter := int(rest[0] - '0')
	if quarter < 1 || quarter > 4 {
		return Period{}, fmt.Errorf("invalid period %q: quarter must be Q1-Q4", s)
	}

	return Period{Year: year, Quarter: quarter}, nil
}

// Route 是路由层传入的选择：/event/year/quarter/lang1,lang2。
// 缺失的部分为零值；Languages 为 nil 表示没有语言过滤。
type Route struct {
	Event     string
	Period    Period
	Languages []string
}

// ParseRoute 解析形如 "/pull_requests/2024/3/Go,Rust" 的路由。
// year 与 quarter 必须同时出现。
func ParseRoute(s string) (Route, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(s), "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return Route{}, fmt.Errorf("route is empty")
	}
	if len(parts) == 2 || len(parts) > 4 {
		return Route{}, fmt.Errorf("invalid route %q (expected /event[/year/quarter[/lang,...]])", s)
	}

	r := Route{Event: parts[0]}
	if len(parts) >= 3 {
		p, err := ParsePeriod(parts[1] + "/" + parts[2])
		if err != nil {
			return Route{}, fmt.Errorf("invalid route %q: %w", s, err)
		}
		r.Period = p
	}
	if len(parts) == 4 {
		langs := parts[3]
		if unescaped, err := url.PathUnescape(langs); err == nil {
			langs = unescaped
		}
		r.Languages = SplitLanguages(langs)
	}
	return r, nil
}

// SplitLanguages 将逗号分隔的语言过滤字符串拆分为列表。
// 空字符串返回 nil，表示没有过滤。
func SplitLanguages(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	out := make([]string, 0, strings.Count(s, ",")+1)
	for _, lang := range strings.Split(s, ",") {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		out = append(out, lang)
	}
	return out
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
