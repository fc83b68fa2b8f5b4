package dataset

import (
	"fmt"
	"strings"
)

// Event 表示 GitHub 事件类型，决定使用哪个数据文件。
type Event string

const (
	EventPushes       Event = "pushes"
	EventStars        Event = "stars"
	EventIssues       Event = "issues"
	EventPullRequests Event = "pull_requests"
	// EventCommits 是 collect 命令从本地仓库生成的数据。
	EventCommits Event = "commits"
)

// Events 返回所有支持的事件类型。
func Events() []Event {
	return []Event{EventPushes, EventStars, EventIssues, EventPullRequests, EventCommits}
}

// ParseEvent 解析事件名称（大小写不敏感，"-" 等同于 "_"）。
func ParseEvent(s string) (Event, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	for _, e := range Events() {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w %q (supported: pushes, stars, issues, pull_requests, commits)", ErrUnknownEvent, s)
}

// Title 返回事件的显示名称，用作图表标题。
func (e Event) Title() string {
	switch e {
	case EventPushes:
		return "Pushes"
	case EventStars:
		return "Stars"
	case EventIssues:
		return "Issues"
	case EventPullRequests:
		return "Pull Requests"
	case EventCommits:
		return "Commits"
	}
	return string(e)
}
