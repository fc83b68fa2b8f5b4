package dataset

import (
	"errors"
	"fmt"
)

// ErrMissingField 表示记录缺少必需字段，仅在严格模式下返回。
var ErrMissingField = errors.New("missing field")

// ErrUnknownEvent 表示不支持的事件类型。
var ErrUnknownEvent = errors.New("unknown event")

// MissingFieldError 记录缺失字段的位置。
type MissingFieldError struct {
	Index int    // 记录在文件中的下标（从 0 开始）
	Field string // "name", "year", "quarter", "count"
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record %d: missing field %q", e.Index, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}
