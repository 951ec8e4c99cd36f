package style

import "fmt"

// InvalidStyleError 表示无法渲染的配置值，在任何渲染工作开始前返回。
type InvalidStyleError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidStyleError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid style %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid style %s=%v: %s", e.Field, e.Value, e.Reason)
}

func invalid(field string, value any, reason string) *InvalidStyleError {
	return &InvalidStyleError{Field: field, Value: value, Reason: reason}
}
