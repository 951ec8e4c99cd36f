package style

import "strings"

// Position 决定字幕块的垂直锚点。
type Position string

const (
	Upper  Position = "upper"
	Center Position = "center"
	Bottom Position = "bottom"
)

// Anchor 返回字幕块顶部所在的图片高度比例。
// 未知位置返回 0，由 Config.Validate 拒绝。
func (p Position) Anchor() float64 {
	switch p {
	case Upper:
		return 0.18
	case Center:
		return 0.5
	case Bottom:
		return 0.82
	default:
		return 0
	}
}

// ParsePosition 解析位置名（不区分大小写），并接受 "top"/"middle" 别名。
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upper", "top":
		return Upper, nil
	case "center", "centre", "middle":
		return Center, nil
	case "bottom":
		return Bottom, nil
	default:
		return "", invalid("position", s, "expected upper, center or bottom")
	}
}

// UnmarshalText 支持从 YAML 与命令行参数解码位置。
func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Align 是每行字幕在画布内的水平对齐方式。
type Align string

const (
	AlignCenter Align = "center"
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
)

// ParseAlign 解析 left/center/right（以及 start/end）。
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "centre", "":
		return AlignCenter, nil
	case "left", "start":
		return AlignLeft, nil
	case "right", "end":
		return AlignRight, nil
	default:
		return "", invalid("align", s, "expected left, center or right")
	}
}

// UnmarshalText 支持从 YAML 解码对齐方式。
func (a *Align) UnmarshalText(text []byte) error {
	parsed, err := ParseAlign(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Offset 返回宽度为 width 的行的 x 坐标。宽为 box 的折行框在容器内居中，
// 左右对齐均相对该框计算。
func (a Align) Offset(container, box, width float64) float64 {
	left := (container - box) / 2
	switch a {
	case AlignLeft:
		return left
	case AlignRight:
		return left + box - width
	default:
		return (container - width) / 2
	}
}
