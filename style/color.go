package style

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color 是不透明的 RGB 颜色。
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
	// CompensatedWhite 为 #F0F0F0，用于补偿部分栅格化结果比平台显示更亮的问题。
	CompensatedWhite = Color{0xF0, 0xF0, 0xF0}
)

// ParseColor 解析 #rgb 与 #rrggbb，前导 '#' 可省略。
func ParseColor(s string) (Color, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return Color{}, invalid("color", s, "empty color")
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	parsed, err := colorful.Hex(v)
	if err != nil {
		return Color{}, invalid("color", s, err.Error())
	}
	r, g, b := parsed.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// NRGBA 转换为不透明的 image 颜色。
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// String 输出 #rrggbb 格式。
func (c Color) String() string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// MarshalText 实现 encoding.TextMarshaler。
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，供 YAML 清单解码使用。
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
