// Package style 定义字幕样式配置及其校验。
package style

import (
	"fmt"
	"math"
)

// DefaultFont 对应内置的 TikTok Sans 字体链（见 fonts 包）。
const DefaultFont = "tiktok-sans"

// MaxSupersample 限制超采样倍数，避免工作画布占用过多内存。
const MaxSupersample = 8

// Config 是完整的字幕样式参数，按值传递：复制、修改副本后交给合成器。
type Config struct {
	// Font 为字体标识（tiktok-sans、builtin:go-medium 等）或字体文件路径。
	Font string `yaml:"font"`
	// SizeRatio 为字号（像素）与图片宽度之比。
	SizeRatio float64 `yaml:"size_ratio"`
	// FontSizeMin/FontSizeMax 在 1 倍尺度下限制字号，0 表示不限制。
	FontSizeMin int `yaml:"font_size_min"`
	FontSizeMax int `yaml:"font_size_max"`
	// LineHeightRatio 为行盒高度与字号之比。
	LineHeightRatio float64 `yaml:"line_height_ratio"`
	// StrokeWidth 为 1 倍尺度下的描边宽度（像素），渲染时乘以 Supersample。
	StrokeWidth int   `yaml:"stroke_width"`
	StrokeColor Color `yaml:"stroke_color"`
	FillColor   Color `yaml:"fill_color"`
	// MaxWidthRatio 为折行宽度上限与图片宽度之比。
	MaxWidthRatio float64 `yaml:"max_width_ratio"`
	Position      Position `yaml:"position"`
	// AnchorRatio 非零时覆盖 Position.Anchor()。
	AnchorRatio float64 `yaml:"anchor_ratio"`
	Supersample int     `yaml:"supersample"`
	Align       Align   `yaml:"align"`
}

// Default 返回 TikTok 图文轮播的字幕样式（2026 年 1 月逐像素比对）。
func Default() Config {
	return Config{
		Font:            DefaultFont,
		SizeRatio:       0.051,
		LineHeightRatio: 1.06,
		StrokeWidth:     4,
		StrokeColor:     Black,
		FillColor:       White,
		MaxWidthRatio:   0.88,
		Position:        Upper,
		Supersample:     2,
		Align:           AlignCenter,
	}
}

// Validate 校验各字段，返回遇到的第一个 *InvalidStyleError。
func (c Config) Validate() error {
	if c.Font == "" {
		return invalid("font", nil, "must not be empty")
	}
	if !positiveFinite(c.SizeRatio) {
		return invalid("size_ratio", c.SizeRatio, "must be > 0")
	}
	if c.FontSizeMin < 0 {
		return invalid("font_size_min", c.FontSizeMin, "must be >= 0")
	}
	if c.FontSizeMax < 0 {
		return invalid("font_size_max", c.FontSizeMax, "must be >= 0")
	}
	if c.FontSizeMin > 0 && c.FontSizeMax > 0 && c.FontSizeMin > c.FontSizeMax {
		return invalid("font_size_min", c.FontSizeMin, "must not exceed font_size_max")
	}
	if !positiveFinite(c.LineHeightRatio) {
		return invalid("line_height_ratio", c.LineHeightRatio, "must be > 0")
	}
	if c.StrokeWidth < 0 {
		return invalid("stroke_width", c.StrokeWidth, "must be >= 0")
	}
	if !positiveFinite(c.MaxWidthRatio) || c.MaxWidthRatio > 1 {
		return invalid("max_width_ratio", c.MaxWidthRatio, "must be in (0, 1]")
	}
	if c.AnchorRatio != 0 {
		if math.IsNaN(c.AnchorRatio) || c.AnchorRatio < 0 || c.AnchorRatio >= 1 {
			return invalid("anchor_ratio", c.AnchorRatio, "must be in [0, 1)")
		}
	} else if c.Position.Anchor() == 0 {
		return invalid("position", string(c.Position), "expected upper, center or bottom")
	}
	if c.Supersample < 1 || c.Supersample > MaxSupersample {
		return invalid("supersample", c.Supersample, fmt.Sprintf("must be in [1, %d]", MaxSupersample))
	}
	switch c.Align {
	case AlignCenter, AlignLeft, AlignRight:
	default:
		return invalid("align", string(c.Align), "expected left, center or right")
	}
	return nil
}

// Anchor 返回垂直锚点比例：设置了 AnchorRatio 时取之，否则取 Position 的锚点。
func (c Config) Anchor() float64 {
	if c.AnchorRatio != 0 {
		return c.AnchorRatio
	}
	return c.Position.Anchor()
}

// FontPixelSize 返回宽 imageWidth 的图片在超采样画布上的字号（像素）：
// round(imageWidth * Supersample * SizeRatio)。配置了上下限时先对 1 倍字号取整并限制，再乘倍数。
// 结果至少为 1。
func (c Config) FontPixelSize(imageWidth int) int {
	scale := c.scale()
	if c.FontSizeMin == 0 && c.FontSizeMax == 0 {
		return max(int(math.Round(float64(imageWidth*scale)*c.SizeRatio)), 1)
	}
	base := int(math.Round(float64(imageWidth) * c.SizeRatio))
	if c.FontSizeMin > 0 && base < c.FontSizeMin {
		base = c.FontSizeMin
	}
	if c.FontSizeMax > 0 && base > c.FontSizeMax {
		base = c.FontSizeMax
	}
	return max(base, 1) * scale
}

// ScaledStrokeWidth 返回超采样画布上的描边宽度（像素）。
func (c Config) ScaledStrokeWidth() float64 {
	return float64(c.StrokeWidth * c.scale())
}

func (c Config) scale() int {
	if c.Supersample < 1 {
		return 1
	}
	return c.Supersample
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
