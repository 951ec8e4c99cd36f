package canvasrenderer

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/slidecap/style"
)

// 默认预览画布：竖版 9:16，中灰背景。
const (
	PreviewWidth  = 1080
	PreviewHeight = 1920
)

// PreviewBackground 是默认背景色。
var PreviewBackground = color.NRGBA{R: 80, G: 80, B: 80, A: 255}

// PreviewOptions 设置预览画布尺寸与背景；零值使用默认值。
type PreviewOptions struct {
	Width      int
	Height     int
	Background color.Color
}

// Preview 在纯色画布上渲染字幕，无需原图即可检查样式。
func (c *Compositor) Preview(text string, cfg style.Config, opts PreviewOptions) (*image.NRGBA, error) {
	if opts.Width <= 0 {
		opts.Width = PreviewWidth
	}
	if opts.Height <= 0 {
		opts.Height = PreviewHeight
	}
	if opts.Background == nil {
		opts.Background = PreviewBackground
	}
	slide := imaging.New(opts.Width, opts.Height, opts.Background)
	return c.Composite(slide, text, cfg)
}
