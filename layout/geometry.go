package layout

import (
	"fmt"

	"github.com/ByLCY/slidecap/style"
)

// Build 计算字幕在超采样画布上的排版：字号、折行、行盒高度、锚点与每行的水平位置。
// width/height 为原图尺寸；m 必须是按 cfg.FontPixelSize(width) 字号测量的度量器。
// cfg 由调用方先行校验。
func Build(width, height int, text string, cfg style.Config, m Measurer) (*Block, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %dx%d", width, height)
	}
	if m == nil {
		return nil, fmt.Errorf("measurer must not be nil")
	}

	scale := cfg.Supersample
	if scale < 1 {
		scale = 1
	}
	block := &Block{
		CanvasWidth:  width * scale,
		CanvasHeight: height * scale,
		Scale:        scale,
		FontSize:     cfg.FontPixelSize(width),
	}
	block.MaxWidth = float64(block.CanvasWidth) * cfg.MaxWidthRatio
	block.LineHeight = float64(block.FontSize) * cfg.LineHeightRatio
	block.Top = float64(block.CanvasHeight) * cfg.Anchor()

	block.Lines = Wrap(text, block.MaxWidth, m)
	container := float64(block.CanvasWidth)
	for i := range block.Lines {
		line := &block.Lines[i]
		line.Height = block.LineHeight
		line.X = cfg.Align.Offset(container, block.MaxWidth, line.Width)
		line.Y = block.Top + float64(i)*block.LineHeight
	}
	return block, nil
}
