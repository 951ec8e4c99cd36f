package layout

// 该文件定义字幕排版结果，供合成器、调试 JSON 与测试共用。
// 所有坐标与尺寸均为超采样画布上的像素（左上角为原点，y 向下）。

// Block 保存一段字幕排版后的几何信息。
type Block struct {
	CanvasWidth  int     `json:"canvasWidth"`
	CanvasHeight int     `json:"canvasHeight"`
	Scale        int     `json:"scale"`
	FontSize     int     `json:"fontSize"`   // 字号（像素）
	MaxWidth     float64 `json:"maxWidth"`   // 折行宽度上限
	LineHeight   float64 `json:"lineHeight"` // 行盒高度 = 字号 × 行高比例
	Top          float64 `json:"top"`        // 文本块顶部 = 画布高度 × 锚点比例
	Lines        []Line  `json:"lines"`
}

// Line 表示排版后的一行文本内容及其位置。
type Line struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	X       float64 `json:"x"` // 行左边界
	Y       float64 `json:"y"` // 行盒顶部
}

// Height 返回整个文本块的高度（行盒高度 × 行数）。
func (b *Block) Height() float64 {
	if b == nil {
		return 0
	}
	return b.LineHeight * float64(len(b.Lines))
}

// Bottom 返回文本块底部的 y 坐标。
func (b *Block) Bottom() float64 {
	if b == nil {
		return 0
	}
	return b.Top + b.Height()
}
