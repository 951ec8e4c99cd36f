package layout

// Measurer 测量一段文本在当前字体与字号下的宽度（像素）。
// *canvas.FontFace 直接满足该接口；测试中使用按字符计宽的桩实现。
type Measurer interface {
	TextWidth(s string) float64
}

// MeasureFunc 让普通函数满足 Measurer。
type MeasureFunc func(s string) float64

// TextWidth implements Measurer.
func (f MeasureFunc) TextWidth(s string) float64 { return f(s) }
