package style

// Overrides 是部分配置，nil 字段保持基础值不变。
// YAML 清单与命令行参数均使用这一结构。
type Overrides struct {
	Font            *string   `yaml:"font"`
	SizeRatio       *float64  `yaml:"size_ratio"`
	FontSizeMin     *int      `yaml:"font_size_min"`
	FontSizeMax     *int      `yaml:"font_size_max"`
	LineHeightRatio *float64  `yaml:"line_height_ratio"`
	StrokeWidth     *int      `yaml:"stroke_width"`
	StrokeColor     *Color    `yaml:"stroke_color"`
	FillColor       *Color    `yaml:"fill_color"`
	MaxWidthRatio   *float64  `yaml:"max_width_ratio"`
	Position        *Position `yaml:"position"`
	AnchorRatio     *float64  `yaml:"anchor_ratio"`
	Supersample     *int      `yaml:"supersample"`
	Align           *Align    `yaml:"align"`
}

// Apply 返回应用了所有非 nil 覆盖项的 base。
func (o Overrides) Apply(base Config) Config {
	out := base
	if o.Font != nil {
		out.Font = *o.Font
	}
	if o.SizeRatio != nil {
		out.SizeRatio = *o.SizeRatio
	}
	if o.FontSizeMin != nil {
		out.FontSizeMin = *o.FontSizeMin
	}
	if o.FontSizeMax != nil {
		out.FontSizeMax = *o.FontSizeMax
	}
	if o.LineHeightRatio != nil {
		out.LineHeightRatio = *o.LineHeightRatio
	}
	if o.StrokeWidth != nil {
		out.StrokeWidth = *o.StrokeWidth
	}
	if o.StrokeColor != nil {
		out.StrokeColor = *o.StrokeColor
	}
	if o.FillColor != nil {
		out.FillColor = *o.FillColor
	}
	if o.MaxWidthRatio != nil {
		out.MaxWidthRatio = *o.MaxWidthRatio
	}
	if o.Position != nil {
		out.Position = *o.Position
		// 新的位置取代从基础配置继承的锚点
		if o.AnchorRatio == nil {
			out.AnchorRatio = 0
		}
	}
	if o.AnchorRatio != nil {
		out.AnchorRatio = *o.AnchorRatio
	}
	if o.Supersample != nil {
		out.Supersample = *o.Supersample
	}
	if o.Align != nil {
		out.Align = *o.Align
	}
	return out
}
