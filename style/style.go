// Package style 定义引文图片的样式配置模型以及对它的不可变更新操作。
package style

// Default 返回内置的初始样式配置。
func Default() Configuration {
	return Configuration{
		Text: TextStyle{
			FontFamily: "Playfair Display, serif",
			FontSize:   8,
			Color:      "#FFFFFF",
			Align:      AlignCenter,
			Position:   Position{X: 50, Y: 50},
			Shadow:     Shadow{Color: "#00000080", OffsetX: 2, OffsetY: 2, BlurRadius: 4},
			Outline:    Outline{Enabled: false, Color: "#000000", Width: 2},
			Padding:    5,
			QuoteMarks: QuoteMarks{Enabled: true, Color: "#FFFFFF", Size: 20, Opacity: 0.6, Variant: QuoteMarkSimple},
		},
		Frame: FrameStyle{
			Enabled: true,
			Width:   1,
			Color:   "#FFFFFF",
			Variant: FrameSolid,
		},
		Image: ImageStyle{Blur: 0},
		Separator: SeparatorStyle{
			Enabled:   true,
			Color:     "#FFFFFF",
			Width:     30,
			Thickness: 1,
			OffsetY:   25,
		},
	}
}

// WithText 返回以 fn 修改文本样式后的新配置，接收者不受影响。
func (c Configuration) WithText(fn func(TextStyle) TextStyle) Configuration {
	c.Text = fn(c.Text)
	return c
}

// WithFrame 返回以 fn 修改边框样式后的新配置。
func (c Configuration) WithFrame(fn func(FrameStyle) FrameStyle) Configuration {
	c.Frame = fn(c.Frame)
	return c
}

// WithImage 返回以 fn 修改背景图样式后的新配置。
func (c Configuration) WithImage(fn func(ImageStyle) ImageStyle) Configuration {
	c.Image = fn(c.Image)
	return c
}

// WithSeparator 返回以 fn 修改分隔线样式后的新配置。
func (c Configuration) WithSeparator(fn func(SeparatorStyle) SeparatorStyle) Configuration {
	c.Separator = fn(c.Separator)
	return c
}

// WithSuggestion 将设计建议合并进文本样式。
func (c Configuration) WithSuggestion(s Suggestion) Configuration {
	c.Text = s.ApplyTo(c.Text)
	return c
}

// ApplyTo 用建议覆盖字体、字号、颜色、对齐、位置与阴影，其余字段原样保留。
func (s Suggestion) ApplyTo(t TextStyle) TextStyle {
	t.FontFamily = s.FontFamily
	t.FontSize = s.FontSize
	t.Color = s.Color
	t.Align = s.Align
	t.Position = s.Position
	t.Shadow = s.Shadow
	return t
}

// NewTemplate 以给定配置创建模板。
func NewTemplate(name string, cfg Configuration) Template {
	return Template{Name: name, Configuration: cfg}
}
