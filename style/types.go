package style

// 该文件定义样式配置的数据模型，供布局计算、渲染、模板与建议服务共用。
// 与分辨率无关的坐标和尺寸一律以画布宽/高的百分比保存；描边粗细、阴影偏移、
// 轮廓宽度与模糊半径以像素保存。渲染时才根据当前画布尺寸换算为像素。

// Align 表示文本水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Valid 判断对齐方式是否为 left/center/right 之一。
func (a Align) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	default:
		return false
	}
}

// QuoteMarkVariant 是引号装饰的字形风格。
type QuoteMarkVariant string

const (
	QuoteMarkSimple QuoteMarkVariant = "simple"
	QuoteMarkBold   QuoteMarkVariant = "bold"
	QuoteMarkOrnate QuoteMarkVariant = "ornate"
)

// FrameVariant 是边框的描边风格。
type FrameVariant string

const (
	FrameSolid   FrameVariant = "solid"
	FrameDashed  FrameVariant = "dashed"
	FrameDotted  FrameVariant = "dotted"
	FrameDouble  FrameVariant = "double"
	FrameGroove  FrameVariant = "groove"
	FrameCorners FrameVariant = "corners"
)

// FrameVariants 按固定顺序列出全部边框风格。
var FrameVariants = []FrameVariant{FrameSolid, FrameDashed, FrameDotted, FrameDouble, FrameGroove, FrameCorners}

// Valid 判断是否为已知的边框风格。
func (v FrameVariant) Valid() bool {
	for _, known := range FrameVariants {
		if v == known {
			return true
		}
	}
	return false
}

// Position 为锚点位置（x、y 分别为画布宽、高的百分比）。
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shadow 描述文字阴影，偏移与模糊半径单位为像素。
type Shadow struct {
	Color      string  `json:"color"`
	OffsetX    float64 `json:"offsetX"`
	OffsetY    float64 `json:"offsetY"`
	BlurRadius float64 `json:"blurRadius"`
}

// Outline 描述文字轮廓，Width 单位为像素。
type Outline struct {
	Enabled bool    `json:"enabled"`
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
}

// QuoteMarks 描述顶部引号装饰。
type QuoteMarks struct {
	Enabled bool             `json:"enabled"`
	Color   string           `json:"color"`
	Size    float64          `json:"size"`    // 画布宽度百分比
	Opacity float64          `json:"opacity"` // 0..1
	Variant QuoteMarkVariant `json:"style"`
}

// TextStyle 描述引文的排版样式。
type TextStyle struct {
	FontFamily string     `json:"fontFamily"` // 原样传给字体解析，可包含逗号分隔的后备字体
	FontSize   float64    `json:"fontSize"`   // 画布宽度百分比
	Color      string     `json:"color"`
	Align      Align      `json:"textAlign"`
	Position   Position   `json:"position"`
	Shadow     Shadow     `json:"textShadow"`
	Outline    Outline    `json:"outline"`
	Padding    float64    `json:"padding"` // 画布宽度百分比，约束最大行宽
	QuoteMarks QuoteMarks `json:"quoteMarks"`
}

// FrameStyle 描述整幅画布的边框。
type FrameStyle struct {
	Enabled bool         `json:"enabled"`
	Width   float64      `json:"width"` // 画布宽度百分比
	Color   string       `json:"color"`
	Variant FrameVariant `json:"style"`
}

// ImageStyle 描述背景图处理参数。
type ImageStyle struct {
	Blur float64 `json:"blur"` // 像素，0 表示不模糊
}

// SeparatorStyle 描述画布中部的分隔线。
type SeparatorStyle struct {
	Enabled   bool    `json:"enabled"`
	Color     string  `json:"color"`
	Width     float64 `json:"width"`     // 画布宽度百分比
	Thickness float64 `json:"thickness"` // 像素
	OffsetY   float64 `json:"offsetY"`   // 相对画布中心的偏移，画布高度百分比，可为负
}

// Configuration 是一次渲染所用的完整样式快照。
// 所有字段均为值类型，复制即得到互不影响的副本。
type Configuration struct {
	Text      TextStyle      `json:"textOptions"`
	Frame     FrameStyle     `json:"frameOptions"`
	Image     ImageStyle     `json:"imageOptions"`
	Separator SeparatorStyle `json:"separatorLineOptions"`
}

// Template 是带名字的完整样式配置，应用时整体替换当前配置。
type Template struct {
	Name string `json:"name"`
	Configuration
}

// Suggestion 是设计建议服务返回的部分文本样式。
// 合并时只覆盖这里列出的字段，outline/padding/quoteMarks 保持不变。
type Suggestion struct {
	FontFamily string   `json:"fontFamily"`
	FontSize   float64  `json:"fontSize"`
	Color      string   `json:"color"`
	Align      Align    `json:"textAlign"`
	Position   Position `json:"position"`
	Shadow     Shadow   `json:"textShadow"`
}
