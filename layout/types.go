package layout

import "github.com/ByLCY/quotecard/style"

// 该文件定义布局结果，供渲染阶段与调试 JSON 共用。
// 所有坐标均为画布像素，原点在左上角，y 轴向下。

// Result 保存一次渲染所需的全部像素级几何信息，按绘制顺序排列。
// 未启用或无需绘制的图层为 nil。
type Result struct {
	Size       float64    `json:"size"`
	Background Background `json:"background"`
	QuoteMark  *Glyph     `json:"quoteMark,omitempty"`
	Text       *TextBox   `json:"text,omitempty"`
	Separator  *Line      `json:"separator,omitempty"`
	Frame      *Frame     `json:"frame,omitempty"`
}

// Background 记录背景层的滤镜参数；裁剪区域依赖解码后的原图尺寸，见 SquareCrop。
type Background struct {
	Blur float64 `json:"blur"` // 像素
}

// FontSpec 描述一次字体请求：字体族原样保留，字号为像素。
type FontSpec struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Weight int     `json:"weight"` // CSS 数值权重，400 常规，700 粗体
	Italic bool    `json:"italic,omitempty"`
}

// Glyph 是单个居中绘制的字形（引号装饰）。X/Y 为基线上的水平中心点。
type Glyph struct {
	Text    string   `json:"text"`
	Font    FontSpec `json:"font"`
	Color   string   `json:"color"`
	Opacity float64  `json:"opacity"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
}

// TextBox 表示一个已经排好坐标的引文块。
type TextBox struct {
	Font       FontSpec      `json:"font"`
	Color      string        `json:"color"`
	Align      style.Align   `json:"align"`
	X          float64       `json:"x"` // 对齐锚点
	AnchorY    float64       `json:"anchorY"`
	MaxWidth   float64       `json:"maxWidth"`
	LineHeight float64       `json:"lineHeight"`
	Lines      []TextLine    `json:"lines"`
	Shadow     Shadow        `json:"shadow"`
	Outline    *Outline      `json:"outline,omitempty"`
	Debug      *TextBoxDebug `json:"debug,omitempty"`
}

// TextLine 表示折行后的一行。Width 为未去除首尾空白时的测量宽度，
// Content 为去除首尾空白后实际绘制的内容，Y 为基线位置。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Y       float64 `json:"y"`
}

// Shadow 为文字阴影的像素参数。
type Shadow struct {
	Color   string  `json:"color"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
}

// Outline 为文字轮廓描边参数。
type Outline struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// TextBoxDebug holds optional debug info displayed only when enabled by BuildOptions.
type TextBoxDebug struct {
	RawUnits *RawUnits `json:"rawUnits,omitempty"`
}

// RawUnits describes the author-specified units of the percentage fields.
type RawUnits struct {
	FontSize *RawLengthJSON `json:"fontSize,omitempty"`
	Padding  *RawLengthJSON `json:"padding,omitempty"`
	X        *RawLengthJSON `json:"x,omitempty"`
	Y        *RawLengthJSON `json:"y,omitempty"`
}

// RawLengthJSON is a JSON-friendly representation of Length.
type RawLengthJSON struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// LineCap 为线段端点样式。
type LineCap string

const (
	CapButt  LineCap = "butt"
	CapRound LineCap = "round"
)

// Point 为画布上的一个点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line 表示一条线段（分隔线）。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Cap   LineCap `json:"cap"`
}

// Polyline 是一组依次相连的点，Closed 为 true 时首尾闭合。
type Polyline struct {
	Points []Point `json:"points"`
	Closed bool    `json:"closed,omitempty"`
}

// Stroke 是一次描边操作：同一颜色、线宽、虚线与端点样式下的若干子路径。
type Stroke struct {
	Color  string     `json:"color"`
	Width  float64    `json:"width"`
	Dashes []float64  `json:"dashes,omitempty"`
	Cap    LineCap    `json:"cap"`
	Paths  []Polyline `json:"paths"`
}

// Frame 记录边框风格与按顺序执行的描边操作。
type Frame struct {
	Variant style.FrameVariant `json:"variant"`
	Strokes []Stroke           `json:"strokes"`
}
