package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/quotecard/style"
)

const (
	// lineHeightFactor 为行高相对字号的倍数。
	lineHeightFactor = 1.2
	// quoteMarkBaseline 为引号基线相对引号字号的位置。
	quoteMarkBaseline = 0.8
	// cornerLengthPercent 为 corners 边框每条臂长占画布宽度的百分比。
	cornerLengthPercent = 10
	// grooveShade 为 groove 边框暗/亮两色的明度调整百分比。
	grooveShade = 20
)

// OpeningQuote 是引号装饰绘制的字形。
const OpeningQuote = "“"

// quoteMarkFonts 为每种引号风格固定的字体族、粗细与斜体组合。
var quoteMarkFonts = map[style.QuoteMarkVariant]FontSpec{
	style.QuoteMarkSimple: {Family: "Playfair Display, serif", Weight: 700, Italic: true},
	style.QuoteMarkBold:   {Family: "Montserrat, sans-serif", Weight: 900, Italic: true},
	style.QuoteMarkOrnate: {Family: "Lobster, cursive", Weight: 700, Italic: true},
}

// Build 根据样式配置与引文计算边长为 size 的正方形画布上各图层的像素几何。
// 百分比字段在此时才按画布尺寸换算，同一配置在不同尺寸下只做等比缩放。
func Build(quote string, cfg style.Configuration, size float64, opts BuildOptions) (*Result, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("layout: 画布尺寸必须为正数，当前为 %g", size)
	}
	if quote != "" && opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}

	text, err := buildText(quote, cfg.Text, size, size, opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Size:       size,
		Background: Background{Blur: math.Max(cfg.Image.Blur, 0)},
		QuoteMark:  buildQuoteMark(quote, cfg.Text.QuoteMarks, size),
		Text:       text,
		Separator:  buildSeparator(cfg.Separator, size, size),
		Frame:      buildFrame(cfg.Frame, size, size),
	}, nil
}

// SquareCrop 返回源图中心的最大正方形区域：边长为宽高较小者，剩余部分两侧均分。
func SquareCrop(srcWidth, srcHeight int) (x, y, side int) {
	side = min(srcWidth, srcHeight)
	return (srcWidth - side) / 2, (srcHeight - side) / 2, side
}

func buildQuoteMark(quote string, qm style.QuoteMarks, width float64) *Glyph {
	if !qm.Enabled || quote == "" {
		return nil
	}
	markSize := Percent(qm.Size, width)
	if markSize <= 0 {
		return nil
	}
	font, ok := quoteMarkFonts[qm.Variant]
	if !ok {
		font = quoteMarkFonts[style.QuoteMarkSimple]
	}
	font.Size = markSize
	return &Glyph{
		Text:    OpeningQuote,
		Font:    font,
		Color:   qm.Color,
		Opacity: clamp01(qm.Opacity),
		X:       width / 2,
		Y:       markSize * quoteMarkBaseline,
	}
}

func buildText(quote string, ts style.TextStyle, width, height float64, opts BuildOptions) (*TextBox, error) {
	if quote == "" {
		return nil, nil
	}
	font := FontSpec{
		Family: ts.FontFamily,
		Size:   Percent(ts.FontSize, width),
		Weight: 400,
	}
	maxWidth := width - 2*Percent(ts.Padding, width)

	lines, err := opts.Typesetter.LayoutLines(quote, maxWidth, font)
	if err != nil {
		return nil, fmt.Errorf("layout: 文本折行失败: %w", err)
	}
	if len(lines) == 0 {
		lines = []TextLine{{}}
	}

	// 以锚点 y 为中心垂直居中整个行块
	lineHeight := font.Size * lineHeightFactor
	anchorY := Percent(ts.Position.Y, height)
	startY := anchorY - float64(len(lines)-1)*lineHeight/2
	for i := range lines {
		lines[i].Y = startY + float64(i)*lineHeight
	}

	align := ts.Align
	if !align.Valid() {
		align = style.AlignLeft
	}
	tb := &TextBox{
		Font:       font,
		Color:      ts.Color,
		Align:      align,
		X:          Percent(ts.Position.X, width),
		AnchorY:    anchorY,
		MaxWidth:   maxWidth,
		LineHeight: lineHeight,
		Lines:      lines,
		Shadow: Shadow{
			Color:   ts.Shadow.Color,
			OffsetX: ts.Shadow.OffsetX,
			OffsetY: ts.Shadow.OffsetY,
			Blur:    math.Max(ts.Shadow.BlurRadius, 0),
		},
	}
	if ts.Outline.Enabled && ts.Outline.Width > 0 {
		tb.Outline = &Outline{Color: ts.Outline.Color, Width: ts.Outline.Width}
	}
	if opts.Debug.RawUnits {
		tb.Debug = &TextBoxDebug{RawUnits: &RawUnits{
			FontSize: Length{Value: ts.FontSize, Unit: UnitPercent}.JSON(),
			Padding:  Length{Value: ts.Padding, Unit: UnitPercent}.JSON(),
			X:        Length{Value: ts.Position.X, Unit: UnitPercent}.JSON(),
			Y:        Length{Value: ts.Position.Y, Unit: UnitPercent}.JSON(),
		}}
	}
	return tb, nil
}

func buildSeparator(sep style.SeparatorStyle, width, height float64) *Line {
	if !sep.Enabled {
		return nil
	}
	lineWidth := Percent(sep.Width, width)
	if lineWidth <= 0 || sep.Thickness <= 0 {
		return nil
	}
	y := height/2 + Percent(sep.OffsetY, height)
	x1 := (width - lineWidth) / 2
	return &Line{
		X1:    x1,
		Y1:    y,
		X2:    x1 + lineWidth,
		Y2:    y,
		Color: sep.Color,
		Width: sep.Thickness,
		Cap:   CapRound,
	}
}

func buildFrame(fs style.FrameStyle, width, height float64) *Frame {
	if !fs.Enabled {
		return nil
	}
	fw := Percent(fs.Width, width)
	if fw <= 0 {
		return nil
	}

	solid := func(dashes []float64, capStyle LineCap) []Stroke {
		return []Stroke{{
			Color:  fs.Color,
			Width:  fw,
			Dashes: dashes,
			Cap:    capStyle,
			Paths:  []Polyline{rectPath(fw/2, fw/2, width-fw, height-fw)},
		}}
	}

	frame := &Frame{Variant: fs.Variant}
	switch fs.Variant {
	case style.FrameDashed:
		frame.Strokes = solid([]float64{fw * 2, fw * 1.5}, CapButt)
	case style.FrameDotted:
		frame.Strokes = solid([]float64{1, fw * 2}, CapRound)
	case style.FrameDouble:
		outer := fw * 2 / 5
		gap := fw / 5
		offset := outer + gap
		frame.Strokes = []Stroke{{
			Color: fs.Color,
			Width: outer,
			Cap:   CapButt,
			Paths: []Polyline{
				rectPath(outer/2, outer/2, width-outer, height-outer),
				rectPath(offset+outer/2, offset+outer/2, width-2*offset-outer, height-2*offset-outer),
			},
		}}
	case style.FrameGroove:
		gw := fw / 2
		frame.Strokes = []Stroke{
			{
				Color: style.ShadeColor(fs.Color, -grooveShade),
				Width: gw,
				Cap:   CapButt,
				Paths: []Polyline{rectPath(gw/2, gw/2, width-gw, height-gw)},
			},
			{
				Color: style.ShadeColor(fs.Color, grooveShade),
				Width: gw,
				Cap:   CapButt,
				Paths: []Polyline{rectPath(gw/2+gw, gw/2+gw, width-3*gw, height-3*gw)},
			},
		}
	case style.FrameCorners:
		frame.Strokes = []Stroke{{
			Color: fs.Color,
			Width: fw,
			Cap:   CapButt,
			Paths: cornerPaths(width, height, Percent(cornerLengthPercent, width), fw/2),
		}}
	default:
		frame.Variant = style.FrameSolid
		frame.Strokes = solid(nil, CapButt)
	}
	return frame
}

// rectPath 返回左上角 (x,y)、宽 w、高 h 的闭合矩形路径。
func rectPath(x, y, w, h float64) Polyline {
	return Polyline{
		Points: []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}},
		Closed: true,
	}
}

// cornerPaths 返回四个 L 形角标，每条臂长 length，距边缘 inset。
func cornerPaths(width, height, length, inset float64) []Polyline {
	l, t := inset, inset
	r, b := width-inset, height-inset
	return []Polyline{
		{Points: []Point{{l, t + length}, {l, t}, {l + length, t}}},
		{Points: []Point{{r - length, t}, {r, t}, {r, t + length}}},
		{Points: []Point{{l, b - length}, {l, b}, {l + length, b}}},
		{Points: []Point{{r - length, b}, {r, b}, {r, b - length}}},
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(v, 1))
}
