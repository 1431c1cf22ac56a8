package template

import "github.com/ByLCY/quotecard/style"

// 内置模板名。
const (
	MidnightSerenity  = "Midnight Serenity"
	AuthorsTouch      = "Author's Touch"
	UrbanExplorer     = "Urban Explorer"
	MinimalistWhisper = "Minimalist Whisper"
	PoeticDream       = "Poetic Dream"
)

var noShadow = style.Shadow{Color: style.Transparent}

// Builtin 返回五个内置模板，每个都是在默认配置之上修改得到的完整配置。
func Builtin() []style.Template {
	base := style.Default()
	return []style.Template{
		style.NewTemplate(MidnightSerenity, base.
			WithText(func(t style.TextStyle) style.TextStyle {
				t.FontFamily = "Playfair Display, serif"
				t.Color = "#FFFFFF"
				t.Shadow = style.Shadow{Color: "#000000", OffsetX: 1, OffsetY: 1, BlurRadius: 3}
				t.QuoteMarks.Enabled = true
				t.QuoteMarks.Size = 20
				t.QuoteMarks.Opacity = 0.7
				t.QuoteMarks.Variant = style.QuoteMarkSimple
				return t
			}).
			WithFrame(disableFrame).
			WithImage(blur(0)).
			WithSeparator(func(s style.SeparatorStyle) style.SeparatorStyle {
				s.Enabled = true
				s.OffsetY = 30
				s.Width = 25
				s.Thickness = 1
				return s
			})),
		style.NewTemplate(AuthorsTouch, base.
			WithText(func(t style.TextStyle) style.TextStyle {
				t.FontFamily = "Georgia, serif"
				t.FontSize = 7
				t.Color = "#2d2d2d"
				t.Align = style.AlignLeft
				t.Position = style.Position{X: 15, Y: 50}
				t.Padding = 10
				t.Shadow = noShadow
				t.QuoteMarks.Enabled = false
				t.QuoteMarks.Variant = style.QuoteMarkSimple
				return t
			}).
			WithFrame(disableFrame).
			WithImage(blur(0)).
			WithSeparator(func(s style.SeparatorStyle) style.SeparatorStyle {
				s.Enabled = true
				s.Color = "#2d2d2d"
				s.Width = 15
				s.OffsetY = 20
				return s
			})),
		style.NewTemplate(UrbanExplorer, base.
			WithText(func(t style.TextStyle) style.TextStyle {
				t.FontFamily = "Oswald, sans-serif"
				t.FontSize = 12
				t.Color = "#FFFFFF"
				t.Shadow = style.Shadow{Color: "#000000", OffsetX: 2, OffsetY: 2, BlurRadius: 3}
				t.QuoteMarks.Enabled = false
				t.QuoteMarks.Variant = style.QuoteMarkBold
				return t
			}).
			WithFrame(func(f style.FrameStyle) style.FrameStyle {
				f.Enabled = true
				f.Variant = style.FrameCorners
				f.Width = 1
				f.Color = "#FFFFFF"
				return f
			}).
			WithImage(blur(1)).
			WithSeparator(disableSeparator)),
		style.NewTemplate(MinimalistWhisper, base.
			WithText(func(t style.TextStyle) style.TextStyle {
				t.FontFamily = "Lato, sans-serif"
				t.FontSize = 6
				t.Color = "#FFFFFF"
				t.Position = style.Position{X: 50, Y: 80}
				t.Shadow = noShadow
				t.QuoteMarks.Enabled = false
				t.QuoteMarks.Variant = style.QuoteMarkSimple
				return t
			}).
			WithFrame(disableFrame).
			WithImage(blur(0)).
			WithSeparator(disableSeparator)),
		style.NewTemplate(PoeticDream, base.
			WithText(func(t style.TextStyle) style.TextStyle {
				t.FontFamily = "Caveat, cursive"
				t.FontSize = 10
				t.Color = "#FFFFFF"
				t.Shadow = style.Shadow{Color: "#00000080", OffsetX: 1, OffsetY: 1, BlurRadius: 5}
				t.QuoteMarks.Enabled = false
				t.QuoteMarks.Variant = style.QuoteMarkOrnate
				return t
			}).
			WithFrame(disableFrame).
			WithImage(blur(2)).
			WithSeparator(disableSeparator)),
	}
}

func disableFrame(f style.FrameStyle) style.FrameStyle {
	f.Enabled = false
	return f
}

func disableSeparator(s style.SeparatorStyle) style.SeparatorStyle {
	s.Enabled = false
	return s
}

func blur(px float64) func(style.ImageStyle) style.ImageStyle {
	return func(i style.ImageStyle) style.ImageStyle {
		i.Blur = px
		return i
	}
}
