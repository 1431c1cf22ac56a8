package template

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/quotecard/dsl"
	"github.com/ByLCY/quotecard/layout"
	"github.com/ByLCY/quotecard/style"
)

// LoadFile 解析模板文件并把其中的模板依次加入注册表。
func (r *Registry) LoadFile(path string) error {
	f, err := dsl.ParseFile(path)
	if err != nil {
		return fmt.Errorf("解析模板文件失败: %w", err)
	}
	return r.Load(f)
}

// Load 依次构建文件中的模板：有 extends 时以已注册的同名模板为起点，否则以默认配置为起点。
// 任一模板出错时，此前已成功的模板仍保留在注册表中。
func (r *Registry) Load(f *dsl.File) error {
	for _, decl := range f.Templates {
		base := style.Default()
		if decl.Extends != nil {
			parent, err := r.Lookup(string(*decl.Extends))
			if err != nil {
				return fmt.Errorf("%s: 模板 %q: %w", decl.Pos, decl.Name, err)
			}
			base = parent.Configuration
		}
		cfg, err := Apply(base, decl.Sections)
		if err != nil {
			return fmt.Errorf("模板 %q: %w", decl.Name, err)
		}
		r.Add(style.NewTemplate(string(decl.Name), cfg))
	}
	return nil
}

// Apply 返回在 base 上应用各段赋值后的新配置，只修改列出的字段。
func Apply(base style.Configuration, sections []*dsl.Section) (style.Configuration, error) {
	cfg := base
	for _, sec := range sections {
		var err error
		switch sec.Kind {
		case "text":
			cfg.Text, err = applyText(cfg.Text, sec.Body)
		case "frame":
			cfg.Frame, err = applyFrame(cfg.Frame, sec.Body)
		case "image":
			cfg.Image, err = applyImage(cfg.Image, sec.Body)
		case "separator":
			cfg.Separator, err = applySeparator(cfg.Separator, sec.Body)
		default:
			err = fmt.Errorf("%s: 未知的段 %q", sec.Pos, sec.Kind)
		}
		if err != nil {
			return base, err
		}
	}
	return cfg, nil
}

func applyText(t style.TextStyle, obj *dsl.InlineObject) (style.TextStyle, error) {
	err := each(obj, "text", func(a *dsl.Assignment) error {
		var err error
		switch a.Key {
		case "font":
			t.FontFamily, err = stringValue(a)
		case "size":
			t.FontSize, err = lengthValue(a, layout.UnitPercent)
		case "color":
			t.Color, err = colorValue(a)
		case "align":
			var s string
			if s, err = identValue(a); err == nil {
				t.Align = style.Align(s)
				if !t.Align.Valid() {
					err = badValue(a, "left、center 或 right")
				}
			}
		case "position":
			err = each(a.Value.Object, "position", func(p *dsl.Assignment) error {
				var err error
				switch p.Key {
				case "x":
					t.Position.X, err = lengthValue(p, layout.UnitPercent)
				case "y":
					t.Position.Y, err = lengthValue(p, layout.UnitPercent)
				default:
					err = unknownKey("text.position", p)
				}
				return err
			})
		case "shadow":
			err = each(a.Value.Object, "shadow", func(p *dsl.Assignment) error {
				var err error
				switch p.Key {
				case "color":
					t.Shadow.Color, err = colorValue(p)
				case "offset-x":
					t.Shadow.OffsetX, err = lengthValue(p, layout.UnitPX)
				case "offset-y":
					t.Shadow.OffsetY, err = lengthValue(p, layout.UnitPX)
				case "blur":
					t.Shadow.BlurRadius, err = lengthValue(p, layout.UnitPX)
				default:
					err = unknownKey("text.shadow", p)
				}
				return err
			})
		case "outline":
			err = each(a.Value.Object, "outline", func(p *dsl.Assignment) error {
				var err error
				switch p.Key {
				case "enabled":
					t.Outline.Enabled, err = boolValue(p)
				case "color":
					t.Outline.Color, err = colorValue(p)
				case "width":
					t.Outline.Width, err = lengthValue(p, layout.UnitPX)
				default:
					err = unknownKey("text.outline", p)
				}
				return err
			})
		case "padding":
			t.Padding, err = lengthValue(a, layout.UnitPercent)
		case "quote-marks":
			err = each(a.Value.Object, "quote-marks", func(p *dsl.Assignment) error {
				var err error
				switch p.Key {
				case "enabled":
					t.QuoteMarks.Enabled, err = boolValue(p)
				case "color":
					t.QuoteMarks.Color, err = colorValue(p)
				case "size":
					t.QuoteMarks.Size, err = lengthValue(p, layout.UnitPercent)
				case "opacity":
					t.QuoteMarks.Opacity, err = lengthValue(p, layout.UnitNone)
				case "style":
					var s string
					if s, err = identValue(p); err == nil {
						t.QuoteMarks.Variant = style.QuoteMarkVariant(s)
						switch t.QuoteMarks.Variant {
						case style.QuoteMarkSimple, style.QuoteMarkBold, style.QuoteMarkOrnate:
						default:
							err = badValue(p, "simple、bold 或 ornate")
						}
					}
				default:
					err = unknownKey("text.quote-marks", p)
				}
				return err
			})
		default:
			err = unknownKey("text", a)
		}
		return err
	})
	return t, err
}

func applyFrame(f style.FrameStyle, obj *dsl.InlineObject) (style.FrameStyle, error) {
	err := each(obj, "frame", func(a *dsl.Assignment) error {
		var err error
		switch a.Key {
		case "enabled":
			f.Enabled, err = boolValue(a)
		case "width":
			f.Width, err = lengthValue(a, layout.UnitPercent)
		case "color":
			f.Color, err = colorValue(a)
		case "style":
			var s string
			if s, err = identValue(a); err == nil {
				f.Variant = style.FrameVariant(s)
				if !f.Variant.Valid() {
					err = badValue(a, "solid、dashed、dotted、double、groove 或 corners")
				}
			}
		default:
			err = unknownKey("frame", a)
		}
		return err
	})
	return f, err
}

func applyImage(i style.ImageStyle, obj *dsl.InlineObject) (style.ImageStyle, error) {
	err := each(obj, "image", func(a *dsl.Assignment) error {
		var err error
		switch a.Key {
		case "blur":
			i.Blur, err = lengthValue(a, layout.UnitPX)
		default:
			err = unknownKey("image", a)
		}
		return err
	})
	return i, err
}

func applySeparator(s style.SeparatorStyle, obj *dsl.InlineObject) (style.SeparatorStyle, error) {
	err := each(obj, "separator", func(a *dsl.Assignment) error {
		var err error
		switch a.Key {
		case "enabled":
			s.Enabled, err = boolValue(a)
		case "color":
			s.Color, err = colorValue(a)
		case "width":
			s.Width, err = lengthValue(a, layout.UnitPercent)
		case "thickness":
			s.Thickness, err = lengthValue(a, layout.UnitPX)
		case "offset-y":
			s.OffsetY, err = lengthValue(a, layout.UnitPercent)
		default:
			err = unknownKey("separator", a)
		}
		return err
	})
	return s, err
}

func each(obj *dsl.InlineObject, section string, fn func(*dsl.Assignment) error) error {
	if obj == nil {
		return fmt.Errorf("%s 需要 { key: value } 形式的对象", section)
	}
	for _, a := range obj.Entries {
		if err := fn(a); err != nil {
			return err
		}
	}
	return nil
}

func stringValue(a *dsl.Assignment) (string, error) {
	if a.Value.String == nil {
		return "", badValue(a, "字符串")
	}
	return string(*a.Value.String), nil
}

func identValue(a *dsl.Assignment) (string, error) {
	switch {
	case a.Value.Ident != nil:
		return *a.Value.Ident, nil
	case a.Value.String != nil:
		return string(*a.Value.String), nil
	default:
		return "", badValue(a, "标识符")
	}
}

func boolValue(a *dsl.Assignment) (bool, error) {
	if a.Value.Ident != nil {
		switch *a.Value.Ident {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off":
			return false, nil
		}
	}
	return false, badValue(a, "true 或 false")
}

// colorValue 接受 #hex、"transparent" 以及引号包裹的颜色字符串。
func colorValue(a *dsl.Assignment) (string, error) {
	var raw string
	switch {
	case a.Value.Color != nil:
		raw = *a.Value.Color
	case a.Value.Ident != nil:
		raw = *a.Value.Ident
	case a.Value.String != nil:
		raw = string(*a.Value.String)
	default:
		return "", badValue(a, "颜色")
	}
	if _, ok := style.ParseColor(raw); !ok {
		return "", badValue(a, "颜色")
	}
	if strings.EqualFold(raw, style.Transparent) {
		return style.Transparent, nil
	}
	return raw, nil
}

// lengthValue 解析数值；带单位时单位必须为 want，不带单位的数值按 want 理解。
func lengthValue(a *dsl.Assignment, want layout.Unit) (float64, error) {
	if a.Value.Number == nil {
		return 0, badValue(a, "数值")
	}
	l := layout.ParseRawLengthStr(*a.Value.Number)
	if l.Unit != layout.UnitNone && l.Unit != want {
		unit := layout.UnitToString(want)
		if unit == "" {
			unit = "无单位"
		}
		return 0, fmt.Errorf("%s: %s 的单位应为 %s，实际为 %s", pos(a), a.Key, unit, a.Value.Raw())
	}
	return l.Value, nil
}

func unknownKey(section string, a *dsl.Assignment) error {
	return fmt.Errorf("%s: 未知的字段 %s.%s", pos(a), section, a.Key)
}

func badValue(a *dsl.Assignment, want string) error {
	return fmt.Errorf("%s: %s 需要%s，实际为 %s", pos(a), a.Key, want, a.Value.Raw())
}

func pos(a *dsl.Assignment) lexer.Position { return a.Pos }
