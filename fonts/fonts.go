// Package fonts 提供内置字体数据以及由 CSS 字体族字符串到内置字体的匹配规则。
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmromanslant10bold"
	"github.com/go-fonts/latin-modern/lmromanslant10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Class 是字体族的大类。
type Class string

const (
	Sans    Class = "sans"
	Serif   Class = "serif"
	Mono    Class = "mono"
	Cursive Class = "cursive"
)

// 内置字体名，Load 以此为键。
const (
	SansRegular     = "go-regular"
	SansBold        = "go-bold"
	SansItalic      = "go-italic"
	SansBoldItalic  = "go-bolditalic"
	MonoRegular     = "go-mono"
	MonoBold        = "go-mono-bold"
	SerifRegular    = "lmroman10-regular"
	SerifBold       = "lmroman10-bold"
	SerifItalic     = "lmroman10-italic"
	SerifBoldItalic = "lmroman10-bolditalic"
	CursiveRegular  = "lmromanslant10-regular"
	CursiveBold     = "lmromanslant10-bold"
)

var builtin = map[string][]byte{
	SansRegular:     goregular.TTF,
	SansBold:        gobold.TTF,
	SansItalic:      goitalic.TTF,
	SansBoldItalic:  gobolditalic.TTF,
	MonoRegular:     gomono.TTF,
	MonoBold:        gomonobold.TTF,
	SerifRegular:    lmroman10regular.TTF,
	SerifBold:       lmroman10bold.TTF,
	SerifItalic:     lmroman10italic.TTF,
	SerifBoldItalic: lmroman10bolditalic.TTF,
	CursiveRegular:  lmromanslant10regular.TTF,
	CursiveBold:     lmromanslant10bold.TTF,
}

// 常见网页字体名到大类的映射，键为小写、去引号后的名称。
var knownFamilies = map[string]Class{
	"playfair display": Serif,
	"georgia":          Serif,
	"times":            Serif,
	"times new roman":  Serif,
	"garamond":         Serif,
	"merriweather":     Serif,
	"lora":             Serif,
	"baskerville":      Serif,
	"helvetica":        Sans,
	"arial":            Sans,
	"lato":             Sans,
	"oswald":           Sans,
	"montserrat":       Sans,
	"roboto":           Sans,
	"open sans":        Sans,
	"inter":            Sans,
	"verdana":          Sans,
	"courier":          Mono,
	"courier new":      Mono,
	"menlo":            Mono,
	"monaco":           Mono,
	"consolas":         Mono,
	"lobster":          Cursive,
	"caveat":           Cursive,
	"pacifico":         Cursive,
	"dancing script":   Cursive,
}

// 通用族名。
var genericFamilies = map[string]Class{
	"serif":      Serif,
	"sans-serif": Sans,
	"sans":       Sans,
	"monospace":  Mono,
	"cursive":    Cursive,
	"fantasy":    Cursive,
	"system-ui":  Sans,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:go-regular" 或直接 "go-regular"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}

// Names 按字母序返回全部内置字体名。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Classify 依次检查 CSS 字体族列表中的每一项，返回第一个可识别的大类；
// 全部无法识别时回退为 Sans。
func Classify(family string) Class {
	for _, part := range strings.Split(family, ",") {
		name := strings.ToLower(strings.Trim(strings.TrimSpace(part), `"'`))
		if name == "" {
			continue
		}
		if c, ok := knownFamilies[name]; ok {
			return c
		}
		if c, ok := genericFamilies[name]; ok {
			return c
		}
	}
	return Sans
}

// Match 为字体族、CSS 数值粗细与斜体组合选出内置字体名。weight >= 600 视为粗体。
// 手写体使用倾斜罗马体（slanted），与衬线斜体字形不同；italic 对其无意义。
func Match(family string, weight int, italic bool) string {
	bold := weight >= 600
	switch Classify(family) {
	case Serif:
		return pick(bold, italic, SerifRegular, SerifBold, SerifItalic, SerifBoldItalic)
	case Cursive:
		if bold {
			return CursiveBold
		}
		return CursiveRegular
	case Mono:
		if bold {
			return MonoBold
		}
		return MonoRegular
	default:
		return pick(bold, italic, SansRegular, SansBold, SansItalic, SansBoldItalic)
	}
}

func pick(bold, italic bool, regular, boldName, italicName, boldItalic string) string {
	switch {
	case bold && italic:
		return boldItalic
	case bold:
		return boldName
	case italic:
		return italicName
	default:
		return regular
	}
}
