package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Transparent 是全透明颜色的字面量写法。
const Transparent = "transparent"

// ParseColor 解析 #RGB、#RGBA、#RRGGBB、#RRGGBBAA 或 "transparent"。
// 无法解析时 ok 为 false，调用方应跳过对应的绘制。
func ParseColor(s string) (c color.NRGBA, ok bool) {
	v := strings.TrimSpace(s)
	if strings.EqualFold(v, Transparent) {
		return color.NRGBA{}, true
	}
	if !strings.HasPrefix(v, "#") {
		return color.NRGBA{}, false
	}
	hex := v[1:]
	switch len(hex) {
	case 3, 4:
		// 短写法逐位扩展：#abc -> #aabbcc
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, false
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{
		R: uint8(n >> 24),
		G: uint8(n >> 16),
		B: uint8(n >> 8),
		A: uint8(n),
	}, true
}

// ShadeColor 将 #RRGGBB 的每个通道按 (100+percent)/100 缩放并截断到 [0,255]，
// 返回新的 #rrggbb。输入无法解析时原样返回。
func ShadeColor(hex string, percent float64) string {
	c, ok := ParseColor(hex)
	if !ok || strings.EqualFold(strings.TrimSpace(hex), Transparent) {
		return hex
	}
	scale := func(v uint8) int {
		n := int(math.Trunc(float64(v) * (100 + percent) / 100))
		return max(0, min(n, 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", scale(c.R), scale(c.G), scale(c.B))
}
