package layout

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/quotecard/style"
)

// stubTypesetter 是一个最小实现，仅用于测试，避免引入 renderer 造成循环依赖。
// 每个字符宽度为字号的一半。
type stubTypesetter struct{}

func (stubTypesetter) LayoutLines(content string, maxWidth float64, font FontSpec) ([]TextLine, error) {
	return GreedyWrap(content, maxWidth, func(s string) float64 {
		return float64(len([]rune(s))) * font.Size / 2
	}), nil
}

func buildDefault(t *testing.T, quote string, cfg style.Configuration, size float64) *Result {
	t.Helper()
	res, err := Build(quote, cfg, size, BuildOptions{Typesetter: stubTypesetter{}})
	if err != nil {
		t.Fatalf("构建布局失败: %v", err)
	}
	return res
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBuildRejectsInvalidSize(t *testing.T) {
	for _, size := range []float64{0, -10, math.NaN()} {
		if _, err := Build("x", style.Default(), size, BuildOptions{Typesetter: stubTypesetter{}}); err == nil {
			t.Fatalf("size=%g 应返回错误", size)
		}
	}
}

func TestBuildRequiresTypesetterForText(t *testing.T) {
	if _, err := Build("hello", style.Default(), 500, BuildOptions{}); err == nil {
		t.Fatalf("缺少 Typesetter 时应返回错误")
	}
	if _, err := Build("", style.Default(), 500, BuildOptions{}); err != nil {
		t.Fatalf("空引文不需要 Typesetter: %v", err)
	}
}

func TestBuildEmptyQuoteSkipsTextAndMark(t *testing.T) {
	res := buildDefault(t, "", style.Default(), 500)
	if res.Text != nil || res.QuoteMark != nil {
		t.Fatalf("空引文不应生成文本与引号: %+v", res)
	}
	if res.Frame == nil || res.Separator == nil {
		t.Fatalf("边框与分隔线不依赖引文")
	}
}

// TestBuildScalesWithSize 验证同一配置在不同尺寸下只做等比缩放。
func TestBuildScalesWithSize(t *testing.T) {
	cfg := style.Default()
	cfg.Frame.Width = 2
	quote := "Be yourself; everyone else is already taken."
	small := buildDefault(t, quote, cfg, 400)
	large := buildDefault(t, quote, cfg, 800)

	if !almostEqual(large.Text.Font.Size, 2*small.Text.Font.Size) {
		t.Fatalf("字号应等比缩放: %g vs %g", small.Text.Font.Size, large.Text.Font.Size)
	}
	if !almostEqual(large.Text.X, 2*small.Text.X) || !almostEqual(large.Text.AnchorY, 2*small.Text.AnchorY) {
		t.Fatalf("锚点应等比缩放")
	}
	if len(large.Text.Lines) != len(small.Text.Lines) {
		t.Fatalf("行数应一致: %d vs %d", len(small.Text.Lines), len(large.Text.Lines))
	}
	for i := range small.Text.Lines {
		if small.Text.Lines[i].Content != large.Text.Lines[i].Content {
			t.Fatalf("第 %d 行内容应一致", i)
		}
		if !almostEqual(large.Text.Lines[i].Y, 2*small.Text.Lines[i].Y) {
			t.Fatalf("第 %d 行基线应等比缩放", i)
		}
	}
	if !almostEqual(large.Frame.Strokes[0].Width, 2*small.Frame.Strokes[0].Width) {
		t.Fatalf("边框宽度应等比缩放")
	}
	if !almostEqual(large.Separator.X1, 2*small.Separator.X1) || !almostEqual(large.Separator.Y1, 2*small.Separator.Y1) {
		t.Fatalf("分隔线位置应等比缩放")
	}
	if !almostEqual(large.QuoteMark.Font.Size, 2*small.QuoteMark.Font.Size) {
		t.Fatalf("引号字号应等比缩放")
	}
}

func TestBuildTextVerticalCentering(t *testing.T) {
	cfg := style.Default()
	cfg.Text.FontSize = 10
	cfg.Text.Padding = 10
	res := buildDefault(t, "one two three four five six seven eight nine ten", cfg, 500)
	tb := res.Text
	if len(tb.Lines) < 2 {
		t.Fatalf("期望多行，实际 %d", len(tb.Lines))
	}
	if !almostEqual(tb.LineHeight, 60) {
		t.Fatalf("行高应为 1.2 倍字号，实际 %g", tb.LineHeight)
	}
	first, last := tb.Lines[0].Y, tb.Lines[len(tb.Lines)-1].Y
	if !almostEqual((first+last)/2, tb.AnchorY) {
		t.Fatalf("行块应以锚点垂直居中: first=%g last=%g anchor=%g", first, last, tb.AnchorY)
	}
	if !almostEqual(tb.MaxWidth, 400) {
		t.Fatalf("最大行宽应为画布宽减两侧内边距，实际 %g", tb.MaxWidth)
	}
}

func TestBuildTextInvalidAlignFallsBackToLeft(t *testing.T) {
	cfg := style.Default()
	cfg.Text.Align = "justify"
	res := buildDefault(t, "hi", cfg, 300)
	if res.Text.Align != style.AlignLeft {
		t.Fatalf("非法对齐应回退为 left，实际 %q", res.Text.Align)
	}
}

func TestBuildTextOutline(t *testing.T) {
	cfg := style.Default()
	if res := buildDefault(t, "hi", cfg, 300); res.Text.Outline != nil {
		t.Fatalf("未启用轮廓时不应生成 Outline")
	}
	cfg.Text.Outline.Enabled = true
	cfg.Text.Outline.Width = 0
	if res := buildDefault(t, "hi", cfg, 300); res.Text.Outline != nil {
		t.Fatalf("轮廓宽度为 0 时不应生成 Outline")
	}
	cfg.Text.Outline.Width = 3
	res := buildDefault(t, "hi", cfg, 300)
	if res.Text.Outline == nil || res.Text.Outline.Width != 3 {
		t.Fatalf("启用轮廓后应保留像素宽度: %+v", res.Text.Outline)
	}
}

func TestBuildQuoteMark(t *testing.T) {
	cfg := style.Default()
	cfg.Text.QuoteMarks.Size = 20
	cfg.Text.QuoteMarks.Opacity = 1.7
	cfg.Text.QuoteMarks.Variant = style.QuoteMarkOrnate
	res := buildDefault(t, "hi", cfg, 500)
	qm := res.QuoteMark
	if qm == nil {
		t.Fatalf("应生成引号")
	}
	if !almostEqual(qm.Font.Size, 100) || !almostEqual(qm.X, 250) || !almostEqual(qm.Y, 80) {
		t.Fatalf("引号几何不符: %+v", qm)
	}
	if qm.Opacity != 1 {
		t.Fatalf("不透明度应被钳制到 1，实际 %g", qm.Opacity)
	}
	if qm.Font.Family != "Lobster, cursive" || !qm.Font.Italic {
		t.Fatalf("ornate 引号字体不符: %+v", qm.Font)
	}

	cfg.Text.QuoteMarks.Enabled = false
	if res := buildDefault(t, "hi", cfg, 500); res.QuoteMark != nil {
		t.Fatalf("关闭引号后不应生成")
	}
}

func TestBuildSeparator(t *testing.T) {
	cfg := style.Default()
	cfg.Separator.Width = 30
	cfg.Separator.OffsetY = 25
	cfg.Separator.Thickness = 2
	res := buildDefault(t, "", cfg, 400)
	sep := res.Separator
	if !almostEqual(sep.X1, 140) || !almostEqual(sep.X2, 260) || !almostEqual(sep.Y1, 300) || sep.Y1 != sep.Y2 {
		t.Fatalf("分隔线几何不符: %+v", sep)
	}
	if sep.Cap != CapRound || sep.Width != 2 {
		t.Fatalf("分隔线应为圆头并保留像素粗细: %+v", sep)
	}

	cfg.Separator.OffsetY = -10
	if res := buildDefault(t, "", cfg, 400); !almostEqual(res.Separator.Y1, 160) {
		t.Fatalf("负偏移应位于中心上方，实际 %g", res.Separator.Y1)
	}

	for _, mutate := range []func(*style.SeparatorStyle){
		func(s *style.SeparatorStyle) { s.Enabled = false },
		func(s *style.SeparatorStyle) { s.Width = 0 },
		func(s *style.SeparatorStyle) { s.Thickness = 0 },
	} {
		c := style.Default()
		mutate(&c.Separator)
		if res := buildDefault(t, "", c, 400); res.Separator != nil {
			t.Fatalf("分隔线应被跳过: %+v", c.Separator)
		}
	}
}

func TestBuildFrameSkipped(t *testing.T) {
	cfg := style.Default()
	cfg.Frame.Enabled = false
	if res := buildDefault(t, "", cfg, 400); res.Frame != nil {
		t.Fatalf("关闭边框后不应生成")
	}
	cfg = style.Default()
	cfg.Frame.Width = 0
	if res := buildDefault(t, "", cfg, 400); res.Frame != nil {
		t.Fatalf("宽度为 0 时不应生成边框")
	}
}

func TestBuildFrameVariants(t *testing.T) {
	const size = 500.0
	cfg := style.Default()
	cfg.Frame.Width = 2 // 10px
	cfg.Frame.Color = "#808080"

	for _, v := range style.FrameVariants {
		cfg.Frame.Variant = v
		f := buildDefault(t, "", cfg, size).Frame
		if f == nil || f.Variant != v {
			t.Fatalf("%s: 边框缺失或风格不符: %+v", v, f)
		}
		switch v {
		case style.FrameSolid:
			s := f.Strokes[0]
			if s.Width != 10 || s.Dashes != nil {
				t.Fatalf("solid 描边不符: %+v", s)
			}
			p := s.Paths[0]
			if !p.Closed || p.Points[0] != (Point{5, 5}) || p.Points[2] != (Point{495, 495}) {
				t.Fatalf("solid 矩形应内缩半个线宽: %+v", p)
			}
		case style.FrameDashed:
			if d := f.Strokes[0].Dashes; len(d) != 2 || d[0] != 20 || d[1] != 15 {
				t.Fatalf("dashed 虚线模式不符: %v", d)
			}
		case style.FrameDotted:
			s := f.Strokes[0]
			if len(s.Dashes) != 2 || s.Dashes[0] != 1 || s.Dashes[1] != 20 || s.Cap != CapRound {
				t.Fatalf("dotted 描边不符: %+v", s)
			}
		case style.FrameDouble:
			s := f.Strokes[0]
			if !almostEqual(s.Width, 4) || len(s.Paths) != 2 {
				t.Fatalf("double 描边不符: %+v", s)
			}
			if s.Paths[0].Points[0] != (Point{2, 2}) {
				t.Fatalf("double 外框位置不符: %+v", s.Paths[0].Points[0])
			}
			inner := s.Paths[1].Points
			if !almostEqual(inner[0].X, 8) || !almostEqual(inner[2].X, 492) {
				t.Fatalf("double 内框位置不符: %+v", inner)
			}
		case style.FrameGroove:
			if len(f.Strokes) != 2 {
				t.Fatalf("groove 应有两次描边")
			}
			outer, inner := f.Strokes[0], f.Strokes[1]
			if outer.Color != "#666666" || inner.Color != "#999999" {
				t.Fatalf("groove 明暗色不符: %s %s", outer.Color, inner.Color)
			}
			if outer.Width != 5 || inner.Width != 5 {
				t.Fatalf("groove 每圈宽度应为一半")
			}
			if !almostEqual(outer.Paths[0].Points[0].X, 2.5) || !almostEqual(inner.Paths[0].Points[0].X, 7.5) {
				t.Fatalf("groove 内圈应向内偏移一个槽宽")
			}
		case style.FrameCorners:
			s := f.Strokes[0]
			if len(s.Paths) != 4 {
				t.Fatalf("corners 应有四个角标")
			}
			for _, p := range s.Paths {
				if p.Closed || len(p.Points) != 3 {
					t.Fatalf("角标应为开放的三点折线: %+v", p)
				}
				// 每个角标都不应触及边的中点
				for _, pt := range p.Points {
					if almostEqual(pt.X, size/2) || almostEqual(pt.Y, size/2) {
						t.Fatalf("角标延伸到了边的中点: %+v", p)
					}
				}
			}
			first := s.Paths[0].Points
			if first[0] != (Point{5, 55}) || first[1] != (Point{5, 5}) || first[2] != (Point{55, 5}) {
				t.Fatalf("左上角标几何不符: %+v", first)
			}
		}
	}
}

func TestBuildFrameUnknownVariantIsSolid(t *testing.T) {
	cfg := style.Default()
	cfg.Frame.Variant = "wavy"
	f := buildDefault(t, "", cfg, 300).Frame
	if f.Variant != style.FrameSolid || len(f.Strokes) != 1 || f.Strokes[0].Dashes != nil {
		t.Fatalf("未知风格应按 solid 处理: %+v", f)
	}
}

func TestBuildDoesNotMutateConfig(t *testing.T) {
	cfg := style.Default()
	before := cfg
	_ = buildDefault(t, "some words here", cfg, 321)
	if before != cfg {
		t.Fatalf("Build 不应修改输入配置")
	}
}

func TestSquareCrop(t *testing.T) {
	cases := []struct{ w, h, x, y, side int }{
		{800, 600, 100, 0, 600},
		{600, 800, 0, 100, 600},
		{500, 500, 0, 0, 500},
		{301, 200, 50, 0, 200},
	}
	for _, c := range cases {
		x, y, side := SquareCrop(c.w, c.h)
		if x != c.x || y != c.y || side != c.side {
			t.Fatalf("SquareCrop(%d,%d) = (%d,%d,%d)", c.w, c.h, x, y, side)
		}
	}
}

func TestWriteDebugJSONRawUnits(t *testing.T) {
	res, err := Build("hello world", style.Default(), 400, BuildOptions{
		Typesetter: stubTypesetter{},
		Debug:      DebugOptions{RawUnits: true},
	})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if res.Text.Debug == nil || res.Text.Debug.RawUnits.FontSize.Unit != "%" {
		t.Fatalf("应输出 rawUnits 调试字段: %+v", res.Text.Debug)
	}
	path := filepath.Join(t.TempDir(), "nested", "layout.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if decoded.Size != 400 || decoded.Text == nil || len(decoded.Text.Lines) != len(res.Text.Lines) {
		t.Fatalf("调试 JSON 内容不一致: %+v", decoded)
	}
}
