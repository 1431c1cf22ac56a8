package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/quotecard/dsl"
	"github.com/ByLCY/quotecard/style"
)

func TestBuiltinTemplates(t *testing.T) {
	reg := Default()
	assert.Equal(t, []string{MidnightSerenity, AuthorsTouch, UrbanExplorer, MinimalistWhisper, PoeticDream}, reg.Names())

	midnight, err := reg.Lookup(MidnightSerenity)
	require.NoError(t, err)
	assert.False(t, midnight.Frame.Enabled)
	assert.Equal(t, 0.7, midnight.Text.QuoteMarks.Opacity)
	assert.Equal(t, 30.0, midnight.Separator.OffsetY)
	assert.Equal(t, 25.0, midnight.Separator.Width)
	// 未提及的字段保持默认值
	assert.Equal(t, style.Default().Text.Outline, midnight.Text.Outline)

	author, err := reg.Lookup("author's touch")
	require.NoError(t, err)
	assert.Equal(t, style.AlignLeft, author.Text.Align)
	assert.Equal(t, style.Position{X: 15, Y: 50}, author.Text.Position)
	assert.Equal(t, "#2d2d2d", author.Separator.Color)
	assert.Equal(t, style.Transparent, author.Text.Shadow.Color)

	urban, err := reg.Lookup(UrbanExplorer)
	require.NoError(t, err)
	assert.Equal(t, style.FrameCorners, urban.Frame.Variant)
	assert.True(t, urban.Frame.Enabled)
	assert.Equal(t, 1.0, urban.Image.Blur)
	assert.Equal(t, style.QuoteMarkBold, urban.Text.QuoteMarks.Variant)

	whisper, err := reg.Lookup(MinimalistWhisper)
	require.NoError(t, err)
	assert.Equal(t, 80.0, whisper.Text.Position.Y)
	assert.False(t, whisper.Separator.Enabled)

	dream, err := reg.Lookup(PoeticDream)
	require.NoError(t, err)
	assert.Equal(t, "Caveat, cursive", dream.Text.FontFamily)
	assert.Equal(t, 2.0, dream.Image.Blur)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("Nope")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestBuiltinReturnsIndependentValues(t *testing.T) {
	a := Builtin()
	a[0].Text.FontFamily = "mutated"
	b := Builtin()
	assert.NotEqual(t, "mutated", b[0].Text.FontFamily)
}

const userTemplates = `
templates user v1 {
  template "Sunset" extends "Midnight Serenity" {
    text {
      font: "Georgia, serif"  size: 9%  color: #FFEEDD  align: left
      position: { x: 20% y: 60% }
      shadow: { color: #00000080 offset-x: 2px offset-y: 2px blur: 4px }
      outline: { enabled: true color: #000000 width: 2px }
      padding: 8%
      quote-marks: { enabled: true color: #FFFFFF size: 18% opacity: 0.5 style: ornate }
    }
    frame { enabled: true width: 2% color: #FFFFFF style: groove }
    image { blur: 3px }
    separator { enabled: true color: transparent width: 30% thickness: 2px offset-y: -25% }
  }
  template "Sunset Minimal" extends "Sunset" {
    frame { enabled: false }
  }
  template "Poetic Dream" {
    image { blur: 4 }
  }
}
`

func TestLoadUserTemplates(t *testing.T) {
	reg := Default()
	f, err := dsl.ParseString(userTemplates)
	require.NoError(t, err)
	require.NoError(t, reg.Load(f))

	sunset, err := reg.Lookup("Sunset")
	require.NoError(t, err)
	assert.Equal(t, "Georgia, serif", sunset.Text.FontFamily)
	assert.Equal(t, 9.0, sunset.Text.FontSize)
	assert.Equal(t, style.Position{X: 20, Y: 60}, sunset.Text.Position)
	assert.Equal(t, style.Shadow{Color: "#00000080", OffsetX: 2, OffsetY: 2, BlurRadius: 4}, sunset.Text.Shadow)
	assert.Equal(t, style.Outline{Enabled: true, Color: "#000000", Width: 2}, sunset.Text.Outline)
	assert.Equal(t, style.QuoteMarks{Enabled: true, Color: "#FFFFFF", Size: 18, Opacity: 0.5, Variant: style.QuoteMarkOrnate}, sunset.Text.QuoteMarks)
	assert.Equal(t, style.FrameStyle{Enabled: true, Width: 2, Color: "#FFFFFF", Variant: style.FrameGroove}, sunset.Frame)
	assert.Equal(t, 3.0, sunset.Image.Blur)
	assert.Equal(t, -25.0, sunset.Separator.OffsetY)
	assert.Equal(t, style.Transparent, sunset.Separator.Color)

	minimal, err := reg.Lookup("Sunset Minimal")
	require.NoError(t, err)
	assert.False(t, minimal.Frame.Enabled)
	assert.Equal(t, style.FrameGroove, minimal.Frame.Variant)
	assert.Equal(t, sunset.Text, minimal.Text)

	// 同名用户模板替换内置模板，且不带 extends 时从默认配置开始
	dream, err := reg.Lookup(PoeticDream)
	require.NoError(t, err)
	assert.Equal(t, 4.0, dream.Image.Blur)
	assert.Equal(t, style.Default().Text, dream.Text)
	assert.Len(t, reg.Names(), 7)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown parent":  `templates u v1 { template "A" extends "Missing" { image { blur: 1 } } }`,
		"unknown section": `templates u v1 { template "A" { sky { blur: 1 } } }`,
		"unknown key":     `templates u v1 { template "A" { frame { radius: 2% } } }`,
		"wrong unit":      `templates u v1 { template "A" { text { size: 12px } } }`,
		"bad align":       `templates u v1 { template "A" { text { align: justify } } }`,
		"bad frame style": `templates u v1 { template "A" { frame { style: wavy } } }`,
		"bad bool":        `templates u v1 { template "A" { frame { enabled: 1 } } }`,
		"bad color":       `templates u v1 { template "A" { frame { color: "red" } } }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := dsl.ParseString(src)
			require.NoError(t, err)
			err = Default().Load(f)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "1:")
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.qct")
	require.NoError(t, os.WriteFile(path, []byte(userTemplates), 0o644))
	reg := Default()
	require.NoError(t, reg.LoadFile(path))
	_, err := reg.Lookup("Sunset Minimal")
	assert.NoError(t, err)

	assert.Error(t, reg.LoadFile(filepath.Join(t.TempDir(), "missing.qct")))
}

func TestApplyLeavesBaseUntouched(t *testing.T) {
	base := style.Default()
	f, err := dsl.ParseString(`templates u v1 { template "A" { text { size: 12% } } }`)
	require.NoError(t, err)
	cfg, err := Apply(base, f.Templates[0].Sections)
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.Text.FontSize)
	assert.Equal(t, style.Default(), base)
}
