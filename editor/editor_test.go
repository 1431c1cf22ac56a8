package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/quotecard/renderer"
	"github.com/ByLCY/quotecard/style"
	"github.com/ByLCY/quotecard/suggest"
)

type fakeRenderer struct {
	mu   sync.Mutex
	jobs []renderer.Job

	// 非 nil 时第一次调用会先关闭 started，再阻塞直到 release 关闭。
	started chan struct{}
	release chan struct{}
	err     error
}

func (f *fakeRenderer) Render(ctx context.Context, job renderer.Job) (*image.NRGBA, error) {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	n := len(f.jobs)
	f.mu.Unlock()

	if n == 1 && f.release != nil {
		close(f.started)
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	img := imaging.New(job.Size, job.Size, color.NRGBA{R: uint8(n), A: 255})
	return img, nil
}

func (f *fakeRenderer) lastJob() renderer.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[len(f.jobs)-1]
}

func newEditor(r renderer.Renderer, opts ...Option) *Editor {
	return New(r, append([]Option{WithLogger(log.New(io.Discard))}, opts...)...)
}

func TestNewDefaults(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	assert.Equal(t, style.Default(), e.Config())
	assert.Equal(t, InitialSize, e.Size())
	assert.Zero(t, e.Images())
	assert.Empty(t, e.Quotes())
	assert.Nil(t, e.Frame())

	job := e.Job()
	assert.Nil(t, job.Image)
	assert.Equal(t, PlaceholderQuote, job.Quote)
}

func TestLoadQuotes(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	e.SetQuotes([]string{"old", "older"})
	require.NoError(t, e.SelectQuote(1))

	n, err := e.LoadQuotes(strings.NewReader("  first line  \n\n\t\nsecond\r\n third \n"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"first line", "second", "third"}, e.Quotes())

	q, ok := e.CurrentQuote()
	assert.True(t, ok)
	assert.Equal(t, "first line", q, "loading quotes resets the selection")
}

func TestSelection(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	assert.ErrorIs(t, e.SelectImage(0), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.SelectQuote(0), ErrIndexOutOfRange)

	e.AddImages([]byte("a"), []byte("b"))
	e.AddImages([]byte("c"))
	assert.Equal(t, 3, e.Images())
	require.NoError(t, e.SelectImage(2))
	assert.Equal(t, []byte("c"), e.Job().Image)
	assert.ErrorIs(t, e.SelectImage(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, e.SelectImage(-1), ErrIndexOutOfRange)

	e.SetQuotes([]string{"one", "two"})
	require.NoError(t, e.SelectQuote(1))
	assert.Equal(t, "two", e.Job().Quote)
}

func TestAddImagesCopiesInput(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	src := []byte("abc")
	e.AddImages(src)
	src[0] = 'x'
	assert.Equal(t, []byte("abc"), e.Job().Image)
}

func TestResize(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	assert.Equal(t, 600, e.Resize(1000, 600))
	assert.Equal(t, 800, e.Resize(1200, 900))
	assert.Equal(t, 300, e.Resize(300.7, 400))
	assert.Equal(t, 1, e.Resize(0.4, 10))
	assert.Equal(t, 1, e.Size())

	assert.Equal(t, 800, newEditor(&fakeRenderer{}, WithSize(5000)).Size())
}

func TestApplyTemplateReplacesWholesale(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	e.Update(func(c style.Configuration) style.Configuration {
		return c.WithFrame(func(f style.FrameStyle) style.FrameStyle {
			f.Enabled = true
			f.Variant = style.FrameCorners
			return f
		})
	})
	assert.Equal(t, style.FrameCorners, e.Config().Frame.Variant)

	tpl := style.NewTemplate("Plain", style.Default().WithImage(func(i style.ImageStyle) style.ImageStyle {
		i.Blur = 3
		return i
	}))
	e.ApplyTemplate(tpl)
	assert.Equal(t, tpl.Configuration, e.Config())
}

func TestConfigIsSnapshot(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	cfg := e.Config()
	cfg.Text.Color = "#123456"
	assert.NotEqual(t, "#123456", e.Config().Text.Color)
}

func TestSuggestRequiresQuote(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	called := false
	_, err := e.Suggest(context.Background(), suggest.SuggesterFunc(func(context.Context, string) (style.Suggestion, error) {
		called = true
		return style.Suggestion{}, nil
	}))
	assert.ErrorIs(t, err, ErrNoQuote)
	assert.Equal(t, "Please select a quote first.", err.Error())
	assert.False(t, called)
}

func TestSuggestMergesTextFields(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	e.SetQuotes([]string{"Be yourself."})
	before := e.Config()

	sug := style.Suggestion{
		FontFamily: "Georgia, serif",
		FontSize:   9,
		Color:      "#FF0000",
		Align:      style.AlignLeft,
		Position:   style.Position{X: 20, Y: 60},
		Shadow:     style.Shadow{Color: "#000000", OffsetX: 1, OffsetY: 1, BlurRadius: 3},
	}
	var gotQuote string
	got, err := e.Suggest(context.Background(), suggest.SuggesterFunc(func(_ context.Context, q string) (style.Suggestion, error) {
		gotQuote = q
		return sug, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, sug, got)
	assert.Equal(t, "Be yourself.", gotQuote)

	after := e.Config()
	assert.Equal(t, before.Text.Outline, after.Text.Outline)
	assert.Equal(t, before.Text.Padding, after.Text.Padding)
	assert.Equal(t, before.Text.QuoteMarks, after.Text.QuoteMarks)
	assert.Equal(t, before.Frame, after.Frame)
	assert.Equal(t, "Georgia, serif", after.Text.FontFamily)
	assert.Equal(t, 9.0, after.Text.FontSize)
	assert.Equal(t, "#FF0000", after.Text.Color)
	assert.Equal(t, style.AlignLeft, after.Text.Align)
	assert.Equal(t, style.Position{X: 20, Y: 60}, after.Text.Position)
	assert.Equal(t, sug.Shadow, after.Text.Shadow)
}

func TestSuggestFailureLeavesConfig(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	e.SetQuotes([]string{"q"})
	before := e.Config()
	_, err := e.Suggest(context.Background(), suggest.SuggesterFunc(func(context.Context, string) (style.Suggestion, error) {
		return style.Suggestion{}, suggest.ErrSuggestionFailed
	}))
	assert.ErrorIs(t, err, suggest.ErrSuggestionFailed)
	assert.Equal(t, before, e.Config())
}

func TestRenderUsesSnapshot(t *testing.T) {
	fr := &fakeRenderer{}
	e := newEditor(fr)
	e.SetQuotes([]string{"hello"})
	e.AddImages([]byte("img"))
	e.Resize(300, 300)

	img, err := e.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Same(t, img, e.Frame())

	job := fr.lastJob()
	assert.Equal(t, "hello", job.Quote)
	assert.Equal(t, []byte("img"), job.Image)
	assert.Equal(t, 300, job.Size)
}

func TestRenderDiscardsStaleGeneration(t *testing.T) {
	fr := &fakeRenderer{started: make(chan struct{}), release: make(chan struct{})}
	e := newEditor(fr)

	type result struct {
		img *image.NRGBA
		err error
	}
	first := make(chan result, 1)
	go func() {
		img, err := e.Render(context.Background())
		first <- result{img, err}
	}()
	<-fr.started

	latest, err := e.Render(context.Background())
	require.NoError(t, err)
	close(fr.release)

	old := <-first
	assert.ErrorIs(t, old.err, ErrStaleRender)
	assert.Nil(t, old.img)
	assert.Same(t, latest, e.Frame(), "stale completion must not replace the stable frame")
}

func TestRenderErrorKeepsStableFrame(t *testing.T) {
	fr := &fakeRenderer{}
	e := newEditor(fr)
	first, err := e.Render(context.Background())
	require.NoError(t, err)

	fr.err = errors.New("boom")
	_, err = e.Render(context.Background())
	assert.Error(t, err)
	assert.Same(t, first, e.Frame())
}

func TestExport(t *testing.T) {
	e := newEditor(&fakeRenderer{})
	var buf bytes.Buffer
	assert.ErrorIs(t, e.Export(&buf, FormatPNG), ErrNothingRendered)

	e.Resize(64, 64)
	_, err := e.Render(context.Background())
	require.NoError(t, err)

	for _, f := range []Format{FormatPNG, FormatJPEG} {
		buf.Reset()
		require.NoError(t, e.Export(&buf, f))
		img, err := imaging.Decode(&buf)
		require.NoError(t, err, f)
		assert.Equal(t, 64, img.Bounds().Dx())
	}

	buf.Reset()
	require.NoError(t, e.Export(&buf, FormatPDF))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	assert.Error(t, e.Export(&buf, Format("gif")))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": FormatPNG, ".JPG": FormatJPEG, "jpeg": FormatJPEG, "pdf": FormatPDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("bmp")
	assert.Error(t, err)

	f, err := FormatFromFilename("out/card.jpeg")
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, f)
}
