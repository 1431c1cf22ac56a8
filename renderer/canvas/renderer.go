package canvasrenderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/quotecard/fonts"
	"github.com/ByLCY/quotecard/layout"
	"github.com/ByLCY/quotecard/renderer"
	"github.com/ByLCY/quotecard/style"
)

// Renderer draws quote images via github.com/tdewolff/canvas and imaging.
// 一个 Renderer 可被多个 goroutine 共享；每次 Render 使用独立的画布。
type Renderer struct {
	logger *log.Logger

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily // 按内置字体名缓存
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	Logger *log.Logger
}

// NewRenderer creates a renderer with default options.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with an injected logger.
func NewRendererWithOptions(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		logger:       logger,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// Render 依次执行：清屏、背景、引号、正文、分隔线、边框。
// 背景图在后台解码，其余图层在解码结束（成功或失败）后才开始绘制。
func (r *Renderer) Render(ctx context.Context, job renderer.Job) (*image.NRGBA, error) {
	if job.Size <= 0 {
		return nil, fmt.Errorf("%w: %d", renderer.ErrInvalidSize, job.Size)
	}
	pending := decodeAsync(job.Image)

	plan, err := r.Plan(job)
	if err != nil {
		return nil, err
	}

	var bg decoded
	select {
	case bg = <-pending:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	r.logger.Debug("rendering", "size", job.Size, "quote", len(job.Quote) > 0, "image", len(job.Image) > 0)
	s := newSurface(job.Size)
	s.clear(surfaceColor)
	r.drawBackground(s, bg, plan.Background)
	if err := r.drawQuoteMark(s, plan.QuoteMark); err != nil {
		return nil, err
	}
	if err := r.drawText(s, plan.Text); err != nil {
		return nil, err
	}
	r.drawSeparator(s, plan.Separator)
	r.drawFrame(s, plan.Frame)
	return s.img, nil
}

// Plan 返回 Render 将使用的像素级布局，便于调试输出。
func (r *Renderer) Plan(job renderer.Job) (*layout.Result, error) {
	return r.PlanWithDebug(job, layout.DebugOptions{})
}

// PlanWithDebug 同 Plan，可在结果中附带调试字段。
func (r *Renderer) PlanWithDebug(job renderer.Job, debug layout.DebugOptions) (*layout.Result, error) {
	if job.Size <= 0 {
		return nil, fmt.Errorf("%w: %d", renderer.ErrInvalidSize, job.Size)
	}
	plan, err := layout.Build(job.Quote, job.Config, float64(job.Size), layout.BuildOptions{Typesetter: r, Debug: debug})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	return plan, nil
}

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 画布按 1mm = 1px 栅格化，字号在创建字体面时由像素换算为 pt。
func (r *Renderer) LayoutLines(content string, maxWidth float64, font layout.FontSpec) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, color.Black)
	if err != nil {
		return nil, err
	}
	return layout.GreedyWrap(content, maxWidth, face.TextWidth), nil
}

func (r *Renderer) fontFace(font layout.FontSpec, col color.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(fonts.Match(font.Family, font.Weight, font.Italic))
	if err != nil {
		return nil, err
	}
	return family.Face(toPt(font.Size), col, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(name)
	if err := loadFontIntoFamily(family, name); err != nil {
		r.logger.Warn("font load failed, using fallback", "font", name, "err", err)
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, err
		}
		r.fontFamilies[name] = fallback
		return fallback, nil
	}
	r.fontFamilies[name] = family
	return family, nil
}

func loadFontIntoFamily(family *canvas.FontFamily, name string) error {
	data, err := fonts.Load(name)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, canvas.FontRegular)
}

// fallback 需在持有 fontMu 时调用。
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	family := canvas.NewFontFamily("quotecard-fallback")
	if err := loadFontIntoFamily(family, fonts.SansRegular); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

// toPt 将像素（即毫米）转换为点(pt)。
func toPt(px float64) float64 { return px * layout.MmToPt }

// parseColor 解析颜色；无法解析或完全透明时 ok 为 false，对应的绘制将被跳过。
func parseColor(s string) (color.NRGBA, bool) {
	c, ok := style.ParseColor(s)
	return c, ok && c.A > 0
}
