// Package editor holds the state of one editing session: loaded images and
// quotes, the current style configuration and the surface size. Every change
// is followed by a full re-render through a renderer.Renderer.
package editor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/quotecard/renderer"
	"github.com/ByLCY/quotecard/style"
	"github.com/ByLCY/quotecard/suggest"
)

var (
	// ErrNoQuote is returned when a suggestion is requested without any loaded quote.
	ErrNoQuote = errors.New("Please select a quote first.")
	// ErrStaleRender means a newer Render started before this one finished.
	ErrStaleRender = errors.New("editor: render superseded by a newer generation")
	// ErrIndexOutOfRange is returned by SelectImage/SelectQuote.
	ErrIndexOutOfRange = errors.New("editor: index out of range")
	// ErrNothingRendered is returned by Export before the first successful render.
	ErrNothingRendered = errors.New("editor: nothing has been rendered yet")
)

const (
	// InitialSize 是尚未获得容器尺寸时的画布边长。
	InitialSize = 512
	// PlaceholderQuote 在没有加载任何引文时绘制。
	PlaceholderQuote = "Your quote will appear here."
)

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger; nil keeps log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConfig sets the initial configuration instead of style.Default().
func WithConfig(cfg style.Configuration) Option {
	return func(e *Editor) { e.cfg = cfg }
}

// WithSize sets the initial surface side, clamped like Resize.
func WithSize(size int) Option {
	return func(e *Editor) { e.size = renderer.ClampSize(size, size) }
}

// Editor is safe for concurrent use. Configuration values are copied in and
// out, so callers never share state with an in-flight render.
type Editor struct {
	renderer renderer.Renderer
	logger   *log.Logger

	mu       sync.Mutex
	cfg      style.Configuration
	size     int
	images   [][]byte
	quotes   []string
	imageIdx int
	quoteIdx int

	generation uint64
	stable     *image.NRGBA
}

// New creates an editor with default style, size 512 and no sources.
func New(r renderer.Renderer, opts ...Option) *Editor {
	e := &Editor{
		renderer: r,
		logger:   log.Default(),
		cfg:      style.Default(),
		size:     InitialSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddImages appends image sources; the current selection is kept.
func (e *Editor) AddImages(images ...[]byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, img := range images {
		e.images = append(e.images, append([]byte(nil), img...))
	}
}

// LoadQuotes replaces the quotes with the non-empty trimmed lines of r
// and selects the first one.
func (e *Editor) LoadQuotes(r io.Reader) (int, error) {
	quotes, err := ParseQuotes(r)
	if err != nil {
		return 0, err
	}
	e.SetQuotes(quotes)
	return len(quotes), nil
}

// SetQuotes replaces the quotes and selects the first one.
func (e *Editor) SetQuotes(quotes []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quotes = append([]string(nil), quotes...)
	e.quoteIdx = 0
}

// ParseQuotes splits text on newlines, trims each line and drops empty ones.
func ParseQuotes(r io.Reader) ([]string, error) {
	var quotes []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			quotes = append(quotes, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("读取引文失败: %w", err)
	}
	return quotes, nil
}

// SelectImage makes image i current.
func (e *Editor) SelectImage(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.images) {
		return fmt.Errorf("%w: image %d of %d", ErrIndexOutOfRange, i, len(e.images))
	}
	e.imageIdx = i
	return nil
}

// SelectQuote makes quote i current.
func (e *Editor) SelectQuote(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.quotes) {
		return fmt.Errorf("%w: quote %d of %d", ErrIndexOutOfRange, i, len(e.quotes))
	}
	e.quoteIdx = i
	return nil
}

// Images returns the number of loaded images.
func (e *Editor) Images() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.images)
}

// Quotes returns a copy of the loaded quotes.
func (e *Editor) Quotes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.quotes...)
}

// CurrentQuote returns the selected quote, or false when none is loaded.
func (e *Editor) CurrentQuote() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentQuoteLocked()
}

func (e *Editor) currentQuoteLocked() (string, bool) {
	if len(e.quotes) == 0 {
		return "", false
	}
	return e.quotes[e.quoteIdx], true
}

// Config returns the current configuration snapshot.
func (e *Editor) Config() style.Configuration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Update replaces the configuration with fn(current).
func (e *Editor) Update(fn func(style.Configuration) style.Configuration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = fn(e.cfg)
}

// ApplyTemplate replaces the whole configuration with the template's.
func (e *Editor) ApplyTemplate(t style.Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = t.Configuration
}

// Suggest asks s for a design for the current quote and merges it into the
// text style. On failure the configuration is left unchanged.
func (e *Editor) Suggest(ctx context.Context, s suggest.Suggester) (style.Suggestion, error) {
	quote, ok := e.CurrentQuote()
	if !ok {
		return style.Suggestion{}, ErrNoQuote
	}
	sug, err := s.Suggest(ctx, quote)
	if err != nil {
		return style.Suggestion{}, err
	}
	e.Update(func(c style.Configuration) style.Configuration { return c.WithSuggestion(sug) })
	return sug, nil
}

// Resize sets the surface side to min(width, height, 800) whole pixels, at least 1.
func (e *Editor) Resize(width, height float64) int {
	w, h := floorPixels(width), floorPixels(height)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.size = renderer.ClampSize(w, h)
	return e.size
}

func floorPixels(v float64) int {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	if v > renderer.MaxSize {
		return renderer.MaxSize
	}
	return int(math.Floor(v))
}

// Size returns the current surface side.
func (e *Editor) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.size
}

// Job returns the render input for the current state.
func (e *Editor) Job() renderer.Job {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.jobLocked()
}

func (e *Editor) jobLocked() renderer.Job {
	job := renderer.Job{Config: e.cfg, Size: e.size, Quote: PlaceholderQuote}
	if q, ok := e.currentQuoteLocked(); ok {
		job.Quote = q
	}
	if len(e.images) > 0 {
		job.Image = e.images[e.imageIdx]
	}
	return job
}

// Render 为本次调用分配新的代次并渲染当前快照。
// 若渲染期间有更新的代次开始，结果被丢弃并返回 ErrStaleRender。
func (e *Editor) Render(ctx context.Context) (*image.NRGBA, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	job := e.jobLocked()
	e.mu.Unlock()

	img, err := e.renderer.Render(ctx, job)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		e.logger.Debug("discarding stale render", "generation", gen, "latest", e.generation)
		return nil, ErrStaleRender
	}
	if err != nil {
		return nil, err
	}
	e.stable = img
	return img, nil
}

// Frame returns the last non-stale rendered image, or nil.
func (e *Editor) Frame() *image.NRGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stable
}
