package canvasrenderer

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/quotecard/layout"
	"github.com/ByLCY/quotecard/style"
)

// 占位背景与画布底色
var (
	surfaceColor     = color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
	placeholderFill  = color.NRGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff}
	placeholderInk   = color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
	placeholderFont  = layout.FontSpec{Family: "sans-serif", Size: 20, Weight: 400}
	transparentColor = color.RGBA{0, 0, 0, 0}
)

const (
	msgNoImage     = "Upload an Image"
	msgImageFailed = "Failed to load image"
)

// outlineSteps 为轮廓近似时沿圆周摆放的副本数量。
const outlineSteps = 16

func (r *Renderer) drawBackground(s *surface, bg decoded, plan layout.Background) {
	s.resetState()
	switch {
	case bg.err != nil:
		r.logger.Debug("image decode failed, drawing placeholder", "err", bg.err)
		r.drawPlaceholder(s, msgImageFailed)
	case bg.img == nil:
		r.drawPlaceholder(s, msgNoImage)
	default:
		b := bg.img.Bounds()
		x, y, side := layout.SquareCrop(b.Dx(), b.Dy())
		crop := image.Rect(b.Min.X+x, b.Min.Y+y, b.Min.X+x+side, b.Min.Y+y+side)
		scaled := imaging.Resize(imaging.Crop(bg.img, crop), s.size, s.size, imaging.Lanczos)
		s.setFilterBlur(plan.Blur)
		s.drawImage(scaled)
		s.setFilterBlur(0)
	}
}

func (r *Renderer) drawPlaceholder(s *surface, msg string) {
	s.fill(placeholderFill)
	face, err := r.fontFace(placeholderFont, placeholderInk)
	if err != nil {
		r.logger.Warn("placeholder font unavailable", "err", err)
		return
	}
	center := float64(s.size) / 2
	s.draw(func(ctx *canvas.Context) {
		ctx.DrawText(center, center, canvas.NewTextLine(face, msg, canvas.Center))
	})
}

func (r *Renderer) drawQuoteMark(s *surface, g *layout.Glyph) error {
	s.resetState()
	if g == nil {
		return nil
	}
	col, ok := parseColor(g.Color)
	if !ok {
		return nil
	}
	face, err := r.fontFace(g.Font, col)
	if err != nil {
		return err
	}
	s.setAlpha(g.Opacity)
	s.draw(func(ctx *canvas.Context) {
		ctx.DrawText(g.X, g.Y, canvas.NewTextLine(face, g.Text, canvas.Center))
	})
	s.setAlpha(1)
	return nil
}

func (r *Renderer) drawText(s *surface, tb *layout.TextBox) error {
	s.resetState()
	if tb == nil {
		return nil
	}
	align := textAlign(tb.Align)

	var fillFace, outlineFace *canvas.FontFace
	if col, ok := parseColor(tb.Color); ok {
		face, err := r.fontFace(tb.Font, col)
		if err != nil {
			return err
		}
		fillFace = face
	}
	if tb.Outline != nil {
		if col, ok := parseColor(tb.Outline.Color); ok {
			face, err := r.fontFace(tb.Font, col)
			if err != nil {
				return err
			}
			outlineFace = face
		}
	}

	if col, ok := parseColor(tb.Shadow.Color); ok {
		s.setShadow(col, tb.Shadow.OffsetX, tb.Shadow.OffsetY, tb.Shadow.Blur)
	}
	for _, line := range tb.Lines {
		if line.Content == "" {
			continue
		}
		// 先描轮廓再填充，填充覆盖在轮廓之上
		if outlineFace != nil {
			s.draw(func(ctx *canvas.Context) {
				radius := tb.Outline.Width / 2
				for i := 0; i < outlineSteps; i++ {
					angle := 2 * math.Pi * float64(i) / outlineSteps
					dx, dy := radius*math.Cos(angle), radius*math.Sin(angle)
					ctx.DrawText(tb.X+dx, line.Y+dy, canvas.NewTextLine(outlineFace, line.Content, align))
				}
			})
		}
		if fillFace != nil {
			s.draw(func(ctx *canvas.Context) {
				ctx.DrawText(tb.X, line.Y, canvas.NewTextLine(fillFace, line.Content, align))
			})
		}
	}
	s.clearShadow()
	return nil
}

func (r *Renderer) drawSeparator(s *surface, ln *layout.Line) {
	s.resetState()
	if ln == nil {
		return
	}
	col, ok := parseColor(ln.Color)
	if !ok {
		return
	}
	s.setCap(capperFor(ln.Cap))
	s.draw(func(ctx *canvas.Context) {
		ctx.SetFillColor(transparentColor)
		ctx.SetStrokeColor(col)
		ctx.SetStrokeWidth(ln.Width)
		p := &canvas.Path{}
		p.MoveTo(ln.X1, ln.Y1)
		p.LineTo(ln.X2, ln.Y2)
		ctx.DrawPath(0, 0, p)
	})
	s.resetState()
}

func (r *Renderer) drawFrame(s *surface, f *layout.Frame) {
	s.resetState()
	if f == nil {
		return
	}
	for _, st := range f.Strokes {
		col, ok := parseColor(st.Color)
		if !ok || st.Width <= 0 {
			continue
		}
		s.setDashes(st.Dashes...)
		s.setCap(capperFor(st.Cap))
		s.draw(func(ctx *canvas.Context) {
			ctx.SetFillColor(transparentColor)
			ctx.SetStrokeColor(col)
			ctx.SetStrokeWidth(st.Width)
			for _, pl := range st.Paths {
				ctx.DrawPath(0, 0, polylinePath(pl))
			}
		})
	}
	s.resetState()
}

func polylinePath(pl layout.Polyline) *canvas.Path {
	p := &canvas.Path{}
	for i, pt := range pl.Points {
		if i == 0 {
			p.MoveTo(pt.X, pt.Y)
			continue
		}
		p.LineTo(pt.X, pt.Y)
	}
	if pl.Closed {
		p.Close()
	}
	return p
}

func textAlign(a style.Align) canvas.TextAlign {
	switch a {
	case style.AlignCenter:
		return canvas.Center
	case style.AlignRight:
		return canvas.Right
	default:
		return canvas.Left
	}
}

func capperFor(c layout.LineCap) canvas.Capper {
	if c == layout.CapRound {
		return canvas.RoundCap
	}
	return canvas.ButtCap
}
