package canvasrenderer

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

// drawState 是画布上会在多次绘制之间延续的瞬态属性。
// 每个阶段开始时都会重置为默认值，不依赖上一阶段的清理。
type drawState struct {
	alpha  float64 // 全局不透明度
	blur   float64 // 滤镜模糊，像素
	shadow shadowState
	dashes []float64
	capper canvas.Capper
	joiner canvas.Joiner
}

type shadowState struct {
	color   color.NRGBA
	offsetX float64
	offsetY float64
	blur    float64
}

func defaultState() drawState {
	return drawState{
		alpha:  1,
		capper: canvas.ButtCap,
		joiner: canvas.MiterJoin,
	}
}

// surface 是一次渲染独占的正方形位图。
// 每次绘制都在新的透明图层上完成，再按当前状态（滤镜、阴影、不透明度）合成。
type surface struct {
	size  int
	img   *image.NRGBA
	state drawState
}

func newSurface(size int) *surface {
	return &surface{size: size, state: defaultState()}
}

// clear 用 fill 覆盖整个画布并重置绘制状态。
func (s *surface) clear(fill color.Color) {
	s.img = imaging.New(s.size, s.size, fill)
	s.resetState()
}

func (s *surface) resetState() { s.state = defaultState() }

func (s *surface) setAlpha(a float64) { s.state.alpha = math.Max(0, math.Min(a, 1)) }

func (s *surface) setFilterBlur(px float64) { s.state.blur = math.Max(px, 0) }

func (s *surface) setShadow(c color.NRGBA, offsetX, offsetY, blur float64) {
	s.state.shadow = shadowState{color: c, offsetX: offsetX, offsetY: offsetY, blur: math.Max(blur, 0)}
}

// clearShadow 将阴影颜色置为全透明。
func (s *surface) clearShadow() { s.state.shadow = shadowState{} }

func (s *surface) setDashes(dashes ...float64) { s.state.dashes = dashes }

func (s *surface) setCap(c canvas.Capper) { s.state.capper = c }

// fill 以 c 填满整个画布（受全局不透明度影响）。
func (s *surface) fill(c color.Color) {
	s.composite(imaging.New(s.size, s.size, c))
}

// draw 在新的矢量图层上执行 fn，坐标原点在左上角、单位为像素，栅格化后合成到画布。
func (s *surface) draw(fn func(ctx *canvas.Context)) {
	size := float64(s.size)
	c := canvas.New(size, size)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	ctx.SetStrokeCapper(s.state.capper)
	ctx.SetStrokeJoiner(s.state.joiner)
	if len(s.state.dashes) > 0 {
		ctx.SetDashes(0, s.state.dashes...)
	}
	fn(ctx)
	s.composite(rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace))
}

// drawImage 将与画布同尺寸的位图按当前状态合成。
func (s *surface) drawImage(img image.Image) { s.composite(img) }

func (s *surface) composite(layer image.Image) {
	if s.state.blur > 0 {
		layer = imaging.Blur(layer, s.state.blur)
	}
	if sh := s.state.shadow; sh.color.A > 0 {
		ox, oy := math.Floor(sh.offsetX), math.Floor(sh.offsetY)
		shadow := shadowOf(layer, sh, sh.offsetX-ox, sh.offsetY-oy)
		s.img = imaging.Overlay(s.img, shadow, image.Pt(int(ox), int(oy)), s.state.alpha)
	}
	s.img = imaging.Overlay(s.img, layer, image.Point{}, s.state.alpha)
}

// shadowOf 取图层的 alpha 通道着色为阴影色，按 (fx, fy) 做亚像素双线性平移，
// 再按 blur/2 的标准差做高斯模糊。fx、fy 取值 [0,1)，整数部分由调用方在合成时偏移。
// 透明像素同样带上阴影色的 RGB，避免模糊时边缘发暗。
func shadowOf(layer image.Image, sh shadowState, fx, fy float64) *image.NRGBA {
	src := imaging.Clone(layer)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	alpha := func(x, y int) float64 {
		if x < 0 || y < 0 {
			return 0
		}
		return float64(src.Pix[y*src.Stride+x*4+3])
	}
	dst := image.NewNRGBA(src.Bounds())
	scale := float64(sh.color.A) / 255
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := (1-fx)*(1-fy)*alpha(x, y) +
				fx*(1-fy)*alpha(x-1, y) +
				(1-fx)*fy*alpha(x, y-1) +
				fx*fy*alpha(x-1, y-1)
			i := y*dst.Stride + x*4
			dst.Pix[i] = sh.color.R
			dst.Pix[i+1] = sh.color.G
			dst.Pix[i+2] = sh.color.B
			dst.Pix[i+3] = uint8(math.Round(a * scale))
		}
	}
	if sh.blur > 0 {
		return imaging.Blur(dst, sh.blur/2)
	}
	return dst
}
