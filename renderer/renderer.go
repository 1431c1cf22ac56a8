package renderer

import (
	"context"
	"errors"
	"image"

	"github.com/ByLCY/quotecard/style"
)

// MaxSize 是画布边长上限（像素）。
const MaxSize = 800

// ErrInvalidSize 表示画布边长不是正数。
var ErrInvalidSize = errors.New("renderer: 画布尺寸必须为正数")

// Job 是一次渲染的完整输入快照：源图字节（可为空）、引文、样式配置与画布边长。
type Job struct {
	Image  []byte
	Quote  string
	Config style.Configuration
	Size   int
}

// Renderer 将一次渲染任务绘制为正方形位图。
// 同一 Job 多次渲染必须得到逐像素相同的结果。
type Renderer interface {
	Render(ctx context.Context, job Job) (*image.NRGBA, error)
}

// ClampSize 返回 min(width, height, MaxSize)，最小为 1。
func ClampSize(width, height int) int {
	return max(1, min(width, height, MaxSize))
}
