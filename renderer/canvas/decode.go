package canvasrenderer

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var errEmptyImage = errors.New("图片尺寸为零")

// decoded 是后台解码的结果；img 与 err 均为空表示未提供图片。
type decoded struct {
	img image.Image
	err error
}

// decodeAsync 在后台解码 data，结果通过只读通道交付一次。
func decodeAsync(data []byte) <-chan decoded {
	out := make(chan decoded, 1)
	if len(data) == 0 {
		out <- decoded{}
		close(out)
		return out
	}
	go func() {
		defer close(out)
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err == nil && img.Bounds().Empty() {
			err = errEmptyImage
		}
		out <- decoded{img: img, err: err}
	}()
	return out
}
