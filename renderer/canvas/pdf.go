package canvasrenderer

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
)

// pdfDPI 为嵌入 PDF 时位图的分辨率。
const pdfDPI = 96.0

// DocumentMeta 是写入 PDF 信息字典的元数据。
type DocumentMeta struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords []string
}

// EncodePDF 将渲染结果作为单页 PDF 写出，页面尺寸与位图按 96 DPI 对应。
func EncodePDF(w io.Writer, img image.Image, meta DocumentMeta) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("缺少可导出的图像")
	}
	dpmm := pdfDPI / 25.4
	width := float64(img.Bounds().Dx()) / dpmm
	height := float64(img.Bounds().Dy()) / dpmm

	writer := pdf.New(w, width, height, nil)
	applyMeta(writer, meta)
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.DrawImage(0, 0, img, canvas.DPMM(dpmm))
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

func applyMeta(writer *pdf.PDF, meta DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}
