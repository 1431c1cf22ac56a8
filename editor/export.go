package editor

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	canvasrenderer "github.com/ByLCY/quotecard/renderer/canvas"
)

// Format 是导出的文件格式。
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts a format name or file extension (with or without dot).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("不支持的导出格式: %q", s)
	}
}

// FormatFromFilename picks the format by file extension.
func FormatFromFilename(name string) (Format, error) {
	return ParseFormat(filepath.Ext(name))
}

// Export writes the stable frame in the given format.
func (e *Editor) Export(w io.Writer, format Format) error {
	img := e.Frame()
	if img == nil {
		return ErrNothingRendered
	}
	switch format {
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(92))
	case FormatPDF:
		quote, _ := e.CurrentQuote()
		return canvasrenderer.EncodePDF(w, img, canvasrenderer.DocumentMeta{
			Title:   quote,
			Subject: "Quote image",
			Creator: "quotecard",
		})
	default:
		return fmt.Errorf("不支持的导出格式: %q", format)
	}
}
