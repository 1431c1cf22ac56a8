package layout

import "strings"

// GreedyWrap 以单次线性扫描将 content 按空格拆词并贪心折行。
// 候选行的宽度包含词后的空格（与绘制时去除首尾空白不同），
// 超过 maxWidth 且当前行已有内容时换行；单个超宽词独占一行，不在词内拆分。
// 最后一行总会输出。
func GreedyWrap(content string, maxWidth float64, measure func(string) float64) []TextLine {
	words := strings.Split(content, " ")
	lines := make([]TextLine, 0, 4)
	line := ""
	lineWidth := 0.0
	for n, word := range words {
		candidate := line + word + " "
		width := measure(candidate)
		if width > maxWidth && n > 0 {
			lines = append(lines, newTextLine(line, lineWidth))
			line = word + " "
			lineWidth = measure(line)
			continue
		}
		line = candidate
		lineWidth = width
	}
	lines = append(lines, newTextLine(line, lineWidth))
	return lines
}

func newTextLine(raw string, width float64) TextLine {
	return TextLine{Content: strings.TrimSpace(raw), Width: width}
}
