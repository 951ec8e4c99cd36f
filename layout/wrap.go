package layout

import (
	"math"
	"strings"
	"unicode"
)

// Wrap 使用贪心算法将字幕折成多行。
//   - 显式换行（\n、\r\n、\r）总是强制换行，空段落产生空行；
//   - 段落内按空白分词，候选行 "当前行 + 空格 + 单词" 的宽度超过 limit 时另起一行；
//   - 单个单词本身超过 limit 时独占一行，不拆词、不截断。
//
// limit <= 0 表示不限宽度。
func Wrap(text string, limit float64, m Measurer) []Line {
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []Line
	emit := func(content string) {
		width := 0.0
		if content != "" {
			width = m.TextWidth(content)
		}
		lines = append(lines, Line{Content: content, Width: width})
	}

	for _, paragraph := range splitParagraphs(text) {
		words := strings.FieldsFunc(paragraph, isBreakingSpace)
		if len(words) == 0 {
			emit("")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if m.TextWidth(candidate) <= limit {
				current = candidate
				continue
			}
			emit(current)
			current = word
		}
		emit(current)
	}
	return lines
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// 不换行空格（NBSP 等）视为单词的一部分。
func isBreakingSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.IsSpace(r)
}
