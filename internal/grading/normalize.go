package grading

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	markerLineRe = regexp.MustCompile(`^\s*(?:[-•*]|\d+[.)])\s*(.*)$`)
	delimiterRe  = regexp.MustCompile(`[,;\t\n]+`)
	remnantRe    = regexp.MustCompile(`^(?:[-•*]|\d+[.)])\s*`)
)

// NormalizeScalar 压缩连续空白（含换行）为单个空格并去掉首尾空白，幂等
func NormalizeScalar(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// TokenizeList 把自由文本的列表作答切成有序条目
// 优先识别行首的项目符号（- • *）或编号（1. / 1)），否则按逗号分号制表换行切分
// 大小写折叠由调用方按题目策略处理，这里不做
func TokenizeList(text string) []string {
	var raw []string

	if hasLineMarkers(text) {
		for _, line := range strings.Split(text, "\n") {
			m := markerLineRe.FindStringSubmatch(line)
			if m != nil {
				raw = append(raw, m[1])
			} else {
				raw = append(raw, line)
			}
		}
	} else {
		raw = delimiterRe.Split(text, -1)
	}

	items := make([]string, 0, len(raw))
	for _, item := range raw {
		item = remnantRe.ReplaceAllString(strings.TrimSpace(item), "")
		item = NormalizeScalar(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func hasLineMarkers(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if markerLineRe.MatchString(line) {
			return true
		}
	}
	return false
}
