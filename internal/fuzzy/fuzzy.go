// Package fuzzy 提供游戏名称匹配使用的近似字符串相似度（0..100 的整数分）。
//
// Ratio 基于最小差异（go-diff 的 Myers diff）计算公共字符占比；
// TokenSetRatio 在此基础上忽略词序与重复词。
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Ratio 返回 a 与 b 的相似度：100 * 2M / (len(a)+len(b))，M 为最小 diff 中相等片段的字符数。
// 任一输入为空时返回 0。结果按“四舍六入五成双”取整。
func Ratio(a, b string) int {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	if a == b {
		return 100
	}

	dmp := diffmatchpatch.New()
	// 关闭超时：超时会让 diff 退化为非最小结果，分数不再可重复。
	dmp.DiffTimeout = 0

	m := 0
	for _, d := range dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			m += utf8.RuneCountInString(d.Text)
		}
	}
	return score(2*m, la+lb)
}

// TokenSetRatio 是与词序、重复词无关的相似度。
//
// 两边先经 FullProcess 分词去重；交集排序后分别拼上各自的差集，
// 取三组两两比较中的最高分。任一边没有词时返回 0。
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var inter, onlyA, onlyB []string
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range tb {
		if _, ok := ta[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(inter, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := Ratio(sect, combinedA)
	if s := Ratio(sect, combinedB); s > best {
		best = s
	}
	if s := Ratio(combinedA, combinedB); s > best {
		best = s
	}
	return best
}

// FullProcess 转小写，把非单词字符（字母、数字、下划线以外）替换为空格，并压缩空白。
func FullProcess(s string) string {
	s = strings.Map(func(r rune) rune {
		if isWord(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// StripNonWord 转小写并删除所有非单词字符（字母、数字、下划线以外）。
func StripNonWord(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWord(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(FullProcess(s))
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

func score(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.RoundToEven(100 * float64(num) / float64(den)))
}
