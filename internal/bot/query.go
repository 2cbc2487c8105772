package bot

import (
	"regexp"
	"strings"
)

// DefaultSummon 是默认召唤词（大小写不敏感）。
const DefaultSummon = "WikiBot! "

// Summoner 是预编译好的召唤词匹配器，可重复使用。
type Summoner struct {
	exact *regexp.Regexp
	// loose 是去掉末尾空白后的召唤词，允许被换行或结尾代替（例如 "WikiBot!" 单独一行）。
	loose *regexp.Regexp
}

// NewSummoner 按字面（大小写不敏感）编译召唤词；phrase 全为空白时返回 nil，nil 不匹配任何消息。
func NewSummoner(phrase string) *Summoner {
	if strings.TrimSpace(phrase) == "" {
		return nil
	}
	s := &Summoner{exact: summonPattern(phrase)}
	if trimmed := strings.TrimRight(phrase, " \t"); trimmed != phrase {
		s.loose = summonPattern(trimmed)
	}
	return s
}

func summonPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase) + `([^!,?\n\r]*)`)
}

// Extract 返回消息中召唤词之后、遇到第一个 ! , ? 或换行之前的文本（已去掉首尾空白）。
// 消息不含召唤词时 ok=false；召唤词后为空时返回 ("", true)。
func (s *Summoner) Extract(body string) (query string, ok bool) {
	if s == nil {
		return "", false
	}
	m := s.exact.FindStringSubmatch(body)
	if m == nil && s.loose != nil {
		m = s.loose.FindStringSubmatch(body)
	}
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ExtractQuery 等价于 NewSummoner(phrase).Extract(body)；循环中应复用 Summoner。
func ExtractQuery(phrase, body string) (query string, ok bool) {
	return NewSummoner(phrase).Extract(body)
}

// SplitQueries 按 | 拆分一次召唤中的多个游戏名；空项丢弃，max > 0 时最多保留 max 个。
func SplitQueries(query string, max int) []string {
	parts := strings.Split(query, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
