package render

import (
	"fmt"
	"strings"
)

// Footer 是每条回复末尾的固定区块：机器人声明、信息来源、联系方式与源码链接。
type Footer struct {
	SourceName string
	SourceURL  string
	ContactURL string
	RepoURL    string
}

func (f Footer) String() string {
	var b strings.Builder
	b.WriteString("\n\n---\n\n")
	fmt.Fprintf(&b, "^(I'm a bot, and should only be used for reference. All of my information comes from the contributors at the) [%s](%s)^.", superscript(f.sourceName()), f.SourceURL)
	if f.ContactURL != "" {
		fmt.Fprintf(&b, " ^(If there are any issues, please contact my) ^[Creator](%s)", f.ContactURL)
	}
	b.WriteString("\n")
	if f.RepoURL != "" {
		fmt.Fprintf(&b, "\n[^GitHub](%s)\n", f.RepoURL)
	}
	return b.String()
}

func (f Footer) sourceName() string {
	if s := strings.TrimSpace(f.SourceName); s != "" {
		return s
	}
	return DefaultSourceName
}

// superscript 给每个单词加上 ^（Reddit 上标语法只作用于单个单词）。
func superscript(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = "^" + w
	}
	return strings.Join(words, " ")
}
