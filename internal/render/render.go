// Package render 把解析与抽取结果渲染为 Reddit 风格的 markdown 回复。
//
// 所有函数都是纯函数：相同输入得到逐字节相同的输出。
package render

import (
	"fmt"
	"strings"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
)

const (
	// EmptyQuery 是空查询的固定回复；原样返回，不追加页脚。
	EmptyQuery = "I need a search term to look up a game! Try something like `WikiBot! Stepping Selection`."

	NoCompatibility = "No compatibility information found"
	NoIssues        = "No active or fixed issues found."

	DefaultSourceName = "PCSX2 Wiki"
	DefaultSummon     = "WikiBot!"
)

// Templates 持有回复模板中会变化的部分（wiki 地址、召唤词、页脚）。
type Templates struct {
	WikiURL string
	// Summon 出现在消歧提示中；为空时使用 DefaultSummon。
	Summon string
	Footer Footer
}

// Record 渲染一条完整的游戏记录：标题链接、兼容性表格、问题列表。
func (t Templates) Record(rec domain.GameRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## [%s](%s)\n\n", linkText(rec.Title), rec.CanonicalURL)
	b.WriteString(Compatibility(rec.Compatibility))
	b.WriteString("\n\n")
	b.WriteString(Issues(rec.Issues))
	return b.String()
}

// Compatibility 渲染兼容性区块；报告为空时返回 NoCompatibility。
func Compatibility(report domain.CompatibilityReport) string {
	if len(report) == 0 {
		return NoCompatibility
	}
	header, rows := Table(report)
	return "#### **Compatibility table**\n\n" + Markdown(header, rows)
}

// Table 把兼容性报告转成表头与数据行。
//
// 表头只取第一个区域的 OS 顺序；后续区域如果 OS 集合不同，仍按原样输出各自的状态。
func Table(report domain.CompatibilityReport) (header []string, rows [][]string) {
	header = append([]string{""}, report.Header()...)
	rows = make([][]string, 0, len(report))
	for _, r := range report {
		row := make([]string, 0, len(r.Entries)+1)
		row = append(row, "**"+r.Region+"**")
		for _, e := range r.Entries {
			row = append(row, e.State)
		}
		rows = append(rows, row)
	}
	return header, rows
}

// Markdown 输出 `| a | b |` 形式的表格（含分隔行），每行以换行结尾。
func Markdown(header []string, rows [][]string) string {
	var b strings.Builder
	writeRow(&b, header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)
	for _, r := range rows {
		writeRow(&b, r)
	}
	return b.String()
}

var linkEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`)

// linkText 转义链接文字中的方括号。
func linkText(s string) string {
	return linkEscaper.Replace(s)
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(c, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// Issues 渲染问题区块：先 Active 再 Fixed，空分类省略；两类都为空时返回 NoIssues。
func Issues(list domain.IssueList) string {
	if list.Empty() {
		return NoIssues
	}
	blocks := make([]string, 0, 2)
	if len(list.Active) > 0 {
		blocks = append(blocks, bullets("**Active issues:**", list.Active))
	}
	if len(list.Fixed) > 0 {
		blocks = append(blocks, bullets("**Fixed issues:**", list.Fixed))
	}
	return strings.Join(blocks, "\n")
}

func bullets(title string, items []string) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, it := range items {
		b.WriteString("* ")
		b.WriteString(it)
		b.WriteString("\n")
	}
	return b.String()
}

// Disambiguation 渲染候选列表；没有候选项时退化为 NoMatch。
func (t Templates) Disambiguation(query string, candidates []domain.SearchCandidate) string {
	if len(candidates) == 0 {
		return t.NoMatch(query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "No direct match found for **%s**, displaying %d wiki results:\n\n", query, len(candidates))
	for _, c := range candidates {
		fmt.Fprintf(&b, "[%s](%s)\n\n", linkText(c.Name), c.Locator)
	}
	fmt.Fprintf(&b, "Feel free to ask me again (`%s game name`) with these game names or visit the wiki directly!", t.summon())
	return b.String()
}

// NoMatch 渲染“未找到”的致歉回复。
func (t Templates) NoMatch(query string) string {
	return fmt.Sprintf("I'm sorry, I couldn't find any information on **%s**.\n\n"+
		"Please feel free to try again; perhaps you had a spelling mistake, or your game does not exist in the [%s](%s).",
		query, t.Footer.sourceName(), t.WikiURL)
}

// Reply 拼接一个或多个回复正文，并追加唯一的页脚。
func (t Templates) Reply(bodies ...string) string {
	return strings.Join(bodies, "\n\n&nbsp;\n\n") + t.Footer.String()
}

func (t Templates) summon() string {
	if s := strings.TrimSpace(t.Summon); s != "" {
		return s
	}
	return DefaultSummon
}
