// Package extract 从 PCSX2 wiki 游戏页中提取兼容性表与已知问题列表。
//
// 约束：
// - 纯函数：只依赖页面内容，不访问网络、不修改全局状态，相同输入得到相同输出
// - 子提取失败（兼容性表/问题列表）在本包内降级为空结果，不向上层返回错误
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
)

// MalformedMarkupError 表示某个局部结构无法解析（例如区域标题里没有区域代码）。
// 它只用于记录与日志，提取本身会跳过该部分继续进行。
type MalformedMarkupError struct {
	Part   string // "compatibility" / "issues"
	Reason string
}

func (e *MalformedMarkupError) Error() string {
	if e == nil {
		return "malformed markup"
	}
	return fmt.Sprintf("malformed markup: part=%s: %s", e.Part, e.Reason)
}

// Result 是一次提取的结果。
// Problems 记录被跳过的局部结构（均为 *MalformedMarkupError），不影响 Compatibility/Issues 的可用性。
type Result struct {
	Compatibility domain.CompatibilityReport
	Issues        domain.IssueList
	Problems      []error
}

// Page 解析页面 HTML 并提取全部内容。
// 只有 HTML 本身无法读取时才返回错误。
func Page(d domain.Document) (Result, error) {
	if len(d.HTML) == 0 {
		return Result{}, fmt.Errorf("html 为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(d.HTML))
	if err != nil {
		return Result{}, err
	}
	return FromDocument(doc), nil
}

// FromDocument 对已解析的文档做提取。
func FromDocument(doc *goquery.Document) Result {
	res := Result{
		Compatibility: domain.CompatibilityReport{},
		Issues:        domain.IssueList{Active: []string{}, Fixed: []string{}},
	}
	if doc == nil {
		return res
	}

	res.Problems = append(res.Problems, guard("compatibility", func() []error {
		rep, probs := compatibility(doc)
		res.Compatibility = rep
		return probs
	})...)
	res.Problems = append(res.Problems, guard("issues", func() []error {
		list, probs := issues(doc)
		res.Issues = list
		return probs
	})...)
	return res
}

// guard 把子提取中的 panic 收敛为 MalformedMarkupError；此时对应字段保持空结果。
func guard(part string, fn func() []error) (problems []error) {
	defer func() {
		if r := recover(); r != nil {
			problems = append(problems, &MalformedMarkupError{Part: part, Reason: fmt.Sprint(r)})
		}
	}()
	return fn()
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
