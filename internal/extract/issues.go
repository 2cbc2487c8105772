package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
)

const (
	knownIssuesSelector = "#Known_Issues"

	statusActive = "Status: Active"
	statusFixed  = "Status: Fixed"

	// 问题描述位于状态列表之前第 2 个兄弟节点（中间隔一个空白文本节点）。
	issueTextOffset = 2
)

func issues(doc *goquery.Document) (domain.IssueList, []error) {
	list := domain.IssueList{Active: []string{}, Fixed: []string{}}

	marker := doc.Find(knownIssuesSelector).First()
	if marker.Length() == 0 {
		return list, nil
	}
	heading := marker.Parent()

	var problems []error
	seenActive := map[string]struct{}{}
	seenFixed := map[string]struct{}{}

	heading.NextAllFiltered("ul").Each(func(_ int, ul *goquery.Selection) {
		status := normSpace(ul.Children().First().Text())

		var dst *[]string
		var seen map[string]struct{}
		switch status {
		case statusActive:
			dst, seen = &list.Active, seenActive
		case statusFixed:
			dst, seen = &list.Fixed, seenFixed
		default:
			return
		}

		text := normSpace(nodeText(secondPreviousSibling(ul.Get(0))))
		if text == "" {
			problems = append(problems, &MalformedMarkupError{Part: "issues", Reason: "状态列表之前没有问题描述：" + status})
			return
		}
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		*dst = append(*dst, text)
	})
	return list, problems
}

// secondPreviousSibling 返回 n 之前第 issueTextOffset 个兄弟节点（空白文本节点也计数）。
//
// 前置条件：问题描述节点与状态列表之间恰好隔着一个节点。
// 页面结构变化时只需要调整 issueTextOffset。
func secondPreviousSibling(n *html.Node) *html.Node {
	for i := 0; i < issueTextOffset && n != nil; i++ {
		n = n.PrevSibling
	}
	return n
}

// nodeText 拼接 n 及其所有后代文本节点。
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
