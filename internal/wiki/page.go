package wiki

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
)

// SearchResultsTitle 是搜索结果页的固定标题；游戏页的标题不会是它。
const SearchResultsTitle = "Search results"

// Parse 把抓取到的页面解析为 goquery 文档。
func Parse(d domain.Document) (*goquery.Document, error) {
	if len(d.HTML) == 0 {
		return nil, errors.New("html 为空")
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(d.HTML))
}

// Title 返回页面主标题（h1#firstHeading）；不存在时 ok=false。
func Title(doc *goquery.Document) (string, bool) {
	h := doc.Find("h1#firstHeading").First()
	if h.Length() == 0 {
		return "", false
	}
	t := normSpace(h.Text())
	return t, t != ""
}

// IsSearchResults 判断标题是否为搜索结果页。
func IsSearchResults(title string) bool { return title == SearchResultsTitle }

// SearchResults 提取搜索结果页“页面标题匹配”列表中的候选项（保持页面顺序）。
//
// 名称直接使用 wiki 的官方页面名；链接相对 pageURL 解析。
// 页面中没有结果列表时 ok=false。
func SearchResults(doc *goquery.Document, pageURL string) ([]domain.SearchCandidate, bool) {
	list := doc.Find("ul.mw-search-results").First()
	if list.Length() == 0 {
		return nil, false
	}
	out := make([]domain.SearchCandidate, 0, 20)
	list.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		name := normSpace(a.Text())
		href, _ := a.Attr("href")
		if name == "" || strings.TrimSpace(href) == "" {
			return
		}
		out = append(out, domain.SearchCandidate{Name: name, Locator: ResolveURL(pageURL, href)})
	})
	return out, true
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
