// Package catalog 维护“游戏名 -> 页面地址”的只读目录索引。
//
// 索引在进程启动时从完整游戏列表页构建一次，之后只读；
// 需要重建时应构建新 Index 再整体替换，不做原地修改。
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/wiki"
)

// Fetcher 是构建索引所需的最小抓取能力（wiki.Client 满足该接口）。
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (domain.Document, error)
}

// UnavailableError 表示目录无法构建（列表页不可达或无法解析）。
// 这是启动期致命错误：空目录会让之后每次查询都误报“未找到”。
type UnavailableError struct {
	URL string
	Err error
}

func (e *UnavailableError) Error() string {
	if e == nil {
		return "catalog unavailable"
	}
	return fmt.Sprintf("catalog unavailable url=%s: %v", e.URL, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Index 是只读目录。名称区分大小写，同名以首次出现为准，Names 保持列表页顺序。
type Index struct {
	byName map[string]string
	names  []string
}

// New 用给定条目构建索引（测试可直接构造假目录，无需网络）。
func New(entries []domain.CatalogEntry) *Index {
	idx := &Index{
		byName: make(map[string]string, len(entries)),
		names:  make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		if _, ok := idx.byName[name]; ok {
			continue
		}
		idx.byName[name] = e.Locator
		idx.names = append(idx.names, name)
	}
	return idx
}

// Build 抓取并解析完整游戏列表页。任何失败都返回 *UnavailableError。
func Build(ctx context.Context, f Fetcher, listingURL string) (*Index, error) {
	if f == nil {
		return nil, &UnavailableError{URL: listingURL, Err: errors.New("fetcher 不能为空")}
	}
	doc, err := f.Fetch(ctx, listingURL)
	if err != nil {
		return nil, &UnavailableError{URL: listingURL, Err: err}
	}
	return Parse(doc)
}

// Parse 从列表页提取条目：每个表格行的第一个 td 中的第一个链接即为一条记录。
// 一条都没有时视为无法解析。
func Parse(d domain.Document) (*Index, error) {
	doc, err := wiki.Parse(d)
	if err != nil {
		return nil, &UnavailableError{URL: d.URL, Err: err}
	}

	entries := make([]domain.CatalogEntry, 0, 1024)
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		a := tr.ChildrenFiltered("td").First().Find("a[href]").First()
		if a.Length() == 0 {
			return
		}
		name := strings.Join(strings.Fields(a.Text()), " ")
		href, _ := a.Attr("href")
		if name == "" || strings.TrimSpace(href) == "" {
			return
		}
		entries = append(entries, domain.CatalogEntry{Name: name, Locator: wiki.ResolveURL(d.URL, href)})
	})
	if len(entries) == 0 {
		return nil, &UnavailableError{URL: d.URL, Err: errors.New("列表页中没有任何游戏条目")}
	}
	return New(entries), nil
}

// Lookup 按名称精确查找（区分大小写）。
func (idx *Index) Lookup(name string) (string, bool) {
	if idx == nil {
		return "", false
	}
	loc, ok := idx.byName[name]
	return loc, ok
}

// Names 返回所有名称的副本（列表页顺序）。
func (idx *Index) Names() []string {
	if idx == nil {
		return nil
	}
	return append([]string(nil), idx.names...)
}

func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.names)
}
