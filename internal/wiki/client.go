// Package wiki 负责与 PCSX2 wiki 交互：页面抓取、站内搜索，以及搜索页/游戏页的基础识别。
//
// 约束：
// - Fetch/Search 不做缓存（按需抓取），重试与 UA 由 httpx.Transport 统一实现
// - 页面识别函数（Title/SearchResults）是纯函数
package wiki

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
)

// DefaultBaseURL 是 PCSX2 wiki 的默认地址。
const DefaultBaseURL = "https://wiki.pcsx2.net"

// Client 实现 wiki 的页面抓取。
type Client struct {
	// BaseURL 为空时使用 DefaultBaseURL。
	BaseURL string
	HTTP    *http.Client
}

func (c Client) baseURL() string {
	u := strings.TrimSpace(c.BaseURL)
	if u == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

// SearchURL 返回站内搜索地址。
// 使用 go=Go：标题完全匹配时站点会直接重定向到游戏页。
func (c Client) SearchURL(query string) string {
	v := url.Values{}
	v.Set("search", query)
	v.Set("title", "Special:Search")
	v.Set("go", "Go")
	return c.baseURL() + "/index.php?" + v.Encode()
}

// Search 提交站内搜索，返回最终落地的页面（游戏页或搜索结果页）。
func (c Client) Search(ctx context.Context, query string) (domain.Document, error) {
	if strings.TrimSpace(query) == "" {
		return domain.Document{}, errors.New("query 不能为空")
	}
	return c.get(ctx, c.SearchURL(query))
}

// Fetch 抓取指定页面；locator 可以是绝对 URL，也可以是相对 BaseURL 的路径。
func (c Client) Fetch(ctx context.Context, locator string) (domain.Document, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return domain.Document{}, errors.New("locator 不能为空")
	}
	return c.get(ctx, ResolveURL(c.baseURL()+"/", locator))
}

func (c Client) get(ctx context.Context, u string) (domain.Document, error) {
	if c.HTTP == nil {
		return domain.Document{}, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Document{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.Document{}, &TransportError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Document{}, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Document{}, &TransportError{URL: u, Err: err}
	}

	final := u
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return domain.Document{URL: final, HTML: b}, nil
}

// ResolveURL 把 href 解析为绝对 URL；无法解析时原样返回。
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	ru, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(ru).String()
}
