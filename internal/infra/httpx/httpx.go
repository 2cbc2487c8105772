package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout  = 20 * time.Second
	defaultRetryMax = 2

	// DefaultUserAgent 用于未配置 user_agent 的情况。wiki 要求机器人标明身份。
	DefaultUserAgent = "PCSX2-Wiki-Bot/1.0 (+https://github.com/Pixxel123/PCSX2-Wiki-Bot)"
)

// Transport 把“固定 UA + 代理 + keep-alive 策略 + 有界重试”固化为统一策略。
//
// wiki 客户端只负责“定位页面 + 读取 HTML”，不关心网络策略细节。
type Transport struct {
	Base *http.Transport

	// UserAgent 只在请求未自带 User-Agent 时设置。
	UserAgent string

	// RetryMax 表示最大重试次数（不含首次尝试）。例如 2 表示最多 3 次尝试。
	RetryMax int

	// DisableKeepAlives 决定是否对 Request 设置 Close=true。
	// 真正禁用 keep-alive 依赖 Base.DisableKeepAlives。
	DisableKeepAlives bool
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}

	// 只对“可重放”的请求做重试：GET/HEAD 且无 body。
	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	max := t.RetryMax
	if max < 0 {
		max = 0
	}
	if !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		r := req.Clone(req.Context())
		if r.Header.Get("User-Agent") == "" && t.UserAgent != "" {
			r.Header.Set("User-Agent", t.UserAgent)
		}
		if t.DisableKeepAlives {
			r.Close = true
		}

		resp, err := t.Base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			// ctx 已取消：不再重试。
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// NewClient 构造用于 wiki 页面抓取的 HTTP client。
//
// 规则：
// - proxyURL 非空：必须走代理，且禁用 keep-alive（每请求新连接）
// - userAgent 为空时使用 DefaultUserAgent
// - 有界重试 + 总超时
func NewClient(proxyURL, userAgent string) (*http.Client, error) {
	proxyURL = strings.TrimSpace(proxyURL)
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	base := &http.Transport{
		Proxy:                 nil,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}
	disableKeepAlives := false

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		base.Proxy = http.ProxyURL(u)
		base.DisableKeepAlives = true
		disableKeepAlives = true
	}

	return &http.Client{
		Transport: &Transport{
			Base:              base,
			UserAgent:         userAgent,
			RetryMax:          defaultRetryMax,
			DisableKeepAlives: disableKeepAlives,
		},
		Timeout: defaultTimeout,
	}, nil
}
