package wiki

import (
	"fmt"
	"strings"
)

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d url=%s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d url=%s location=%s", e.StatusCode, e.URL, loc)
}

// TransportError 表示请求没有拿到可用响应（连接失败、超时、读取 body 失败等）。
// 上层把它视为“本条查询无法提取”，交给退避逻辑处理。
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "transport error"
	}
	return fmt.Sprintf("transport url=%s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
