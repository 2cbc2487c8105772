package resolve

import "fmt"

// NotFoundError 表示查询无法落到任何可抽取的页面（例如命中项 404 或页面没有标题）。
// 它对用户表现为致歉回复，不触发重试。
type NotFoundError struct {
	Query   string
	Locator string
	Err     error
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("未找到：%q", e.Query)
	if e.Locator != "" {
		msg += "（" + e.Locator + "）"
	}
	if e.Err != nil {
		msg += "：" + e.Err.Error()
	}
	return msg
}

func (e *NotFoundError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
