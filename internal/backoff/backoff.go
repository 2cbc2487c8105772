// Package backoff 根据投递循环捕获的错误决定等待多久、是否放弃当前条目。
package backoff

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// RateLimitPrefix 是限流错误消息的首个词。
	RateLimitPrefix = "RATELIMIT:"

	DefaultWait = 15 * time.Second
	DefaultStep = 5 * time.Second
)

// RateLimitedError 表示下游限流；Message 是下游给出的原始消息（例如 "RATELIMIT: 3 minutes"）。
type RateLimitedError struct {
	Message string
}

func (e *RateLimitedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Decision 是一次错误分类的结果。
type Decision struct {
	Wait time.Duration
	// Suppress=true 表示把触发条目标记为已处理，不再重试。
	Suppress bool
	// RateLimited=true 表示等待后应重试同一条目。
	RateLimited bool
}

// Decide 对错误分类。
//
// 规则：
// - 限流（*RateLimitedError，或消息首个词为 RATELIMIT:）：取第一个整数；消息含 minute/minutes 时乘 60；
//   找不到整数时等待 15s；不放弃条目
// - 其它错误：等待 15s，并放弃条目
func Decide(err error) Decision {
	if err == nil {
		return Decision{}
	}
	msg, ok := rateLimitMessage(err)
	if !ok {
		return Decision{Wait: DefaultWait, Suppress: true}
	}
	return Decision{Wait: rateLimitWait(msg), RateLimited: true}
}

func rateLimitMessage(err error) (string, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) && rl != nil {
		return rl.Message, true
	}
	msg := err.Error()
	fields := strings.Fields(msg)
	if len(fields) > 0 && fields[0] == RateLimitPrefix {
		return msg, true
	}
	return "", false
}

var (
	firstInteger = regexp.MustCompile(`\d+`)
	minuteUnit   = regexp.MustCompile(`(?i)\bminutes?\b`)
)

// rateLimitWait 不依赖消息的标点形态：下游消息常带引号，例如
// `RATELIMIT: "Try again in 9 minutes." on field 'ratelimit'`。
func rateLimitWait(msg string) time.Duration {
	m := firstInteger.FindString(msg)
	if m == "" {
		return DefaultWait
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return DefaultWait
	}
	if minuteUnit.MatchString(msg) {
		return time.Duration(n) * time.Minute
	}
	return time.Duration(n) * time.Second
}

// Countdown 返回等待过程中每一步开始时的剩余时间（wait, wait-step, ...，全部 > 0）。
// step <= 0 时只有一步。
func Countdown(wait, step time.Duration) []time.Duration {
	if wait <= 0 {
		return nil
	}
	if step <= 0 {
		return []time.Duration{wait}
	}
	out := make([]time.Duration, 0, int(wait/step)+1)
	for left := wait; left > 0; left -= step {
		out = append(out, left)
	}
	return out
}
