// Package chat 定义入站消息源与回复出口，并提供基于 JSON Lines 的实现。
//
// 机器人核心只依赖 Source/Sink 接口；具体的聊天平台接入可以替换这里的实现。
package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Message 是一条入站消息。ID 用于“已回复”标记。
type Message struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

// Source 逐条提供入站消息；消息耗尽时返回 io.EOF。
type Source interface {
	Next(ctx context.Context) (Message, error)
}

// Sink 投递一条回复。
type Sink interface {
	Reply(ctx context.Context, msg Message, text string) error
}

// LineSource 从 io.Reader 读取 JSON Lines，每行一个 Message；空行跳过。
type LineSource struct {
	sc   *bufio.Scanner
	line int
}

const maxLineBytes = 1 << 20

func NewLineSource(r io.Reader) *LineSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &LineSource{sc: sc}
}

func (s *LineSource) Next(ctx context.Context) (Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Message{}, err
		}
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return Message{}, err
			}
			return Message{}, io.EOF
		}
		s.line++
		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}
		var m Message
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			return Message{}, &DecodeError{Line: s.line, Err: err}
		}
		if strings.TrimSpace(m.ID) == "" {
			return Message{}, &DecodeError{Line: s.line, Err: errors.New("id 不能为空")}
		}
		return m, nil
	}
}

// DecodeError 表示某一行无法解析为 Message。
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("第 %d 行消息无效：%v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Reply 是 LineSink 输出的一行。
type Reply struct {
	ID    string `json:"id"`
	Reply string `json:"reply"`
}

// LineSink 把回复以 JSON Lines 写到 io.Writer。可并发使用。
type LineSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewLineSink(w io.Writer) *LineSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &LineSink{enc: enc}
}

func (s *LineSink) Reply(ctx context.Context, msg Message, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(Reply{ID: msg.ID, Reply: text})
}
