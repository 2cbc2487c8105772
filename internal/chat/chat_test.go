package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLineSource(t *testing.T) {
	in := strings.Join([]string{
		`{"id":"c1","body":"WikiBot! Stepping Selection"}`,
		``,
		`   `,
		`{"id":"c2","body":"hello"}`,
	}, "\n")
	src := NewLineSource(strings.NewReader(in))

	var got []Message
	for {
		m, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("不期望错误：%v", err)
		}
		got = append(got, m)
	}
	want := []Message{
		{ID: "c1", Body: "WikiBot! Stepping Selection"},
		{ID: "c2", Body: "hello"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("消息不符合预期 (-want +got):\n%s", diff)
	}
}

func TestLineSource_InvalidLine(t *testing.T) {
	src := NewLineSource(strings.NewReader("{\"id\":\"a\",\"body\":\"x\"}\nnot json\n{\"body\":\"no id\"}\n"))
	if _, err := src.Next(context.Background()); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	_, err := src.Next(context.Background())
	var de *DecodeError
	if !errors.As(err, &de) || de.Line != 2 {
		t.Fatalf("期望第 2 行 DecodeError，实际：%v", err)
	}

	// 无效行之后仍可继续读取。
	_, err = src.Next(context.Background())
	if !errors.As(err, &de) || de.Line != 3 {
		t.Fatalf("期望第 3 行 DecodeError（缺少 id），实际：%v", err)
	}
}

func TestLineSource_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLineSource(strings.NewReader(`{"id":"a"}`)).Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("期望 context.Canceled，实际：%v", err)
	}
}

func TestLineSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLineSink(&buf)
	text := "## [A & B](https://wiki.pcsx2.net/A_%26_B)\n\n<none>"
	if err := sink.Reply(context.Background(), Message{ID: "c1"}, text); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("每条回复应占一行：%q", buf.String())
	}
	if strings.Contains(buf.String(), `\u0026`) || strings.Contains(buf.String(), `\u003c`) {
		t.Fatalf("不应转义 HTML 字符：%q", buf.String())
	}
	var got Reply
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("输出不是合法 JSON：%v", err)
	}
	if got.ID != "c1" || got.Reply != text {
		t.Fatalf("回复不符合预期：%+v", got)
	}
}
