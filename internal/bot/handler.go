// Package bot 把解析、抽取与渲染串成一次完整的问答，并驱动单线程的消息循环。
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/extract"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/render"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/resolve"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/wiki"
)

// Fetcher 抓取单个游戏页（wiki.Client 满足该接口）。
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (domain.Document, error)
}

// Handler 处理一次查询：resolve -> （必要时抓取）-> extract -> render。
type Handler struct {
	Resolver  resolve.Resolver
	Fetcher   Fetcher
	Templates render.Templates
	// Summon 为空时使用 DefaultSummon。
	Summon string
	// MaxQueries 限制一条消息中用 | 拆分出的查询数；<= 0 表示不限制。
	MaxQueries int
	Log        *zap.Logger

	summonOnce sync.Once
	summoner   *Summoner
}

// Answer 返回单个查询的回复正文（不含页脚）。
//
// “未找到”不是错误：返回致歉正文与 nil。网络等错误原样返回，由外层循环分类处理。
func (h *Handler) Answer(ctx context.Context, query string) (string, error) {
	d, err := h.Resolver.Resolve(ctx, query)
	if err != nil {
		return "", err
	}
	h.log().Debug("resolved", zap.String("query", query), zap.Stringer("kind", d.Kind), zap.Int("candidates", len(d.Candidates)))

	switch d.Kind {
	case domain.DirectHit:
		rec, err := h.record(ctx, query, d.Hit)
		if err != nil {
			var nf *resolve.NotFoundError
			if errors.As(err, &nf) {
				h.log().Info("not found", zap.String("query", query), zap.Error(err))
				return h.Templates.NoMatch(query), nil
			}
			return "", err
		}
		return h.Templates.Record(rec), nil
	case domain.Disambiguate:
		return h.Templates.Disambiguation(query, d.Candidates), nil
	default:
		return h.Templates.NoMatch(query), nil
	}
}

// Handle 返回单个查询的完整回复；空查询返回固定提示（不追加页脚、不做任何抓取）。
func (h *Handler) Handle(ctx context.Context, query string) (string, error) {
	queries := SplitQueries(query, h.MaxQueries)
	if len(queries) == 0 {
		return render.EmptyQuery, nil
	}
	bodies := make([]string, 0, len(queries))
	for _, q := range queries {
		body, err := h.Answer(ctx, q)
		if err != nil {
			return "", err
		}
		bodies = append(bodies, body)
	}
	return h.Templates.Reply(bodies...), nil
}

// HandleMessage 从原始消息中提取查询并回复；消息不含召唤词时 ok=false。
func (h *Handler) HandleMessage(ctx context.Context, body string) (reply string, ok bool, err error) {
	q, ok := h.matcher().Extract(body)
	if !ok {
		return "", false, nil
	}
	reply, err = h.Handle(ctx, q)
	if err != nil {
		return "", true, err
	}
	return reply, true, nil
}

func (h *Handler) record(ctx context.Context, query string, hit domain.Hit) (domain.GameRecord, error) {
	var page domain.Document
	if hit.Document != nil {
		page = *hit.Document
	} else {
		if h.Fetcher == nil {
			return domain.GameRecord{}, errors.New("fetcher 不能为空")
		}
		var err error
		page, err = h.Fetcher.Fetch(ctx, hit.Locator)
		if err != nil {
			var se *wiki.HTTPStatusError
			if errors.As(err, &se) && (se.StatusCode == http.StatusNotFound || se.StatusCode == http.StatusGone) {
				return domain.GameRecord{}, &resolve.NotFoundError{Query: query, Locator: hit.Locator, Err: err}
			}
			return domain.GameRecord{}, err
		}
	}

	doc, err := wiki.Parse(page)
	if err != nil {
		return domain.GameRecord{}, &resolve.NotFoundError{Query: query, Locator: page.URL, Err: err}
	}
	title, ok := wiki.Title(doc)
	if !ok || wiki.IsSearchResults(title) {
		return domain.GameRecord{}, &resolve.NotFoundError{Query: query, Locator: page.URL, Err: fmt.Errorf("页面不是游戏页")}
	}

	res := extract.FromDocument(doc)
	for _, p := range res.Problems {
		h.log().Debug("markup problem", zap.String("url", page.URL), zap.Error(p))
	}
	url := page.URL
	if url == "" {
		url = hit.Locator
	}
	return domain.GameRecord{
		Title:         title,
		CanonicalURL:  url,
		Compatibility: res.Compatibility,
		Issues:        res.Issues,
	}, nil
}

// matcher 只编译一次召唤词；Summon 在首次 HandleMessage 之后不应再修改。
func (h *Handler) matcher() *Summoner {
	h.summonOnce.Do(func() { h.summoner = NewSummoner(h.summon()) })
	return h.summoner
}

func (h *Handler) summon() string {
	if h.Summon != "" {
		return h.Summon
	}
	return DefaultSummon
}

func (h *Handler) log() *zap.Logger {
	if h.Log != nil {
		return h.Log
	}
	return zap.NewNop()
}
