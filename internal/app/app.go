// Package app 按最终配置组装 wiki 客户端、解析策略与机器人循环。
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/backoff"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/bot"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/catalog"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/chat"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/config"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/infra/httpx"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/infra/store"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/render"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/resolve"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/wiki"
)

// App 持有一次进程运行所需的依赖。
type App struct {
	Config config.EffectiveConfig
	Wiki   wiki.Client
	Log    *zap.Logger
}

// New 创建 App。httpClient 为空时按配置（代理、UA）创建。
func New(eff config.EffectiveConfig, httpClient *http.Client, log *zap.Logger) (*App, error) {
	if httpClient == nil {
		c, err := httpx.NewClient(eff.ProxyURL, eff.UserAgent)
		if err != nil {
			return nil, err
		}
		httpClient = c
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		Config: eff,
		Wiki:   wiki.Client{BaseURL: eff.WikiURL, HTTP: httpClient},
		Log:    log,
	}, nil
}

// Handler 按配置的策略组装 bot.Handler。
//
// catalog 策略会先抓取并解析完整目录；失败返回 *catalog.UnavailableError，调用方不应带着空目录继续运行。
func (a *App) Handler(ctx context.Context) (*bot.Handler, error) {
	var idx *catalog.Index
	if a.Config.Strategy == resolve.StrategyCatalog {
		var err error
		idx, err = catalog.Build(ctx, a.Wiki, a.Config.CatalogURL)
		if err != nil {
			return nil, err
		}
		a.Log.Info("catalog loaded", zap.String("url", a.Config.CatalogURL), zap.Int("games", idx.Len()))
	}

	reg, err := resolve.NewRegistry(
		resolve.SearchStrategy{Searcher: a.Wiki},
		resolve.CatalogStrategy{Index: idx},
	)
	if err != nil {
		return nil, fmt.Errorf("初始化 strategy registry 失败：%w", err)
	}
	r, err := reg.Resolver(a.Config.Strategy)
	if err != nil {
		return nil, err
	}

	return &bot.Handler{
		Resolver:   r,
		Fetcher:    a.Wiki,
		Templates:  a.templates(),
		Summon:     a.Config.SummonPhrase,
		MaxQueries: a.Config.MaxQueries,
		Log:        a.Log,
	}, nil
}

// Lookup 对单个查询生成完整回复（不经过消息循环）。
func (a *App) Lookup(ctx context.Context, query string) (string, error) {
	h, err := a.Handler(ctx)
	if err != nil {
		return "", err
	}
	return h.Handle(ctx, query)
}

// Serve 从 in 读取 JSON Lines 消息、把回复写到 out，直到输入耗尽或 ctx 取消。
// 组装或循环失败时整体冷却后重启（消息源与已回复标记跨重启保留）。
func (a *App) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	answered, err := store.Open(a.Config.AnsweredPath)
	if err != nil {
		return err
	}
	src := chat.NewLineSource(in)
	sink := chat.NewLineSink(out)

	sup := bot.Supervisor{Cooldown: a.Config.RestartCooldown, Log: a.Log}
	return sup.Run(ctx, func(ctx context.Context) error {
		h, err := a.Handler(ctx)
		if err != nil {
			return err
		}
		loop := bot.Loop{
			Source:  src,
			Sink:    sink,
			Store:   answered,
			Handler: h,
			Waiter:  backoff.Waiter{Step: a.Config.RetryStep},
			Log:     a.Log,
		}
		a.Log.Info("bot started", zap.String("strategy", a.Config.Strategy), zap.Int("answered", answered.Len()))
		return loop.Run(ctx)
	})
}

func (a *App) templates() render.Templates {
	return render.Templates{
		WikiURL: a.Config.WikiURL,
		Summon:  a.Config.SummonPhrase,
		Footer: render.Footer{
			SourceName: render.DefaultSourceName,
			SourceURL:  a.Config.WikiURL,
			ContactURL: a.Config.ContactURL,
			RepoURL:    a.Config.RepoURL,
		},
	}
}
