package bot

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/backoff"
	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/chat"
)

// Store 记录已回复（或已放弃）的消息。
type Store interface {
	Has(id string) bool
	Mark(id string) error
}

// Loop 是单线程的投递循环：一条消息完整处理完之后才读取下一条。
type Loop struct {
	Source  chat.Source
	Sink    chat.Sink
	Store   Store
	Handler *Handler
	Waiter  backoff.Waiter
	Log     *zap.Logger
}

// Run 处理消息直到消息源耗尽（返回 nil）或 ctx 取消。
//
// 出错时按 backoff.Decide 分类：
// - 限流：等待后重试同一条消息，不标记
// - 其它错误：标记为已处理，等待后继续下一条
func (l Loop) Run(ctx context.Context) error {
	log := l.log()
	for {
		msg, err := l.Source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			var de *chat.DecodeError
			if errors.As(err, &de) {
				log.Warn("skip invalid message", zap.Error(err))
				continue
			}
			return err
		}
		if l.Store.Has(msg.ID) {
			continue
		}
		if err := l.process(ctx, msg); err != nil {
			return err
		}
	}
}

func (l Loop) process(ctx context.Context, msg chat.Message) error {
	log := l.log().With(zap.String("id", msg.ID))
	for {
		err := l.deliver(ctx, msg)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		d := backoff.Decide(err)
		log.Error("delivery failed", zap.Error(err), zap.Duration("wait", d.Wait), zap.Bool("rate_limited", d.RateLimited), zap.Bool("suppress", d.Suppress))
		if d.Suppress {
			if err := l.Store.Mark(msg.ID); err != nil {
				return err
			}
		}
		waiter := l.Waiter
		if waiter.OnTick == nil {
			waiter.OnTick = func(left time.Duration) {
				log.Info("retrying", zap.Duration("in", left))
			}
		}
		if err := waiter.Wait(ctx, d.Wait); err != nil {
			return err
		}
		if !d.RateLimited {
			return nil
		}
	}
}

func (l Loop) deliver(ctx context.Context, msg chat.Message) error {
	reply, ok, err := l.Handler.HandleMessage(ctx, msg.Body)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := l.Sink.Reply(ctx, msg, reply); err != nil {
		return err
	}
	if err := l.Store.Mark(msg.ID); err != nil {
		return err
	}
	l.log().Info("reply posted", zap.String("id", msg.ID))
	return nil
}

func (l Loop) log() *zap.Logger {
	if l.Log != nil {
		return l.Log
	}
	return zap.NewNop()
}
