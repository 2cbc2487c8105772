package bot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/backoff"
)

// DefaultCooldown 是整体重启前的固定冷却时间。
const DefaultCooldown = 20 * time.Second

// Supervisor 是最外层的重启循环：run 失败后冷却一段时间，再整体重来。
type Supervisor struct {
	Cooldown time.Duration
	// Sleep 为空时使用可被 ctx 取消的计时器。
	Sleep func(ctx context.Context, d time.Duration) error
	Log   *zap.Logger
}

// Run 反复调用 run，直到 run 正常返回或 ctx 取消。
func (s Supervisor) Run(ctx context.Context, run func(ctx context.Context) error) error {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	cooldown := s.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	wait := backoff.Waiter{Step: cooldown, Sleep: s.Sleep}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info("bot starting", zap.Int("attempt", attempt))
		err := run(ctx)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Error("bot stopped", zap.Error(err), zap.Duration("cooldown", cooldown))
		if err := wait.Wait(ctx, cooldown); err != nil {
			return err
		}
	}
}
