package backoff

import (
	"context"
	"time"
)

// Waiter 按固定步长分段等待，每一步之前回调 OnTick，便于外部观察存活状态。
type Waiter struct {
	// Step 为空时使用 DefaultStep。
	Step time.Duration
	// Sleep 为空时使用可被 ctx 取消的计时器（测试可注入）。
	Sleep func(ctx context.Context, d time.Duration) error
	// OnTick 可为空；参数为本步开始时的剩余时间。
	OnTick func(remaining time.Duration)
}

// Wait 分段等待 d；ctx 取消时立即返回 ctx.Err()。
func (w Waiter) Wait(ctx context.Context, d time.Duration) error {
	step := w.Step
	if step <= 0 {
		step = DefaultStep
	}
	sleep := w.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	for _, left := range Countdown(d, step) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w.OnTick != nil {
			w.OnTick(left)
		}
		if err := sleep(ctx, min(step, left)); err != nil {
			return err
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
