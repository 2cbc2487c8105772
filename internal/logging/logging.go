// Package logging 构建进程内共用的 zap logger。
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 返回写到 stderr 的 JSON logger；verbose=true 时输出 debug 级别。
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("初始化 logger 失败：%w", err)
	}
	return log, nil
}

// Nop 返回丢弃所有输出的 logger。
func Nop() *zap.Logger { return zap.NewNop() }
