// Package resolve 把自由文本查询解析为唯一的游戏页面、一组候选项或“未找到”。
//
// 两种策略由启动配置选择：
// - search：提交站内搜索，按词集相似度筛选结果页候选项
// - catalog：在预先构建的完整目录上做编辑距离相似度匹配
//
// 两种策略的阈值与候选排序方式不同，分别针对各自数据源的命名噪音调校，不要合并。
package resolve

import (
	"context"
	"errors"
	"strings"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/domain"
)

// Strategy 是一种解析策略。
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, query string) (domain.MatchDecision, error)
}

// Resolver 在策略之前统一处理空查询。
type Resolver struct {
	Strategy Strategy
}

// Resolve 返回三选一的 MatchDecision。
// 空查询直接返回 NoMatch，不做任何抓取或打分。
func (r Resolver) Resolve(ctx context.Context, query string) (domain.MatchDecision, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.NoMatchDecision(), nil
	}
	if r.Strategy == nil {
		return domain.MatchDecision{}, errors.New("resolve strategy 不能为空")
	}
	return r.Strategy.Resolve(ctx, query)
}

// Scorer 计算查询与候选名称的相似度（0..100）。
type Scorer func(query, name string) int
