package resolve

import (
	"fmt"
	"strings"
)

const (
	StrategySearch  = "search"
	StrategyCatalog = "catalog"
)

// Registry 是策略的只读注册表（按 name 索引）。
type Registry struct {
	byName map[string]Strategy
}

func NewRegistry(strategies ...Strategy) (Registry, error) {
	byName := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		if s == nil {
			return Registry{}, fmt.Errorf("strategy 不能为空")
		}
		name := strings.ToLower(strings.TrimSpace(s.Name()))
		if name == "" {
			return Registry{}, fmt.Errorf("strategy.Name 不能为空")
		}
		if _, ok := byName[name]; ok {
			return Registry{}, fmt.Errorf("重复的 strategy：%q", name)
		}
		byName[name] = s
	}
	return Registry{byName: byName}, nil
}

func (r Registry) Get(name string) (Strategy, bool) {
	if r.byName == nil {
		return nil, false
	}
	s, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Resolver 返回使用指定策略的 Resolver；策略未注册时返回错误。
func (r Registry) Resolver(name string) (Resolver, error) {
	s, ok := r.Get(name)
	if !ok {
		return Resolver{}, fmt.Errorf("未知 strategy：%q", name)
	}
	return Resolver{Strategy: s}, nil
}
