package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Pixxel123/PCSX2-Wiki-Bot/internal/infra/fsx"
)

// Answered 记录已回复（或已放弃）的消息 ID，保证同一条消息不会重复回复。
//
// 约束：
// - Path 为空：只保存在内存里（重启后丢失）
// - Path 非空：每次 Mark 都把完整列表原子写回 Path（JSON 数组，按标记顺序）
type Answered struct {
	path string

	mu    sync.Mutex
	ids   []string
	index map[string]struct{}
}

// Open 打开（或新建）已回复标记文件；文件不存在视为空集合。
func Open(path string) (*Answered, error) {
	a := &Answered{
		path:  strings.TrimSpace(path),
		index: make(map[string]struct{}),
	}
	if a.path == "" {
		return a, nil
	}
	a.path = filepath.Clean(a.path)

	b, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return a, nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return a, nil
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, fmt.Errorf("已回复标记文件无效：%s：%w", a.path, err)
	}
	for _, id := range ids {
		a.add(id)
	}
	return a, nil
}

// Memory 返回只在内存中保存的集合。
func Memory() *Answered {
	a, _ := Open("")
	return a
}

func (a *Answered) Has(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.index[id]
	return ok
}

// Mark 标记 id；重复标记不会再次写盘。写盘失败时 id 不会进入集合。
func (a *Answered) Mark(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id 不能为空")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.index[id]; ok {
		return nil
	}
	if a.path != "" {
		next := make([]string, 0, len(a.ids)+1)
		next = append(append(next, a.ids...), id)
		b, err := json.MarshalIndent(next, "", "  ")
		if err != nil {
			return err
		}
		b = append(b, '\n')
		if err := fsx.WriteFileAtomicReplace(filepath.Dir(a.path), filepath.Base(a.path), b); err != nil {
			return err
		}
	}
	a.add(id)
	return nil
}

func (a *Answered) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.ids)
}

func (a *Answered) add(id string) bool {
	if _, ok := a.index[id]; ok {
		return false
	}
	a.index[id] = struct{}{}
	a.ids = append(a.ids, id)
	return true
}
