// Package template 管理具名的完整样式配置：内置模板以及从模板文件加载的用户模板。
package template

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ByLCY/quotecard/style"
)

// ErrUnknownTemplate 表示按名称找不到模板。
var ErrUnknownTemplate = errors.New("unknown template")

// Registry 按插入顺序保存模板；同名模板后加入者覆盖先加入者，位置不变。
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]style.Template
}

// NewRegistry 创建包含给定模板的注册表。
func NewRegistry(templates ...style.Template) *Registry {
	r := &Registry{byName: map[string]style.Template{}}
	for _, t := range templates {
		r.Add(t)
	}
	return r
}

// Default 返回只包含内置模板的注册表。
func Default() *Registry { return NewRegistry(Builtin()...) }

// Add 加入或替换模板。
func (r *Registry) Add(t style.Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := normalize(t.Name)
	if _, ok := r.byName[key]; !ok {
		r.order = append(r.order, key)
	}
	r.byName[key] = t
}

// Lookup 按名称（忽略大小写与首尾空白）查找模板。
func (r *Registry) Lookup(name string) (style.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[normalize(name)]
	if !ok {
		return style.Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return t, nil
}

// Names 按插入顺序返回模板名。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.order))
	for _, key := range r.order {
		names = append(names, r.byName[key].Name)
	}
	return names
}

// All 按插入顺序返回全部模板的副本。
func (r *Registry) All() []style.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]style.Template, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byName[key])
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
