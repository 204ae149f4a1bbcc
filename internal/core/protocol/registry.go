package protocol

import (
	"reflect"
	"slices"
	"sync"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// Registry 协议处理器注册表
//
// 每个协议至多一个处理器，Protocols 按注册顺序返回。
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]pkgif.Handler
	order    []string
}

// NewRegistry 创建协议注册表
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]pkgif.Handler),
	}
}

// Add 注册处理器，替换同协议的已有处理器
//
// 被替换的协议移到列表末尾。
func (r *Registry) Add(h pkgif.Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	proto := h.Protocol()
	if err := ValidateProposal(proto); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[proto]; exists {
		r.removeLocked(proto)
		logger.Debug("替换协议处理器", "protocol", proto)
	}
	r.handlers[proto] = h
	r.order = append(r.order, proto)
	return nil
}

// Remove 按协议注销处理器，不存在时返回 false
func (r *Registry) Remove(proto string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[proto]; !exists {
		return false
	}
	r.removeLocked(proto)
	return true
}

// RemoveInstance 按处理器身份注销
//
// 动态类型不同时不注销；同类型但不可比较时按 Protocol() 注销。
func (r *Registry) RemoveInstance(h pkgif.Handler) bool {
	if h == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	proto := h.Protocol()
	registered, ok := r.handlers[proto]
	if !ok {
		return false
	}
	typ := reflect.TypeOf(h)
	if typ != reflect.TypeOf(registered) {
		return false
	}
	if typ.Comparable() && registered != h {
		return false
	}
	r.removeLocked(proto)
	return true
}

// Lookup 查找协议对应的处理器
func (r *Registry) Lookup(proto string) (pkgif.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[proto]
	return h, ok
}

// Protocols 返回已注册协议的快照（注册顺序）
func (r *Registry) Protocols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append(make([]string, 0, len(r.order)), r.order...)
}

// Len 返回已注册协议数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers)
}

func (r *Registry) removeLocked(proto string) {
	delete(r.handlers, proto)
	if i := slices.Index(r.order, proto); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}
