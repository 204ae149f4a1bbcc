package eventbus

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// Subscription 订阅
type Subscription struct {
	bus       *Bus
	topic     *topic
	name      string
	out       chan any
	closeOnce sync.Once
}

var _ pkgif.Subscription = (*Subscription)(nil)

// Out 返回事件通道，Close 后通道被关闭
func (s *Subscription) Out() <-chan any {
	return s.out
}

// Close 取消订阅，可重复调用
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		// 从 topic 移除后不会再有发送
		s.topic.remove(s)
		s.bus.release(s.topic)
		close(s.out)
	})
	return nil
}

// Emitter 事件发射器
type Emitter struct {
	bus       *Bus
	topic     *topic
	closed    atomic.Bool
	closeOnce sync.Once
}

var _ pkgif.Emitter = (*Emitter)(nil)

// Emit 发射事件
func (e *Emitter) Emit(event any) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if reflect.TypeOf(event) != e.topic.typ {
		return fmt.Errorf("%w: got %T, want %s", ErrWrongEventType, event, e.topic.typ)
	}
	e.topic.emit(event)
	return nil
}

// Close 关闭发射器
func (e *Emitter) Close() error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		e.topic.mu.Lock()
		e.topic.emitters--
		e.topic.mu.Unlock()
		e.bus.release(e.topic)
	})
	return nil
}
