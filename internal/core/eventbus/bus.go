package eventbus

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

var (
	// ErrClosed 事件总线或发射器已关闭
	ErrClosed = errors.New("eventbus closed")
	// ErrInvalidEventType 无效的事件类型
	ErrInvalidEventType = errors.New("invalid event type")
	// ErrNonPointerType 事件类型必须以指针给出
	ErrNonPointerType = errors.New("event type must be a pointer")
	// ErrWrongEventType 发射的事件与发射器类型不符
	ErrWrongEventType = errors.New("emitted event does not match emitter type")
)

// defaultBuffer 默认订阅缓冲
const defaultBuffer = 16

var _ pkgif.EventBus = (*Bus)(nil)

// Bus 事件总线
type Bus struct {
	mu     sync.Mutex
	topics map[reflect.Type]*topic
	closed bool
}

// topic 同一事件类型的订阅者集合
type topic struct {
	mu       sync.Mutex
	typ      reflect.Type
	subs     []*Subscription
	emitters int
	keepLast bool
	last     any
	dropped  atomic.Int64
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{topics: make(map[reflect.Type]*topic)}
}

// Subscribe 订阅事件
func (b *Bus) Subscribe(eventType any, opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	typ, err := elemType(eventType)
	if err != nil {
		return nil, err
	}

	settings := pkgif.SubscriptionSettings{Buffer: defaultBuffer}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.Buffer < 0 {
		settings.Buffer = 0
	}

	sub := &Subscription{bus: b, name: settings.Name, out: make(chan any, settings.Buffer)}

	err = b.withTopic(typ, func(t *topic) {
		sub.topic = t
		t.subs = append(t.subs, sub)
		if t.keepLast && t.last != nil {
			select {
			case sub.out <- t.last:
			default:
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Emitter 获取发射器
func (b *Bus) Emitter(eventType any, opts ...pkgif.EmitterOpt) (pkgif.Emitter, error) {
	typ, err := elemType(eventType)
	if err != nil {
		return nil, err
	}

	var settings pkgif.EmitterSettings
	for _, opt := range opts {
		opt(&settings)
	}

	em := &Emitter{bus: b}
	err = b.withTopic(typ, func(t *topic) {
		em.topic = t
		t.emitters++
		if settings.Stateful {
			t.keepLast = true
		}
	})
	if err != nil {
		return nil, err
	}
	return em, nil
}

// Close 关闭总线及全部订阅
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	var subs []*Subscription
	for _, t := range b.topics {
		t.mu.Lock()
		subs = append(subs, t.subs...)
		t.mu.Unlock()
	}
	b.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
	return nil
}

// withTopic 在持有总线锁与 topic 锁时执行 fn，topic 不存在则创建
func (b *Bus) withTopic(typ reflect.Type, fn func(t *topic)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	t, ok := b.topics[typ]
	if !ok {
		t = &topic{typ: typ}
		b.topics[typ] = t
	}
	t.mu.Lock()
	fn(t)
	t.mu.Unlock()
	return nil
}

// release 无订阅者和发射器时删除 topic
func (b *Bus) release(t *topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t.mu.Lock()
	idle := len(t.subs) == 0 && t.emitters == 0
	t.mu.Unlock()

	if idle && b.topics[t.typ] == t {
		delete(b.topics, t.typ)
	}
}

func (t *topic) emit(event any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.keepLast {
		t.last = event
	}
	for _, sub := range t.subs {
		select {
		case sub.out <- event:
		default:
			// 每 100 次丢弃警告一次
			if n := t.dropped.Add(1); n%100 == 1 {
				logger.Warn("慢消费者，事件被丢弃", "type", t.typ.String(), "subscriber", sub.name, "dropped", n)
			}
		}
	}
}

func (t *topic) remove(sub *Subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, s := range t.subs {
		if s == sub {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			return
		}
	}
}

func elemType(eventType any) (reflect.Type, error) {
	if eventType == nil {
		return nil, ErrInvalidEventType
	}
	typ := reflect.TypeOf(eventType)
	if typ.Kind() != reflect.Ptr {
		return nil, ErrNonPointerType
	}
	return typ.Elem(), nil
}
