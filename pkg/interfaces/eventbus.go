package interfaces

// EventBus 进程内事件总线
//
// 事件类型以指针表示，例如 bus.Subscribe(new(EvtConnectionOpened))；
// 发射与接收的都是值。
type EventBus interface {
	Subscribe(eventType any, opts ...SubscriptionOpt) (Subscription, error)
	Emitter(eventType any, opts ...EmitterOpt) (Emitter, error)
}

// Subscription 事件订阅，Close 后 Out 被关闭
type Subscription interface {
	Out() <-chan any
	Close() error
}

// Emitter 事件发射器
//
// Emit 从不阻塞，订阅者缓冲区满时事件被丢弃。
type Emitter interface {
	Emit(event any) error
	Close() error
}

type (
	// SubscriptionOpt 订阅选项
	SubscriptionOpt func(*SubscriptionSettings)

	// EmitterOpt 发射器选项
	EmitterOpt func(*EmitterSettings)
)

// SubscriptionSettings 订阅设置
type SubscriptionSettings struct {
	// Buffer 通道缓冲大小
	Buffer int
	// Name 出现在丢弃告警日志中
	Name string
}

// EmitterSettings 发射器设置
type EmitterSettings struct {
	// Stateful 保留最近一次事件，新订阅者立即收到
	Stateful bool
}

// BufSize 设置订阅缓冲区大小
func BufSize(size int) SubscriptionOpt {
	return func(s *SubscriptionSettings) { s.Buffer = size }
}

// SubscriberName 为订阅命名
func SubscriberName(name string) SubscriptionOpt {
	return func(s *SubscriptionSettings) { s.Name = name }
}

// Stateful 开启有状态发射
func Stateful() EmitterOpt {
	return func(s *EmitterSettings) { s.Stateful = true }
}
