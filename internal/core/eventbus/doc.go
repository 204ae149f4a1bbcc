// Package eventbus 实现进程内事件总线
//
// Host 通过总线发布连接与协商事件，订阅者按事件类型接收：
//
//	sub, _ := bus.Subscribe(new(host.EvtProtocolNegotiated))
//	defer sub.Close()
//
//	for evt := range sub.Out() {
//	    e := evt.(host.EvtProtocolNegotiated)
//	    // ...
//	}
//
// 发射从不阻塞：订阅者缓冲区满时事件被丢弃并计数。
package eventbus
