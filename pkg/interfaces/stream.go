package interfaces

import "time"

// Flusher 可刷新缓冲的流
//
// 协商时每组帧写完后调用 Flush，确保对端能读到。
type Flusher interface {
	Flush() error
}

// Deadliner 支持截止时间的流
//
// 带 context 的读写在取消时通过设置过去的截止时间打断阻塞调用。
type Deadliner interface {
	SetDeadline(t time.Time) error
}
