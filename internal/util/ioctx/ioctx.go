// Package ioctx 让阻塞的流读写服从 context 取消
//
// 流实现了 SetDeadline 时，取消会设置一个过去的截止时间来打断阻塞调用；
// 否则操作在独立 goroutine 中运行，取消后调用方立即返回，
// 被放弃的 goroutine 在流关闭后才会退出。
//
// 只读或只写的操作使用 DoRead/DoWrite，取消与恢复只影响该方向的截止时间，
// 同一条流上另一方向的并发操作不受干扰。
//
// 取消后流的状态不确定，调用方应关闭连接。
package ioctx

import (
	"context"
	"time"

	"github.com/dep2p/go-multistream/pkg/interfaces"
)

// aLongTimeAgo 用于立即打断阻塞 I/O 的截止时间
var aLongTimeAgo = time.Unix(1, 0)

// direction 操作涉及的方向
type direction int

const (
	dirBoth direction = iota
	dirRead
	dirWrite
)

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Do 在 ctx 控制下执行 fn，fn 可同时读写
//
// stream 仅用于探测是否支持截止时间，fn 负责实际读写。
// ctx 永不取消时直接调用 fn。
func Do[T any](ctx context.Context, stream any, fn func() (T, error)) (T, error) {
	return do(ctx, stream, dirBoth, fn)
}

// DoRead 与 Do 相同，但 fn 只读，取消只设置读截止时间
func DoRead[T any](ctx context.Context, stream any, fn func() (T, error)) (T, error) {
	return do(ctx, stream, dirRead, fn)
}

// DoWrite 与 Do 相同，但 fn 只写，取消只设置写截止时间
func DoWrite[T any](ctx context.Context, stream any, fn func() (T, error)) (T, error) {
	return do(ctx, stream, dirWrite, fn)
}

// Run 是不带返回值的 Do
func Run(ctx context.Context, stream any, fn func() error) error {
	_, err := Do(ctx, stream, noValue(fn))
	return err
}

// RunRead 是不带返回值的 DoRead
func RunRead(ctx context.Context, stream any, fn func() error) error {
	_, err := DoRead(ctx, stream, noValue(fn))
	return err
}

// RunWrite 是不带返回值的 DoWrite
func RunWrite(ctx context.Context, stream any, fn func() error) error {
	_, err := DoWrite(ctx, stream, noValue(fn))
	return err
}

func noValue(fn func() error) func() (struct{}, error) {
	return func() (struct{}, error) {
		return struct{}{}, fn()
	}
}

func do[T any](ctx context.Context, stream any, dir direction, fn func() (T, error)) (T, error) {
	var zero T
	if ctx.Done() == nil {
		return fn()
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if set := deadlineSetter(stream, dir); set != nil {
		return withDeadline(ctx, set, fn)
	}
	return detached(ctx, fn)
}

// deadlineSetter 选择 dir 对应的截止时间方法
//
// 流不支持单向截止时间时退回 SetDeadline。
func deadlineSetter(stream any, dir direction) func(time.Time) error {
	switch dir {
	case dirRead:
		if d, ok := stream.(readDeadliner); ok {
			return d.SetReadDeadline
		}
	case dirWrite:
		if d, ok := stream.(writeDeadliner); ok {
			return d.SetWriteDeadline
		}
	}
	if d, ok := stream.(interfaces.Deadliner); ok {
		return d.SetDeadline
	}
	return nil
}

func withDeadline[T any](ctx context.Context, setDeadline func(time.Time) error, fn func() (T, error)) (T, error) {
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		_ = setDeadline(aLongTimeAgo)
	})

	v, err := fn()
	if stop() {
		return v, err
	}

	<-fired
	if err != nil {
		return v, ctx.Err()
	}
	// 操作先于截止时间完成，只恢复本方向
	_ = setDeadline(time.Time{})
	return v, nil
}

func detached[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
