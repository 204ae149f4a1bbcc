package handshake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-multistream/internal/core/codec"
	"github.com/dep2p/go-multistream/internal/util/ioctx"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var logger = log.Logger("core/handshake")

// Direction 触发握手的 I/O 方向
type Direction int

const (
	// Outgoing 写触发
	Outgoing Direction = iota
	// Incoming 读触发
	Incoming
)

// String 返回方向名称
func (d Direction) String() string {
	if d == Incoming {
		return "incoming"
	}
	return "outgoing"
}

// State 半程状态
type State int

const (
	// Idle 尚未开始
	Idle State = iota
	// InProgress 进行中
	InProgress
	// Complete 已结束（成功或失败）
	Complete
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case InProgress:
		return "in-progress"
	case Complete:
		return "complete"
	default:
		return "idle"
	}
}

// half 单个方向的握手状态
type half struct {
	mu    sync.Mutex
	state State
	done  chan struct{}
	err   error
}

// run 至多执行一次 fn
//
// InProgress 时等待正在进行的尝试或 ctx 结束，Complete 时返回记录的结果。
// final 为 false 表示调用者在等待中放弃，错误不属于半程本身。
func (h *half) run(ctx context.Context, fn func(context.Context) error) (final bool, err error) {
	h.mu.Lock()
	switch h.state {
	case Complete:
		err := h.err
		h.mu.Unlock()
		return true, err
	case InProgress:
		done := h.done
		h.mu.Unlock()
		select {
		case <-done:
			h.mu.Lock()
			defer h.mu.Unlock()
			return true, h.err
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	h.state = InProgress
	h.done = make(chan struct{})
	h.mu.Unlock()

	err = fn(ctx)

	h.mu.Lock()
	h.state = Complete
	h.err = err
	close(h.done)
	h.mu.Unlock()
	return true, err
}

func (h *half) snapshot() (State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state, h.err
}

// Coordinator 延迟握手协调器
type Coordinator struct {
	rw     io.ReadWriter
	tokens []string
	opts   options

	send half
	recv half

	mu       sync.Mutex
	failure  error
	observed bool
}

// New 创建协调器
//
// tokens 是双方都要发送、也都期望收到的令牌序列。
func New(rw io.ReadWriter, tokens []string, opts ...Option) *Coordinator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Coordinator{
		rw:     rw,
		tokens: append([]string(nil), tokens...),
		opts:   o,
	}
}

// Tokens 返回令牌序列副本
func (c *Coordinator) Tokens() []string {
	return append([]string(nil), c.tokens...)
}

// EnsureComplete 确保两个半程都已结束
//
// 两个半程并发执行，受握手超时约束。超时返回 ErrHandshakeTimeout，
// 令牌不符返回 ErrProtocolMismatch。结果会被记住。
func (c *Coordinator) EnsureComplete(ctx context.Context, dir Direction) error {
	if done, err := c.result(); done {
		return err
	}

	tctx, cancel := c.opts.clock.WithTimeout(ctx, c.opts.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(tctx)
	g.Go(func() error {
		final, err := c.send.run(gctx, c.sendTokens)
		return c.settle(ctx, err, final)
	})
	g.Go(func() error {
		final, err := c.recv.run(gctx, c.receiveTokens)
		return c.settle(ctx, err, final)
	})

	err := g.Wait()
	if done, _ := c.result(); done {
		c.observe(err)
	}
	if err != nil {
		logger.Debug("握手失败", "direction", dir, "error", err)
		return err
	}
	logger.Debug("握手完成", "direction", dir, "tokens", len(c.tokens))
	return nil
}

// State 返回指定方向半程的状态
//
// Outgoing 对应发送半程，Incoming 对应接收半程。
func (c *Coordinator) State(dir Direction) State {
	h := &c.send
	if dir == Incoming {
		h = &c.recv
	}
	s, _ := h.snapshot()
	return s
}

// Complete 两个半程是否都已结束
func (c *Coordinator) Complete() bool {
	done, _ := c.result()
	return done
}

// Err 返回握手失败原因，未失败时为 nil
func (c *Coordinator) Err() error {
	_, err := c.result()
	return err
}

func (c *Coordinator) result() (bool, error) {
	c.mu.Lock()
	failure := c.failure
	c.mu.Unlock()
	if failure != nil {
		return true, failure
	}

	sendState, sendErr := c.send.snapshot()
	recvState, recvErr := c.recv.snapshot()
	if sendErr != nil {
		return true, sendErr
	}
	if recvErr != nil {
		return true, recvErr
	}
	return sendState == Complete && recvState == Complete, nil
}

// settle 转换超时错误并记录半程的首个失败
func (c *Coordinator) settle(parent context.Context, err error, final bool) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		err = ErrHandshakeTimeout
	}
	if !final {
		return err
	}

	c.mu.Lock()
	if c.failure == nil {
		c.failure = err
	}
	c.mu.Unlock()
	return err
}

func (c *Coordinator) observe(err error) {
	c.mu.Lock()
	if c.observed {
		c.mu.Unlock()
		return
	}
	c.observed = true
	c.mu.Unlock()

	switch {
	case err == nil:
		c.opts.metrics.ObserveHandshake("ok")
	case errors.Is(err, ErrProtocolMismatch):
		c.opts.metrics.ObserveHandshake("mismatch")
	case errors.Is(err, ErrHandshakeTimeout):
		c.opts.metrics.ObserveHandshake("timeout")
	default:
		c.opts.metrics.ObserveHandshake("error")
	}
}

func (c *Coordinator) sendTokens(ctx context.Context) error {
	return ioctx.RunWrite(ctx, c.rw, func() error {
		if err := codec.WriteTokens(c.rw, c.tokens...); err != nil {
			return fmt.Errorf("handshake: send: %w", err)
		}
		return nil
	})
}

func (c *Coordinator) receiveTokens(ctx context.Context) error {
	return ioctx.RunRead(ctx, c.rw, func() error {
		for _, want := range c.tokens {
			got, err := codec.ReadToken(c.rw)
			if err != nil {
				return fmt.Errorf("handshake: receive: %w", err)
			}
			if got != want {
				return fmt.Errorf("%w: expected %q, got %q", ErrProtocolMismatch, want, got)
			}
		}
		return nil
	})
}
