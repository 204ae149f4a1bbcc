package multistream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-multistream/config"
	"github.com/dep2p/go-multistream/internal/core/host"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var logger = log.Logger("mss")

// ════════════════════════════════════════════════════════════════════════════
//                              节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点状态
type NodeState int

const (
	// StateIdle 空闲状态（已创建，未启动）
	StateIdle NodeState = iota

	// StateStarting 启动中（Fx App 启动中）
	StateStarting

	// StateRunning 运行中
	StateRunning

	// StateStopped 已停止
	StateStopped
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// 启停超时
const (
	startTimeout = 30 * time.Second
	stopTimeout  = 15 * time.Second
)

// Node 协商节点
//
// Node 是一个门面（Facade），聚合 Fx 组装的 Host 与指标注册表。
type Node struct {
	config *nodeConfig
	app    *fx.App

	// 由 Fx 注入
	host     *host.Host
	registry *prometheus.Registry
	eventBus EventBus

	mu    sync.RWMutex
	state NodeState
}

// ════════════════════════════════════════════════════════════════════════════
//                              构造函数
// ════════════════════════════════════════════════════════════════════════════

// New 创建新节点
//
// 创建节点但不启动，需要调用 Start() 启动。
func New(_ context.Context, opts ...Option) (*Node, error) {
	cfg := newNodeConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	node := &Node{config: cfg}

	app, err := buildFxApp(cfg, node)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	node.app = app

	return node, nil
}

// Start 创建节点并立即启动
//
// 等价于 New() + Start()。
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	node, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	if err := node.Start(ctx); err != nil {
		return nil, fmt.Errorf("start node: %w", err)
	}
	return node, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动节点
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	switch n.state {
	case StateStarting, StateRunning:
		n.mu.Unlock()
		return ErrAlreadyStarted
	case StateStopped:
		n.mu.Unlock()
		return ErrNodeClosed
	}
	n.state = StateStarting
	n.mu.Unlock()

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := n.app.Start(startCtx); err != nil {
		n.setState(StateStopped)
		return err
	}

	n.setState(StateRunning)
	logger.Info("节点已启动", "addrs", n.Addrs(), "protocols", n.Protocols())
	return nil
}

// Close 关闭节点
func (n *Node) Close() error {
	n.mu.Lock()
	prev := n.state
	n.state = StateStopped
	n.mu.Unlock()

	if prev != StateRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if err := n.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop node: %w", err)
	}
	logger.Info("节点已关闭")
	return nil
}

// State 返回节点状态
func (n *Node) State() NodeState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// IsRunning 节点是否运行中
func (n *Node) IsRunning() bool {
	return n.State() == StateRunning
}

func (n *Node) setState(s NodeState) {
	n.mu.Lock()
	n.state = s
	n.mu.Unlock()
}

// ════════════════════════════════════════════════════════════════════════════
//                              基本信息
// ════════════════════════════════════════════════════════════════════════════

// Config 返回节点配置
func (n *Node) Config() *config.Config {
	return n.config.config
}

// Host 返回底层主机
func (n *Node) Host() *host.Host {
	return n.host
}

// MetricsRegistry 返回指标注册表
func (n *Node) MetricsRegistry() *prometheus.Registry {
	return n.registry
}

// EventBus 返回事件总线
func (n *Node) EventBus() EventBus {
	return n.eventBus
}

// Subscribe 订阅节点事件
//
// eventType 以指针给出，例如 new(multistream.EvtProtocolNegotiated)。
func (n *Node) Subscribe(eventType any, opts ...SubscriptionOpt) (Subscription, error) {
	if n.eventBus == nil {
		return nil, ErrNotStarted
	}
	return n.eventBus.Subscribe(eventType, opts...)
}

// Addrs 返回监听地址
func (n *Node) Addrs() []string {
	if n.host == nil {
		return nil
	}
	return n.host.Addrs()
}

// Protocols 返回已注册的协议
func (n *Node) Protocols() []string {
	if n.host == nil {
		return nil
	}
	return n.host.Protocols()
}

// ConnectionCount 返回当前连接数
func (n *Node) ConnectionCount() int {
	if n.host == nil {
		return 0
	}
	return n.host.ConnCount()
}

// ════════════════════════════════════════════════════════════════════════════
//                              协议处理
// ════════════════════════════════════════════════════════════════════════════

// SetHandler 注册协议处理器
func (n *Node) SetHandler(h Handler) error {
	if n.host == nil {
		return ErrNotStarted
	}
	return n.host.SetHandler(h)
}

// SetStreamHandler 以回调注册协议处理器
func (n *Node) SetStreamHandler(proto string, fn HandlerFunc) error {
	if n.host == nil {
		return ErrNotStarted
	}
	return n.host.SetStreamHandler(proto, fn)
}

// RemoveStreamHandler 移除协议处理器
func (n *Node) RemoveStreamHandler(proto string) {
	if n.host != nil {
		n.host.RemoveStreamHandler(proto)
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              出站
// ════════════════════════════════════════════════════════════════════════════

func (n *Node) running() error {
	switch n.State() {
	case StateRunning:
		return nil
	case StateStopped:
		return ErrNodeClosed
	default:
		return ErrNotStarted
	}
}

// NewStream 打开流并按偏好顺序选择协议
func (n *Node) NewStream(ctx context.Context, addr string, protos ...string) (*host.Stream, error) {
	if err := n.running(); err != nil {
		return nil, err
	}
	return n.host.NewStream(ctx, addr, protos...)
}

// NewLazyStream 打开流，协商推迟到首次读写
func (n *Node) NewLazyStream(ctx context.Context, addr, proto string) (*LazyStream, error) {
	if err := n.running(); err != nil {
		return nil, err
	}
	return n.host.NewLazyStream(ctx, addr, proto)
}

// ListProtocols 查询远端支持的协议
func (n *Node) ListProtocols(ctx context.Context, addr string) ([]string, error) {
	if err := n.running(); err != nil {
		return nil, err
	}
	return n.host.ListProtocols(ctx, addr)
}

// Ping 测量到远端的往返时间
func (n *Node) Ping(ctx context.Context, addr string) (time.Duration, error) {
	if err := n.running(); err != nil {
		return 0, err
	}
	return n.host.Ping(ctx, addr)
}
