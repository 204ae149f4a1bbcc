package host

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-multistream/config"
	"github.com/dep2p/go-multistream/internal/core/metrics"
	"github.com/dep2p/go-multistream/internal/core/protocol"
	"github.com/dep2p/go-multistream/internal/core/transport/tcp"
	"github.com/dep2p/go-multistream/internal/core/upgrader"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	// 配置
	UnifiedCfg *config.Config `optional:"true"`

	// 必需依赖
	Upgrader   *upgrader.Upgrader
	Negotiator *protocol.Negotiator
	Selector   *protocol.Selector
	Transport  *tcp.Transport

	// 可选依赖
	Metrics     *metrics.Metrics `optional:"true"`
	ProtocolCfg protocol.Config  `optional:"true"`
	EventBus    pkgif.EventBus   `optional:"true"`
}

type transportInput struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// ProvideTransport 提供 TCP 传输
func ProvideTransport(input transportInput) *tcp.Transport {
	return tcp.NewTransport(tcp.ConfigFromUnified(input.UnifiedCfg))
}

// ProvideHost 提供 Host 服务
//
// 协商超时以 protocol 模块的配置为准。
func ProvideHost(input ModuleInput) (*Host, error) {
	cfg := ConfigFromUnified(input.UnifiedCfg)
	if input.ProtocolCfg.NegotiationTimeout > 0 {
		cfg.NegotiationTimeout = input.ProtocolCfg.NegotiationTimeout
	}
	if input.ProtocolCfg.HandshakeTimeout > 0 {
		cfg.HandshakeTimeout = input.ProtocolCfg.HandshakeTimeout
	}

	return New(
		WithConfig(cfg),
		WithTransport(input.Transport),
		WithUpgrader(input.Upgrader),
		WithNegotiator(input.Negotiator),
		WithSelector(input.Selector),
		WithMetrics(input.Metrics),
		WithEventBus(input.EventBus),
	)
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("host",
		fx.Provide(
			ProvideTransport,
			ProvideHost,
		),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput Lifecycle 注册输入
type lifecycleInput struct {
	fx.In
	LC   fx.Lifecycle
	Host *Host
}

// registerLifecycle 注册生命周期钩子
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Host.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return input.Host.Close()
		},
	})
}
