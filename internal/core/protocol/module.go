package protocol

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-multistream/config"
	"github.com/dep2p/go-multistream/internal/core/metrics"
	"github.com/dep2p/go-multistream/internal/core/protocol/system/echo"
	"github.com/dep2p/go-multistream/internal/core/protocol/system/ping"
)

// Params Protocol 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("protocol",
		fx.Provide(
			ProvideConfig,
			ProvideRegistry,
			ProvideNegotiator,
			ProvideSelector,
		),
		// 注册系统协议
		fx.Invoke(registerSystemProtocols),
	)
}

// ConfigFromUnified 从统一配置创建协议配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		NegotiationTimeout: cfg.Negotiation.NegotiateTimeout.Duration(),
		HandshakeTimeout:   cfg.Negotiation.HandshakeTimeout.Duration(),
	}
}

// NewConfig 创建默认配置（用于测试和直接调用）
func NewConfig() Config {
	return DefaultConfig()
}

// ProvideConfig 从统一配置提供协议配置
func ProvideConfig(p Params) (Config, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ProvideRegistry 提供处理器注册表
func ProvideRegistry() *Registry {
	return NewRegistry()
}

type negotiatorInput struct {
	fx.In

	Registry *Registry
	Metrics  *metrics.Metrics `optional:"true"`
}

// ProvideNegotiator 提供响应方
func ProvideNegotiator(input negotiatorInput) *Negotiator {
	return NewNegotiator(WithRegistry(input.Registry), WithMetrics(input.Metrics))
}

type selectorInput struct {
	fx.In

	Metrics *metrics.Metrics `optional:"true"`
}

// ProvideSelector 提供发起方
func ProvideSelector(input selectorInput) *Selector {
	return &Selector{Metrics: input.Metrics}
}

// registerSystemProtocols 注册系统协议
func registerSystemProtocols(n *Negotiator) error {
	if err := n.AddHandler(ping.NewService()); err != nil {
		return err
	}
	if err := n.AddHandler(echo.NewService()); err != nil {
		return err
	}
	logger.Info("系统协议注册完成", "protocols", n.Protocols())
	return nil
}
