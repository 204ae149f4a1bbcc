package upgrader

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-multistream/config"
	"github.com/dep2p/go-multistream/internal/core/metrics"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// Params Upgrader 依赖参数
type Params struct {
	fx.In

	Muxers     []pkgif.StreamMuxer
	Metrics    *metrics.Metrics `optional:"true"`
	UnifiedCfg *config.Config   `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("upgrader",
		fx.Provide(ProvideUpgrader),
	)
}

// ConfigFromUnified 从统一配置创建 Upgrader 配置
func ConfigFromUnified(cfg *config.Config, muxers []pkgif.StreamMuxer) Config {
	c := NewConfig()
	c.StreamMuxers = muxers
	if cfg != nil {
		c.NegotiateTimeout = cfg.Negotiation.NegotiateTimeout.Duration()
	}
	return c
}

// ProvideUpgrader 提供 Upgrader（依赖注入）
func ProvideUpgrader(p Params) (*Upgrader, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg, p.Muxers)
	cfg.Metrics = p.Metrics
	return New(cfg)
}
