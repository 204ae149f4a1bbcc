package muxer

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-multistream/config"
	hyamux "github.com/dep2p/go-multistream/internal/core/muxer/yamux"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

// Params Muxer 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 是 muxer 的 Fx 模块
func Module() fx.Option {
	return fx.Module("muxer",
		fx.Provide(ProvideMuxers),
	)
}

// ProvideMuxers 按偏好顺序提供多路复用器
func ProvideMuxers(p Params) ([]pkgif.StreamMuxer, error) {
	preferred := protocolids.MuxerProtocols()
	if p.UnifiedCfg != nil {
		preferred = p.UnifiedCfg.Muxer.Preferred
	}
	return NewMuxers(ConfigFromUnified(p.UnifiedCfg), preferred)
}

// NewMuxers 按 preferred 顺序创建多路复用器
func NewMuxers(cfg Config, preferred []string) ([]pkgif.StreamMuxer, error) {
	muxers := make([]pkgif.StreamMuxer, 0, len(preferred))
	for _, id := range preferred {
		switch id {
		case protocolids.Yamux:
			muxers = append(muxers, NewTransport(cfg))
		case protocolids.HashicorpYamux:
			muxers = append(muxers, hyamux.NewTransport(hyamux.Config{
				MaxStreamWindowSize: cfg.MaxStreamWindowSize,
				KeepAliveInterval:   cfg.KeepAliveInterval,
			}))
		default:
			return nil, fmt.Errorf("muxer: unknown muxer %q", id)
		}
	}
	return muxers, nil
}
