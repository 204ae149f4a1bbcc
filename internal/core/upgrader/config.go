package upgrader

import (
	"fmt"
	"time"

	"github.com/dep2p/go-multistream/internal/core/metrics"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// DefaultNegotiateTimeout 默认多路复用器协商超时
const DefaultNegotiateTimeout = 10 * time.Second

// Config 升级器配置
type Config struct {
	// StreamMuxers 按偏好排列，客户端依次提议
	StreamMuxers []pkgif.StreamMuxer

	// NegotiateTimeout 为零时使用 DefaultNegotiateTimeout
	NegotiateTimeout time.Duration

	Metrics *metrics.Metrics
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{NegotiateTimeout: DefaultNegotiateTimeout}
}

// Validate 验证配置
func (c Config) Validate() error {
	if len(c.StreamMuxers) == 0 {
		return ErrNoStreamMuxer
	}
	seen := make(map[string]struct{}, len(c.StreamMuxers))
	for _, sm := range c.StreamMuxers {
		if _, dup := seen[sm.ID()]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateMuxer, sm.ID())
		}
		seen[sm.ID()] = struct{}{}
	}
	if c.NegotiateTimeout < 0 {
		return fmt.Errorf("upgrader: negative negotiate timeout %s", c.NegotiateTimeout)
	}
	return nil
}
