package multistream

import (
	"errors"
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-multistream/config"
	"github.com/dep2p/go-multistream/internal/core/protocol"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*nodeConfig) error

// nodeConfig 内部选项结构
type nodeConfig struct {
	// 统一配置
	config *config.Config

	// 启动前注册的处理器
	handlers []pkgif.Handler

	// 用户 Fx 选项
	userFxOptions []fx.Option
}

func newNodeConfig() *nodeConfig {
	return &nodeConfig{config: config.NewConfig()}
}

// WithConfig 使用完整配置
func WithConfig(cfg *config.Config) Option {
	return func(c *nodeConfig) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		c.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(c *nodeConfig) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		c.config = cfg
		return nil
	}
}

// WithListenAddrs 设置监听地址
func WithListenAddrs(addrs ...string) Option {
	return func(c *nodeConfig) error {
		c.config.Transport.ListenAddrs = append([]string(nil), addrs...)
		return nil
	}
}

// WithMetrics 启用指标，addr 非空时暴露 /metrics
func WithMetrics(addr string) Option {
	return func(c *nodeConfig) error {
		c.config.Metrics.Enable = true
		c.config.Metrics.ListenAddr = addr
		return nil
	}
}

// WithHandler 注册协议处理器
func WithHandler(h Handler) Option {
	return func(c *nodeConfig) error {
		if h == nil {
			return protocol.ErrNilHandler
		}
		c.handlers = append(c.handlers, h)
		return nil
	}
}

// WithStreamHandler 以回调注册协议处理器
func WithStreamHandler(proto string, fn HandlerFunc) Option {
	return WithHandler(protocol.NewHandler(proto, fn))
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(c *nodeConfig) error {
		c.userFxOptions = append(c.userFxOptions, opts...)
		return nil
	}
}
