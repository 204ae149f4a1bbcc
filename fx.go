package multistream

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-multistream/internal/core/eventbus"
	"github.com/dep2p/go-multistream/internal/core/host"
	"github.com/dep2p/go-multistream/internal/core/metrics"
	"github.com/dep2p/go-multistream/internal/core/muxer"
	"github.com/dep2p/go-multistream/internal/core/protocol"
	"github.com/dep2p/go-multistream/internal/core/upgrader"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var fxLogger = log.Logger("mss/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//
//	EventBus → Metrics → Protocol → Muxer → Upgrader → Host
func buildFxApp(cfg *nodeConfig, node *Node) (*fx.App, error) {
	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		// 配置注入
		fx.Supply(cfg.config),

		eventbus.Module(),
		metrics.Module(),
		protocol.Module(),
		muxer.Module(),
		upgrader.Module(),
		host.Module(),
	}

	// 用户处理器在 Host 启动前注册
	if len(cfg.handlers) > 0 {
		modules = append(modules, fx.Invoke(registerHandlers(cfg.handlers)))
	}

	if len(cfg.userFxOptions) > 0 {
		modules = append(modules, cfg.userFxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectNodeComponents(node)),
		fx.WithLogger(fxEventLogger(cfg.config.Log.Level)),
	)

	return fx.New(modules...), nil
}

// fxEventLogger 选择 Fx 事件日志
//
// 默认级别为 debug 时输出到 zap 开发 logger，否则丢弃。
func fxEventLogger(level string) func() fxevent.Logger {
	return func() fxevent.Logger {
		if debugLevel(level) {
			if l, err := zap.NewDevelopment(); err == nil {
				return &fxevent.ZapLogger{Logger: l}
			}
			fxLogger.Warn("创建 zap logger 失败，Fx 日志已禁用")
		}
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}
}

// debugLevel 检查 "core/host=warn,debug" 形式的级别串中默认级别是否为 debug
func debugLevel(level string) bool {
	for _, part := range strings.Split(level, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, "=") && strings.EqualFold(part, "debug") {
			return true
		}
	}
	return false
}

func registerHandlers(handlers []Handler) func(*protocol.Negotiator) error {
	return func(n *protocol.Negotiator) error {
		for _, h := range handlers {
			if err := n.AddHandler(h); err != nil {
				return fmt.Errorf("register %s: %w", h.Protocol(), err)
			}
		}
		return nil
	}
}

// nodeInjectParams Node 组件注入参数
type nodeInjectParams struct {
	fx.In

	Host     *host.Host
	Registry *prometheus.Registry
	EventBus pkgif.EventBus
}

// injectNodeComponents 将 Fx 构造的组件注入 Node
func injectNodeComponents(node *Node) func(nodeInjectParams) {
	return func(p nodeInjectParams) {
		node.host = p.Host
		node.registry = p.Registry
		node.eventBus = p.EventBus
	}
}
