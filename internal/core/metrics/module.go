package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-multistream/config"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result Metrics 模块输出
type Result struct {
	fx.Out

	Registry *prometheus.Registry
	Metrics  *Metrics
}

// Module 返回 Fx 模块
//
// 未启用指标时提供 nil *Metrics，下游按 nil 安全处理。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideMetrics),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideMetrics 创建注册表与收集器
func ProvideMetrics(p Params) (Result, error) {
	reg := prometheus.NewRegistry()
	cfg := config.DefaultMetricsConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Metrics
	}
	if !cfg.Enable {
		return Result{Registry: reg}, nil
	}

	m, err := New(cfg.Namespace, reg)
	if err != nil {
		return Result{}, err
	}
	return Result{Registry: reg, Metrics: m}, nil
}

type lifecycleInput struct {
	fx.In

	LC         fx.Lifecycle
	UnifiedCfg *config.Config `optional:"true"`
	Registry   *prometheus.Registry
}

// registerLifecycle 配置了监听地址时启动 /metrics 服务
func registerLifecycle(input lifecycleInput) {
	if input.UnifiedCfg == nil || !input.UnifiedCfg.Metrics.Enable || input.UnifiedCfg.Metrics.ListenAddr == "" {
		return
	}
	addr := input.UnifiedCfg.Metrics.ListenAddr

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(input.Registry))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			logger.Info("指标服务已启动", "addr", ln.Addr().String())
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Warn("指标服务退出", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
