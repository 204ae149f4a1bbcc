package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/dep2p/go-multistream/pkg/lib/log"
)

// New 按配置创建 logger，w 为 nil 时输出到 stderr
func New(cfg *Config, w io.Writer) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(newHandler(w, cfg))
}

// Setup 创建 logger 并安装为进程默认 logger
//
// 所有通过 pkg/lib/log 声明的组件 logger 立即生效。
func Setup(cfg *Config, w io.Writer) *slog.Logger {
	l := New(cfg, w)
	log.SetDefault(l)
	return l
}
