package yamux

import (
	"fmt"
	"strings"

	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var logger = log.Logger("core/muxer/yamux")

// yamuxLogger 把 hashicorp yamux 的日志转到 slog
type yamuxLogger struct{}

func (yamuxLogger) Print(v ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprint(v...)))
}

func (yamuxLogger) Printf(format string, v ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (yamuxLogger) Println(v ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprintln(v...)))
}
