package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multistream/pkg/lib/log"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig("core/protocol=debug, core/host=warn,error", "json")
	require.NoError(t, err)

	assert.Equal(t, slog.LevelError, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.LevelFor("core/protocol"))
	assert.Equal(t, slog.LevelWarn, cfg.LevelFor("core/host"))
	assert.Equal(t, slog.LevelError, cfg.LevelFor("core/codec"))
	assert.Equal(t, FormatJSON, cfg.Format)

	_, err = ParseConfig("loud", "")
	assert.Error(t, err)
	_, err = ParseConfig("info", "xml")
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MSS_LOG_LEVEL", "core/lazy=debug,warn")
	t.Setenv("MSS_LOG_FORMAT", "json")

	cfg := ConfigFromEnv(nil)
	assert.Equal(t, slog.LevelWarn, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.LevelFor("core/lazy"))
	assert.Equal(t, FormatJSON, cfg.Format)
}

// TestConfigFromEnv_InvalidLevel 测试非法环境变量被忽略且不修改 base
func TestConfigFromEnv_InvalidLevel(t *testing.T) {
	prev := log.Default()
	defer log.SetDefault(prev)
	buf := &bytes.Buffer{}
	Setup(DefaultConfig(), buf)

	base, err := ParseConfig("core/host=error,info", "text")
	require.NoError(t, err)

	// 前半段合法，后半段非法，整体不生效
	t.Setenv("MSS_LOG_LEVEL", "core/lazy=debug,loud")
	t.Setenv("MSS_LOG_FORMAT", "xml")
	t.Setenv("MSS_LOG_ADD_SOURCE", "true")

	cfg := ConfigFromEnv(base)
	assert.NotSame(t, base, cfg)
	assert.Equal(t, slog.LevelInfo, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelError, cfg.LevelFor("core/host"))
	assert.Equal(t, slog.LevelInfo, cfg.LevelFor("core/lazy"))
	assert.Equal(t, FormatText, cfg.Format)
	assert.True(t, cfg.AddSource)

	// base 保持原样
	assert.False(t, base.AddSource)
	assert.NotContains(t, base.ComponentLevels, "core/lazy")

	out := buf.String()
	assert.Contains(t, out, "MSS_LOG_LEVEL")
	assert.Contains(t, out, "MSS_LOG_FORMAT")

	t.Log("✅ 非法环境变量被忽略")
}

// TestSetup_ComponentLevels 测试组件级别过滤
func TestSetup_ComponentLevels(t *testing.T) {
	prev := log.Default()
	defer log.SetDefault(prev)

	cfg, err := ParseConfig("core/protocol=debug,warn", "text")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	Setup(cfg, buf)

	log.Logger("core/protocol").Debug("可见", "key", "value")
	log.Logger("core/host").Info("不可见")
	log.Logger("core/host").Warn("告警")

	out := buf.String()
	assert.Contains(t, out, "可见")
	assert.Contains(t, out, "key=value")
	assert.Contains(t, out, "component=core/protocol")
	assert.NotContains(t, out, "不可见")
	assert.Contains(t, out, "告警")
	assert.Contains(t, out, "level=warn")

	t.Log("✅ 组件级别过滤正确")
}
