package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLazyLogger_FollowsDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	lg := Logger("core/test")
	assert.Equal(t, "core/test", lg.Component())

	buf := &bytes.Buffer{}
	SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: LevelDebug})))

	lg.Debug("协商完成", "protocol", "/a")
	assert.Contains(t, buf.String(), "component=core/test")
	assert.Contains(t, buf.String(), "protocol=/a")
	assert.True(t, lg.Enabled(LevelDebug))

	SetDefault(Discard())
	buf.Reset()
	lg.Error("不应输出")
	assert.Empty(t, buf.String())
	assert.False(t, lg.Enabled(LevelError))
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc", TruncateID("abc", 8))
	assert.Equal(t, "abcdefgh", TruncateID("abcdefghijk", 8))
}
