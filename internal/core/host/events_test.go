package host

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multistream/internal/core/eventbus"
	"github.com/dep2p/go-multistream/internal/core/metrics"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

func nextEvent(t *testing.T, sub pkgif.Subscription) any {
	t.Helper()
	select {
	case evt := <-sub.Out():
		return evt
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// TestHost_Events 测试连接与协商事件
func TestHost_Events(t *testing.T) {
	serverBus := eventbus.NewBus()
	defer serverBus.Close()
	clientBus := eventbus.NewBus()
	defer clientBus.Close()

	server, addr := newServer(t, WithEventBus(serverBus))
	client := newHost(t, WithEventBus(clientBus))

	srvNegotiated, err := serverBus.Subscribe(new(EvtProtocolNegotiated))
	require.NoError(t, err)
	srvOpened, err := serverBus.Subscribe(new(EvtConnectionOpened))
	require.NoError(t, err)
	cliOpened, err := clientBus.Subscribe(new(EvtConnectionOpened))
	require.NoError(t, err)
	cliNegotiated, err := clientBus.Subscribe(new(EvtProtocolNegotiated))
	require.NoError(t, err)
	cliClosed, err := clientBus.Subscribe(new(EvtConnectionClosed))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = client.Ping(ctx, addr)
	require.NoError(t, err)

	opened := nextEvent(t, cliOpened).(EvtConnectionOpened)
	assert.Equal(t, addr, opened.Addr)
	assert.Equal(t, metrics.DirectionOut, opened.Direction)
	assert.NotEmpty(t, opened.Muxer)

	negotiated := nextEvent(t, cliNegotiated).(EvtProtocolNegotiated)
	assert.Equal(t, opened.ConnID, negotiated.ConnID)
	assert.Equal(t, protocolids.SysPing, negotiated.Protocol)
	assert.Equal(t, metrics.DirectionOut, negotiated.Direction)

	inOpened := nextEvent(t, srvOpened).(EvtConnectionOpened)
	assert.Equal(t, metrics.DirectionIn, inOpened.Direction)

	inNegotiated := nextEvent(t, srvNegotiated).(EvtProtocolNegotiated)
	assert.Equal(t, inOpened.ConnID, inNegotiated.ConnID)
	assert.Equal(t, protocolids.SysPing, inNegotiated.Protocol)
	assert.Equal(t, metrics.DirectionIn, inNegotiated.Direction)

	// 服务端关闭后客户端连接随之关闭
	require.NoError(t, server.Close())
	closed := nextEvent(t, cliClosed).(EvtConnectionClosed)
	assert.Equal(t, opened.ConnID, closed.ConnID)

	t.Log("✅ Host 事件测试通过")
}

// TestHost_NoEventBus 未配置事件总线时正常工作
func TestHost_NoEventBus(t *testing.T) {
	_, addr := newServer(t)
	client := newHost(t)

	_, err := client.ListProtocols(context.Background(), addr)
	require.NoError(t, err)
	assert.Nil(t, client.events.negotiated)

	t.Log("✅ 无事件总线测试通过")
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// TestHost_LogConnID 测试日志中的连接 ID 被截短
func TestHost_LogConnID(t *testing.T) {
	prev := log.Default()
	defer log.SetDefault(prev)
	out := &lockedBuffer{}
	log.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})))

	bus := eventbus.NewBus()
	defer bus.Close()
	_, addr := newServer(t)
	client := newHost(t, WithEventBus(bus))

	opened, err := bus.Subscribe(new(EvtConnectionOpened))
	require.NoError(t, err)

	_, err = client.Ping(context.Background(), addr)
	require.NoError(t, err)

	id := nextEvent(t, opened).(EvtConnectionOpened).ConnID
	require.Greater(t, len(id), logIDLen)

	logs := out.String()
	assert.Contains(t, logs, "connID="+id[:logIDLen]+" ")
	assert.False(t, strings.Contains(logs, id), "完整连接 ID 不应出现在日志中")

	t.Log("✅ 日志连接 ID 截短测试通过")
}
