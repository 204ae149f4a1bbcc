package muxer

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multistream/internal/util/testutil"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

// connPair 在回环 TCP 上建立一对多路复用连接
func connPair(t *testing.T, m pkgif.StreamMuxer) (client, server pkgif.MuxedConn) {
	t.Helper()
	c, s := testutil.TCPPair(t)

	client, err := m.NewConn(c, false)
	require.NoError(t, err)
	server, err = m.NewConn(s, true)
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

func allMuxers(t *testing.T) []pkgif.StreamMuxer {
	t.Helper()
	muxers, err := NewMuxers(DefaultConfig(), protocolids.MuxerProtocols())
	require.NoError(t, err)
	return muxers
}

// TestMuxers_StreamRoundTrip 打开流并双向传输
func TestMuxers_StreamRoundTrip(t *testing.T) {
	for _, m := range allMuxers(t) {
		t.Run(m.ID(), func(t *testing.T) {
			client, server := connPair(t, m)

			accepted := make(chan pkgif.MuxedStream, 1)
			go func() {
				s, err := server.AcceptStream()
				if assert.NoError(t, err) {
					accepted <- s
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			cs, err := client.OpenStream(ctx)
			require.NoError(t, err)

			msg := testutil.RandomBytes(t, 4096)
			_, err = cs.Write(msg)
			require.NoError(t, err)

			var ss pkgif.MuxedStream
			select {
			case ss = <-accepted:
			case <-time.After(5 * time.Second):
				t.Fatal("未接受到流")
			}

			buf := make([]byte, len(msg))
			_, err = io.ReadFull(ss, buf)
			require.NoError(t, err)
			assert.Equal(t, msg, buf)

			_, err = ss.Write([]byte("ack"))
			require.NoError(t, err)
			require.NoError(t, ss.CloseWrite())

			got, err := io.ReadAll(cs)
			require.NoError(t, err)
			assert.Equal(t, "ack", string(got))

			t.Logf("✅ %s 流往返正常", m.ID())
		})
	}
}

func TestMuxers_Close(t *testing.T) {
	for _, m := range allMuxers(t) {
		t.Run(m.ID(), func(t *testing.T) {
			client, server := connPair(t, m)

			require.NoError(t, client.Close())
			assert.True(t, client.IsClosed())

			_, err := client.OpenStream(context.Background())
			assert.Error(t, err)
			if m.ID() == protocolids.Yamux {
				assert.ErrorIs(t, err, ErrSessionClosed)
			}

			testutil.Eventually(t, 5*time.Second, server.IsClosed, "对端会话应关闭")
			_, err = server.AcceptStream()
			assert.Error(t, err)
		})
	}
}

func TestNewMuxers_Order(t *testing.T) {
	muxers, err := NewMuxers(DefaultConfig(), []string{protocolids.HashicorpYamux, protocolids.Yamux})
	require.NoError(t, err)
	require.Len(t, muxers, 2)
	assert.Equal(t, protocolids.HashicorpYamux, muxers[0].ID())
	assert.Equal(t, protocolids.Yamux, muxers[1].ID())

	_, err = NewMuxers(DefaultConfig(), []string{"/mplex/6.7.0"})
	assert.Error(t, err)
}

func TestNewTransport_Config(t *testing.T) {
	tr := NewTransport(Config{MaxStreamWindowSize: 1 << 20})
	assert.Equal(t, uint32(1<<20), tr.Config().MaxStreamWindowSize)
	assert.False(t, tr.Config().EnableKeepAlive)
	assert.Equal(t, 0, tr.Config().ReadBufSize)

	tr = NewTransport(DefaultConfig())
	assert.True(t, tr.Config().EnableKeepAlive)
	assert.Equal(t, 30*time.Second, tr.Config().KeepAliveInterval)
}
