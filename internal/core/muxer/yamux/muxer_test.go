package yamux

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multistream/internal/util/testutil"
)

func TestConfig_toYamux(t *testing.T) {
	yc := DefaultConfig().toYamux()
	assert.Equal(t, uint32(16*1024*1024), yc.MaxStreamWindowSize)
	assert.True(t, yc.EnableKeepAlive)
	assert.Nil(t, yc.LogOutput)
	assert.NotNil(t, yc.Logger)

	yc = Config{}.toYamux()
	assert.False(t, yc.EnableKeepAlive)
	assert.Equal(t, uint32(256*1024), yc.MaxStreamWindowSize)
}

// TestMuxer_PingAndStreams 会话 ping 与流计数
func TestMuxer_PingAndStreams(t *testing.T) {
	c, s := testutil.TCPPair(t)
	tr := NewTransport(DefaultConfig())

	cc, err := tr.NewConn(c, false)
	require.NoError(t, err)
	sc, err := tr.NewConn(s, true)
	require.NoError(t, err)
	defer cc.Close()
	defer sc.Close()

	client := cc.(*Muxer)
	rtt, err := client.Ping()
	require.NoError(t, err)
	assert.Greater(t, rtt, time.Duration(0))

	go func() {
		ss, err := sc.AcceptStream()
		if err != nil {
			return
		}
		_, _ = io.Copy(ss, ss)
		_ = ss.Close()
	}()

	st, err := client.OpenStream(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, client.NumStreams())
	assert.NotZero(t, st.(*Stream).ID())

	_, err = st.Write([]byte("hi"))
	require.NoError(t, err)
	buf := make([]byte, 2)
	_, err = io.ReadFull(st, buf)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(buf))

	require.NoError(t, st.Reset())
	require.NoError(t, st.Close(), "重复关闭应无副作用")
}

func TestTransport_NilConn(t *testing.T) {
	_, err := NewTransport(DefaultConfig()).NewConn(nil, false)
	assert.Error(t, err)
}

func TestMuxer_ClosedPing(t *testing.T) {
	c, _ := testutil.TCPPair(t)
	mc, err := NewTransport(DefaultConfig()).NewConn(c, false)
	require.NoError(t, err)
	require.NoError(t, mc.Close())

	_, err = mc.(*Muxer).Ping()
	assert.ErrorIs(t, err, ErrMuxerClosed)
}
