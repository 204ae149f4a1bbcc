package tcp

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multistream/internal/util/testutil"
)

// TestTransport_DialListen 测试拨号与接受
func TestTransport_DialListen(t *testing.T) {
	tr := NewTransport(DefaultConfig())
	defer tr.Close()

	l, err := tr.Listen("127.0.0.1:0")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.ListenerCount())

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := l.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := tr.Dial(ctx, l.Addr().String())
	require.NoError(t, err)

	server := <-accepted
	assert.Equal(t, 2, tr.ConnCount())

	_, err = client.Write([]byte("hello"))
	require.NoError(t, err)
	buf := make([]byte, 5)
	_, err = io.ReadFull(server, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf))

	require.NoError(t, client.Close())
	assert.Equal(t, 1, tr.ConnCount())
	assert.False(t, client.(*Conn).Opened().IsZero())

	t.Log("✅ TCP 拨号/接受正常")
}

func TestTransport_Close(t *testing.T) {
	tr := NewTransport(DefaultConfig())

	l, err := tr.Listen("127.0.0.1:0")
	require.NoError(t, err)
	c, err := tr.Dial(context.Background(), l.Addr().String())
	require.NoError(t, err)

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	assert.True(t, l.IsClosed())
	assert.Zero(t, tr.ConnCount())
	assert.Zero(t, tr.ListenerCount())

	_, err = c.Write([]byte("x"))
	assert.Error(t, err)

	_, err = tr.Dial(context.Background(), l.Addr().String())
	assert.ErrorIs(t, err, ErrTransportClosed)
	_, err = tr.Listen("127.0.0.1:0")
	assert.ErrorIs(t, err, ErrTransportClosed)
}

func TestTransport_DialRefused(t *testing.T) {
	// 取一个已释放的端口
	c, _ := testutil.TCPPair(t)
	addr := c.LocalAddr().String()
	require.NoError(t, c.Close())

	tr := NewTransport(Config{DialTimeout: time.Second})
	defer tr.Close()
	_, err := tr.Dial(context.Background(), addr)
	assert.Error(t, err)
}

func TestListener_CloseUnblocksAccept(t *testing.T) {
	tr := NewTransport(DefaultConfig())
	defer tr.Close()

	l, err := tr.Listen("127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := l.Accept()
		errCh <- err
	}()

	require.NoError(t, l.Close())
	assert.ErrorIs(t, <-errCh, net.ErrClosed)
	assert.Zero(t, tr.ListenerCount())
}
