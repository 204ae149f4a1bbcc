package echo

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multistream/internal/util/testutil"
)

func TestEcho_Handle(t *testing.T) {
	client, server := testutil.TCPPair(t)

	done := make(chan bool, 1)
	go func() {
		done <- NewService().Handle(context.Background(), ProtocolID, server)
	}()

	payload := testutil.RandomBytes(t, 64*1024)
	go func() {
		_, _ = client.Write(payload)
		_ = client.(*net.TCPConn).CloseWrite()
	}()

	got, err := io.ReadAll(client)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.True(t, <-done)

	t.Log("✅ echo 原样回显")
}

func TestService_Protocol(t *testing.T) {
	assert.Equal(t, "/mss/sys/echo/1.0.0", NewService().Protocol())
}
