package protocol

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multistream/internal/core/codec"
	"github.com/dep2p/go-multistream/internal/util/testutil"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

func TestSelect_ReservedProtocol(t *testing.T) {
	client, _ := testutil.TCPPair(t)

	_, err := SelectOneOf([]string{"/a", protocolids.Ls}, client)
	assert.ErrorIs(t, err, ErrReservedProtocol)

	err = SelectProtoOrFail(protocolids.Multistream, client)
	assert.ErrorIs(t, err, ErrReservedProtocol)
}

// TestSelect_EmptyProtocol 空候选在发送前被拒绝
func TestSelect_EmptyProtocol(t *testing.T) {
	client, server := testutil.TCPPair(t)

	n := NewNegotiator()
	require.NoError(t, n.AddHandlerFunc("/a", nil))

	_, err := SelectOneOf([]string{"", "/a"}, client)
	assert.ErrorIs(t, err, ErrEmptyProtocol)
	assert.ErrorIs(t, SelectProtoOrFail("", client), ErrEmptyProtocol)

	// 校验失败不写任何数据，连接仍可正常协商
	done := make(chan Result, 1)
	go func() {
		res, _ := n.Negotiate(server)
		done <- res
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	proto, err := SelectOneOfContext(ctx, []string{"/a"}, client)
	require.NoError(t, err)
	assert.Equal(t, "/a", proto)
	assert.Equal(t, "/a", (<-done).Protocol)

	t.Log("✅ 空协议候选被拒绝")
}

// TestSelect_VersionMismatch 响应方标识不符
func TestSelect_VersionMismatch(t *testing.T) {
	client, server := testutil.TCPPair(t)
	require.NoError(t, codec.WriteTokens(server, "/multistream/2.0.0"))

	_, err := SelectOneOf([]string{"/a"}, client)
	require.ErrorIs(t, err, ErrIncorrectVersion)
	assert.Contains(t, err.Error(), "protocol id mismatch")
}

// TestSelect_UnrecognizedResponse 回应既不是回显也不是 na
func TestSelect_UnrecognizedResponse(t *testing.T) {
	client, server := testutil.TCPPair(t)

	go func() {
		_ = codec.WriteTokens(server, protocolids.Multistream)
		_, _ = codec.ReadToken(server)
		_, _ = codec.ReadToken(server)
		_ = codec.WriteTokens(server, "/other")
	}()

	_, err := SelectOneOf([]string{"/a", "/b"}, client)
	require.ErrorIs(t, err, ErrUnrecognizedResponse)

	var ure *UnrecognizedResponseError
	require.ErrorAs(t, err, &ure)
	assert.Equal(t, "/a", ure.Protocol)
	assert.Equal(t, "/other", ure.Response)
}

// TestSelect_TooLargeResponse 对端发送超长帧
func TestSelect_TooLargeResponse(t *testing.T) {
	client, server := testutil.TCPPair(t)

	go func() {
		_, _ = server.Write([]byte{0x80, 0x80, 0x08}) // 131072
	}()

	_, err := SelectOneOf([]string{"/a"}, client)
	require.ErrorIs(t, err, codec.ErrMessageTooLarge)

	_ = server.SetReadDeadline(time.Now().Add(2 * time.Second))
	tok, err := codec.ReadTokenFrom(server)
	require.NoError(t, err)
	assert.Equal(t, codec.TooLargeMessage, tok)
}

func TestSelectOneOfContext_Cancel(t *testing.T) {
	client, _ := testutil.TCPPair(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := SelectOneOfContext(ctx, []string{"/a"}, client)
	require.ErrorIs(t, err, context.Canceled)
}

func TestListProtocolsContext(t *testing.T) {
	client, server := testutil.TCPPair(t)
	n := newABC(t)
	negotiateAsync(n, server)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	protos, err := ListProtocolsContext(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, n.Protocols(), protos)
}

func TestLs_WritesListing(t *testing.T) {
	client, server := testutil.TCPPair(t)
	n := newABC(t)

	require.NoError(t, n.Ls(server))
	protos, err := codec.ReadListing(client)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b", "/c"}, protos)
}
