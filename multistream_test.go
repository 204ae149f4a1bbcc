package multistream

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multistream/internal/util/testutil"
)

func serveAsync(t *testing.T, n *Negotiator, rwc io.ReadWriteCloser) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		_, err := n.Handle(rwc)
		done <- err
	}()
	return done
}

// TestSelectOneOf_Facade 测试门面协商
func TestSelectOneOf_Facade(t *testing.T) {
	client, server := testutil.TCPPair(t)

	handled := make(chan string, 1)
	n := NewNegotiator()
	require.NoError(t, n.AddHandlerFunc("/chat/1.0.0", func(_ context.Context, proto string, _ io.ReadWriteCloser) bool {
		handled <- proto
		return true
	}))
	done := serveAsync(t, n, server)

	proto, err := SelectOneOf([]string{"/chat/2.0.0", "/chat/1.0.0"}, client)
	require.NoError(t, err)
	assert.Equal(t, "/chat/1.0.0", proto)

	require.NoError(t, <-done)
	assert.Equal(t, "/chat/1.0.0", <-handled)

	t.Log("✅ SelectOneOf 门面测试通过")
}

func TestSelectProtoOrFail_NotSupported(t *testing.T) {
	client, server := testutil.TCPPair(t)

	n := NewNegotiator()
	require.NoError(t, n.AddHandler(NewHandler("/a", nil)))
	go func() {
		_, _ = n.Negotiate(server)
	}()

	err := SelectProtoOrFail("/b", client)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotSupported)

	var nse *NotSupportedError
	require.ErrorAs(t, err, &nse)
	assert.Equal(t, []string{"/b"}, nse.Protocols)
}

func TestListProtocols_Facade(t *testing.T) {
	client, server := testutil.TCPPair(t)

	n := NewNegotiator()
	require.NoError(t, n.AddHandler(NewHandler("/a", nil)))
	require.NoError(t, n.AddHandler(NewHandler("/b", nil)))
	go func() {
		_, _ = n.Negotiate(server)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	protos, err := ListProtocolsContext(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, protos)
}

// TestNewMSSelect_Facade 测试延迟流门面
func TestNewMSSelect_Facade(t *testing.T) {
	client, server := testutil.TCPPair(t)

	n := NewNegotiator()
	require.NoError(t, n.AddHandlerFunc("/echo", func(_ context.Context, _ string, s io.ReadWriteCloser) bool {
		buf := make([]byte, 4)
		if _, err := io.ReadFull(s, buf); err != nil {
			return false
		}
		_, err := s.Write(buf)
		return err == nil
	}))
	serveAsync(t, n, server)

	ls, err := NewMSSelect(client, "/echo", WithHandshakeTimeout(5*time.Second))
	require.NoError(t, err)

	_, err = ls.Write([]byte("ping"))
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = io.ReadFull(ls, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))

	_, err = NewMSSelect(client, ProtocolID)
	assert.ErrorIs(t, err, ErrReservedProtocol)
}

func TestDebugLevel(t *testing.T) {
	testCases := []struct {
		level string
		want  bool
	}{
		{"debug", true},
		{"DEBUG", true},
		{"core/host=warn, debug", true},
		{"core/host=debug,info", false},
		{"info", false},
		{"", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, debugLevel(tc.level), tc.level)
	}
}

func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), Version)

	GitCommit = "0123456789abcdef"
	defer func() { GitCommit = "" }()
	assert.Contains(t, VersionInfo(), "(01234567)")
}
