package upgrader

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-multistream/internal/core/muxer"
	"github.com/dep2p/go-multistream/internal/core/protocol"
	"github.com/dep2p/go-multistream/internal/util/testutil"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

func newUpgrader(t *testing.T, preferred ...string) *Upgrader {
	t.Helper()
	muxers, err := muxer.NewMuxers(muxer.DefaultConfig(), preferred)
	require.NoError(t, err)
	u, err := New(Config{StreamMuxers: muxers, NegotiateTimeout: 5 * time.Second})
	require.NoError(t, err)
	return u
}

type upgradeResult struct {
	conn *Conn
	err  error
}

func upgradePair(t *testing.T, client, server *Upgrader) (upgradeResult, upgradeResult) {
	t.Helper()
	c, s := testutil.TCPPair(t)

	ch := make(chan upgradeResult, 1)
	go func() {
		conn, err := server.Upgrade(context.Background(), s, true)
		ch <- upgradeResult{conn, err}
	}()

	conn, err := client.Upgrade(context.Background(), c, false)
	cr := upgradeResult{conn, err}
	sr := <-ch
	t.Cleanup(func() {
		if cr.conn != nil {
			cr.conn.Close()
		}
		if sr.conn != nil {
			sr.conn.Close()
		}
	})
	return cr, sr
}

// TestUpgrade_PreferredMuxer 客户端首选胜出
func TestUpgrade_PreferredMuxer(t *testing.T) {
	for _, preferred := range protocolids.MuxerProtocols() {
		t.Run(preferred, func(t *testing.T) {
			client := newUpgrader(t, preferred)
			server := newUpgrader(t, protocolids.MuxerProtocols()...)

			cr, sr := upgradePair(t, client, server)
			require.NoError(t, cr.err)
			require.NoError(t, sr.err)
			assert.Equal(t, preferred, cr.conn.Muxer())
			assert.Equal(t, preferred, sr.conn.Muxer())
			assert.Equal(t, cr.conn.LocalAddr().String(), sr.conn.RemoteAddr().String())

			// 在升级后的连接上开流
			accepted := make(chan pkgif.MuxedStream, 1)
			go func() {
				s, err := sr.conn.AcceptStream()
				if err == nil {
					accepted <- s
				}
			}()
			cs, err := cr.conn.OpenStream(context.Background())
			require.NoError(t, err)
			_, err = cs.Write([]byte("hi"))
			require.NoError(t, err)

			ss := <-accepted
			buf := make([]byte, 2)
			_, err = io.ReadFull(ss, buf)
			require.NoError(t, err)
			assert.Equal(t, "hi", string(buf))

			t.Logf("✅ 协商出 %s", preferred)
		})
	}
}

// TestUpgrade_FallbackMuxer 服务端不支持首选时回退
func TestUpgrade_FallbackMuxer(t *testing.T) {
	client := newUpgrader(t, protocolids.Yamux, protocolids.HashicorpYamux)
	server := newUpgrader(t, protocolids.HashicorpYamux)

	cr, sr := upgradePair(t, client, server)
	require.NoError(t, cr.err)
	require.NoError(t, sr.err)
	assert.Equal(t, protocolids.HashicorpYamux, cr.conn.Muxer())
}

func TestUpgrade_NoCommonMuxer(t *testing.T) {
	client := newUpgrader(t, protocolids.Yamux)
	server := newUpgrader(t, protocolids.HashicorpYamux)

	cr, sr := upgradePair(t, client, server)
	require.ErrorIs(t, cr.err, protocol.ErrNotSupported)
	// 客户端失败后关闭连接，服务端读到 EOF
	require.ErrorIs(t, sr.err, ErrNegotiationFailed)
}

func TestNew_NoMuxer(t *testing.T) {
	_, err := New(NewConfig())
	assert.ErrorIs(t, err, ErrNoStreamMuxer)
}

func TestUpgrader_Protocols(t *testing.T) {
	u := newUpgrader(t, protocolids.HashicorpYamux, protocolids.Yamux)
	assert.Equal(t, []string{protocolids.HashicorpYamux, protocolids.Yamux}, u.Protocols())
}

func TestConfig_Validate(t *testing.T) {
	muxers, err := muxer.NewMuxers(muxer.DefaultConfig(), []string{protocolids.Yamux})
	require.NoError(t, err)

	cfg := NewConfig()
	cfg.StreamMuxers = append(muxers, muxers[0])
	assert.ErrorIs(t, cfg.Validate(), ErrDuplicateMuxer)

	cfg.StreamMuxers = muxers
	cfg.NegotiateTimeout = -time.Second
	assert.Error(t, cfg.Validate())

	cfg.NegotiateTimeout = 0
	require.NoError(t, cfg.Validate())
	u, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, DefaultNegotiateTimeout, u.negotiateTimeout)
}
