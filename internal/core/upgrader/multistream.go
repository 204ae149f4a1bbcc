package upgrader

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/dep2p/go-multistream/internal/core/protocol"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// negotiateMuxer 协商多路复用器
//
// 服务端只登记协议 ID 不分派处理器，客户端按偏好顺序提议。
func (u *Upgrader) negotiateMuxer(ctx context.Context, conn net.Conn, isServer bool) (pkgif.StreamMuxer, error) {
	deadline := time.Now().Add(u.negotiateTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}
	defer conn.SetDeadline(time.Time{}) // 清除超时

	var selected string
	if isServer {
		res, err := u.negotiator.NegotiateContext(ctx, conn)
		if err != nil {
			return nil, fmt.Errorf("server muxer negotiation: %w", err)
		}
		if !res.Ok() {
			return nil, fmt.Errorf("server muxer negotiation: %w", ErrNegotiationFailed)
		}
		selected = res.Protocol
	} else {
		var err error
		selected, err = u.selector.SelectOneOf(ctx, u.protocols, conn)
		if err != nil {
			return nil, fmt.Errorf("client muxer negotiation: %w", err)
		}
	}

	for _, sm := range u.streamMuxers {
		if sm.ID() == selected {
			return sm, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMuxer, selected)
}

// newMuxerNegotiator 登记所有多路复用协议的响应方
func newMuxerNegotiator(muxers []pkgif.StreamMuxer, opts ...protocol.NegotiatorOption) (*protocol.Negotiator, error) {
	n := protocol.NewNegotiator(opts...)
	for _, sm := range muxers {
		if err := n.AddHandler(protocol.NewHandler(sm.ID(), nil)); err != nil {
			return nil, err
		}
	}
	return n, nil
}
