package muxer

import (
	"context"
	"errors"
	"fmt"

	"github.com/libp2p/go-yamux/v5"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var logger = log.Logger("core/muxer")

// ErrSessionClosed 会话已关闭
var ErrSessionClosed = errors.New("muxer session closed")

// yamux 流本身满足 MuxedStream，无需包装
var _ pkgif.MuxedStream = (*yamux.Stream)(nil)

// session 一条已协商 yamux 的连接
type session struct {
	*yamux.Session
}

var _ pkgif.MuxedConn = (*session)(nil)

// OpenStream 打开出站流
func (s *session) OpenStream(ctx context.Context) (pkgif.MuxedStream, error) {
	st, err := s.Session.OpenStream(ctx)
	if err != nil {
		logger.Debug("打开流失败", "remote", s.RemoteAddr().String(), "error", err)
		return nil, sessionErr("open stream", err)
	}
	return st, nil
}

// AcceptStream 等待对端打开的流
func (s *session) AcceptStream() (pkgif.MuxedStream, error) {
	st, err := s.Session.AcceptStream()
	if err != nil {
		return nil, sessionErr("accept stream", err)
	}
	return st, nil
}

// sessionErr 会话关闭类错误统一为 ErrSessionClosed
func sessionErr(op string, err error) error {
	if errors.Is(err, yamux.ErrSessionShutdown) {
		return fmt.Errorf("%s: %w", op, ErrSessionClosed)
	}
	return fmt.Errorf("%s: %w", op, err)
}
