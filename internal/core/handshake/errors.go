package handshake

import "errors"

// 握手错误定义
var (
	// ErrProtocolMismatch 收到的令牌与期望不符
	ErrProtocolMismatch = errors.New("handshake: protocol mismatch")

	// ErrHandshakeTimeout 握手超时
	ErrHandshakeTimeout = errors.New("handshake: timed out")
)
