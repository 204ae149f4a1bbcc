package multistream

import (
	"errors"

	"github.com/dep2p/go-multistream/internal/core/codec"
	"github.com/dep2p/go-multistream/internal/core/handshake"
	"github.com/dep2p/go-multistream/internal/core/protocol"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 协商错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrIncorrectVersion 对端协议标识不是 /multistream/1.0.0
	ErrIncorrectVersion = protocol.ErrIncorrectVersion

	// ErrNotSupported 对端不支持任何候选协议
	ErrNotSupported = protocol.ErrNotSupported

	// ErrUnrecognizedResponse 对端回应既不是回显也不是 na
	ErrUnrecognizedResponse = protocol.ErrUnrecognizedResponse

	// ErrReservedProtocol 保留标识不能注册或提议
	ErrReservedProtocol = protocol.ErrReservedProtocol

	// ErrMessageTooLarge 消息超过 64 KiB
	ErrMessageTooLarge = codec.ErrMessageTooLarge

	// ErrMessageMissingNewline 消息缺少结尾换行
	ErrMessageMissingNewline = codec.ErrMessageMissingNewline

	// ErrProtocolMismatch 延迟握手被对端拒绝或回显不符
	ErrProtocolMismatch = handshake.ErrProtocolMismatch

	// ErrHandshakeTimeout 延迟握手超时
	ErrHandshakeTimeout = handshake.ErrHandshakeTimeout

	// ────────────────────────────────────────────────────────────────────────
	// 节点生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 节点未启动
	ErrNotStarted = errors.New("node not started")

	// ErrAlreadyStarted 节点已启动
	ErrAlreadyStarted = errors.New("node already started")

	// ErrNodeClosed 节点已关闭
	ErrNodeClosed = errors.New("node closed")
)

// NotSupportedError 列出全部被拒绝的候选协议
type NotSupportedError = protocol.NotSupportedError

// UnrecognizedResponseError 记录提议与对端的实际回应
type UnrecognizedResponseError = protocol.UnrecognizedResponseError
