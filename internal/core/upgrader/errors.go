package upgrader

import "errors"

var (
	// ErrNoStreamMuxer 未配置任何多路复用器
	ErrNoStreamMuxer = errors.New("upgrader: no stream muxer configured")

	// ErrDuplicateMuxer 同一多路复用协议配置了两次
	ErrDuplicateMuxer = errors.New("upgrader: duplicate stream muxer")

	// ErrNegotiationFailed 对端未选定任何多路复用协议
	ErrNegotiationFailed = errors.New("upgrader: peer selected no muxer")

	// ErrUnknownMuxer 协商结果不在本地列表中
	ErrUnknownMuxer = errors.New("upgrader: negotiated muxer not configured")

	// ErrMuxerSetupFailed 会话创建失败
	ErrMuxerSetupFailed = errors.New("upgrader: muxer setup failed")
)
