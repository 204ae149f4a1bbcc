package codec

import "errors"

// 编解码错误定义
var (
	// ErrMessageTooLarge 帧声明长度超过上限
	ErrMessageTooLarge = errors.New("codec: message too large")

	// ErrMessageMissingNewline 帧末尾缺少换行符
	ErrMessageMissingNewline = errors.New("codec: message did not have trailing newline")

	// ErrMalformedListing 协议列表格式错误
	ErrMalformedListing = errors.New("codec: malformed protocol listing")
)
