package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// 协议模块错误定义
var (
	// ErrIncorrectVersion 对端协议标识不是 /multistream/1.0.0
	ErrIncorrectVersion = errors.New("protocol: incorrect version")

	// ErrNotSupported 对端不支持任何候选协议
	ErrNotSupported = errors.New("protocol: not supported")

	// ErrUnrecognizedResponse 对端回应既不是回显也不是 na
	ErrUnrecognizedResponse = errors.New("protocol: unrecognized response")

	// ErrReservedProtocol 保留标识不能注册或提议
	ErrReservedProtocol = errors.New("protocol: reserved protocol id")

	// ErrEmptyProtocol 空协议名不能注册或提议
	ErrEmptyProtocol = errors.New("protocol: empty protocol id")

	// ErrNilHandler 处理器为空
	ErrNilHandler = errors.New("protocol: nil handler")
)

// NotSupportedError 列出全部被拒绝的候选协议
type NotSupportedError struct {
	Protocols []string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("protocol: none of the protocols are supported: [%s]", strings.Join(e.Protocols, ", "))
}

// Is 使 errors.Is(err, ErrNotSupported) 成立
func (e *NotSupportedError) Is(target error) bool {
	return target == ErrNotSupported
}

// UnrecognizedResponseError 记录提议与对端的实际回应
type UnrecognizedResponseError struct {
	Protocol string
	Response string
}

func (e *UnrecognizedResponseError) Error() string {
	return fmt.Sprintf("protocol: unrecognized response %q to %q", e.Response, e.Protocol)
}

// Is 使 errors.Is(err, ErrUnrecognizedResponse) 成立
func (e *UnrecognizedResponseError) Is(target error) bool {
	return target == ErrUnrecognizedResponse
}
