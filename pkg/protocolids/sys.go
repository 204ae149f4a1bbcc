package protocolids

import "strings"

// ============================================================================
// 协商协议
// ============================================================================

// Multistream 协商协议标识，握手时双方各发送一次
const Multistream = "/multistream/1.0.0"

// Ls 列出协议命令
const Ls = "ls"

// NA 拒绝标记（not available）
const NA = "na"

// ============================================================================
// 多路复用协议
// ============================================================================

// Yamux libp2p go-yamux 多路复用协议
const Yamux = "/yamux/1.0.0"

// HashicorpYamux hashicorp yamux 多路复用协议
const HashicorpYamux = "/yamux/hashicorp/1.0.0"

// ============================================================================
// 系统协议
// ============================================================================

// SysPrefix 系统协议前缀
const SysPrefix = "/mss/sys/"

// SysPing Ping 协议，用于存活检测和延迟测量
const SysPing = "/mss/sys/ping/1.0.0"

// SysEcho Echo 协议，用于基础连接测试
const SysEcho = "/mss/sys/echo/1.0.0"

// IsReserved 检查是否为协商保留标识
//
// 保留标识不能注册处理器，也不能作为候选协议发送。
func IsReserved(proto string) bool {
	return proto == Multistream || proto == Ls
}

// IsSystemProtocol 检查是否为系统协议
func IsSystemProtocol(proto string) bool {
	return strings.HasPrefix(proto, SysPrefix)
}

// SystemProtocols 返回所有系统协议
func SystemProtocols() []string {
	return []string{SysPing, SysEcho}
}

// MuxerProtocols 返回默认的多路复用协议偏好顺序
func MuxerProtocols() []string {
	return []string{Yamux, HashicorpYamux}
}
