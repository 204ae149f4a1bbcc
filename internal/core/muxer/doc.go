// Package muxer 实现流多路复用
//
// 基于 github.com/libp2p/go-yamux/v5，协议 ID 为 /yamux/1.0.0。
// 升级阶段通过 multistream-select 选出多路复用协议，之后每条流再
// 独立协商应用协议。
//
// # 快速开始
//
//	t := muxer.NewTransport(muxer.DefaultConfig())
//
//	// 服务端
//	mc, _ := t.NewConn(conn, true)
//	stream, _ := mc.AcceptStream()
//
//	// 客户端
//	mc, _ := t.NewConn(conn, false)
//	stream, _ := mc.OpenStream(ctx)
//
// # yamux 配置
//
//   - MaxStreamWindowSize: 默认 16MiB
//   - KeepAliveInterval: 默认 30s，0 关闭保活
//   - MaxIncomingStreams: 默认 1024
//   - ReadBufSize: 0（TCP 连接已有内核缓冲）
//
// # Fx 模块
//
// Module 按 config.Muxer.Preferred 的顺序提供 []pkgif.StreamMuxer，
// 同时包含 hashicorp 实现（见子包 yamux）。
package muxer
