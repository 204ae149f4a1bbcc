// Package interfaces 定义公共接口
//
// 接口文件划分：
//   - protocol.go       - 协议处理器（协商成功后接管流）
//   - muxer.go          - 流多路复用
//   - stream.go         - 协商所需的可选流能力（Flush、截止时间）
//   - eventbus.go       - 进程内事件总线
//
// 实现位于 internal/core 下对应目录。
package interfaces
