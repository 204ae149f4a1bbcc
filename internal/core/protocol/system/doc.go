// Package system 实现系统协议
//
// 系统协议在节点启动时自动注册到响应方，用于连通性检查。
//
// # 系统协议
//
//   - ping: 往返时延检测，/mss/sys/ping/1.0.0
//   - echo: 原样回显，/mss/sys/echo/1.0.0
package system
