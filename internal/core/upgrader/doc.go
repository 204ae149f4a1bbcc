// Package upgrader 实现连接升级器
//
// 升级流程：
//  1. 在原始 TCP 连接上用 multistream-select 协商多路复用协议
//     （服务端为响应方，客户端为发起方，按偏好顺序提议）
//  2. 用选中的多路复用器创建会话
//
// 协商期间连接设置截止时间，超时后连接被关闭。
package upgrader
