// Package lazy 实现延迟协商流
//
// 延迟流把 multistream 握手推迟到第一次读或写：
//
//   - NewSelect: 发起方流，握手令牌为 [/multistream/1.0.0, proto]
//   - New: 已完成 multistream 握手的流，握手令牌为 [proto]
//
// 第一次 Read 以 Incoming 方向、第一次 Write 以 Outgoing 方向触发握手，
// 两个方向都会同时发送自己的令牌并接收对端的令牌，因此双方同时写
// 或同时读都不会死锁。握手失败（超时或令牌不符）时 I/O 返回该错误，
// 关闭流由调用者负责。
//
// 零长度 Read 也会等待握手完成。
package lazy
