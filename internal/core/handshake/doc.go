// Package handshake 协调延迟协商流的双向握手
//
// 握手分为发送半程（写出全部令牌并刷新）与接收半程（逐个读取并比对令牌）。
// 每个半程是一个三态状态机：
//
//	Idle -> InProgress -> Complete
//
// 无论由读还是写触发，EnsureComplete 都并发执行两个半程，
// 每帧在线路上只出现一次。并发调用者等待正在进行的尝试，
// 完成后的调用直接返回记录的结果。
//
// 失败是粘滞的：失败的半程保持 Complete 并记录错误，不会重试，
// 此时线路上的字节可能已经错位。
package handshake
