// Package ping 实现存活检测协议
//
// ping 协议用于测量已协商流上的往返延迟（RTT）。
//
// # 协议 ID
//
//	/mss/sys/ping/1.0.0
//
// # 消息格式
//
// 请求和响应都是 32 字节的随机数据，响应必须与请求相同。
// 同一条流上可以连续 ping。
//
// # 使用示例
//
//	s, err := h.NewStream(ctx, addr, ping.ProtocolID)
//	rtt, err := ping.Ping(ctx, s)
package ping
