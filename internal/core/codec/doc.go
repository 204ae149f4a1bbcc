// Package codec 实现协商令牌的帧编解码
//
// # 帧格式
//
//	<uvarint(len(token)+1)> <token> '\n'
//
// 长度前缀包含末尾换行符。声明长度超过 65536 的帧被拒绝，
// 拒绝前尽力向对端回写 "Messages over 64k are not allowed"。
//
// # 协议列表
//
//	<uvarint(len(payload))> <payload>
//	payload = <uvarint(count)> <frame>*count
//
// 外层长度恰好等于其后的字节数，外层不带换行符。
//
// 读取长度前缀时逐字节读，不会多读属于应用数据的字节。
package codec
