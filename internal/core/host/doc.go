// Package host 实现基于 TCP 的协商主机
//
// Host 聚合传输、升级与协议协商，为上层提供统一的网络服务接口。
//
// # Host 架构
//
// Host 采用门面（Facade）模式，组合以下组件：
//   - tcp.Transport: 拨号与监听
//   - upgrader.Upgrader: 在原始连接上协商多路复用器
//   - protocol.Negotiator: 入站流的协议协商与处理器分发
//   - protocol.Selector: 出站流的协议选择
//   - metrics.Metrics: 连接与流量指标（可选）
//
// # 入站流程
//
//	accept → 限流 → Upgrade(server) → AcceptStream → NegotiateContext → Handler
//
// # 出站流程
//
//	Dial → Upgrade(client) → OpenStream → SelectOneOf / lazy.NewSelect / ls
//
// # 使用示例
//
//	h, err := host.New(host.WithUpgrader(up))
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	h.SetStreamHandler("/chat/1.0.0", handleChat)
//	if err := h.Listen("127.0.0.1:4001"); err != nil {
//	    return err
//	}
//
//	s, err := h.NewStream(ctx, "127.0.0.1:4002", "/chat/2.0.0", "/chat/1.0.0")
//
// # 事件
//
// 通过 WithEventBus 配置事件总线后，Host 发布 EvtConnectionOpened、
// EvtConnectionClosed 与 EvtProtocolNegotiated。
package host
