// Package multistream 实现 multistream-select 协议协商
//
// 两个对端在一条双向字节流上就使用哪个应用协议达成一致。
// 协商结束后，该字节流交给选定协议的处理器使用。
//
// # 核心概念
//
//   - 响应方（Negotiator）：注册协议处理器，回应对端的提议
//   - 发起方（SelectProtoOrFail / SelectOneOf）：按偏好顺序提议协议
//   - 延迟流（LazyStream）：握手推迟到首次读写，请求与数据一起发出
//   - 列表（ListProtocols）：查询对端已注册的协议
//
// # 线路格式
//
// 每条消息为 uvarint(len(token)+1) + token + '\n'，消息上限 64 KiB。
// 双方先交换 /multistream/1.0.0，之后发起方逐个提议，
// 响应方回显接受的协议或回复 na。
//
// # 快速开始
//
//	// 响应方
//	n := multistream.NewNegotiator()
//	n.AddHandlerFunc("/chat/1.0.0", handleChat)
//	ok, err := n.Handle(conn)
//
//	// 发起方
//	proto, err := multistream.SelectOneOf([]string{"/chat/2.0.0", "/chat/1.0.0"}, conn)
//
// # 节点
//
// Node 通过 Fx 组装 TCP 传输、多路复用升级、协商主机与指标：
//
//	node, err := multistream.Start(ctx,
//	    multistream.WithListenAddrs("127.0.0.1:4001"),
//	    multistream.WithStreamHandler("/chat/1.0.0", handleChat),
//	)
//	if err != nil {
//	    return err
//	}
//	defer node.Close()
//
//	s, err := node.NewStream(ctx, "127.0.0.1:4002", "/chat/1.0.0")
//
// # 文件组织
//
//	multistream.go  协商 API 的门面
//	node.go         Node 及其生命周期
//	options.go      Node 配置选项
//	fx.go           Fx 应用组装
//	events.go       节点事件与订阅
//	errors.go       公共错误
//	version.go      版本信息
package multistream
