// Package protocol 实现 multistream-select 协议协商
//
// # 核心功能
//
// 1. 处理器注册表 (Registry)
//   - 协议与处理器一一对应，后注册者替换先注册者
//   - 按注册顺序列出协议
//   - 保留标识 /multistream/1.0.0 与 ls 不可注册
//
// 2. 响应方 (Negotiator)
//   - 发送协议标识，校验对端标识
//   - 响应 ls，拒绝未知协议（na），回显已知协议并分派处理器
//
// 3. 发起方 (Selector / SelectOneOf / SelectProtoOrFail / ListProtocols)
//   - 按顺序提议候选协议，首个被接受者胜出
//
// # 快速开始
//
//	n := protocol.NewNegotiator()
//	_ = n.AddHandlerFunc("/echo/1.0.0", func(ctx context.Context, proto string, s io.ReadWriteCloser) bool {
//	    _, err := io.Copy(s, s)
//	    return err == nil
//	})
//	handled, err := n.Handle(stream)
//
// 发起方：
//
//	proto, err := protocol.SelectOneOf([]string{"/b/1.0.0", "/a/1.0.0"}, stream)
//
// 所有阻塞操作都有带 context 的版本，阻塞版本以 context.Background() 调用它。
// na 是正常结果而不是错误；只有版本不符时响应方才会关闭流。
package protocol
