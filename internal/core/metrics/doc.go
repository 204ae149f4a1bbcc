// Package metrics 提供 Prometheus 监控指标
//
// # 指标
//
//   - negotiations_total{role,result}       协商次数（role: responder/initiator，result: success/na/error/empty）
//   - negotiation_duration_seconds{role}    协商耗时
//   - handshakes_total{result}              延迟握手结果（ok/mismatch/timeout/error）
//   - listings_total                        响应的 ls 请求数
//   - stream_bytes_total{protocol,direction} 已协商流的字节数
//   - connections_total{direction,result}   连接数（accepted/rejected）
//   - active_streams                        活跃的已协商流
//
// 所有方法对 nil 接收者安全，未启用指标时传 nil 即可。
//
// # 快速开始
//
//	reg := prometheus.NewRegistry()
//	m, err := metrics.New("mss", reg)
//	http.Handle("/metrics", metrics.Handler(reg))
package metrics
