// Package lib 包含基础设施工具库
//
// 本目录包含与协商组件无关的通用工具库：
//
//   - log: 组件日志封装
//
// # 与 pkg/ 其他目录的关系
//
//   - interfaces/: 组件公共接口
//   - protocolids/: 协议 ID 常量
//   - lib/: 基础设施工具库（本目录）
//
// # 使用示例
//
//	import "github.com/dep2p/go-multistream/pkg/lib/log"
//
//	var logger = log.Logger("core/host")
package lib
