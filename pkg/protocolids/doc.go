// Package protocolids 定义本仓库使用的全部协议 ID。
//
// # 唯一真源原则
//
// 所有模块、测试、CLI 工具在需要协议 ID 时都引用本包中的常量，
// 不在其他位置定义字面量。
//
// # 分类
//
//   - 协商协议: /multistream/1.0.0 以及保留命令 ls、na
//   - 多路复用协议: 由升级器通过协商选择
//   - 系统协议: ping、echo 等诊断协议
//
// 常量均为包级常量，运行期不可修改。
package protocolids
