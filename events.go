package multistream

import (
	"github.com/dep2p/go-multistream/internal/core/host"
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// EventBus 事件总线
type EventBus = pkgif.EventBus

// Subscription 事件订阅
type Subscription = pkgif.Subscription

// SubscriptionOpt 订阅选项
type SubscriptionOpt = pkgif.SubscriptionOpt

// BufSize 设置订阅缓冲区大小
func BufSize(size int) SubscriptionOpt {
	return pkgif.BufSize(size)
}

// SubscriberName 为订阅命名，用于丢弃告警日志
func SubscriberName(name string) SubscriptionOpt {
	return pkgif.SubscriberName(name)
}

// 节点发布的事件
type (
	// EvtConnectionOpened 连接升级完成
	EvtConnectionOpened = host.EvtConnectionOpened

	// EvtConnectionClosed 连接关闭
	EvtConnectionClosed = host.EvtConnectionClosed

	// EvtProtocolNegotiated 协议协商成功
	EvtProtocolNegotiated = host.EvtProtocolNegotiated
)
