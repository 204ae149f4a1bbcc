package host

import (
	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
)

// EvtConnectionOpened 连接升级完成
type EvtConnectionOpened struct {
	ConnID    string
	Addr      string
	Direction string
	Muxer     string
}

// EvtConnectionClosed 连接关闭
type EvtConnectionClosed struct {
	ConnID    string
	Addr      string
	Direction string
}

// EvtProtocolNegotiated 流上的协议协商成功
type EvtProtocolNegotiated struct {
	ConnID    string
	Protocol  string
	Direction string
}

// emitters Host 使用的事件发射器
//
// 未配置事件总线时所有字段为 nil，emit 直接返回。
type emitters struct {
	opened     pkgif.Emitter
	closed     pkgif.Emitter
	negotiated pkgif.Emitter
}

func newEmitters(bus pkgif.EventBus) (*emitters, error) {
	e := &emitters{}
	if bus == nil {
		return e, nil
	}

	var err error
	if e.opened, err = bus.Emitter(new(EvtConnectionOpened)); err != nil {
		return nil, err
	}
	if e.closed, err = bus.Emitter(new(EvtConnectionClosed)); err != nil {
		e.opened.Close()
		return nil, err
	}
	if e.negotiated, err = bus.Emitter(new(EvtProtocolNegotiated)); err != nil {
		e.opened.Close()
		e.closed.Close()
		return nil, err
	}
	return e, nil
}

func (e *emitters) emit(em pkgif.Emitter, evt any) {
	if em == nil {
		return
	}
	if err := em.Emit(evt); err != nil {
		logger.Debug("事件发射失败", "event", evt, "error", err)
	}
}

func (e *emitters) close() {
	for _, em := range []pkgif.Emitter{e.opened, e.closed, e.negotiated} {
		if em != nil {
			em.Close()
		}
	}
}
