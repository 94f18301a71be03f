package dialback

import (
	"github.com/dep2p/go-dialback/pkg/interfaces/endpoint"
)

// ============================================================================
//                          连接层事件（封闭联合）
// ============================================================================

// ConnectionEvent 连接层事件
//
// 封闭联合类型：只有本包内定义的事件变体实现此接口，
// 处理器用穷举 type switch 分发，未列出的变体走默认忽略分支。
type ConnectionEvent interface {
	isConnectionEvent()
}

// EvtInboundNegotiated 入站流协商成功
//
// 流已确定承载 dial-back 协议，处理器应尝试接纳一次交换。
type EvtInboundNegotiated struct {
	// Stream 协商完成的入站流
	Stream endpoint.Stream
}

// EvtInboundUpgradeError 入站流协商失败
//
// 协议不匹配或协商过程出错。这是预期内的背景噪声
// （例如对端探测不支持的协议），处理器只记录调试日志。
type EvtInboundUpgradeError struct {
	// Err 协商失败原因
	Err error
}

// EvtOutboundNegotiated 出站流协商成功
//
// 本处理器从不发起出站协商，此事件只为联合完整性而存在，
// 处理器收到时忽略。
type EvtOutboundNegotiated struct {
	Stream endpoint.Stream
}

// EvtOutboundUpgradeError 出站流协商失败
//
// 出站协商被永久拒绝时产生，处理器收到时忽略。
type EvtOutboundUpgradeError struct {
	Err error
}

// EvtAddressChanged 连接地址变更
//
// 与回拨无关，处理器收到时忽略。
type EvtAddressChanged struct {
	Old string
	New string
}

func (EvtInboundNegotiated) isConnectionEvent()    {}
func (EvtInboundUpgradeError) isConnectionEvent()  {}
func (EvtOutboundNegotiated) isConnectionEvent()   {}
func (EvtOutboundUpgradeError) isConnectionEvent() {}
func (EvtAddressChanged) isConnectionEvent()       {}
