package dialback

import (
	"context"

	dialbackif "github.com/dep2p/go-dialback/pkg/interfaces/dialback"
	"github.com/dep2p/go-dialback/pkg/interfaces/endpoint"
	"github.com/dep2p/go-dialback/pkg/types"
)

// ============================================================================
//                              协商适配器
// ============================================================================

// Upgrader 回拨协议的协商适配器
//
// 向协商层声明：入站只接受 dial-back 协议；出站永久拒绝。
// 保留出站接口而不是整个省略，是为了让外层复用器的统一协商
// 接口不需要为本处理器做特例。
type Upgrader struct {
	proto types.ProtocolID
}

// NewUpgrader 创建协商适配器
func NewUpgrader() *Upgrader {
	return &Upgrader{proto: dialbackif.ProtocolID}
}

// Protocols 返回入站接受的协议列表（恒为单元素）
func (u *Upgrader) Protocols() []types.ProtocolID {
	return []types.ProtocolID{u.proto}
}

// UpgradeInbound 确认入站流的协议
//
// 协议匹配时原样放行（dial-back 无需额外握手）；
// 不匹配时返回 ErrProtocolMismatch。
func (u *Upgrader) UpgradeInbound(s endpoint.Stream, proto types.ProtocolID) (endpoint.Stream, error) {
	if proto != u.proto {
		return nil, ErrProtocolMismatch
	}
	return s, nil
}

// UpgradeOutbound 出站协商（永久失败）
//
// 回拨处理器只接收。回拨动作本身由传输层通过另一条连接完成，
// 不经过本处理器的出站通道。
func (u *Upgrader) UpgradeOutbound(context.Context, endpoint.Stream, types.ProtocolID) (endpoint.Stream, error) {
	return nil, ErrOutboundDenied
}
