package endpoint

import (
	"context"
)

// ============================================================================
//                              Connection 接口
// ============================================================================

// Connection 表示与远端节点的一条连接
//
// 回拨模块以连接为粒度创建处理器：每条连接一个处理器、
// 一个在途操作池。连接关闭后，对应处理器随之销毁。
type Connection interface {
	// ID 返回连接 ID
	// 连接 ID 在单个进程内是唯一的
	ID() ConnID

	// LocalID 返回本端节点 ID
	LocalID() NodeID

	// RemoteID 返回对端节点 ID
	RemoteID() NodeID

	// OpenStream 打开一个新流并完成协议协商
	//
	// 由回拨的协助方使用：在回拨连接上打开 dial-back 协议的流。
	OpenStream(ctx context.Context, proto ProtocolID) (Stream, error)

	// AcceptStream 接受对端打开的流
	//
	// 返回的流尚未完成协议协商。
	AcceptStream(ctx context.Context) (Stream, error)

	// Close 关闭连接
	Close() error

	// IsClosed 检查连接是否已关闭
	IsClosed() bool
}
