// Package endpoint 定义 go-dialback 依赖的网络端点接口
//
// 本包是对上层栈连接/流抽象的最小视图：回拨模块只消费
// 已经建立的连接与已经多路复用出的流，不关心它们如何产生。
// 嵌入方只需让自己的连接与流类型满足这里的接口。
package endpoint

import (
	"github.com/dep2p/go-dialback/pkg/types"
)

// ============================================================================
//                        类型别名
// ============================================================================

// 基础类型别名 - 从 pkg/types 导入
type (
	// NodeID 节点唯一标识符
	NodeID = types.NodeID

	// ConnID 连接唯一标识符
	ConnID = types.ConnID

	// StreamID 流唯一标识符
	StreamID = types.StreamID

	// ProtocolID 协议标识符
	ProtocolID = types.ProtocolID
)
