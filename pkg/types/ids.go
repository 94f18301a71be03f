// Package types 定义 go-dialback 的基础类型
//
// 这是整个模块的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
package types

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
)

// ============================================================================
//                              Nonce - 回拨令牌
// ============================================================================

// Nonce 回拨验证令牌
//
// 一次性随机数，由验证发起方生成、由协助方在回拨流上原样送回。
// 本模块只负责传输 Nonce，匹配与校验语义由上层行为层负责。
type Nonce uint64

// Uint64 返回 Nonce 的原始数值
func (n Nonce) Uint64() uint64 {
	return uint64(n)
}

// String 返回 Nonce 的十进制字符串表示
func (n Nonce) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

// GenerateNonce 生成加密安全的随机 Nonce
func GenerateNonce() (Nonce, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("types: generate nonce: %w", err)
	}
	return Nonce(binary.BigEndian.Uint64(buf[:])), nil
}

// ============================================================================
//                              NodeID - 节点标识
// ============================================================================

// NodeID 节点唯一标识符
//
// 本模块将节点身份视为不透明字符串（通常是上层栈的 Base58 编码节点 ID），
// 只用于日志与事件关联，不参与任何密码学运算。
type NodeID string

// String 返回 NodeID 的字符串表示
func (id NodeID) String() string {
	return string(id)
}

// ShortString 返回 NodeID 的短字符串表示
//
// 格式：前 8 个字符，用于日志中的简短标识。
func (id NodeID) ShortString() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

// IsEmpty 检查 NodeID 是否为空
func (id NodeID) IsEmpty() bool {
	return id == ""
}

// ============================================================================
//                              ConnID - 连接标识
// ============================================================================

// ConnID 连接唯一标识符
//
// 每个底层连接拥有独立的回拨处理器，ConnID 用于在服务层路由事件。
type ConnID string

// String 返回 ConnID 的字符串表示
func (id ConnID) String() string {
	return string(id)
}

// ============================================================================
//                              StreamID - 流标识
// ============================================================================

// StreamID 流唯一标识符
// 流 ID 在单个连接中是唯一的
type StreamID uint64

// String 返回 StreamID 的字符串表示
func (id StreamID) String() string {
	return "stream-" + strconv.FormatUint(uint64(id), 10)
}

// ============================================================================
//                              ProtocolID - 协议标识
// ============================================================================

// ProtocolID 协议标识符
// 格式如 "/dep2p/sys/dial-back/1.0.0"
type ProtocolID string

// String 返回协议 ID 字符串
func (p ProtocolID) String() string {
	return string(p)
}
