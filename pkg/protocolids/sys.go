package protocolids

import (
	"strings"

	"github.com/dep2p/go-dialback/pkg/types"
)

// ============================================================================
// 协议前缀常量（用于运行时判断协议范围）
// ============================================================================

// SysPrefix 系统协议前缀，所有系统协议以此开头
const SysPrefix = "/dep2p/sys/"

// ============================================================================
// 系统协议 ID（/dep2p/sys/...）
// 系统协议无需上层验证，是基础设施的一部分
// ============================================================================

// SysDialBack 回拨验证协议（dial-back），用于探测节点公网可达性
//
// 协助方通过新连接打开此协议的流并送回令牌；
// 验证发起方的每个连接处理器只接受此协议的入站协商。
const SysDialBack types.ProtocolID = "/dep2p/sys/dial-back/1.0.0"

// ============================================================================
// 协议判断函数
// ============================================================================

// IsSystemProtocol 检查协议是否为系统协议
//
// 系统协议以 /dep2p/sys/ 开头，不绑定任何业务域，全网通用。
func IsSystemProtocol(proto types.ProtocolID) bool {
	return strings.HasPrefix(string(proto), SysPrefix)
}
