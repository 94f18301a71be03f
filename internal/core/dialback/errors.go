package dialback

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-dialback/internal/core/inflight"
)

// ============================================================================
//                              预定义错误
// ============================================================================

var (
	// ErrExchangeTimeout 回拨交换超时
	//
	// 交换在时限内未完成，被池强制终止。与 IO 错误是不同的
	// 失败原因，上层可用 errors.Is 区分后决定是否重试。
	ErrExchangeTimeout = fmt.Errorf("dialback: exchange timed out: %w", inflight.ErrTimeout)

	// ErrOutboundDenied 出站协商被拒绝
	//
	// 回拨处理器只接收，从不发起出站协商；任何出站尝试
	// 都立即失败。回拨本身由传输层通过另一条连接完成。
	ErrOutboundDenied = errors.New("dialback: outbound negotiation denied")

	// ErrMessageTooLarge 回拨消息超过长度上限
	ErrMessageTooLarge = errors.New("dialback: message exceeds size limit")

	// ErrProtocolMismatch 入站流协商出的协议不是 dial-back
	ErrProtocolMismatch = errors.New("dialback: negotiated protocol mismatch")

	// ErrHandlerClosed 处理器已关闭
	ErrHandlerClosed = errors.New("dialback: handler closed")

	// ErrServiceNotRunning 服务未启动或已停止
	ErrServiceNotRunning = errors.New("dialback: service not running")

	// ErrRateLimited 入站协商被服务层限速拒绝
	ErrRateLimited = errors.New("dialback: inbound request rate limited")
)
