package dialback

import (
	core "github.com/dep2p/go-dialback/internal/core/dialback"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 交换错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrExchangeTimeout 回拨交换超时
	//
	// 与 IO 错误可用 errors.Is 区分：超时代表对端可能仍在路上，
	// IO 错误代表流已经坏了。
	ErrExchangeTimeout = core.ErrExchangeTimeout

	// ErrMessageTooLarge 回拨消息超过长度上限
	ErrMessageTooLarge = core.ErrMessageTooLarge

	// ────────────────────────────────────────────────────────────────────────
	// 协商错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrOutboundDenied 出站协商被拒绝（回拨处理器只接收）
	ErrOutboundDenied = core.ErrOutboundDenied

	// ErrProtocolMismatch 入站流协商出的协议不是 dial-back
	ErrProtocolMismatch = core.ErrProtocolMismatch

	// ────────────────────────────────────────────────────────────────────────
	// 服务错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrHandlerClosed 处理器已关闭
	ErrHandlerClosed = core.ErrHandlerClosed

	// ErrServiceNotRunning 服务未启动或已停止
	ErrServiceNotRunning = core.ErrServiceNotRunning

	// ErrRateLimited 入站协商被服务层限速拒绝
	ErrRateLimited = core.ErrRateLimited
)
