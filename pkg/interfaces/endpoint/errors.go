// Package endpoint 提供端点相关的接口定义和错误类型
package endpoint

import (
	"errors"
)

// ============================================================================
//                              预定义错误
// ============================================================================

var (
	// ErrConnectionClosed 连接已关闭错误
	ErrConnectionClosed = errors.New("endpoint: connection closed")

	// ErrStreamClosed 流已关闭错误
	ErrStreamClosed = errors.New("endpoint: stream closed")

	// ErrStreamReset 流被对端重置错误
	ErrStreamReset = errors.New("endpoint: stream reset")

	// ErrDeadlineNotSupported 底层流不支持超时设置
	ErrDeadlineNotSupported = errors.New("endpoint: deadline not supported")
)
