// Package types 定义 go-dialback 公共类型
//
// 本文件定义事件相关类型。
package types

import (
	"time"
)

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// ============================================================================
//                              回拨事件
// ============================================================================

// EventTypeDialBackResult 回拨交换完成事件类型
const EventTypeDialBackResult = "dialback.result"

// EvtDialBackResult 回拨交换完成事件
//
// 每个被接纳的回拨交换恰好产生一个此事件：
//   - Err == nil 时 Nonce 为对端送回的令牌；
//   - Err != nil 时交换失败（IO 错误或超时，超时可用
//     errors.Is(Err, ErrExchangeTimeout) 区分）。
type EvtDialBackResult struct {
	BaseEvent

	// Conn 产生此结果的连接
	Conn ConnID

	// Nonce 对端送回的令牌（仅 Err == nil 时有效）
	Nonce Nonce

	// Elapsed 从接纳到完成的耗时
	Elapsed time.Duration

	// Err 交换失败原因（nil 表示成功）
	Err error
}

// NewEvtDialBackResult 创建回拨交换完成事件
func NewEvtDialBackResult(conn ConnID, nonce Nonce, elapsed time.Duration, err error) EvtDialBackResult {
	return EvtDialBackResult{
		BaseEvent: NewBaseEvent(EventTypeDialBackResult),
		Conn:      conn,
		Nonce:     nonce,
		Elapsed:   elapsed,
		Err:       err,
	}
}
