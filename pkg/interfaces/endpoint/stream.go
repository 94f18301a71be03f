package endpoint

import (
	"io"
	"time"
)

// ============================================================================
//                              Stream 接口
// ============================================================================

// Stream 表示一个双向数据流
//
// Stream 是 Connection 上的逻辑通信通道，支持全双工通信。
// 多个 Stream 可以在单个 Connection 上并发运行，互不影响。
//
// Stream 实现了 io.Reader, io.Writer, io.Closer 接口，
// 可以直接用于标准库的 io 操作。
type Stream interface {
	// 嵌入标准接口
	io.Reader
	io.Writer
	io.Closer

	// ==================== 元信息 ====================

	// ID 返回流 ID
	// 流 ID 在单个连接中是唯一的
	ID() StreamID

	// ProtocolID 返回协议 ID
	// 返回此流协商出的协议标识符
	ProtocolID() ProtocolID

	// Connection 返回所属连接
	Connection() Connection

	// ==================== 超时控制 ====================

	// SetDeadline 设置读写超时
	//
	// 超时后，阻塞中的 Read 和 Write 会返回错误。
	// 传入零值 time.Time{} 表示不超时。
	SetDeadline(t time.Time) error

	// SetReadDeadline 设置读超时
	SetReadDeadline(t time.Time) error

	// SetWriteDeadline 设置写超时
	SetWriteDeadline(t time.Time) error

	// ==================== 半关闭 ====================

	// CloseRead 关闭读端
	//
	// 关闭流的读取端，不再接收数据。
	// 此操作不影响写入端。
	CloseRead() error

	// CloseWrite 关闭写端
	//
	// 关闭流的写入端并冲刷缓冲数据，对端会收到 EOF。
	// 此操作不影响读取端，仍可以读取对端发送的数据。
	CloseWrite() error

	// ==================== 状态检查 ====================

	// IsClosed 检查流是否已关闭
	IsClosed() bool
}
