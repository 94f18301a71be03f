package dialback

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-dialback/pkg/interfaces/endpoint"
	"github.com/dep2p/go-dialback/pkg/types"
)

// ============================================================================
//                              网络流适配器
// ============================================================================

// errServiceConn 服务侧伪连接不支持的操作
var errServiceConn = errors.New("dialback: operation not supported on service connection")

// 全局流 ID 计数器
var nextStreamID uint64

// deadlineReader 可设置读截止时间的流
type deadlineReader interface {
	SetReadDeadline(t time.Time) error
}

// deadlineWriter 可设置写截止时间的流
type deadlineWriter interface {
	SetWriteDeadline(t time.Time) error
}

// writeCloser 支持半关闭写方向的流
type writeCloser interface {
	CloseWrite() error
}

// readCloser 支持半关闭读方向的流
type readCloser interface {
	CloseRead() error
}

// rwcStream 把原始复用流适配为 endpoint.Stream
//
// 底层通常是 yamux 流或 net.Conn。截止时间与半关闭能力
// 通过接口断言探测底层支持：yamux 流支持截止时间但不支持
// 半关闭，TCP 连接两者都支持。
type rwcStream struct {
	id    types.StreamID
	proto types.ProtocolID
	conn  endpoint.Connection
	rwc   io.ReadWriteCloser

	closed int32 // atomic
}

// 确保实现 endpoint.Stream 接口
var _ endpoint.Stream = (*rwcStream)(nil)

// newRWCStream 包装一条已协商的原始流
func newRWCStream(conn endpoint.Connection, proto types.ProtocolID, rwc io.ReadWriteCloser) *rwcStream {
	return &rwcStream{
		id:    types.StreamID(atomic.AddUint64(&nextStreamID, 1)),
		proto: proto,
		conn:  conn,
		rwc:   rwc,
	}
}

// Read 从流读取数据
func (s *rwcStream) Read(p []byte) (int, error) {
	return s.rwc.Read(p)
}

// Write 向流写入数据
func (s *rwcStream) Write(p []byte) (int, error) {
	return s.rwc.Write(p)
}

// Close 关闭流
func (s *rwcStream) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	return s.rwc.Close()
}

// ID 返回流 ID
func (s *rwcStream) ID() types.StreamID {
	return s.id
}

// ProtocolID 返回协商出的协议
func (s *rwcStream) ProtocolID() types.ProtocolID {
	return s.proto
}

// Connection 返回所属连接
func (s *rwcStream) Connection() endpoint.Connection {
	return s.conn
}

// SetDeadline 设置读写截止时间
func (s *rwcStream) SetDeadline(t time.Time) error {
	if d, ok := s.rwc.(interface{ SetDeadline(time.Time) error }); ok {
		return d.SetDeadline(t)
	}
	return endpoint.ErrDeadlineNotSupported
}

// SetReadDeadline 设置读截止时间
func (s *rwcStream) SetReadDeadline(t time.Time) error {
	if d, ok := s.rwc.(deadlineReader); ok {
		return d.SetReadDeadline(t)
	}
	return endpoint.ErrDeadlineNotSupported
}

// SetWriteDeadline 设置写截止时间
func (s *rwcStream) SetWriteDeadline(t time.Time) error {
	if d, ok := s.rwc.(deadlineWriter); ok {
		return d.SetWriteDeadline(t)
	}
	return endpoint.ErrDeadlineNotSupported
}

// CloseRead 半关闭读方向
//
// 底层不支持半关闭时为空操作。
func (s *rwcStream) CloseRead() error {
	if c, ok := s.rwc.(readCloser); ok {
		return c.CloseRead()
	}
	return nil
}

// CloseWrite 半关闭写方向
//
// 底层不支持半关闭时为空操作；回拨消息带长度前缀，
// 对端不依赖 EOF 判定消息边界。
func (s *rwcStream) CloseWrite() error {
	if c, ok := s.rwc.(writeCloser); ok {
		return c.CloseWrite()
	}
	return nil
}

// IsClosed 报告流是否已关闭
func (s *rwcStream) IsClosed() bool {
	return atomic.LoadInt32(&s.closed) == 1
}

// ============================================================================
//                              服务侧伪连接
// ============================================================================

// serviceConn 服务托管流的占位连接
//
// 只携带连接 ID 供事件归属；不承载流的打开与接受。
type serviceConn struct {
	id types.ConnID
}

// 确保实现 endpoint.Connection 接口
var _ endpoint.Connection = (*serviceConn)(nil)

// newServiceConn 创建占位连接
func newServiceConn(id types.ConnID) *serviceConn {
	return &serviceConn{id: id}
}

// ID 返回连接 ID
func (c *serviceConn) ID() types.ConnID {
	return c.id
}

// LocalID 返回本地节点 ID（占位连接为空）
func (c *serviceConn) LocalID() types.NodeID {
	return ""
}

// RemoteID 返回远端节点 ID（占位连接为空）
func (c *serviceConn) RemoteID() types.NodeID {
	return ""
}

// OpenStream 占位连接不支持打开流
func (c *serviceConn) OpenStream(context.Context, types.ProtocolID) (endpoint.Stream, error) {
	return nil, errServiceConn
}

// AcceptStream 占位连接不支持接受流
func (c *serviceConn) AcceptStream(context.Context) (endpoint.Stream, error) {
	return nil, errServiceConn
}

// Close 关闭占位连接（空操作）
func (c *serviceConn) Close() error {
	return nil
}

// IsClosed 报告连接是否已关闭
func (c *serviceConn) IsClosed() bool {
	return false
}
