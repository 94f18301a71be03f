// Package dialback 定义回拨验证（dial-back）相关接口
//
// 回拨验证用于确认节点的公网可达性：验证方请求协助方通过
// 新连接"拨回来"，并在回拨连接的流上送回一个一次性令牌。
// 本包定义的是接收侧（验证方）的契约：连接处理器与服务层。
//
// 协议：/dep2p/sys/dial-back/1.0.0
// 注：使用 sys 前缀表明这是系统级协议，无需上层验证
//
// 协议流程：
//
//	┌──────────┐                    ┌──────────┐
//	│  Node A  │                    │  Node B  │
//	│(验证方)   │                    │(协助方)   │
//	└────┬─────┘                    └────┬─────┘
//	     │  1. 请求回拨（上层协议，不在本模块内）  │
//	     │────────────────────────────────>│
//	     │                                 │
//	     │      2. B 向 A 的候选地址新建连接  │
//	     │<────────────────────────────────│
//	     │                                 │
//	     │  3. B 打开 dial-back 流          │
//	     │     发送 { nonce }，半关闭写端    │
//	     │<────────────────────────────────│
//	     │                                 │
//	     │  4. A 读取 nonce，关闭流，        │
//	     │     向行为层上报结果              │
//	     │                                 │
//
// 本模块实现第 3、4 步中 A 侧的全部逻辑，以及 B 侧第 3 步的
// 应答例程；第 1、2 步（探测决策、建连、nonce 匹配）属于上层。
package dialback

import (
	"context"
	"io"
	"time"

	"github.com/dep2p/go-dialback/pkg/interfaces/endpoint"
	"github.com/dep2p/go-dialback/pkg/protocolids"
	"github.com/dep2p/go-dialback/pkg/types"
)

// ============================================================================
//                              协议常量
// ============================================================================

// 引用 pkg/protocolids 唯一真源
var (
	// ProtocolID 回拨验证协议标识（dial-back）
	ProtocolID = protocolids.SysDialBack
)

const (
	// DefaultExchangeTimeout 单次回拨交换的默认超时时间
	DefaultExchangeTimeout = 5 * time.Second

	// DefaultMaxInflight 单连接默认并发在途交换上限
	DefaultMaxInflight = 16

	// MaxMessageSize 单条回拨消息允许的最大编码长度（字节）
	// 回拨消息只携带一个 64 位令牌，正常编码远小于此上限
	MaxMessageSize = 4096

	// DefaultHistorySize 服务层默认保留的最近交换记录数
	DefaultHistorySize = 128
)

// ============================================================================
//                              消息结构
// ============================================================================

// DialBackMessage 回拨消息
//
// 协助方在回拨流上发送的唯一消息，验证方读取后立即关闭流。
type DialBackMessage struct {
	// Nonce 一次性随机令牌，原样送回验证方
	Nonce uint64 `json:"nonce"`
}

// ============================================================================
//                              连接处理器
// ============================================================================

// Handler 单连接回拨处理器
//
// 每条连接一个实例，由连接的事件循环驱动：
// 连接层事件通过 OnConnectionEvent 进入，完成结果通过 Poll 取出。
// 除连接事件外，处理器不接受任何输入。
type Handler interface {
	// Protocol 返回此处理器接受入站协商的协议 ID
	Protocol() types.ProtocolID

	// OnConnectionEvent 处理一个连接层事件
	//
	// 只有入站协商成功与入站协商失败两类事件有意义，
	// 其余事件一律忽略。本方法永不阻塞、永不 panic。
	OnConnectionEvent(ev ConnectionEvent)

	// Poll 取出至多一个就绪的上行事件
	//
	// 非阻塞。每次调用至多返回一个 types.EvtDialBackResult；
	// 若无就绪结果返回 (nil, false)。剩余就绪结果留待后续调用。
	Poll() (types.Event, bool)

	// Ready 返回就绪通知通道
	//
	// 有新结果可 Poll 时收到信号。通道容量为 1，信号可能合并。
	Ready() <-chan struct{}

	// KeepAlive 报告连接是否需要仅为本处理器保活
	//
	// 恒为 false：回拨验证是机会性的，不为它保持空闲连接。
	KeepAlive() bool

	// Inflight 返回当前在途交换数
	Inflight() int

	// Close 关闭处理器，终止所有在途交换
	Close() error
}

// ============================================================================
//                              服务层
// ============================================================================

// Service 回拨服务
//
// 管理所有连接的处理器，把端点层的流路由到对应处理器，
// 并把各处理器的完成结果汇聚到一个事件通道。
type Service interface {
	// Start 启动服务
	Start(ctx context.Context) error

	// Stop 停止服务，关闭所有处理器
	Stop() error

	// Protocols 返回服务注册的入站协议列表
	Protocols() []types.ProtocolID

	// HandleStream 处理一条已完成 dial-back 协议协商的入站流
	//
	// 由端点层的协议注册表回调。流所属连接的处理器不存在时
	// 会惰性创建。
	HandleStream(s endpoint.Stream)

	// ServeMuxed 处理一条尚未协商协议的裸复用流
	//
	// 在流上运行 multistream 协商，成功且协议匹配时等价于
	// HandleStream；协商失败只记录调试日志。本方法阻塞到
	// 协商完成，调用方应在独立 goroutine 中调用。
	ServeMuxed(conn types.ConnID, rwc io.ReadWriteCloser) error

	// CloseConn 销毁指定连接的处理器（连接关闭时调用）
	CloseConn(conn types.ConnID)

	// Events 返回结果事件通道
	//
	// 每个完成的回拨交换产生一个 types.EvtDialBackResult。
	// 服务停止后通道关闭。
	Events() <-chan types.Event

	// Recent 返回最近的交换记录（自旧到新）
	Recent() []ExchangeRecord
}

// ============================================================================
//                              交换记录
// ============================================================================

// ExchangeRecord 一次回拨交换的历史记录
type ExchangeRecord struct {
	// ID 记录唯一标识
	ID string

	// Conn 产生此记录的连接
	Conn types.ConnID

	// Nonce 对端送回的令牌（失败时为 0）
	Nonce types.Nonce

	// Err 失败原因（空串表示成功）
	Err string

	// Elapsed 交换耗时
	Elapsed time.Duration

	// At 记录时间
	At time.Time
}
