package dialback

import (
	"context"
	"io"
	"time"

	"go.uber.org/fx"

	core "github.com/dep2p/go-dialback/internal/core/dialback"
	dialbackif "github.com/dep2p/go-dialback/pkg/interfaces/dialback"
	"github.com/dep2p/go-dialback/pkg/interfaces/endpoint"
	"github.com/dep2p/go-dialback/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

// 核心类型别名，使用方只需导入本包。
type (
	// Config 回拨服务配置
	Config = dialbackif.Config

	// Option 配置选项函数
	Option = dialbackif.Option

	// Handler 单连接回拨处理器接口
	Handler = dialbackif.Handler

	// ConnectionEvent 连接层事件（密封接口）
	ConnectionEvent = dialbackif.ConnectionEvent

	// ExchangeRecord 一次回拨交换的历史记录
	ExchangeRecord = dialbackif.ExchangeRecord

	// DialBackMessage 回拨消息
	DialBackMessage = dialbackif.DialBackMessage

	// Nonce 回拨令牌
	Nonce = types.Nonce

	// ConnID 连接标识
	ConnID = types.ConnID

	// Stream 双向流接口
	Stream = endpoint.Stream

	// Connection 连接接口
	Connection = endpoint.Connection

	// Event 事件接口
	Event = types.Event

	// EvtDialBackResult 回拨交换完成事件
	EvtDialBackResult = types.EvtDialBackResult
)

// 连接事件变体别名
type (
	// EvtInboundNegotiated 入站流完成 dial-back 协商
	EvtInboundNegotiated = dialbackif.EvtInboundNegotiated

	// EvtInboundUpgradeError 入站协商失败
	EvtInboundUpgradeError = dialbackif.EvtInboundUpgradeError

	// EvtOutboundNegotiated 出站流完成协商（回拨不会发生）
	EvtOutboundNegotiated = dialbackif.EvtOutboundNegotiated

	// EvtOutboundUpgradeError 出站协商失败
	EvtOutboundUpgradeError = dialbackif.EvtOutboundUpgradeError

	// EvtAddressChanged 连接地址变更
	EvtAddressChanged = dialbackif.EvtAddressChanged
)

// ProtocolID 回拨协议标识
var ProtocolID = dialbackif.ProtocolID

// ════════════════════════════════════════════════════════════════════════════
//                              配置选项
// ════════════════════════════════════════════════════════════════════════════

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return dialbackif.DefaultConfig()
}

// WithExchangeTimeout 设置单次交换超时时间
func WithExchangeTimeout(timeout time.Duration) Option {
	return dialbackif.WithExchangeTimeout(timeout)
}

// WithMaxInflight 设置单连接并发在途交换上限
func WithMaxInflight(n int) Option {
	return dialbackif.WithMaxInflight(n)
}

// WithMaxMessageSize 设置回拨消息最大编码长度
func WithMaxMessageSize(n int) Option {
	return dialbackif.WithMaxMessageSize(n)
}

// WithHistorySize 设置保留的交换记录数
func WithHistorySize(n int) Option {
	return dialbackif.WithHistorySize(n)
}

// WithRateLimit 设置服务层全局入站速率限制
func WithRateLimit(perSecond float64, burst int) Option {
	return dialbackif.WithRateLimit(perSecond, burst)
}

// ════════════════════════════════════════════════════════════════════════════
//                              用户 API: Service
// ════════════════════════════════════════════════════════════════════════════

// Service 用户级回拨服务 API
//
// 封装内部服务实现，提供回拨验证的全部入口。
//
// 使用示例：
//
//	svc, _ := dialback.New()
//	_ = svc.Start(ctx)
//	defer svc.Stop()
//
//	// 宿主把回拨子流交给服务
//	go svc.ServeMuxed(connID, stream)
//
//	// 消费交换结果
//	for ev := range svc.Events() {
//	    res := ev.(dialback.EvtDialBackResult)
//	    fmt.Println("nonce:", res.Nonce)
//	}
type Service struct {
	internal *core.Service
}

// New 创建回拨服务
func New(opts ...Option) (*Service, error) {
	svc, err := core.NewService(opts...)
	if err != nil {
		return nil, err
	}
	return &Service{internal: svc}, nil
}

// NewWithConfig 用完整配置创建回拨服务
func NewWithConfig(cfg *Config) (*Service, error) {
	svc, err := core.NewServiceWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{internal: svc}, nil
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	return s.internal.Start(ctx)
}

// Stop 停止服务，终止全部在途交换
func (s *Service) Stop() error {
	return s.internal.Stop()
}

// Protocols 返回服务处理的协议列表
func (s *Service) Protocols() []types.ProtocolID {
	return s.internal.Protocols()
}

// HandleStream 处理一条已完成协议协商的入站流
func (s *Service) HandleStream(stream Stream) {
	s.internal.HandleStream(stream)
}

// ServeMuxed 在原始复用流上完成协议协商并处理
//
// conn 标识流所属的连接，rwc 通常是一条 yamux 子流。
func (s *Service) ServeMuxed(conn ConnID, rwc io.ReadWriteCloser) error {
	return s.internal.ServeMuxed(conn, rwc)
}

// CloseConn 关闭指定连接的处理器
func (s *Service) CloseConn(conn ConnID) {
	s.internal.CloseConn(conn)
}

// Events 返回结果事件通道，服务停止时关闭
func (s *Service) Events() <-chan Event {
	return s.internal.Events()
}

// Recent 返回近期交换记录，从旧到新
func (s *Service) Recent() []ExchangeRecord {
	return s.internal.Recent()
}

// ════════════════════════════════════════════════════════════════════════════
//                              应答方 API
// ════════════════════════════════════════════════════════════════════════════

// RespondDialBack 在已打开的流上应答一次回拨
//
// 供回拨发起方（对端视角的协助节点）使用：写入带 nonce 的
// 回拨消息并等待对端确认。流需已完成 dial-back 协议协商。
func RespondDialBack(ctx context.Context, s Stream, nonce Nonce) error {
	return core.RespondDialBack(ctx, s, nonce)
}

// RespondMuxed 在原始复用流上协商 dial-back 协议并应答
//
// ServeMuxed 的对偶操作，rwc 通常是一条刚打开的复用子流。
func RespondMuxed(ctx context.Context, rwc io.ReadWriteCloser, nonce Nonce) error {
	return core.RespondMuxed(ctx, rwc, nonce)
}

// GenerateNonce 生成密码学随机回拨令牌
func GenerateNonce() (Nonce, error) {
	return types.GenerateNonce()
}

// ════════════════════════════════════════════════════════════════════════════
//                              Fx 集成
// ════════════════════════════════════════════════════════════════════════════

// Module 返回 fx 模块配置，与宿主应用的依赖注入集成
func Module() fx.Option {
	return core.Module()
}
