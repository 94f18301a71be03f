package dialback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dep2p/go-dialback/internal/core/inflight"
	dialbackif "github.com/dep2p/go-dialback/pkg/interfaces/dialback"
	"github.com/dep2p/go-dialback/pkg/interfaces/endpoint"
	"github.com/dep2p/go-dialback/pkg/types"
)

// ============================================================================
//                              连接处理器
// ============================================================================

// Handler 单连接回拨处理器
//
// 连接建立时创建，连接关闭时销毁，不跨连接保留任何状态。
// 处理器没有显式命名状态——它的状态就是"当前在途的交换数
// (0..MaxInflight)"，行为完全由连接事件驱动。
type Handler struct {
	connID   types.ConnID
	cfg      *dialbackif.Config
	upgrader *Upgrader
	pool     *inflight.Pool[types.Nonce]
	log      *slog.Logger

	closed int32 // atomic
}

// 确保实现 dialback.Handler 接口
var _ dialbackif.Handler = (*Handler)(nil)

// NewHandler 创建连接处理器
//
// cfg 为 nil 时使用默认配置。
func NewHandler(connID types.ConnID, cfg *dialbackif.Config) (*Handler, error) {
	if cfg == nil {
		cfg = dialbackif.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dialback: invalid config: %w", err)
	}
	return newHandler(connID, cfg), nil
}

// newHandler 用已验证的配置构造处理器
func newHandler(connID types.ConnID, cfg *dialbackif.Config) *Handler {
	return &Handler{
		connID:   connID,
		cfg:      cfg,
		upgrader: NewUpgrader(),
		pool:     inflight.New[types.Nonce](cfg.ExchangeTimeout, cfg.MaxInflight),
		log:      log.With("conn", connID.String()),
	}
}

// Protocol 返回此处理器接受入站协商的协议 ID
func (h *Handler) Protocol() types.ProtocolID {
	return h.upgrader.proto
}

// OnConnectionEvent 处理一个连接层事件
//
// 只有两类事件有意义：入站协商成功触发接纳，入站协商失败
// 记录调试日志。其余事件（出站协商、地址变更等）一律忽略——
// 协商失败是预期内的背景噪声，绝不升级为连接错误。
func (h *Handler) OnConnectionEvent(ev dialbackif.ConnectionEvent) {
	switch ev := ev.(type) {
	case dialbackif.EvtInboundNegotiated:
		h.admitExchange(ev.Stream)
	case dialbackif.EvtInboundUpgradeError:
		h.log.Debug("dial back inbound upgrade failed", "err", ev.Err)
	default:
		// 其余连接事件与回拨无关
	}
}

// admitExchange 尝试把一次交换接纳进池
//
// 容量占满时丢弃流并记录警告；不产生上行事件，对端依赖
// 自身超时感知失败。
func (h *Handler) admitExchange(s endpoint.Stream) {
	if atomic.LoadInt32(&h.closed) == 1 {
		h.log.Debug("dial back stream rejected", "err", ErrHandlerClosed)
		_ = s.Close()
		return
	}

	maxSize := h.cfg.MaxMessageSize
	ok := h.pool.TryPush(func(ctx context.Context) (types.Nonce, error) {
		return performExchange(ctx, s, maxSize)
	})
	if !ok {
		h.log.Warn("dial back request dropped, too many requests in flight",
			"inflight", h.pool.Len(), "max", h.cfg.MaxInflight)
		_ = s.Close()
	}
}

// Poll 取出至多一个就绪的上行事件
//
// 每次调用至多转换一个池结果；超时结果在这里映射为
// ErrExchangeTimeout，与 IO 错误保持可区分。
func (h *Handler) Poll() (types.Event, bool) {
	res, ok := h.pool.Poll()
	if !ok {
		return nil, false
	}

	err := res.Err
	if err != nil && errors.Is(err, inflight.ErrTimeout) {
		err = ErrExchangeTimeout
	}
	return types.NewEvtDialBackResult(h.connID, res.Value, res.Elapsed, err), true
}

// Ready 返回就绪通知通道
func (h *Handler) Ready() <-chan struct{} {
	return h.pool.Ready()
}

// KeepAlive 报告连接是否需要仅为本处理器保活
//
// 恒为 false：回拨验证是机会性的，不为它保持空闲连接。
func (h *Handler) KeepAlive() bool {
	return false
}

// Inflight 返回当前在途交换数
func (h *Handler) Inflight() int {
	return h.pool.Len()
}

// Close 关闭处理器，终止所有在途交换
func (h *Handler) Close() error {
	if !atomic.CompareAndSwapInt32(&h.closed, 0, 1) {
		return nil
	}
	return h.pool.Close()
}
