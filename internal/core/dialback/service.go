package dialback

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	mss "github.com/multiformats/go-multistream"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"

	dialbackif "github.com/dep2p/go-dialback/pkg/interfaces/dialback"
	"github.com/dep2p/go-dialback/pkg/interfaces/endpoint"
	"github.com/dep2p/go-dialback/pkg/types"
)

// ============================================================================
//                              常量
// ============================================================================

const (
	// eventBufferSize 事件通道缓冲大小
	eventBufferSize = 64
)

// ============================================================================
//                              Service 实现
// ============================================================================

// connHandler 连接处理器及其轮询取消函数
type connHandler struct {
	handler *Handler
	cancel  context.CancelFunc
}

// Service 回拨服务
//
// 在连接处理器之上提供服务级编排：按连接惰性创建处理器、
// 入站流协商、结果事件扇出、近期交换历史与全局限速。
type Service struct {
	cfg     *dialbackif.Config
	mux     *mss.MultistreamMuxer[string]
	limiter *rate.Limiter
	history *lru.Cache[string, dialbackif.ExchangeRecord]
	events  chan types.Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.RWMutex
	conns map[types.ConnID]*connHandler

	running int32 // atomic
	closed  int32 // atomic
}

// 确保实现 dialback.Service 接口
var _ dialbackif.Service = (*Service)(nil)

// NewService 用选项创建回拨服务
func NewService(opts ...dialbackif.Option) (*Service, error) {
	cfg := dialbackif.DefaultConfig()
	if err := dialbackif.ApplyOptions(cfg, opts...); err != nil {
		return nil, err
	}
	return NewServiceWithConfig(cfg)
}

// NewServiceWithConfig 用完整配置创建回拨服务
//
// cfg 为 nil 时使用默认配置。
func NewServiceWithConfig(cfg *dialbackif.Config) (*Service, error) {
	if cfg == nil {
		cfg = dialbackif.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dialback: invalid config: %w", err)
	}

	history, err := lru.New[string, dialbackif.ExchangeRecord](cfg.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("dialback: create exchange history: %w", err)
	}

	// 默认不限速
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Service{
		cfg:     cfg,
		mux:     mss.NewMultistreamMuxer[string](),
		limiter: limiter,
		history: history,
		events:  make(chan types.Event, eventBufferSize),
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[types.ConnID]*connHandler),
	}
	s.mux.AddHandler(string(dialbackif.ProtocolID), nil)

	return s, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServiceNotRunning
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return nil
	}

	log.Info("dial back service started",
		"protocol", string(dialbackif.ProtocolID),
		"max_inflight", s.cfg.MaxInflight,
		"exchange_timeout", s.cfg.ExchangeTimeout)
	return nil
}

// Stop 停止服务
//
// 关闭全部连接处理器并终止在途交换，随后关闭事件通道。
func (s *Service) Stop() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}

	s.cancel()

	s.mu.Lock()
	handlers := make([]*connHandler, 0, len(s.conns))
	for _, ch := range s.conns {
		handlers = append(handlers, ch)
	}
	s.conns = make(map[types.ConnID]*connHandler)
	s.mu.Unlock()

	var err error
	for _, ch := range handlers {
		ch.cancel()
		err = multierr.Append(err, ch.handler.Close())
	}

	s.wg.Wait()
	close(s.events)

	log.Info("dial back service stopped", "handlers", len(handlers))
	return err
}

// isRunning 报告服务是否处于运行状态
func (s *Service) isRunning() bool {
	return atomic.LoadInt32(&s.running) == 1 && atomic.LoadInt32(&s.closed) == 0
}

// ============================================================================
//                              入站流处理
// ============================================================================

// Protocols 返回服务处理的协议列表
func (s *Service) Protocols() []types.ProtocolID {
	return []types.ProtocolID{dialbackif.ProtocolID}
}

// HandleStream 处理一条已完成协议协商的入站流
//
// 宿主自带协商时的接入口：流按所属连接路由到对应处理器。
func (s *Service) HandleStream(stream endpoint.Stream) {
	if !s.isRunning() {
		_ = stream.Close()
		return
	}

	h := s.handlerFor(stream.Connection().ID())
	if h == nil {
		_ = stream.Close()
		return
	}
	h.OnConnectionEvent(dialbackif.EvtInboundNegotiated{Stream: stream})
}

// ServeMuxed 在原始复用流上完成协议协商并处理
//
// 服务端执行 multistream-select 协商；协商失败按升级错误
// 处理（调试日志，不升级为连接错误）。
func (s *Service) ServeMuxed(conn types.ConnID, rwc io.ReadWriteCloser) error {
	if !s.isRunning() {
		_ = rwc.Close()
		return ErrServiceNotRunning
	}

	if !s.limiter.Allow() {
		log.Warn("dial back request rate limited", "conn", conn.String())
		_ = rwc.Close()
		return ErrRateLimited
	}

	h := s.handlerFor(conn)
	if h == nil {
		_ = rwc.Close()
		return ErrServiceNotRunning
	}

	proto, _, err := s.mux.Negotiate(rwc)
	if err != nil {
		h.OnConnectionEvent(dialbackif.EvtInboundUpgradeError{Err: err})
		_ = rwc.Close()
		return fmt.Errorf("dialback: negotiate inbound stream: %w", err)
	}

	stream := newRWCStream(newServiceConn(conn), types.ProtocolID(proto), rwc)
	h.OnConnectionEvent(dialbackif.EvtInboundNegotiated{Stream: stream})
	return nil
}

// CloseConn 关闭指定连接的处理器
//
// 连接断开时由宿主调用，终止该连接上的在途交换。
func (s *Service) CloseConn(conn types.ConnID) {
	s.mu.Lock()
	ch, ok := s.conns[conn]
	delete(s.conns, conn)
	s.mu.Unlock()

	if !ok {
		return
	}

	ch.cancel()
	if err := ch.handler.Close(); err != nil {
		log.Debug("close dial back handler", "conn", conn.String(), "err", err)
	}
	log.Debug("dial back handler removed", "conn", conn.String())
}

// handlerFor 返回连接对应的处理器，必要时创建
//
// 服务已停止时返回 nil。
func (s *Service) handlerFor(conn types.ConnID) *Handler {
	s.mu.RLock()
	ch, ok := s.conns[conn]
	s.mu.RUnlock()
	if ok {
		return ch.handler
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stop 清空映射后不再创建新处理器
	if atomic.LoadInt32(&s.closed) == 1 {
		return nil
	}
	if ch, ok := s.conns[conn]; ok {
		return ch.handler
	}

	h := newHandler(conn, s.cfg)
	cctx, cancel := context.WithCancel(s.ctx)
	s.conns[conn] = &connHandler{handler: h, cancel: cancel}

	s.wg.Add(1)
	go s.reactor(cctx, h)

	log.Debug("dial back handler created", "conn", conn.String())
	return h
}

// ============================================================================
//                              事件扇出
// ============================================================================

// reactor 轮询处理器并把结果扇出到事件通道
func (s *Service) reactor(ctx context.Context, h *Handler) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.Ready():
			for {
				ev, ok := h.Poll()
				if !ok {
					break
				}
				s.record(ev)
				select {
				case s.events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// record 把结果事件写入近期交换历史
func (s *Service) record(ev types.Event) {
	res, ok := ev.(types.EvtDialBackResult)
	if !ok {
		return
	}

	rec := dialbackif.ExchangeRecord{
		ID:      uuid.New().String(),
		Conn:    res.Conn,
		Nonce:   res.Nonce,
		Elapsed: res.Elapsed,
		At:      res.Timestamp(),
	}
	if res.Err != nil {
		rec.Err = res.Err.Error()
	}
	s.history.Add(rec.ID, rec)
}

// Events 返回结果事件通道
//
// 服务停止时通道关闭。
func (s *Service) Events() <-chan types.Event {
	return s.events
}

// Recent 返回近期交换记录，从旧到新
func (s *Service) Recent() []dialbackif.ExchangeRecord {
	return s.history.Values()
}
