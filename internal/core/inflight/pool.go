// Package inflight 提供容量与时限双重约束的在途操作池
//
// 池是回拨处理器的接纳控制原语：同时在途的操作数不超过容量，
// 每个操作有独立的绝对时限。这不是队列——容量占满时新操作被
// 立即拒绝，而不是延迟接纳。
package inflight

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/semaphore"
)

// ErrTimeout 操作超过时限被强制终止
//
// 包装 context.DeadlineExceeded，调用方用任一哨兵做 errors.Is
// 判断都成立。
var ErrTimeout = fmt.Errorf("inflight: operation timed out: %w", context.DeadlineExceeded)

// ============================================================================
//                              Op / Result
// ============================================================================

// Op 池中执行的异步操作
//
// ctx 在操作超时或池关闭时被取消；操作必须在取消后尽快返回，
// 否则会推迟 Close 的完成。
type Op[T any] func(ctx context.Context) (T, error)

// Result 一个操作的终态
//
// 每个被接纳的操作恰好产生一个 Result，且恰好被 Poll 取出一次。
type Result[T any] struct {
	// Value 操作的返回值（仅 Err == nil 时有效）
	Value T

	// Err 失败原因；超时以 ErrTimeout 上报，与操作自身的
	// 错误可通过 errors.Is 区分
	Err error

	// Elapsed 从接纳到终态的耗时
	Elapsed time.Duration
}

// ============================================================================
//                              Pool
// ============================================================================

// Pool 容量与时限双重约束的在途操作池
//
// 所有方法并发安全。容量同时约束"在途操作 + 未被 Poll 取走的
// 结果"：结果进入缓冲后才释放容量槽，消费方停止 Poll 时，
// 池的资源占用仍有上界。
type Pool[T any] struct {
	timeout  time.Duration
	capacity int

	sem     *semaphore.Weighted
	clk     clock.Clock
	results chan Result[T]
	ready   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	inflight int32 // atomic
	closed   int32 // atomic
}

// New 创建操作池
//
// timeout 为单个操作的最长运行时间，capacity 为并发在途上限，
// 两者都必须为正值（由上层配置验证保证）。
func New[T any](timeout time.Duration, capacity int) *Pool[T] {
	return NewWithClock[T](timeout, capacity, clock.New())
}

// NewWithClock 创建使用指定时钟的操作池
//
// 测试中传入 clock.NewMock 可以确定性地驱动超时。
func NewWithClock[T any](timeout time.Duration, capacity int, clk clock.Clock) *Pool[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool[T]{
		timeout:  timeout,
		capacity: capacity,
		sem:      semaphore.NewWeighted(int64(capacity)),
		clk:      clk,
		results:  make(chan Result[T], capacity),
		ready:    make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// TryPush 尝试接纳一个操作
//
// 非阻塞。容量占满或池已关闭时立即返回 false，操作不会执行。
// 接纳成功的操作立即开始运行。
func (p *Pool[T]) TryPush(op Op[T]) bool {
	if atomic.LoadInt32(&p.closed) == 1 {
		return false
	}
	if !p.sem.TryAcquire(1) {
		return false
	}
	if atomic.LoadInt32(&p.closed) == 1 {
		p.sem.Release(1)
		return false
	}

	atomic.AddInt32(&p.inflight, 1)
	p.wg.Add(1)
	go p.run(op)
	return true
}

// run 驱动单个操作：与时限赛跑，产出恰好一个 Result
func (p *Pool[T]) run(op Op[T]) {
	defer p.wg.Done()

	opCtx, cancelOp := context.WithCancel(p.ctx)
	defer cancelOp()

	began := p.clk.Now()

	// done 带缓冲：超时路径下操作迟到的返回值被静默丢弃，
	// 执行 goroutine 不会因无人接收而滞留
	done := make(chan Result[T], 1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		v, err := op(opCtx)
		done <- Result[T]{Value: v, Err: err}
	}()

	timer := p.clk.Timer(p.timeout)
	defer timer.Stop()

	var res Result[T]
	select {
	case res = <-done:
	case <-timer.C:
		cancelOp()
		res = Result[T]{Err: ErrTimeout}
	case <-p.ctx.Done():
		// 池关闭：等待操作退出，结果不再上报
		cancelOp()
		<-done
		p.release()
		return
	}
	res.Elapsed = p.clk.Since(began)

	// 先入缓冲再释放容量槽，保证容量同时约束在途与未消费结果
	select {
	case p.results <- res:
		p.release()
		p.notify()
	case <-p.ctx.Done():
		p.release()
	}
}

// release 释放一个容量槽
func (p *Pool[T]) release() {
	atomic.AddInt32(&p.inflight, -1)
	p.sem.Release(1)
}

// notify 发出就绪信号（通道容量 1，信号可合并）
func (p *Pool[T]) notify() {
	select {
	case p.ready <- struct{}{}:
	default:
	}
}

// Poll 取出至多一个就绪结果
//
// 非阻塞。结果按完成顺序（而非接纳顺序）取出；
// 无就绪结果时返回 (零值, false)。
func (p *Pool[T]) Poll() (Result[T], bool) {
	select {
	case res := <-p.results:
		return res, true
	default:
		return Result[T]{}, false
	}
}

// Ready 返回就绪通知通道
//
// 新结果进入缓冲后收到信号；一次信号可能对应多个结果，
// 消费方应循环 Poll 直到取空。
func (p *Pool[T]) Ready() <-chan struct{} {
	return p.ready
}

// Len 返回当前占用的容量槽数（在途操作 + 未消费结果）
func (p *Pool[T]) Len() int {
	return int(atomic.LoadInt32(&p.inflight))
}

// Capacity 返回容量上限
func (p *Pool[T]) Capacity() int {
	return p.capacity
}

// Close 关闭池
//
// 取消所有在途操作并等待它们退出。未被 Poll 取走的结果被丢弃。
// 重复调用无害。
func (p *Pool[T]) Close() error {
	if !atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		return nil
	}
	p.cancel()
	p.wg.Wait()
	return nil
}
