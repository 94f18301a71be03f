package inflight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// blockingOp 返回一个阻塞到 ctx 取消为止的操作
func blockingOp(v int) Op[int] {
	return func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return v, ctx.Err()
	}
}

// instantOp 返回一个立即完成的操作
func instantOp(v int) Op[int] {
	return func(context.Context) (int, error) {
		return v, nil
	}
}

// gatedOp 返回一个阻塞到 release 关闭（或 ctx 取消）的操作
func gatedOp(v int, release <-chan struct{}) Op[int] {
	return func(ctx context.Context) (int, error) {
		select {
		case <-release:
			return v, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// pollEventually 反复 Poll 直到取到结果或超时
func pollEventually(t *testing.T, p *Pool[int]) Result[int] {
	t.Helper()
	var res Result[int]
	require.Eventually(t, func() bool {
		r, ok := p.Poll()
		if ok {
			res = r
		}
		return ok
	}, time.Second, time.Millisecond, "应在超时前取到结果")
	return res
}

func TestTryPush_CapacityRejects(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int](time.Minute, 2)
	defer p.Close()

	// 填满容量
	require.True(t, p.TryPush(blockingOp(1)))
	require.True(t, p.TryPush(blockingOp(2)))
	assert.Equal(t, 2, p.Len())

	// 第三个操作被立即拒绝，而不是排队
	assert.False(t, p.TryPush(instantOp(3)), "容量占满时必须拒绝接纳")
	assert.Equal(t, 2, p.Len())
}

func TestPoll_EmptyPool(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int](time.Minute, 1)
	defer p.Close()

	_, ok := p.Poll()
	assert.False(t, ok, "空池 Poll 应返回 false")
}

func TestResult_DeliveredExactlyOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int](time.Minute, 4)
	defer p.Close()

	require.True(t, p.TryPush(instantOp(42)))

	res := pollEventually(t, p)
	require.NoError(t, res.Err)
	assert.Equal(t, 42, res.Value)

	// 同一结果不会被再次上报
	_, ok := p.Poll()
	assert.False(t, ok, "结果只能被取出一次")
}

func TestTimeout_EvictsAndFreesSlot(t *testing.T) {
	defer goleak.VerifyNone(t)

	mock := clock.NewMock()
	p := NewWithClock[int](100*time.Millisecond, 1, mock)
	defer p.Close()

	// 操作永不主动完成，只能被时限驱逐
	require.True(t, p.TryPush(blockingOp(0)))
	assert.False(t, p.TryPush(instantOp(1)), "容量应被占用")

	// 推进模拟时钟直到超时结果出现
	var res Result[int]
	require.Eventually(t, func() bool {
		mock.Add(10 * time.Millisecond)
		r, ok := p.Poll()
		if ok {
			res = r
		}
		return ok
	}, time.Second, time.Millisecond)

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, ErrTimeout, "驱逐必须以 ErrTimeout 上报")

	// 槽位已释放，可再次接纳
	require.Eventually(t, func() bool {
		return p.TryPush(instantOp(2))
	}, time.Second, time.Millisecond, "超时后容量槽应被释放")
}

func TestCompletionOrder_IsArrivalOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int](time.Minute, 2)
	defer p.Close()

	release := make(chan struct{})

	// 先接纳慢操作，再接纳快操作
	require.True(t, p.TryPush(gatedOp(1, release)))
	require.True(t, p.TryPush(instantOp(2)))

	// 快操作先完成，先被取出
	res := pollEventually(t, p)
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Value, "完成顺序而非接纳顺序")

	close(release)
	res = pollEventually(t, p)
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Value)
}

func TestOpError_Propagated(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int](time.Minute, 1)
	defer p.Close()

	cause := errors.New("stream reset")
	require.True(t, p.TryPush(func(context.Context) (int, error) {
		return 0, cause
	}))

	res := pollEventually(t, p)
	assert.ErrorIs(t, res.Err, cause, "操作错误应原样上报")
	assert.NotErrorIs(t, res.Err, ErrTimeout)
}

func TestReady_SignaledOnCompletion(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int](time.Minute, 1)
	defer p.Close()

	require.True(t, p.TryPush(instantOp(7)))

	select {
	case <-p.Ready():
	case <-time.After(time.Second):
		t.Fatal("完成后应收到就绪信号")
	}

	res, ok := p.Poll()
	require.True(t, ok)
	assert.Equal(t, 7, res.Value)
}

func TestCapacityBound_IncludesUnconsumedResults(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int](time.Minute, 2)
	defer p.Close()

	// 两个操作完成但结果未被消费
	require.True(t, p.TryPush(instantOp(1)))
	require.True(t, p.TryPush(instantOp(2)))

	// 等待两个结果都进入缓冲（槽位随之释放）
	require.Eventually(t, func() bool {
		return p.Len() == 0
	}, time.Second, time.Millisecond)

	// 释放后的槽位可再次接纳；新结果入缓冲后继续占用新槽
	require.True(t, p.TryPush(instantOp(3)))
	require.True(t, p.TryPush(instantOp(4)))

	// 消费全部四个结果
	seen := make(map[int]bool)
	for i := 0; i < 4; i++ {
		res := pollEventually(t, p)
		require.NoError(t, res.Err)
		seen[res.Value] = true
	}
	assert.Len(t, seen, 4)
}

func TestClose_CancelsInflightOps(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int](time.Minute, 2)

	require.True(t, p.TryPush(blockingOp(1)))
	require.True(t, p.TryPush(blockingOp(2)))

	// Close 取消在途操作并等待退出
	require.NoError(t, p.Close())

	// 关闭后拒绝新操作
	assert.False(t, p.TryPush(instantOp(3)))

	// 重复关闭无害
	assert.NoError(t, p.Close())
}

func TestTimeout_DoesNotAffectOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int](50*time.Millisecond, 2)
	defer p.Close()

	// 一个操作注定超时，另一个立即完成
	require.True(t, p.TryPush(blockingOp(0)))
	require.True(t, p.TryPush(instantOp(9)))

	res := pollEventually(t, p)
	require.NoError(t, res.Err)
	assert.Equal(t, 9, res.Value, "超时驱逐不应影响其他操作")

	res = pollEventually(t, p)
	assert.ErrorIs(t, res.Err, ErrTimeout)
}

func TestElapsed_Recorded(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := New[int](time.Minute, 1)
	defer p.Close()

	require.True(t, p.TryPush(instantOp(1)))

	res := pollEventually(t, p)
	assert.GreaterOrEqual(t, res.Elapsed, time.Duration(0))
	assert.Less(t, res.Elapsed, time.Minute)
}
