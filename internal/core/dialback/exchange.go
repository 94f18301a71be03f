package dialback

import (
	"context"
	"fmt"
	"time"

	"github.com/dep2p/go-dialback/pkg/interfaces/endpoint"
	"github.com/dep2p/go-dialback/pkg/types"
)

// ============================================================================
//                              回拨交换例程
// ============================================================================

// performExchange 执行一次回拨交换
//
// 在已完成 dial-back 协议协商的流上：读取一条回拨消息，
// 取出令牌，半关闭写端并关闭流。成功返回令牌；任何一步失败
// （消息截断、连接重置、关闭失败）返回 IO 错误。
//
// 对端打开流后不发数据、或发一半停住的情况不在本例程内处理：
// 由池的时限驱逐负责（ctx 取消时通过读超时解除阻塞）。
func performExchange(ctx context.Context, s endpoint.Stream, maxSize int) (types.Nonce, error) {
	// ctx 取消时把读超时设到过去，解除阻塞中的 Read
	stop := context.AfterFunc(ctx, func() {
		_ = s.SetReadDeadline(time.Unix(0, 1))
	})
	defer stop()

	msg, err := readDialBackMessage(s, maxSize)
	if err != nil {
		_ = s.Close()
		return 0, err
	}

	if err := s.CloseWrite(); err != nil {
		_ = s.Close()
		return 0, fmt.Errorf("dialback: close write side: %w", err)
	}
	if err := s.Close(); err != nil {
		return 0, fmt.Errorf("dialback: close stream: %w", err)
	}

	return types.Nonce(msg.Nonce), nil
}
