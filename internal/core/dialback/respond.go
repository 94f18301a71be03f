package dialback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	mss "github.com/multiformats/go-multistream"

	dialbackif "github.com/dep2p/go-dialback/pkg/interfaces/dialback"
	"github.com/dep2p/go-dialback/pkg/interfaces/endpoint"
	"github.com/dep2p/go-dialback/pkg/types"
)

// ============================================================================
//                              应答方
// ============================================================================

// RespondDialBack 在已打开的流上应答一次回拨
//
// 写入带 nonce 的回拨消息后半关闭写方向，等待对端确认收到
// （对端关闭流产生 EOF）。流的打开与地址选择由调用方完成。
// ctx 带截止时间时透传给底层流。
func RespondDialBack(ctx context.Context, s endpoint.Stream, nonce types.Nonce) error {
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.SetDeadline(deadline); err != nil && err != endpoint.ErrDeadlineNotSupported {
			return fmt.Errorf("dialback: set respond deadline: %w", err)
		}
	}

	// ctx 取消时解除流上的阻塞读写
	stop := context.AfterFunc(ctx, func() {
		_ = s.SetDeadline(time.Unix(0, 1))
	})
	defer stop()

	msg := &dialbackif.DialBackMessage{Nonce: nonce.Uint64()}
	if err := writeDialBackMessage(s, msg, dialbackif.MaxMessageSize); err != nil {
		_ = s.Close()
		return fmt.Errorf("dialback: write dial back message: %w", err)
	}

	if err := s.CloseWrite(); err != nil {
		_ = s.Close()
		return fmt.Errorf("dialback: close write side: %w", err)
	}

	// 对端读完消息后关闭流；读到 EOF 即确认送达
	var buf [1]byte
	n, rerr := s.Read(buf[:])
	switch {
	case n > 0:
		_ = s.Close()
		return errors.New("dialback: unexpected data from dial back peer")
	case rerr == nil || errors.Is(rerr, io.EOF) || errors.Is(rerr, endpoint.ErrStreamClosed):
		return s.Close()
	default:
		_ = s.Close()
		if cerr := ctx.Err(); cerr != nil {
			return fmt.Errorf("dialback: await peer close: %w", cerr)
		}
		return fmt.Errorf("dialback: await peer close: %w", rerr)
	}
}

// RespondMuxed 在原始复用流上协商 dial-back 协议并应答
//
// ServeMuxed 的对偶：客户端执行 multistream-select 协商，
// 成功后走 RespondDialBack 流程。rwc 通常是一条刚打开的
// yamux 子流。
func RespondMuxed(ctx context.Context, rwc io.ReadWriteCloser, nonce types.Nonce) error {
	proto, err := mss.SelectOneOf([]string{string(dialbackif.ProtocolID)}, rwc)
	if err != nil {
		_ = rwc.Close()
		return fmt.Errorf("dialback: negotiate outbound stream: %w", err)
	}

	s := newRWCStream(newServiceConn(""), types.ProtocolID(proto), rwc)
	return RespondDialBack(ctx, s, nonce)
}
