package dialback

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/multiformats/go-varint"

	dialbackif "github.com/dep2p/go-dialback/pkg/interfaces/dialback"
)

// 回拨消息的线上格式：无符号 varint 长度前缀 + JSON 编码的消息体。
// 消息体只有一个 nonce 字段，正常编码不超过 32 字节；长度上限
// 用于防御恶意对端声明超大消息。

// ============================================================================
//                              帧编解码
// ============================================================================

// writeDialBackMessage 编码并写入一条回拨消息
func writeDialBackMessage(w io.Writer, msg *dialbackif.DialBackMessage, limit int) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("dialback: encode message: %w", err)
	}
	if len(body) > limit {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(body), limit)
	}

	header := varint.ToUvarint(uint64(len(body)))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("dialback: write message header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("dialback: write message body: %w", err)
	}
	return nil
}

// readDialBackMessage 读取并解码一条回拨消息
//
// 阻塞到完整消息到达、流出错或读超时。截断的消息体以
// io.ErrUnexpectedEOF 上报。
func readDialBackMessage(r io.Reader, limit int) (*dialbackif.DialBackMessage, error) {
	size, err := varint.ReadUvarint(byteReader{r})
	if err != nil {
		return nil, fmt.Errorf("dialback: read message header: %w", err)
	}
	if size > uint64(limit) {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, size, limit)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("dialback: read message body: %w", err)
	}

	var msg dialbackif.DialBackMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("dialback: decode message: %w", err)
	}
	return &msg, nil
}

// byteReader 为 varint 解码提供 io.ByteReader 视图
//
// 逐字节读取长度前缀，避免越界消费消息体。
type byteReader struct {
	r io.Reader
}

func (b byteReader) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := b.r.Read(buf[:])
	if n == 1 {
		return buf[0], nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return 0, err
}
