package dialback

import (
	"bytes"
	"io"
	"testing"

	"github.com/multiformats/go-varint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dialbackif "github.com/dep2p/go-dialback/pkg/interfaces/dialback"
)

func TestWireRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msg := &dialbackif.DialBackMessage{Nonce: 0xDEADBEEF}

	err := writeDialBackMessage(&buf, msg, dialbackif.MaxMessageSize)
	require.NoError(t, err)

	got, err := readDialBackMessage(&buf, dialbackif.MaxMessageSize)
	require.NoError(t, err)
	assert.Equal(t, msg.Nonce, got.Nonce)
	assert.Zero(t, buf.Len(), "流上不应有剩余字节")
}

func TestWireRoundTrip_BoundaryNonces(t *testing.T) {
	// uint64 的两端必须无损通过 JSON 编解码
	for _, nonce := range []uint64{0, 1, 1<<63 - 1, 1<<64 - 1} {
		var buf bytes.Buffer
		require.NoError(t, writeDialBackMessage(&buf, &dialbackif.DialBackMessage{Nonce: nonce}, dialbackif.MaxMessageSize))

		got, err := readDialBackMessage(&buf, dialbackif.MaxMessageSize)
		require.NoError(t, err)
		assert.Equal(t, nonce, got.Nonce)
	}
}

func TestWrite_MessageTooLarge(t *testing.T) {
	var buf bytes.Buffer
	err := writeDialBackMessage(&buf, &dialbackif.DialBackMessage{Nonce: 12345678}, 4)
	require.ErrorIs(t, err, ErrMessageTooLarge)
	assert.Zero(t, buf.Len(), "超限消息不应写出任何字节")
}

func TestRead_DeclaredSizeTooLarge(t *testing.T) {
	// 长度前缀声明超限时，不读取消息体
	var buf bytes.Buffer
	buf.Write(varint.ToUvarint(uint64(dialbackif.MaxMessageSize + 1)))
	buf.WriteString(`{"nonce": 1}`)

	_, err := readDialBackMessage(&buf, dialbackif.MaxMessageSize)
	require.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestRead_MalformedBody(t *testing.T) {
	body := []byte("not json at all")
	var buf bytes.Buffer
	buf.Write(varint.ToUvarint(uint64(len(body))))
	buf.Write(body)

	_, err := readDialBackMessage(&buf, dialbackif.MaxMessageSize)
	require.Error(t, err)
}

func TestRead_TruncatedBody(t *testing.T) {
	// 长度前缀声明 32 字节，实际只有一半
	var buf bytes.Buffer
	buf.Write(varint.ToUvarint(32))
	buf.WriteString(`{"nonce": 7}`)

	_, err := readDialBackMessage(&buf, dialbackif.MaxMessageSize)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRead_EmptyStream(t *testing.T) {
	_, err := readDialBackMessage(bytes.NewReader(nil), dialbackif.MaxMessageSize)
	require.ErrorIs(t, err, io.EOF)
}

func TestRead_OverlongVarint(t *testing.T) {
	// 连续的继续位超出 uvarint 上限
	data := bytes.Repeat([]byte{0xFF}, 12)
	_, err := readDialBackMessage(bytes.NewReader(data), dialbackif.MaxMessageSize)
	require.Error(t, err)
}
