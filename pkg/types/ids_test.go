package types

import (
	"testing"
)

func TestNonce(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		tests := []struct {
			nonce Nonce
			want  string
		}{
			{Nonce(0), "0"},
			{Nonce(42), "42"},
			{Nonce(^uint64(0)), "18446744073709551615"},
		}

		for _, tt := range tests {
			if got := tt.nonce.String(); got != tt.want {
				t.Errorf("Nonce(%d).String() = %q, want %q", tt.nonce.Uint64(), got, tt.want)
			}
		}
	})

	t.Run("Generate", func(t *testing.T) {
		a, err := GenerateNonce()
		if err != nil {
			t.Fatalf("GenerateNonce() error = %v", err)
		}
		b, err := GenerateNonce()
		if err != nil {
			t.Fatalf("GenerateNonce() error = %v", err)
		}
		// 碰撞概率为 2^-64，可视为不同
		if a == b {
			t.Errorf("两次生成的 Nonce 相同: %v", a)
		}
	})
}

func TestNodeID(t *testing.T) {
	t.Run("ShortString", func(t *testing.T) {
		long := NodeID("5Q2STWvBFnDeadBeef")
		if got := long.ShortString(); got != "5Q2STWvB" {
			t.Errorf("ShortString() = %q, want %q", got, "5Q2STWvB")
		}

		short := NodeID("abc")
		if got := short.ShortString(); got != "abc" {
			t.Errorf("ShortString() = %q, want %q", got, "abc")
		}
	})

	t.Run("IsEmpty", func(t *testing.T) {
		if !NodeID("").IsEmpty() {
			t.Error("空 NodeID 应返回 IsEmpty() == true")
		}
		if NodeID("abc").IsEmpty() {
			t.Error("非空 NodeID 应返回 IsEmpty() == false")
		}
	})
}

func TestStreamID(t *testing.T) {
	if got := StreamID(7).String(); got != "stream-7" {
		t.Errorf("StreamID(7).String() = %q, want %q", got, "stream-7")
	}
}
