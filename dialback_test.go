package dialback

import (
	"context"
	"net"
	"testing"
	"time"
)

// TestLoopbackExchange 测试公共 API 的端到端回拨交换
func TestLoopbackExchange(t *testing.T) {
	svc, err := New(WithExchangeTimeout(2 * time.Second))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = svc.Stop() }()

	server, client := net.Pipe()

	// 验证方：在入站子流上协商并处理
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- svc.ServeMuxed("conn-loopback", server)
	}()

	// 协助方：协商协议并应答 nonce
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := RespondMuxed(ctx, client, Nonce(9001)); err != nil {
		t.Fatalf("RespondMuxed() error: %v", err)
	}
	if err := <-serveErr; err != nil {
		t.Fatalf("ServeMuxed() error: %v", err)
	}

	// 消费交换结果事件
	select {
	case ev := <-svc.Events():
		res, ok := ev.(EvtDialBackResult)
		if !ok {
			t.Fatalf("event type = %T, want EvtDialBackResult", ev)
		}
		if res.Conn != ConnID("conn-loopback") {
			t.Errorf("Conn = %q, want %q", res.Conn, "conn-loopback")
		}
		if res.Nonce != Nonce(9001) {
			t.Errorf("Nonce = %d, want 9001", res.Nonce)
		}
		if res.Err != nil {
			t.Errorf("Err = %v, want nil", res.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no result event received")
	}

	// 交换记录已入历史
	recs := svc.Recent()
	if len(recs) != 1 {
		t.Fatalf("Recent() count = %d, want 1", len(recs))
	}
	if recs[0].Nonce != Nonce(9001) {
		t.Errorf("record Nonce = %d, want 9001", recs[0].Nonce)
	}
	if recs[0].ID == "" {
		t.Error("record ID should not be empty")
	}
}

// TestNewValidatesOptions 测试非法选项在构造时被拒绝
func TestNewValidatesOptions(t *testing.T) {
	if _, err := New(WithMaxInflight(0)); err == nil {
		t.Error("New(WithMaxInflight(0)) should fail")
	}
	if _, err := New(WithExchangeTimeout(-time.Second)); err == nil {
		t.Error("New(WithExchangeTimeout(-1s)) should fail")
	}
}

// TestProtocolsExposed 测试服务暴露的协议列表
func TestProtocolsExposed(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	protos := svc.Protocols()
	if len(protos) != 1 {
		t.Fatalf("Protocols() count = %d, want 1", len(protos))
	}
	if protos[0] != ProtocolID {
		t.Errorf("Protocols()[0] = %q, want %q", protos[0], ProtocolID)
	}
}

// TestGenerateNonce 测试随机令牌生成
func TestGenerateNonce(t *testing.T) {
	a, err := GenerateNonce()
	if err != nil {
		t.Fatalf("GenerateNonce() error: %v", err)
	}
	b, err := GenerateNonce()
	if err != nil {
		t.Fatalf("GenerateNonce() error: %v", err)
	}

	// 64 位随机值重复的概率可以忽略
	if a == b {
		t.Errorf("consecutive nonces should differ, both = %d", a)
	}
}

// TestStopClosesEvents 测试停止服务后事件通道关闭
func TestStopClosesEvents(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	select {
	case _, open := <-svc.Events():
		if open {
			t.Error("Events() should be closed after Stop()")
		}
	case <-time.After(time.Second):
		t.Fatal("Events() not closed after Stop()")
	}
}
