package protocolids

import (
	"strings"
	"testing"

	"github.com/dep2p/go-dialback/pkg/types"
)

func TestSysDialBack(t *testing.T) {
	// 系统协议必须使用 sys 前缀并带版本号
	if !strings.HasPrefix(string(SysDialBack), SysPrefix) {
		t.Errorf("SysDialBack = %q, 应以 %q 开头", SysDialBack, SysPrefix)
	}
	if !strings.HasSuffix(string(SysDialBack), "/1.0.0") {
		t.Errorf("SysDialBack = %q, 应以版本号结尾", SysDialBack)
	}
}

func TestIsSystemProtocol(t *testing.T) {
	tests := []struct {
		proto types.ProtocolID
		want  bool
	}{
		{SysDialBack, true},
		{types.ProtocolID("/dep2p/sys/ping/1.0.0"), true},
		{types.ProtocolID("/dep2p/app/abc/chat/1.0.0"), false},
		{types.ProtocolID("/ipfs/ping/1.0.0"), false},
		{types.ProtocolID(""), false},
	}

	for _, tt := range tests {
		if got := IsSystemProtocol(tt.proto); got != tt.want {
			t.Errorf("IsSystemProtocol(%q) = %v, want %v", tt.proto, got, tt.want)
		}
	}
}
