// Package dialback 提供连接级回拨验证能力
//
// DialBack 实现回拨验证协议的应答侧：节点 A 想确认自己声称的
// 地址确实可达，请求节点 B 按该地址回拨；B 通过一条新连接送来
// 一次性令牌（nonce），A 读出令牌便证明了回拨连接真实落在自己
// 身上。本包承担 A 侧的全部接收逻辑，以及 B 侧的应答例程。
//
// # 核心概念
//
//   - Service: 服务入口，管理全部连接的回拨处理
//   - Handler: 单连接处理器，容量与时限双重约束的接纳控制
//   - EvtDialBackResult: 每次被接纳的交换恰好产生一个结果事件
//
// # 快速开始
//
//	import "github.com/dep2p/go-dialback"
//
//	svc, err := dialback.New(
//	    dialback.WithExchangeTimeout(5*time.Second),
//	    dialback.WithMaxInflight(16),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = svc.Start(ctx)
//	defer svc.Stop()
//
//	// 宿主把新到的复用子流交给服务（含协议协商）
//	go func() {
//	    _ = svc.ServeMuxed(connID, stream)
//	}()
//
//	// 消费交换结果
//	for ev := range svc.Events() {
//	    res := ev.(dialback.EvtDialBackResult)
//	    if res.Err != nil {
//	        log.Printf("dial back failed: %v", res.Err)
//	        continue
//	    }
//	    log.Printf("dial back nonce: %s", res.Nonce)
//	}
//
// # 协议流程
//
//	节点 A（验证方）                    节点 B（协助方）
//	    │                                   │
//	    │──── 请求回拨（带 nonce）─────────>│
//	    │                                   │
//	    │<═══ 新连接 + dial-back 流 ════════│
//	    │                                   │
//	    │<──── DialBackMessage{nonce} ──────│  RespondDialBack
//	    │                                   │
//	    │───── 关闭流（确认收到）──────────>│
//	    │                                   │
//	  EvtDialBackResult                     │
//
// # 接纳控制
//
// 每个连接的处理器最多同时进行 MaxInflight 个交换；超出的入站
// 流被立即丢弃而不是排队，对端依赖自身超时感知失败。单个交换
// 超过 ExchangeTimeout 后被强制终止，以 ErrExchangeTimeout 上报，
// 与 IO 错误保持可区分。
//
// # Fx 集成
//
// 宿主应用使用依赖注入时，直接挂载模块：
//
//	import dialbackif "github.com/dep2p/go-dialback/pkg/interfaces/dialback"
//
//	app := fx.New(
//	    dialback.Module(),
//	    fx.Invoke(func(input struct {
//	        fx.In
//	        Svc dialbackif.Service `name:"dialback"`
//	    }) {
//	        // ...
//	    }),
//	)
//
// # 包组织
//
//	go-dialback/
//	├── dialback.go           # 用户 API：Service、选项、应答例程
//	├── errors.go             # 公共错误
//	├── pkg/
//	│   ├── types/            # 基础类型（Nonce、ConnID、事件）
//	│   ├── protocolids/      # 系统协议 ID
//	│   └── interfaces/       # 接口契约（dialback、endpoint）
//	└── internal/
//	    ├── core/inflight/    # 容量与时限双重约束的操作池
//	    ├── core/dialback/    # 处理器、服务、协商、交换
//	    └── util/logger/      # 结构化日志
package dialback
