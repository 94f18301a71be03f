// Package dialback 实现连接级回拨验证模块
//
// DialBack 模块负责：
// - 应答对端发起的回拨交换（读取 nonce 并回传结果事件）
// - 按连接维护处理器与在途交换池（容量 + 时限双重约束）
// - 入站流的协议协商与结果事件扇出
package dialback

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-dialback/internal/util/logger"
	dialbackif "github.com/dep2p/go-dialback/pkg/interfaces/dialback"
)

// 包级别日志实例
var log = logger.Logger("dialback")

// ============================================================================
//                              模块输入依赖
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	// Config 配置（可选，缺省使用默认配置）
	Config *dialbackif.Config `optional:"true"`
}

// ============================================================================
//                              模块输出服务
// ============================================================================

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	// DialBackService 回拨服务
	DialBackService dialbackif.Service `name:"dialback"`
}

// ============================================================================
//                              服务提供
// ============================================================================

// ProvideServices 提供模块服务
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	service, err := NewServiceWithConfig(input.Config)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		DialBackService: service,
	}, nil
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("dialback",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC              fx.Lifecycle
	DialBackService dialbackif.Service `name:"dialback"`
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("回拨验证模块启动")
			return input.DialBackService.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			log.Info("回拨验证模块停止")
			return input.DialBackService.Stop()
		},
	})
}

// ============================================================================
//                              模块元信息
// ============================================================================

// 模块元信息常量
const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "dialback"
	// Description 模块描述
	Description = "连接级回拨验证模块，应答对端的回拨探测并上报交换结果"
)
