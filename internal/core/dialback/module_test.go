package dialback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	dialbackif "github.com/dep2p/go-dialback/pkg/interfaces/dialback"
)

func TestModule(t *testing.T) {
	var service dialbackif.Service

	app := fxtest.New(t,
		Module(),
		fx.Populate(
			fx.Annotate(&service, fx.ParamTags(`name:"dialback"`)),
		),
	)
	defer app.RequireStart().RequireStop()

	assert.NotNil(t, service)
	assert.Equal(t, dialbackif.ProtocolID, service.Protocols()[0])
}

func TestModuleWithConfig(t *testing.T) {
	customConfig := dialbackif.Config{
		ExchangeTimeout: 2 * time.Second,
		MaxInflight:     4,
		MaxMessageSize:  1024,
		HistorySize:     16,
	}

	var service dialbackif.Service

	app := fxtest.New(t,
		fx.Provide(func() *dialbackif.Config { return &customConfig }),
		Module(),
		fx.Populate(
			fx.Annotate(&service, fx.ParamTags(`name:"dialback"`)),
		),
	)
	defer app.RequireStart().RequireStop()

	assert.NotNil(t, service)
}

func TestModuleLifecycle(t *testing.T) {
	var service dialbackif.Service

	app := fxtest.New(t,
		Module(),
		fx.Populate(
			fx.Annotate(&service, fx.ParamTags(`name:"dialback"`)),
		),
	)

	// 启动应用
	err := app.Start(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, service)

	// 启动后服务可处理流
	service.HandleStream(nonceStream(t, "conn-fx", 21))
	select {
	case ev := <-service.Events():
		assert.Equal(t, "dialback.result", ev.Type())
	case <-time.After(2 * time.Second):
		t.Fatal("等待事件超时")
	}

	// 停止应用
	err = app.Stop(context.Background())
	require.NoError(t, err)
}

func TestProvideServicesDirectly(t *testing.T) {
	input := ModuleInput{}

	output, err := ProvideServices(input)
	require.NoError(t, err)
	require.NotNil(t, output.DialBackService)
	defer func() { _ = output.DialBackService.Stop() }()

	assert.Equal(t, dialbackif.ProtocolID, output.DialBackService.Protocols()[0])
}

func TestProvideServicesWithInvalidConfig(t *testing.T) {
	input := ModuleInput{
		Config: &dialbackif.Config{},
	}

	_, err := ProvideServices(input)
	require.Error(t, err)
}
