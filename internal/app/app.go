package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alert-connector/internal/account"
	"alert-connector/internal/api"
	"alert-connector/internal/config"
	"alert-connector/internal/exchange"
	"alert-connector/internal/execution"
	"alert-connector/internal/monitor"
	"alert-connector/internal/store"
)

// App 聚合核心依赖并驱动系统生命周期。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// Run 组装依赖并启动 webhook 服务，直至 ctx 结束。
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("告警连接器初始化",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("exchange", a.cfg.Trade.Name),
		zap.Bool("sandbox", a.cfg.Trade.UseSandbox),
		zap.Int("port", a.cfg.Server.Port),
	)

	server, err := a.buildServer(ctx)
	if err != nil {
		return err
	}

	return serve(ctx, server.HTTPServer(), a.cfg.Server.ShutdownTimeout, a.logger)
}

func (a *App) buildServer(ctx context.Context) (*api.Server, error) {
	client, err := exchange.NewClient(a.cfg.Trade, a.cfg.Execution, a.logger)
	if err != nil {
		return nil, fmt.Errorf("初始化交易客户端失败: %w", err)
	}
	if !client.Ready() {
		a.logger.Warn("未配置私钥，下单请求将被拒绝")
	}

	accounts := account.NewProvider(client, a.logger)
	executor := execution.NewExecutor(accounts, client, execution.Options{
		SubmitTimeout: a.cfg.Execution.SubmitTimeout,
	}, a.logger)

	monitorSvc, err := monitor.NewService(ctx, a.store, a.logger)
	if err != nil {
		return nil, fmt.Errorf("初始化监控服务失败: %w", err)
	}

	return api.NewServer(a.cfg.Server, a.cfg.App.IsProduction(), executor, accounts, monitorSvc, a.logger), nil
}
