package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"alert-connector/internal/app"
	"alert-connector/internal/config"
	"alert-connector/internal/log"
	"alert-connector/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		checkOnly  bool
	)
	flag.StringVar(&configPath, "config", "", "告警连接器配置文件 (YAML)，缺省读取 configs/config.yaml，可用 CONNECTOR_* 或 HYPERLIQUID_* 环境变量覆盖")
	flag.BoolVar(&checkOnly, "check", false, "仅校验配置后退出，不启动 webhook 服务")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "告警连接器配置无效: %v\n", err)
		return 2
	}
	if checkOnly {
		fmt.Fprintf(os.Stdout, "配置校验通过: 端口 %d, 测试网 %t, 杠杆 %dx\n",
			cfg.Server.Port, cfg.Trade.UseSandbox, cfg.Trade.Leverage)
		return 0
	}

	logger, err := log.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "告警连接器日志初始化失败: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	auditStore, err := store.NewSQLite(cfg.Database)
	if err != nil {
		logger.Error("打开审计数据库失败", zap.String("path", cfg.Database.Path), zap.Error(err))
		return 1
	}
	defer func() {
		if closeErr := auditStore.Close(); closeErr != nil {
			logger.Warn("关闭审计数据库失败", zap.Error(closeErr))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg, logger, auditStore).Run(ctx); err != nil {
		logger.Error("告警连接器异常退出", zap.Error(err))
		return 1
	}

	logger.Info("告警连接器已停止")
	return 0
}
