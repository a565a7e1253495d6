package account

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"alert-connector/internal/exchange"
)

type accountClient interface {
	Ready() bool
	Address() string
	FetchAccountInfo(ctx context.Context) (exchange.AccountInfo, error)
}

// Status 为一次请求内的账户快照，不做缓存。
type Status struct {
	Ready   bool    `json:"ready"`
	Balance float64 `json:"balance"`
	Equity  float64 `json:"equity"`
	Address string  `json:"address,omitempty"`
	Error   string  `json:"error,omitempty"`

	Withdrawable float64 `json:"withdrawable,omitempty"`
	MarginUsed   float64 `json:"marginUsed,omitempty"`
}

// Provider 基于交易所客户端提供账户状态与净值。
type Provider struct {
	client accountClient
	logger *zap.Logger
}

// NewProvider 创建账户状态提供者。
func NewProvider(client accountClient, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		client: client,
		logger: logger,
	}
}

// Status 查询账户是否可下单，失败原因写入 Error。
func (p *Provider) Status(ctx context.Context) Status {
	if p.client == nil || !p.client.Ready() {
		return Status{Ready: false, Error: exchange.ErrNotInitialized.Error()}
	}

	info, err := p.client.FetchAccountInfo(ctx)
	if err != nil {
		p.logger.Error("获取账户状态失败", zap.Error(err))
		return Status{
			Ready:   false,
			Address: p.client.Address(),
			Error:   err.Error(),
		}
	}

	return Status{
		Ready:        true,
		Balance:      info.Balance,
		Equity:       info.Equity,
		Address:      p.client.Address(),
		Withdrawable: info.Withdrawable,
		MarginUsed:   info.MarginUsed,
	}
}

// Equity 每次调用都重新查询账户净值。
func (p *Provider) Equity(ctx context.Context) (float64, error) {
	if p.client == nil || !p.client.Ready() {
		return 0, exchange.ErrNotInitialized
	}

	start := time.Now()
	info, err := p.client.FetchAccountInfo(ctx)
	if err != nil {
		return 0, fmt.Errorf("account: 获取账户净值失败: %w", err)
	}
	if math.IsNaN(info.Equity) || math.IsInf(info.Equity, 0) {
		return 0, fmt.Errorf("account: 账户净值无效 %v", info.Equity)
	}

	p.logger.Info("账户净值",
		zap.Float64("equity", info.Equity),
		zap.Duration("latency", time.Since(start)),
	)
	return info.Equity, nil
}
