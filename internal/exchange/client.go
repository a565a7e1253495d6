package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	ccxt "github.com/ccxt/ccxt/go/v4"
	"go.uber.org/zap"

	"alert-connector/internal/config"
)

// hyperliquidAPI 为 *ccxt.Hyperliquid 中用到的方法。
type hyperliquidAPI interface {
	CreateOrder(symbol string, typeVar string, side string, amount float64, options ...ccxt.CreateOrderOptions) (ccxt.Order, error)
	FetchBalance(params ...interface{}) (ccxt.Balances, error)
	SetLeverage(leverage int64, options ...ccxt.SetLeverageOptions) (map[string]interface{}, error)
}

// Client 负责与 Hyperliquid 交互。
// ccxt 客户端未保证并发安全，所有调用经 mu 串行化。
type Client struct {
	cfg      config.TradeExchangeConfig
	slippage float64
	logger   *zap.Logger
	api      hyperliquidAPI
	address  string

	mu sync.Mutex
	// leverageSet 记录已设置杠杆的交易对，受 mu 保护。
	leverageSet map[string]bool
}

// NewClient 构造 Hyperliquid 客户端。
// 未配置私钥时返回未初始化的客户端，调用方通过 Ready 判断。
func NewClient(cfg config.TradeExchangeConfig, execCfg config.ExecutionConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		cfg:         cfg,
		slippage:    execCfg.Slippage,
		logger:      logger,
		leverageSet: make(map[string]bool),
	}

	if strings.TrimSpace(cfg.PrivateKey) == "" {
		logger.Error("未配置 Hyperliquid 私钥，客户端未初始化")
		return c, nil
	}

	address, derived, err := resolveWallet(cfg.Wallet, cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(address, derived) {
		logger.Info("使用代理钱包签名",
			zap.String("account", address),
			zap.String("signer", derived),
		)
	}

	userConfig := map[string]interface{}{
		"enableRateLimit": true,
		"walletAddress":   address,
		"privateKey":      "0x" + normalizePrivateKey(cfg.PrivateKey),
	}
	ex := ccxt.NewHyperliquid(userConfig)
	if cfg.UseSandbox {
		ex.SetSandboxMode(true)
	}

	c.api = ex
	c.address = address

	logger.Info("Hyperliquid 客户端初始化成功",
		zap.String("address", address),
		zap.Bool("sandbox", cfg.UseSandbox),
	)
	return c, nil
}

// newClientWithAPI 供测试注入底层接口。
func newClientWithAPI(cfg config.TradeExchangeConfig, api hyperliquidAPI, address string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:         cfg,
		logger:      logger,
		api:         api,
		address:     address,
		leverageSet: make(map[string]bool),
	}
}

// Ready 表示客户端是否已完成初始化。
func (c *Client) Ready() bool {
	return c != nil && c.api != nil
}

// Address 返回账户地址，未初始化时为空。
func (c *Client) Address() string {
	if c == nil {
		return ""
	}
	return c.address
}

// Symbol 将告警中的币种转换为 ccxt 交易对。
func (c *Client) Symbol(market string) string {
	market = strings.ToUpper(strings.TrimSpace(market))
	if strings.Contains(market, "/") {
		return market
	}
	format := c.cfg.SymbolFormat
	if format == "" {
		format = "%s/USDC:USDC"
	}
	return fmt.Sprintf(format, market)
}

// SubmitOrder 提交单笔市价委托，不做重试以避免重复下单。
func (c *Client) SubmitOrder(ctx context.Context, req OrderRequest) (OrderAck, error) {
	if !c.Ready() {
		return OrderAck{}, ErrNotInitialized
	}
	if req.Size <= 0 {
		return OrderAck{}, fmt.Errorf("exchange: 下单数量无效 %v", req.Size)
	}

	orderType := req.Type
	if orderType == "" {
		orderType = OrderTypeMarket
	}

	symbol := c.Symbol(req.Market)
	params := map[string]interface{}{}
	if c.slippage > 0 {
		params["slippage"] = strconv.FormatFloat(c.slippage, 'f', -1, 64)
	}
	if req.ClientOrderID != "" {
		params["clientOrderId"] = req.ClientOrderID
	}

	var order ccxt.Order
	start := time.Now()
	err := c.call(ctx, func() error {
		c.ensureLeverage(symbol)
		result, err := c.api.CreateOrder(
			symbol,
			orderType,
			strings.ToLower(req.Side),
			req.Size,
			ccxt.WithCreateOrderPrice(req.Price),
			ccxt.WithCreateOrderParams(params),
		)
		if err != nil {
			return err
		}
		order = result
		return nil
	})
	if err != nil {
		normalized, _ := classifyError(err)
		c.logger.Error("下单失败",
			zap.String("symbol", symbol),
			zap.String("side", req.Side),
			zap.Float64("size", req.Size),
			zap.Duration("latency", time.Since(start)),
			zap.Error(normalized),
		)
		return OrderAck{}, normalized
	}

	ack := OrderAck{
		ID:        derefString(order.Id),
		Status:    derefString(order.Status),
		Symbol:    symbol,
		Timestamp: time.Now().UTC(),
	}
	if ack.ID == "" {
		ack.ID = "unknown"
	}
	if order.Timestamp != nil {
		ack.Timestamp = time.UnixMilli(*order.Timestamp).UTC()
	}

	c.logger.Info("下单成功",
		zap.String("symbol", symbol),
		zap.String("order_id", ack.ID),
		zap.String("status", ack.Status),
		zap.Duration("latency", time.Since(start)),
	)
	return ack, nil
}

// ensureLeverage 每个交易对首次下单前设置一次杠杆，失败不阻断下单。
// 调用方须持有 mu。
func (c *Client) ensureLeverage(symbol string) {
	if c.cfg.Leverage <= 0 || c.leverageSet[symbol] {
		return
	}
	if _, err := c.api.SetLeverage(int64(c.cfg.Leverage), ccxt.WithSetLeverageSymbol(symbol)); err != nil {
		c.logger.Warn("设置杠杆失败，按账户当前杠杆下单",
			zap.String("symbol", symbol),
			zap.Int("leverage", c.cfg.Leverage),
			zap.Error(err),
		)
		return
	}
	c.leverageSet[symbol] = true
	c.logger.Info("已设置杠杆", zap.String("symbol", symbol), zap.Int("leverage", c.cfg.Leverage))
}

// FetchAccountInfo 获取账户余额与净值，可重试。
func (c *Client) FetchAccountInfo(ctx context.Context) (AccountInfo, error) {
	if !c.Ready() {
		return AccountInfo{}, ErrNotInitialized
	}

	var balances ccxt.Balances
	err := c.callWithRetry(ctx, "fetch_balance", func() error {
		result, err := c.api.FetchBalance()
		if err != nil {
			return err
		}
		balances = result
		return nil
	})
	if err != nil {
		return AccountInfo{}, err
	}

	return convertBalances(balances), nil
}

// call 在独立 goroutine 中执行 ccxt 调用，使 ctx 超时对阻塞调用生效。
// 已开始的调用无法撤回，超时后结果被丢弃。
func (c *Client) call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if err := ctx.Err(); err != nil {
			done <- err
			return
		}
		done <- safeCall(fn)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("exchange: 调用超时: %w", ctx.Err())
	case err := <-done:
		return err
	}
}

func (c *Client) callWithRetry(ctx context.Context, operation string, fn func() error) error {
	attempt := 0
	maxAttempts := c.cfg.Retry.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	delay := c.cfg.Retry.MinDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	maxDelay := c.cfg.Retry.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 5 * time.Second
	}

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		attempt++
		start := time.Now()
		err := c.call(ctx, fn)
		duration := time.Since(start)
		if err == nil {
			if attempt > 1 {
				c.logger.Info("交易所调用重试后成功",
					zap.String("operation", operation),
					zap.Int("attempts", attempt),
					zap.Duration("latency", duration),
				)
			}
			return nil
		}

		normalizedErr, retry := classifyError(err)

		if errors.Is(normalizedErr, ErrMaintenance) {
			c.logger.Warn("交易所维护中",
				zap.String("operation", operation),
				zap.Error(normalizedErr),
			)
			return normalizedErr
		}

		if !retry || attempt >= maxAttempts {
			c.logger.Error("交易所调用失败",
				zap.String("operation", operation),
				zap.Int("attempts", attempt),
				zap.Duration("latency", duration),
				zap.Error(normalizedErr),
			)
			return normalizedErr
		}

		wait := delay
		if wait > maxDelay {
			wait = maxDelay
		}

		c.logger.Warn("交易所调用失败，等待重试",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(normalizedErr),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

// safeCall 将 ccxt 内部 panic 转为错误。
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("exchange: 调用发生 panic: %v", r)
		}
	}()
	return fn()
}

func classifyError(err error) (error, bool) {
	if err == nil {
		return nil, false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err, false
	}

	var ccxtErr *ccxt.Error
	if errors.As(err, &ccxtErr) {
		if ccxtErr.Type == ccxt.OnMaintenanceErrType {
			message := strings.TrimSpace(ccxtErr.Message)
			if message == "" {
				message = "exchange under maintenance"
			}
			return fmt.Errorf("%w: %s", ErrMaintenance, message), false
		}
		return err, IsRetryable(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return err, true
	}

	return err, false
}

func convertBalances(balances ccxt.Balances) AccountInfo {
	info := AccountInfo{Timestamp: time.Now().UTC()}

	if balances.Total != nil {
		for _, code := range []string{"USDC", "USD", "USDT"} {
			if total, ok := balances.Total[code]; ok && total != nil {
				info.Balance = *total
				break
			}
		}
	}
	if balances.Info != nil {
		if summary, ok := balances.Info["marginSummary"].(map[string]interface{}); ok {
			info.Equity = parseNumeric(summary["accountValue"])
			info.MarginUsed = parseNumeric(summary["totalMarginUsed"])
		}
		info.Withdrawable = parseNumeric(balances.Info["withdrawable"])
	}
	if info.Equity == 0 {
		info.Equity = info.Balance
	}

	return info
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func parseNumeric(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case *float64:
		if v != nil {
			return *v
		}
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return 0
}
