package execution

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alert-connector/internal/alert"
	"alert-connector/internal/exchange"
	"alert-connector/internal/sizing"
)

const defaultSubmitTimeout = 10 * time.Second

// Options 控制下单参数。
type Options struct {
	SubmitTimeout time.Duration
}

// Executor 将告警转化为一次市价委托。
// 自身无状态，可被并发调用。
type Executor struct {
	accounts AccountState
	client   OrderSubmitter
	logger   *zap.Logger
	opts     Options

	newClientOrderID func() string
}

// NewExecutor 创建执行器。
func NewExecutor(accounts AccountState, client OrderSubmitter, opts Options, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = defaultSubmitTimeout
	}
	return &Executor{
		accounts:         accounts,
		client:           client,
		logger:           logger,
		opts:             opts,
		newClientOrderID: newClientOrderID,
	}
}

// Execute 校验原始报文后执行。
func (e *Executor) Execute(ctx context.Context, raw []byte) Outcome {
	a, err := alert.Validate(raw)
	if err != nil {
		e.logger.Warn("告警校验失败", zap.Error(err))
		return failure(FailureValidation, MsgInvalidAlert, err)
	}
	e.logger.Info("告警校验通过",
		zap.String("strategy", a.Strategy),
		zap.String("market", a.Market),
		zap.String("side", string(a.Side)),
	)
	return e.ExecuteAlert(ctx, a)
}

// ExecuteAlert 依次完成就绪检查、数量计算与下单，任一步失败即返回。
func (e *Executor) ExecuteAlert(ctx context.Context, a alert.Alert) Outcome {
	if _, err := alert.ParseSide(string(a.Side)); err != nil || !a.HasSize() {
		if err == nil {
			err = errors.New("alert: 缺少数量字段")
		}
		return failure(FailureValidation, MsgInvalidAlert, err)
	}

	status := e.accounts.Status(ctx)
	if !status.Ready {
		reason := status.Error
		if reason == "" {
			reason = "account is not ready"
		}
		e.logger.Error("账户未就绪", zap.String("reason", reason))
		return failure(FailureReadiness, reason, errors.New(reason))
	}

	sized, err := sizing.Resolve(ctx, a, e.accounts)
	if err != nil {
		e.logger.Error("计算下单数量失败", zap.Error(err))
		return failure(FailureSizing, MsgInvalidSize, err)
	}
	e.logger.Info("下单数量",
		zap.String("strategy", string(sized.Strategy)),
		zap.Float64("size", sized.Size),
	)

	market := strings.ToUpper(a.Market)
	req := exchange.OrderRequest{
		Market:        market,
		Side:          string(a.Side),
		Type:          exchange.OrderTypeMarket,
		Size:          sized.Size,
		Price:         a.Price,
		ClientOrderID: e.newClientOrderID(),
	}

	submitCtx, cancel := context.WithTimeout(ctx, e.opts.SubmitTimeout)
	defer cancel()

	ack, err := e.client.SubmitOrder(submitCtx, req)
	if err != nil {
		e.logger.Error("下单失败",
			zap.String("market", market),
			zap.String("client_order_id", req.ClientOrderID),
			zap.Error(err),
		)
		return failure(FailureSubmission, err.Error(), err)
	}

	outcome := Outcome{
		Success: true,
		OrderID: ack.ID,
		Size:    sized.Size,
		Side:    a.Side.Upper(),
		Market:  market,
		Price:   a.Price,
	}
	e.logger.Info("下单成功",
		zap.String("order_id", outcome.OrderID),
		zap.String("market", outcome.Market),
		zap.String("side", outcome.Side),
		zap.Float64("size", outcome.Size),
		zap.Float64("price", outcome.Price),
	)
	return outcome
}

// newClientOrderID 生成 Hyperliquid 要求的 128 位十六进制 cloid。
func newClientOrderID() string {
	id := uuid.New()
	return "0x" + hex.EncodeToString(id[:])
}
