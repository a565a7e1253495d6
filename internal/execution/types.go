package execution

import (
	"context"

	"alert-connector/internal/account"
	"alert-connector/internal/exchange"
)

// FailureKind 区分失败来源，决定对外状态码。
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureValidation FailureKind = "validation"
	FailureReadiness  FailureKind = "readiness"
	FailureSizing     FailureKind = "sizing"
	FailureSubmission FailureKind = "submission"
)

// 对外返回的固定错误文案。
const (
	MsgInvalidAlert = "invalid alert"
	MsgInvalidSize  = "invalid order size"
)

// AccountState 提供账户就绪状态与净值。
type AccountState interface {
	Status(ctx context.Context) account.Status
	Equity(ctx context.Context) (float64, error)
}

// OrderSubmitter 负责真正的下单。
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, req exchange.OrderRequest) (exchange.OrderAck, error)
}

// Outcome 为一次执行的唯一产物，构造后不再修改。
type Outcome struct {
	Success bool    `json:"success"`
	OrderID string  `json:"orderId,omitempty"`
	Size    float64 `json:"size,omitempty"`
	Side    string  `json:"side,omitempty"`
	Market  string  `json:"market,omitempty"`
	Price   float64 `json:"price,omitempty"`
	Error   string  `json:"error,omitempty"`

	Kind  FailureKind `json:"-"`
	Cause error       `json:"-"`
}

func failure(kind FailureKind, message string, cause error) Outcome {
	return Outcome{
		Success: false,
		Error:   message,
		Kind:    kind,
		Cause:   cause,
	}
}
