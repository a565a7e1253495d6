package execution

import (
	"context"

	"alert-connector/internal/alert"
)

// Trader 抽象执行器接口，便于 HTTP 层替换实现。
type Trader interface {
	Execute(ctx context.Context, raw []byte) Outcome
	ExecuteAlert(ctx context.Context, a alert.Alert) Outcome
}

var _ Trader = (*Executor)(nil)
