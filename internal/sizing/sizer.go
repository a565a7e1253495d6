package sizing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"alert-connector/internal/alert"
)

// ErrSizing 表示无法得到有效下单数量。
var ErrSizing = errors.New("invalid order size")

// Strategy 标识产生数量的字段。
type Strategy string

const (
	StrategySize           Strategy = alert.FieldSize
	StrategySizeUSD        Strategy = alert.FieldSizeUSD
	StrategySizeByLeverage Strategy = alert.FieldSizeByLeverage
)

// EquityProvider 提供按需查询的账户净值。
type EquityProvider interface {
	Equity(ctx context.Context) (float64, error)
}

// Result 为最终下单数量。
type Result struct {
	Size     float64  `json:"size"`
	Strategy Strategy `json:"strategy"`
}

// Resolve 按 sizeByLeverage > sizeUsd > size 的优先级计算数量。
// sizeByLeverage 每次都重新查询净值，不复用之前的结果。
func Resolve(ctx context.Context, a alert.Alert, equity EquityProvider) (Result, error) {
	var (
		size     decimal.Decimal
		strategy Strategy
	)

	switch {
	case a.SizeByLeverage.IsSome():
		if equity == nil {
			return Result{}, fmt.Errorf("%w: 缺少净值来源", ErrSizing)
		}
		value, err := equity.Equity(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("%w: 获取账户净值失败: %v", ErrSizing, err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return Result{}, fmt.Errorf("%w: 账户净值无效 %v", ErrSizing, value)
		}
		size = decimal.NewFromFloat(value).Mul(decimal.NewFromFloat(a.SizeByLeverage.Unwrap()))
		strategy = StrategySizeByLeverage
	case a.SizeUSD.IsSome():
		size = fromFloat(a.SizeUSD.Unwrap())
		strategy = StrategySizeUSD
	case a.Size.IsSome():
		size = fromFloat(a.Size.Unwrap())
		strategy = StrategySize
	default:
		return Result{}, fmt.Errorf("%w: 未指定数量字段", ErrSizing)
	}

	if !size.IsPositive() {
		return Result{}, fmt.Errorf("%w: %s 计算结果 %s 必须大于0", ErrSizing, strategy, size.String())
	}

	return Result{
		Size:     size.InexactFloat64(),
		Strategy: strategy,
	}, nil
}

func fromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
