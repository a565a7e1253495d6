package alert

import (
	"fmt"
	"strings"

	"github.com/moznion/go-optional"
)

// SupportedExchange 为唯一支持的交易所标识。
const SupportedExchange = "hyperliquid"

// 报文字段名。
const (
	FieldExchange       = "exchange"
	FieldStrategy       = "strategy"
	FieldMarket         = "market"
	FieldOrder          = "order"
	FieldPrice          = "price"
	FieldSize           = "size"
	FieldSizeUSD        = "sizeUsd"
	FieldSizeByLeverage = "sizeByLeverage"
	FieldPassphrase     = "passphrase"
)

// Side 表示下单方向，只允许 buy 与 sell。
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide 大小写不敏感地解析方向，其他取值一律报错。
func ParseSide(raw string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(SideBuy):
		return SideBuy, nil
	case string(SideSell):
		return SideSell, nil
	default:
		return "", fmt.Errorf("alert: 不支持的下单方向 %q", raw)
	}
}

// Upper 返回大写方向，用于对外输出。
func (s Side) Upper() string {
	return strings.ToUpper(string(s))
}

// Alert 是通过校验后的告警记录，只能由 Validate / Parse 构造。
type Alert struct {
	Exchange       string                   `json:"exchange"`
	Strategy       string                   `json:"strategy"`
	Market         string                   `json:"market"`
	Side           Side                     `json:"order"`
	Price          float64                  `json:"price"`
	Size           optional.Option[float64] `json:"size,omitempty"`
	SizeUSD        optional.Option[float64] `json:"sizeUsd,omitempty"`
	SizeByLeverage optional.Option[float64] `json:"sizeByLeverage,omitempty"`
	Passphrase     string                   `json:"-"`
}

// HasSize 判断是否携带任一数量字段。
func (a Alert) HasSize() bool {
	return a.Size.IsSome() || a.SizeUSD.IsSome() || a.SizeByLeverage.IsSome()
}
