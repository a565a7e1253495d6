package exchange

import "time"

// OrderTypeMarket 为唯一使用的订单类型，价格仅作为滑点参考。
const OrderTypeMarket = "market"

// OrderRequest 描述一次提交到交易所的委托。
type OrderRequest struct {
	Market        string
	Side          string
	Type          string
	Size          float64
	Price         float64
	ClientOrderID string
}

// OrderAck 为交易所受理结果。
type OrderAck struct {
	ID        string
	Status    string
	Symbol    string
	Timestamp time.Time
}

// AccountInfo 描述账户余额与净值。
type AccountInfo struct {
	Balance      float64
	Equity       float64
	Withdrawable float64
	MarginUsed   float64
	Timestamp    time.Time
}
