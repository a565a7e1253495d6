package monitor

import (
	"encoding/json"
	"time"

	"alert-connector/internal/account"
	"alert-connector/internal/execution"
)

// EventType 表示监控事件类型。
type EventType string

const (
	EventAlertReceived EventType = "alert_received"
	EventAlertRejected EventType = "alert_rejected"
	EventOrderExecuted EventType = "order_executed"
	EventOrderFailed   EventType = "order_failed"
	EventAccountStatus EventType = "account_status"
	EventError         EventType = "error"
)

// Event 封装通用监控事件。
type Event struct {
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AlertPayload 记录收到的原始报文。
type AlertPayload struct {
	RemoteAddr string          `json:"remote_addr,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
	Raw        string          `json:"raw,omitempty"`
}

// OutcomePayload 记录执行结果及失败类别。
type OutcomePayload struct {
	Outcome execution.Outcome     `json:"outcome"`
	Kind    execution.FailureKind `json:"kind,omitempty"`
	Detail  string                `json:"detail,omitempty"`
}

// AccountPayload 记录账户状态查询。
type AccountPayload struct {
	Status account.Status `json:"status"`
}

// ErrorPayload 记录异常。
type ErrorPayload struct {
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}
