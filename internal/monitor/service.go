package monitor

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"alert-connector/internal/account"
	"alert-connector/internal/execution"
	"alert-connector/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS monitor_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	request_id TEXT NOT NULL DEFAULT '',
	payload TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_monitor_events_type ON monitor_events(event_type);
CREATE INDEX IF NOT EXISTS idx_monitor_events_request ON monitor_events(request_id);
`

// Service 负责持久化告警与执行事件。
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewService 初始化监控服务，创建所需表结构。
func NewService(ctx context.Context, st *store.Store, logger *zap.Logger) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("monitor: store 不能为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := st.Migrate(ctx, schema); err != nil {
		return nil, fmt.Errorf("monitor: 初始化表失败: %w", err)
	}

	return &Service{
		db:     st.DB(),
		logger: logger,
	}, nil
}

// Record 写入单个事件。
func (s *Service) Record(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("monitor: 序列化事件失败: %w", err)
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO monitor_events (event_type, request_id, payload, created_at) VALUES (?, ?, ?, ?)`,
		string(event.Type), event.RequestID, string(payload), event.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("monitor: 写入事件失败: %w", err)
	}

	return nil
}

// RecordAlert 记录收到的告警报文，非 JSON 报文按原文保存。
func (s *Service) RecordAlert(ctx context.Context, requestID, remoteAddr string, body []byte) {
	payload := AlertPayload{RemoteAddr: remoteAddr}
	if json.Valid(body) {
		payload.Body = json.RawMessage(body)
	} else {
		payload.Raw = string(body)
	}

	s.recordOrWarn(ctx, Event{
		Type:      EventAlertReceived,
		RequestID: requestID,
		Payload:   payload,
	}, "记录告警事件失败")
}

// RecordOutcome 按结果类别记录执行事件。
func (s *Service) RecordOutcome(ctx context.Context, requestID string, outcome execution.Outcome) {
	eventType := EventOrderExecuted
	switch {
	case outcome.Success:
	case outcome.Kind == execution.FailureValidation:
		eventType = EventAlertRejected
	default:
		eventType = EventOrderFailed
	}

	payload := OutcomePayload{Outcome: outcome, Kind: outcome.Kind}
	if outcome.Cause != nil {
		payload.Detail = outcome.Cause.Error()
	}

	s.recordOrWarn(ctx, Event{
		Type:      eventType,
		RequestID: requestID,
		Payload:   payload,
	}, "记录执行事件失败")
}

// RecordAccountStatus 记录账户状态查询结果。
func (s *Service) RecordAccountStatus(ctx context.Context, status account.Status) {
	s.recordOrWarn(ctx, Event{
		Type:    EventAccountStatus,
		Payload: AccountPayload{Status: status},
	}, "记录账户事件失败")
}

// RecordError 记录异常。
func (s *Service) RecordError(ctx context.Context, requestID, msg string, err error, ctxMap map[string]interface{}) {
	payload := ErrorPayload{
		Message: msg,
		Context: ctxMap,
	}
	if err != nil {
		payload.Error = err.Error()
	}
	s.recordOrWarn(ctx, Event{
		Type:      EventError,
		RequestID: requestID,
		Payload:   payload,
	}, "记录异常事件失败")
}

func (s *Service) recordOrWarn(ctx context.Context, event Event, msg string) {
	if err := s.Record(ctx, event); err != nil {
		s.logger.Warn(msg, zap.String("type", string(event.Type)), zap.Error(err))
	}
}

// ListEvents 按类型检索最近事件。
func (s *Service) ListEvents(ctx context.Context, eventType EventType, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT event_type, request_id, payload, created_at FROM monitor_events`
	args := make([]interface{}, 0, 2)
	if eventType != "" {
		query += ` WHERE event_type = ?`
		args = append(args, string(eventType))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("monitor: 查询事件失败: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, limit)
	for rows.Next() {
		var (
			typ       string
			requestID string
			payload   string
			created   string
		)
		if scanErr := rows.Scan(&typ, &requestID, &payload, &created); scanErr != nil {
			return nil, fmt.Errorf("monitor: 解析事件失败: %w", scanErr)
		}

		ts, parseErr := time.Parse(time.RFC3339Nano, created)
		if parseErr != nil {
			ts = time.Now().UTC()
		}

		events = append(events, Event{
			Type:      EventType(typ),
			RequestID: requestID,
			Timestamp: ts,
			Payload:   json.RawMessage(payload),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monitor: 读取事件失败: %w", err)
	}

	return events, nil
}
