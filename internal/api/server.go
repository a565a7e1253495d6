package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alert-connector/internal/account"
	"alert-connector/internal/alert"
	"alert-connector/internal/config"
	"alert-connector/internal/execution"
	"alert-connector/internal/monitor"
)

const (
	maxBodyBytes     = 64 << 10
	requestIDHeader  = "X-Request-ID"
	requestIDKey     = "request_id"
	defaultListLimit = 200
	maxListLimit     = 1000
)

// StatusProvider 提供账户状态。
type StatusProvider interface {
	Status(ctx context.Context) account.Status
}

// EventRecorder 记录告警生命周期事件。
type EventRecorder interface {
	RecordAlert(ctx context.Context, requestID, remoteAddr string, body []byte)
	RecordOutcome(ctx context.Context, requestID string, outcome execution.Outcome)
	RecordAccountStatus(ctx context.Context, status account.Status)
	RecordError(ctx context.Context, requestID, msg string, err error, ctxMap map[string]interface{})
	ListEvents(ctx context.Context, eventType monitor.EventType, limit int) ([]monitor.Event, error)
}

// Server HTTP 服务，接收 TradingView webhook。
type Server struct {
	router   *gin.Engine
	trader   execution.Trader
	accounts StatusProvider
	events   EventRecorder
	cfg      config.ServerConfig
	logger   *zap.Logger
}

// NewServer 创建 API 服务器并注册路由。
func NewServer(cfg config.ServerConfig, production bool, trader execution.Trader, accounts StatusProvider, events EventRecorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(logger))

	s := &Server{
		router:   router,
		trader:   trader,
		accounts: accounts,
		events:   events,
		cfg:      cfg,
		logger:   logger,
	}
	s.setupRoutes()
	return s
}

// Handler 返回 http.Handler，便于测试与挂载。
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer 构造带超时设置的 http.Server。
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHealth)
	s.router.GET("/accounts", s.handleAccounts)
	s.router.POST("/", s.handleAlert)
	s.router.GET("/events", s.handleEvents)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "TradingView Alert Connector is running",
	})
}

func (s *Server) handleAccounts(c *gin.Context) {
	s.logger.Info("收到账户状态查询")

	status := s.accounts.Status(c.Request.Context())
	if s.events != nil {
		s.events.RecordAccountStatus(c.Request.Context(), status)
	}
	c.JSON(http.StatusOK, gin.H{"Hyperliquid": status})
}

func (s *Server) handleAlert(c *gin.Context) {
	ctx := c.Request.Context()
	reqID := c.GetString(requestIDKey)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		s.logger.Error("读取告警报文失败", zap.String("request_id", reqID), zap.Error(err))
		if s.events != nil {
			s.events.RecordError(ctx, reqID, "读取告警报文失败", err, map[string]interface{}{"remote_addr": c.ClientIP()})
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Alert message is not valid"})
		return
	}
	if len(body) > maxBodyBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Alert message is too large"})
		return
	}

	audited := alert.RedactPassphrase(body)
	s.logger.Info("收到策略告警", zap.String("request_id", reqID), zap.ByteString("body", audited))
	if s.events != nil {
		s.events.RecordAlert(ctx, reqID, c.ClientIP(), audited)
	}

	if s.cfg.Passphrase != "" {
		a, vErr := alert.Validate(body)
		if vErr == nil && !passphraseMatches(s.cfg.Passphrase, a.Passphrase) {
			s.logger.Warn("告警口令不匹配", zap.String("request_id", reqID))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid passphrase"})
			return
		}
	}

	outcome := s.trader.Execute(ctx, body)
	if s.events != nil {
		s.events.RecordOutcome(ctx, reqID, outcome)
	}

	status, resp := renderOutcome(outcome)
	s.logger.Info("告警处理完成",
		zap.String("request_id", reqID),
		zap.Int("status", status),
		zap.String("outcome", marshalOutcome(outcome)),
	)
	c.JSON(status, resp)
}

func (s *Server) handleEvents(c *gin.Context) {
	if s.events == nil {
		c.JSON(http.StatusOK, []monitor.Event{})
		return
	}

	limit := defaultListLimit
	if qs := c.Query("limit"); qs != "" {
		if v, err := strconv.Atoi(qs); err == nil && v > 0 {
			if v > maxListLimit {
				v = maxListLimit
			}
			limit = v
		}
	}

	eventType := monitor.EventType("")
	if typ := strings.TrimSpace(c.Query("type")); typ != "" {
		eventType = monitor.EventType(strings.ToLower(typ))
	}

	events, err := s.events.ListEvents(c.Request.Context(), eventType, limit)
	if err != nil {
		s.logger.Error("查询监控事件失败", zap.Error(err))
		s.events.RecordError(c.Request.Context(), c.GetString(requestIDKey), "查询监控事件失败", err,
			map[string]interface{}{"type": string(eventType), "limit": limit})
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// renderOutcome 将执行结果映射为状态码：校验失败 4xx，其余失败 5xx。
func renderOutcome(outcome execution.Outcome) (int, gin.H) {
	if outcome.Success {
		return http.StatusOK, gin.H{"status": "OK", "order": outcome}
	}

	switch outcome.Kind {
	case execution.FailureValidation:
		resp := gin.H{"error": "Alert message is not valid"}
		var vErr *alert.ValidationError
		if errors.As(outcome.Cause, &vErr) {
			resp["reason"] = vErr.Error()
		}
		return http.StatusBadRequest, resp
	case execution.FailureReadiness:
		return http.StatusInternalServerError, gin.H{
			"error":  "Hyperliquid account is not ready",
			"reason": outcome.Error,
		}
	default:
		msg := outcome.Error
		if msg == "" {
			msg = "Error processing order"
		}
		return http.StatusInternalServerError, gin.H{"error": msg}
	}
}

func passphraseMatches(expected, got string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP 请求",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// marshalOutcome 用于日志输出。
func marshalOutcome(outcome execution.Outcome) string {
	raw, err := json.Marshal(outcome)
	if err != nil {
		return ""
	}
	return string(raw)
}
