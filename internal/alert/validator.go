package alert

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// ErrInvalidAlert 为所有校验失败的公共哨兵错误。
var ErrInvalidAlert = errors.New("invalid alert")

// ValidationError 记录首个未通过的校验项。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("alert: %s", e.Reason)
	}
	return fmt.Sprintf("alert: %s: %s", e.Field, e.Reason)
}

// Unwrap 使 errors.Is(err, ErrInvalidAlert) 成立。
func (e *ValidationError) Unwrap() error {
	return ErrInvalidAlert
}

var (
	requiredFields = []string{FieldExchange, FieldStrategy, FieldMarket, FieldOrder, FieldPrice}
	textFields     = map[string]bool{FieldExchange: true, FieldStrategy: true, FieldMarket: true, FieldOrder: true}
	sizeFields     = []string{FieldSize, FieldSizeUSD, FieldSizeByLeverage}
)

// Validate 解析原始报文并按顺序校验，第一个失败项即返回。
func Validate(raw []byte) (Alert, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Alert{}, invalid("", "payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		return Alert{}, invalid("", "payload is not a JSON object")
	}
	if decoder.More() {
		return Alert{}, invalid("", "payload has trailing data")
	}

	return Parse(payload)
}

// Parse 校验已解码的报文对象。
func Parse(payload map[string]interface{}) (Alert, error) {
	if len(payload) == 0 {
		return Alert{}, invalid("", "payload is empty")
	}

	text := make(map[string]string, len(textFields))
	for _, field := range requiredFields {
		value, ok := payload[field]
		if !ok || isEmpty(value) {
			return Alert{}, invalid(field, "missing required field")
		}
		if textFields[field] {
			s, isString := value.(string)
			if !isString {
				return Alert{}, invalid(field, "must be a string")
			}
			if strings.TrimSpace(s) == "" {
				return Alert{}, invalid(field, "missing required field")
			}
			text[field] = s
		}
	}

	if !strings.EqualFold(strings.TrimSpace(text[FieldExchange]), SupportedExchange) {
		return Alert{}, invalid(FieldExchange, fmt.Sprintf("unsupported exchange %q", text[FieldExchange]))
	}

	side, err := ParseSide(text[FieldOrder])
	if err != nil {
		return Alert{}, invalid(FieldOrder, fmt.Sprintf("invalid order type %q", text[FieldOrder]))
	}

	price, err := toNumber(payload[FieldPrice])
	if err != nil || !price.IsPositive() {
		return Alert{}, invalid(FieldPrice, fmt.Sprintf("invalid price %v", payload[FieldPrice]))
	}

	present := false
	for _, field := range sizeFields {
		if _, ok := payload[field]; ok {
			present = true
			break
		}
	}
	if !present {
		return Alert{}, invalid("", "no size specified (size, sizeUsd, or sizeByLeverage required)")
	}

	sizes := make(map[string]optional.Option[float64], len(sizeFields))
	for _, field := range sizeFields {
		value, ok := payload[field]
		if !ok {
			sizes[field] = optional.None[float64]()
			continue
		}
		n, numErr := toNumber(value)
		if numErr != nil {
			return Alert{}, invalid(field, fmt.Sprintf("invalid %s %v", field, value))
		}
		sizes[field] = optional.Some(n.InexactFloat64())
	}

	if leverage := sizes[FieldSizeByLeverage]; leverage.IsSome() {
		v := leverage.Unwrap()
		if v <= 0 || v > 1 {
			return Alert{}, invalid(FieldSizeByLeverage, fmt.Sprintf("invalid sizeByLeverage %v, must be within (0, 1]", v))
		}
	}

	passphrase, _ := payload[FieldPassphrase].(string)

	return Alert{
		Exchange:       strings.TrimSpace(text[FieldExchange]),
		Strategy:       text[FieldStrategy],
		Market:         strings.TrimSpace(text[FieldMarket]),
		Side:           side,
		Price:          price.InexactFloat64(),
		Size:           sizes[FieldSize],
		SizeUSD:        sizes[FieldSizeUSD],
		SizeByLeverage: sizes[FieldSizeByLeverage],
		Passphrase:     passphrase,
	}, nil
}

// RedactPassphrase 去除报文中的 passphrase 字段，用于日志与审计存储。
// 非 JSON 对象或不含该字段的报文原样返回。
func RedactPassphrase(raw []byte) []byte {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil || decoder.More() {
		return raw
	}
	if _, ok := payload[FieldPassphrase]; !ok {
		return raw
	}
	delete(payload, FieldPassphrase)

	redacted, err := json.Marshal(payload)
	if err != nil {
		return raw
	}
	return redacted
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

// toNumber 接受 JSON 数字或数字字符串，结果须可表示为有限 float64。
func toNumber(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case json.Number:
		return finite(decimal.NewFromString(v.String()))
	case string:
		return finite(decimal.NewFromString(strings.TrimSpace(v)))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, fmt.Errorf("alert: 非有限数值 %v", v)
		}
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("alert: 非数值类型 %T", value)
	}
}

func finite(d decimal.Decimal, err error) (decimal.Decimal, error) {
	if err != nil {
		return decimal.Decimal{}, err
	}
	if f := d.InexactFloat64(); math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("alert: 数值超出范围 %s", d.String())
	}
	return d, nil
}
