package alert

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basePayload() map[string]interface{} {
	return map[string]interface{}{
		"exchange": "hyperliquid",
		"strategy": "s1",
		"market":   "BTC",
		"order":    "buy",
		"price":    65000,
		"sizeUsd":  100,
	}
}

func mustJSON(t *testing.T, payload map[string]interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func requireViolation(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidAlert), "expected ErrInvalidAlert, got %v", err)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, field, vErr.Field)
	return vErr
}

func TestValidate_AcceptsWellFormedAlert(t *testing.T) {
	a, err := Validate([]byte(`{"exchange":"hyperliquid","strategy":"s1","market":"BTC","order":"buy","price":65000,"sizeUsd":100}`))
	require.NoError(t, err)

	assert.Equal(t, "hyperliquid", a.Exchange)
	assert.Equal(t, "s1", a.Strategy)
	assert.Equal(t, "BTC", a.Market)
	assert.Equal(t, SideBuy, a.Side)
	assert.Equal(t, 65000.0, a.Price)
	assert.True(t, a.SizeUSD.IsSome())
	assert.Equal(t, 100.0, a.SizeUSD.Unwrap())
	assert.True(t, a.Size.IsNone())
	assert.True(t, a.SizeByLeverage.IsNone())
}

func TestValidate_EmptyOrMalformedPayload(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"whitespace": "   ",
		"null":       "null",
		"array":      `[1,2]`,
		"string":     `"buy"`,
		"broken":     `{"exchange":`,
		"empty obj":  `{}`,
		"trailing":   `{"exchange":"hyperliquid"} {}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Validate([]byte(raw))
			requireViolation(t, err, "")
		})
	}
}

func TestValidate_MissingRequiredField(t *testing.T) {
	for _, field := range []string{FieldExchange, FieldStrategy, FieldMarket, FieldOrder, FieldPrice} {
		t.Run("absent "+field, func(t *testing.T) {
			payload := basePayload()
			delete(payload, field)
			_, err := Validate(mustJSON(t, payload))
			vErr := requireViolation(t, err, field)
			assert.Contains(t, vErr.Reason, "missing")
		})
		t.Run("blank "+field, func(t *testing.T) {
			payload := basePayload()
			payload[field] = ""
			_, err := Validate(mustJSON(t, payload))
			requireViolation(t, err, field)
		})
		t.Run("null "+field, func(t *testing.T) {
			payload := basePayload()
			payload[field] = nil
			_, err := Validate(mustJSON(t, payload))
			requireViolation(t, err, field)
		})
	}
}

func TestValidate_FirstMissingFieldWins(t *testing.T) {
	payload := basePayload()
	delete(payload, FieldMarket)
	delete(payload, FieldPrice)
	_, err := Validate(mustJSON(t, payload))
	requireViolation(t, err, FieldMarket)
}

func TestValidate_TextFieldsMustBeStrings(t *testing.T) {
	payload := basePayload()
	payload[FieldOrder] = 1
	_, err := Validate(mustJSON(t, payload))
	vErr := requireViolation(t, err, FieldOrder)
	assert.Contains(t, vErr.Reason, "string")
}

func TestValidate_Exchange(t *testing.T) {
	for _, ok := range []string{"hyperliquid", "HyperLiquid", "HYPERLIQUID"} {
		payload := basePayload()
		payload[FieldExchange] = ok
		_, err := Validate(mustJSON(t, payload))
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"binance", "hyperliquid-testnet", "dydx"} {
		payload := basePayload()
		payload[FieldExchange] = bad
		_, err := Validate(mustJSON(t, payload))
		requireViolation(t, err, FieldExchange)
	}
}

func TestValidate_OrderSide(t *testing.T) {
	for raw, want := range map[string]Side{"buy": SideBuy, "BUY": SideBuy, "Sell": SideSell, "sell": SideSell} {
		payload := basePayload()
		payload[FieldOrder] = raw
		a, err := Validate(mustJSON(t, payload))
		require.NoError(t, err, raw)
		assert.Equal(t, want, a.Side)
	}
	for _, bad := range []string{"long", "close", "b"} {
		payload := basePayload()
		payload[FieldOrder] = bad
		_, err := Validate(mustJSON(t, payload))
		requireViolation(t, err, FieldOrder)
	}
}

func TestValidate_Price(t *testing.T) {
	payload := basePayload()
	payload[FieldPrice] = "3000.5"
	a, err := Validate(mustJSON(t, payload))
	require.NoError(t, err)
	assert.Equal(t, 3000.5, a.Price)

	for name, bad := range map[string]interface{}{
		"zero":     0,
		"negative": -1,
		"text":     "abc",
		"bool":     true,
		"object":   map[string]interface{}{"v": 1},
		"overflow": "1e400",
	} {
		t.Run(name, func(t *testing.T) {
			p := basePayload()
			p[FieldPrice] = bad
			_, err := Validate(mustJSON(t, p))
			requireViolation(t, err, FieldPrice)
		})
	}
}

func TestValidate_RejectsNonFiniteNumbers(t *testing.T) {
	cases := map[string]struct {
		raw   string
		field string
	}{
		"price":          {`{"exchange":"hyperliquid","strategy":"s1","market":"ETH","order":"buy","price":1e400,"size":1}`, FieldPrice},
		"size":           {`{"exchange":"hyperliquid","strategy":"s1","market":"ETH","order":"buy","price":3000,"size":1e400}`, FieldSize},
		"sizeUsd":        {`{"exchange":"hyperliquid","strategy":"s1","market":"ETH","order":"buy","price":3000,"sizeUsd":-1e400}`, FieldSizeUSD},
		"sizeByLeverage": {`{"exchange":"hyperliquid","strategy":"s1","market":"ETH","order":"buy","price":3000,"sizeByLeverage":"1e999"}`, FieldSizeByLeverage},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Validate([]byte(tc.raw))
			requireViolation(t, err, tc.field)
		})
	}
}

func TestValidate_BlankTextFieldIsMissing(t *testing.T) {
	payload := basePayload()
	payload[FieldMarket] = "   "
	_, err := Validate(mustJSON(t, payload))
	vErr := requireViolation(t, err, FieldMarket)
	assert.Equal(t, "missing required field", vErr.Reason)
}

func TestValidate_RequiresSizeField(t *testing.T) {
	payload := basePayload()
	delete(payload, FieldSizeUSD)
	_, err := Validate(mustJSON(t, payload))
	vErr := requireViolation(t, err, "")
	assert.Contains(t, vErr.Reason, "no size")
}

func TestValidate_SizeFieldsMustBeNumeric(t *testing.T) {
	payload := basePayload()
	payload[FieldSize] = "half"
	_, err := Validate(mustJSON(t, payload))
	requireViolation(t, err, FieldSize)
}

func TestValidate_NonPositiveAbsoluteSizeIsLeftToSizer(t *testing.T) {
	payload := basePayload()
	delete(payload, FieldSizeUSD)
	payload[FieldSize] = 0
	a, err := Validate(mustJSON(t, payload))
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.Size.Unwrap())
}

func TestValidate_SizeByLeverageRange(t *testing.T) {
	for _, ok := range []interface{}{0.1, 1, "0.5", 0.0001} {
		payload := basePayload()
		payload[FieldSizeByLeverage] = ok
		_, err := Validate(mustJSON(t, payload))
		assert.NoError(t, err, "%v", ok)
	}
	for _, bad := range []interface{}{0, -0.1, 1.0001, 2, "x", nil} {
		payload := basePayload()
		payload[FieldSizeByLeverage] = bad
		_, err := Validate(mustJSON(t, payload))
		requireViolation(t, err, FieldSizeByLeverage)
	}
}

func TestParse_KeepsPassphrase(t *testing.T) {
	payload := basePayload()
	payload[FieldPassphrase] = "secret"
	a, err := Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, "secret", a.Passphrase)
}

func TestRedactPassphrase(t *testing.T) {
	raw := []byte(`{"exchange":"hyperliquid","price":3000.50,"passphrase":"topsecret"}`)
	redacted := RedactPassphrase(raw)
	assert.NotContains(t, string(redacted), "topsecret")
	assert.JSONEq(t, `{"exchange":"hyperliquid","price":3000.50}`, string(redacted))

	for _, keep := range []string{`{"exchange":"hyperliquid"}`, `not json`, `[1,2]`, `{"a":1} {"b":2}`} {
		assert.Equal(t, keep, string(RedactPassphrase([]byte(keep))), keep)
	}
}

func TestParseSide(t *testing.T) {
	side, err := ParseSide(" Buy ")
	require.NoError(t, err)
	assert.Equal(t, SideBuy, side)
	assert.Equal(t, "BUY", side.Upper())

	_, err = ParseSide("hold")
	assert.Error(t, err)
}
