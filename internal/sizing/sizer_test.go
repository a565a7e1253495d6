package sizing

import (
	"context"
	"errors"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alert-connector/internal/alert"
)

type stubEquity struct {
	value float64
	err   error
	calls int
}

func (s *stubEquity) Equity(ctx context.Context) (float64, error) {
	s.calls++
	return s.value, s.err
}

func baseAlert() alert.Alert {
	return alert.Alert{
		Exchange:       "hyperliquid",
		Strategy:       "s1",
		Market:         "BTC",
		Side:           alert.SideBuy,
		Price:          65000,
		Size:           optional.None[float64](),
		SizeUSD:        optional.None[float64](),
		SizeByLeverage: optional.None[float64](),
	}
}

func TestResolve_LeverageUsesFreshEquity(t *testing.T) {
	a := baseAlert()
	a.SizeByLeverage = optional.Some(0.1)
	eq := &stubEquity{value: 1000}

	res, err := Resolve(context.Background(), a, eq)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Size)
	assert.Equal(t, StrategySizeByLeverage, res.Strategy)

	eq.value = 2000
	res, err = Resolve(context.Background(), a, eq)
	require.NoError(t, err)
	assert.Equal(t, 200.0, res.Size)
	assert.Equal(t, 2, eq.calls)
}

func TestResolve_SizeUSDIgnoresEquity(t *testing.T) {
	a := baseAlert()
	a.SizeUSD = optional.Some(250.0)
	eq := &stubEquity{value: 1}

	res, err := Resolve(context.Background(), a, eq)
	require.NoError(t, err)
	assert.Equal(t, 250.0, res.Size)
	assert.Equal(t, StrategySizeUSD, res.Strategy)
	assert.Zero(t, eq.calls)
}

func TestResolve_Priority(t *testing.T) {
	a := baseAlert()
	a.SizeByLeverage = optional.Some(0.5)
	a.SizeUSD = optional.Some(250.0)
	a.Size = optional.Some(3.0)

	res, err := Resolve(context.Background(), a, &stubEquity{value: 1000})
	require.NoError(t, err)
	assert.Equal(t, 500.0, res.Size)
	assert.Equal(t, StrategySizeByLeverage, res.Strategy)

	a.SizeByLeverage = optional.None[float64]()
	res, err = Resolve(context.Background(), a, nil)
	require.NoError(t, err)
	assert.Equal(t, 250.0, res.Size)

	a.SizeUSD = optional.None[float64]()
	res, err = Resolve(context.Background(), a, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Size)
	assert.Equal(t, StrategySize, res.Strategy)
}

func TestResolve_Failures(t *testing.T) {
	cases := map[string]struct {
		mutate func(a *alert.Alert)
		equity EquityProvider
	}{
		"no size": {
			mutate: func(a *alert.Alert) {},
		},
		"zero equity": {
			mutate: func(a *alert.Alert) { a.SizeByLeverage = optional.Some(0.5) },
			equity: &stubEquity{value: 0},
		},
		"equity error": {
			mutate: func(a *alert.Alert) { a.SizeByLeverage = optional.Some(0.5) },
			equity: &stubEquity{err: errors.New("boom")},
		},
		"missing equity provider": {
			mutate: func(a *alert.Alert) { a.SizeByLeverage = optional.Some(0.5) },
		},
		"zero size": {
			mutate: func(a *alert.Alert) { a.Size = optional.Some(0.0) },
		},
		"negative usd": {
			mutate: func(a *alert.Alert) { a.SizeUSD = optional.Some(-10.0) },
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			a := baseAlert()
			tc.mutate(&a)
			_, err := Resolve(context.Background(), a, tc.equity)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSizing))
		})
	}
}
