package curve

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustCurve(t *testing.T, cfg Config) *Curve {
	t.Helper()
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

// price == index+1 for every integer index
func unitLinear(t *testing.T) *Curve {
	return mustCurve(t, Config{
		TotalSupply: big.NewInt(10_000),
		MinPrice:    1,
		MaxPrice:    10_000,
		Type:        Linear,
	})
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		err  error
	}{
		{
			name: "nil supply",
			cfg:  Config{MinPrice: 1, MaxPrice: 2, Type: Linear},
			err:  ErrInvalidSupply,
		},
		{
			name: "zero supply",
			cfg:  Config{TotalSupply: big.NewInt(0), MinPrice: 1, MaxPrice: 2, Type: Linear},
			err:  ErrInvalidSupply,
		},
		{
			name: "negative supply",
			cfg:  Config{TotalSupply: big.NewInt(-5), MinPrice: 1, MaxPrice: 2, Type: Linear},
			err:  ErrInvalidSupply,
		},
		{
			name: "min equals max",
			cfg:  Config{TotalSupply: big.NewInt(10), MinPrice: 2, MaxPrice: 2, Type: Linear},
			err:  ErrInvalidPriceRange,
		},
		{
			name: "min above max",
			cfg:  Config{TotalSupply: big.NewInt(10), MinPrice: 3, MaxPrice: 2, Type: Exponential},
			err:  ErrInvalidPriceRange,
		},
		{
			name: "zero min price",
			cfg:  Config{TotalSupply: big.NewInt(10), MinPrice: 0, MaxPrice: 2, Type: Exponential},
			err:  ErrInvalidPriceRange,
		},
		{
			name: "infinite max price",
			cfg:  Config{TotalSupply: big.NewInt(10), MinPrice: 1, MaxPrice: math.Inf(1), Type: Linear},
			err:  ErrInvalidPriceRange,
		},
		{
			name: "unknown type",
			cfg:  Config{TotalSupply: big.NewInt(10), MinPrice: 1, MaxPrice: 2, Type: "cubic"},
			err:  ErrUnknownCurveType,
		},
		{
			name: "negative steepness",
			cfg:  Config{TotalSupply: big.NewInt(10), MinPrice: 1, MaxPrice: 2, Type: Sigmoid, SigmoidK: -1},
			err:  ErrInvalidSteepness,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, c)
		})
	}
}

func TestNewCopiesSupply(t *testing.T) {
	supply := big.NewInt(100)
	c := mustCurve(t, Config{TotalSupply: supply, MinPrice: 1, MaxPrice: 2, Type: Linear})
	supply.SetInt64(5)
	require.Equal(t, int64(100), c.Config().TotalSupply.Int64())
}

func TestFairLaunchScenario(t *testing.T) {
	require := require.New(t)

	c := mustCurve(t, DefaultConfig())
	require.Equal(0.0000001, c.PriceAtToken(0))
	require.Equal(1_000_000.0, c.PriceAtToken(999_999_999))

	mid := c.PriceAtToken(999_999_999 / 2.0)
	require.InEpsilon(math.Sqrt(0.0000001*1_000_000), mid, 1e-9)
	require.InDelta(0.316, mid, 0.001)
}

func TestBoundaryClamp(t *testing.T) {
	for _, typ := range []Type{Exponential, Linear, Sigmoid} {
		t.Run(string(typ), func(t *testing.T) {
			require := require.New(t)
			c := mustCurve(t, Config{
				TotalSupply: big.NewInt(1_000_000),
				MinPrice:    0.01,
				MaxPrice:    100,
				Type:        typ,
				SigmoidK:    0.00001,
			})
			require.Equal(0.01, c.PriceAtToken(0))
			require.Equal(0.01, c.PriceAtToken(-42))
			require.Equal(100.0, c.PriceAtToken(999_999))
			require.Equal(100.0, c.PriceAtToken(5_000_000))
		})
	}
}

func TestMonotonicity(t *testing.T) {
	for _, typ := range []Type{Exponential, Linear, Sigmoid} {
		t.Run(string(typ), func(t *testing.T) {
			c := mustCurve(t, Config{
				TotalSupply: big.NewInt(1_000_000_000),
				MinPrice:    0.0000001,
				MaxPrice:    1_000_000,
				Type:        typ,
			})
			prev := c.PriceAtToken(0)
			for i := 1.0; i <= 1_000_000_000; i += 997_331 {
				p := c.PriceAtToken(i)
				require.GreaterOrEqual(t, p, prev, "index %v", i)
				prev = p
			}
			require.LessOrEqual(t, prev, c.PriceAtToken(999_999_999))
		})
	}
}

func TestSingleTokenSupply(t *testing.T) {
	c := mustCurve(t, Config{TotalSupply: big.NewInt(1), MinPrice: 1, MaxPrice: 2, Type: Exponential})
	require.Equal(t, 1.0, c.PriceAtToken(0))
	require.Equal(t, 2.0, c.PriceAtToken(1))
	require.Zero(t, c.TokenAtPrice(1.5))
}

func TestTokenAtPrice(t *testing.T) {
	t.Run("linear", func(t *testing.T) {
		require := require.New(t)
		c := unitLinear(t)
		require.Zero(c.TokenAtPrice(0.5))
		require.Equal(9_999.0, c.TokenAtPrice(50_000))
		for _, i := range []float64{1, 17, 1234, 9_000} {
			require.InDelta(i, c.TokenAtPrice(c.PriceAtToken(i)), 1)
		}
	})

	t.Run("exponential", func(t *testing.T) {
		require := require.New(t)
		c := mustCurve(t, DefaultConfig())
		for _, i := range []float64{1_000, 250_000_000, 777_777_777} {
			require.InDelta(i, c.TokenAtPrice(c.PriceAtToken(i)), 1)
		}
		require.Zero(c.TokenAtPrice(0))
		require.Equal(999_999_999.0, c.TokenAtPrice(2_000_000))
	})

	t.Run("sigmoid", func(t *testing.T) {
		require := require.New(t)
		cfg, ok := Preset("sigmoid")
		require.True(ok)
		c := mustCurve(t, cfg)
		mid := 999_999_999 / 2.0
		require.InDelta(mid, c.TokenAtPrice(c.PriceAtToken(mid)), 1)
		got := c.TokenAtPrice(c.PriceAtToken(600_000_000))
		require.InDelta(600_000_000, got, 1_000)
	})
}

func TestCostForTokens(t *testing.T) {
	t.Run("small purchase uses endpoints", func(t *testing.T) {
		c := unitLinear(t)
		// (p(0) + p(10)) / 2 * 10
		require.Equal(t, 60.0, c.CostForTokens(big.NewInt(0), big.NewInt(10)))
	})

	t.Run("large purchase integrates segments", func(t *testing.T) {
		c := mustCurve(t, Config{
			TotalSupply: big.NewInt(1_000_001),
			MinPrice:    1,
			MaxPrice:    1_000_001,
			Type:        Linear,
		})
		// integral of (1 + x) over [0, 100000]
		require.InEpsilon(t, 5_000_100_000.0, c.CostForTokens(big.NewInt(0), big.NewInt(100_000)), 1e-9)
	})

	t.Run("non-positive purchase is free", func(t *testing.T) {
		c := unitLinear(t)
		require.Zero(t, c.CostForTokens(big.NewInt(5), big.NewInt(0)))
		require.Zero(t, c.CostForTokens(big.NewInt(5), big.NewInt(-3)))
		require.Zero(t, c.CostForTokens(big.NewInt(5), nil))
	})

	t.Run("later purchases cost more", func(t *testing.T) {
		c := mustCurve(t, DefaultConfig())
		buy := big.NewInt(5_000_000)
		early := c.CostForTokens(big.NewInt(0), buy)
		late := c.CostForTokens(big.NewInt(900_000_000), buy)
		require.Greater(t, late, early)
	})
}

func TestTokensForPayment(t *testing.T) {
	tests := []struct {
		name     string
		sold     int64
		payment  float64
		expected int64
	}{
		{name: "whole steps", sold: 0, payment: 10, expected: 4},
		{name: "partial step", sold: 0, payment: 5, expected: 2},
		{name: "partial step buys nothing", sold: 0, payment: 0.5, expected: 0},
		{name: "capped by remaining supply", sold: 9_998, payment: 1e12, expected: 2},
		{name: "sold out", sold: 10_000, payment: 1e12, expected: 0},
		{name: "zero payment", sold: 0, payment: 0, expected: 0},
		{name: "negative payment", sold: 0, payment: -1, expected: 0},
		{name: "nan payment", sold: 0, payment: math.NaN(), expected: 0},
	}
	c := unitLinear(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.TokensForPayment(big.NewInt(tt.sold), tt.payment)
			require.Equal(t, tt.expected, got.Int64())
		})
	}
}

func TestTokensForPaymentDeterministic(t *testing.T) {
	c := mustCurve(t, DefaultConfig())
	sold := big.NewInt(123_456_789)
	first := c.TokensForPayment(sold, 2_500)
	for i := 0; i < 5; i++ {
		require.Zero(t, first.Cmp(c.TokensForPayment(sold, 2_500)))
	}
	require.Positive(t, first.Sign())
}

func TestPurchaseQuote(t *testing.T) {
	require := require.New(t)

	c := unitLinear(t)
	q := c.PurchaseQuote(big.NewInt(0), 10)
	require.Equal(int64(4), q.TokensReceived.Int64())
	require.Equal(12.0, q.TotalCost)
	require.Equal(3.0, q.AveragePrice)
	require.Equal(5.0, q.NewPrice)
	require.Equal(400.0, q.PriceImpact)

	empty := c.PurchaseQuote(big.NewInt(0), 0)
	require.Zero(empty.TokensReceived.Sign())
	require.Zero(empty.AveragePrice)
	require.Zero(empty.PriceImpact)
}

func TestReadouts(t *testing.T) {
	require := require.New(t)

	c := mustCurve(t, DefaultConfig())
	require.Zero(c.MarketCap(big.NewInt(0)))
	require.InEpsilon(100.0, c.FDV(big.NewInt(0)), 1e-12)
	require.Equal(25.0, c.Progress(big.NewInt(250_000_000)))
	require.Equal(int64(750_000_000), c.RemainingSupply(big.NewInt(250_000_000)).Int64())

	sold := big.NewInt(500_000_000)
	require.InEpsilon(c.CurrentPrice(sold)*500_000_000, c.MarketCap(sold), 1e-12)
}

func TestMilestones(t *testing.T) {
	require := require.New(t)

	c := mustCurve(t, DefaultConfig())
	ms := c.Milestones()
	require.Len(ms, 11)
	require.Equal("First token", ms[0].Label)
	require.Equal("0.1% sold", ms[1].Label)
	require.Equal("99.9% sold", ms[9].Label)
	require.Equal("Last token", ms[10].Label)
	require.Equal(0.0000001, ms[0].Price)
	require.Equal(1_000_000.0, ms[10].Price)
	for i := 1; i < len(ms); i++ {
		require.GreaterOrEqual(ms[i].Price, ms[i-1].Price)
	}
}

func TestPoints(t *testing.T) {
	require := require.New(t)

	c := unitLinear(t)
	pts := c.Points(4)
	require.Len(pts, 5)
	require.Zero(pts[0].TokenIndex)
	require.Equal(9_999.0, pts[4].TokenIndex)
	require.Equal(100.0, pts[4].PercentSold)
	require.Len(c.Points(0), 101)
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range PresetNames() {
		cfg, ok := Preset(name)
		require.True(t, ok, name)
		_, err := New(cfg)
		require.NoError(t, err, name)
	}
	_, ok := Preset("nope")
	require.False(t, ok)
}
