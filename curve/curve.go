// Package curve prices primary token issuance along a deterministic bonding
// curve. A Curve is immutable after New and safe for concurrent use.
package curve

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

type Type string

const (
	Exponential Type = "exponential"
	Linear      Type = "linear"
	Sigmoid     Type = "sigmoid"
)

// DefaultSigmoidK is the steepness used when a sigmoid config leaves it unset.
const DefaultSigmoidK = 0.00000001

const (
	// purchases below this many tokens are priced with a single trapezoid
	smallPurchase       = 1000
	integrationSegments = 100
	// TokensForPayment walks the supply in total/paymentSteps increments
	paymentSteps = 10000
)

var (
	ErrInvalidSupply     = errors.New("total supply must be positive")
	ErrInvalidPriceRange = errors.New("prices must be finite and 0 < minPrice < maxPrice")
	ErrUnknownCurveType  = errors.New("unknown curve type")
	ErrInvalidSteepness  = errors.New("sigmoid steepness must be finite and positive")
)

var milestonePercents = []float64{0, 0.1, 1, 10, 25, 50, 75, 90, 99, 99.9, 100}

type Config struct {
	Name        string
	Symbol      string
	TotalSupply *big.Int
	MinPrice    float64
	MaxPrice    float64
	Type        Type
	// SigmoidK is only read for sigmoid curves; zero selects DefaultSigmoidK.
	SigmoidK float64
}

type Point struct {
	TokenIndex  float64
	TokensSold  float64
	Price       float64
	PercentSold float64
}

type Milestone struct {
	Label       string
	TokenIndex  float64
	Price       float64
	PercentSold float64
}

type PurchaseQuote struct {
	TokensReceived *big.Int
	TotalCost      float64
	AveragePrice   float64
	NewPrice       float64
	// PriceImpact is the percentage move from the current price to NewPrice.
	PriceImpact float64
}

type Curve struct {
	cfg Config

	total float64
	last  float64 // index of the final token, total-1

	logMin   float64
	logMax   float64
	logRange float64
	k        float64
}

func New(cfg Config) (*Curve, error) {
	if cfg.TotalSupply == nil || cfg.TotalSupply.Sign() <= 0 {
		return nil, ErrInvalidSupply
	}
	if !finite(cfg.MinPrice) || !finite(cfg.MaxPrice) || cfg.MinPrice <= 0 || cfg.MinPrice >= cfg.MaxPrice {
		return nil, fmt.Errorf("%w: min=%v max=%v", ErrInvalidPriceRange, cfg.MinPrice, cfg.MaxPrice)
	}

	k := 0.0
	switch cfg.Type {
	case Exponential, Linear:
	case Sigmoid:
		k = cfg.SigmoidK
		if k == 0 {
			k = DefaultSigmoidK
		}
		if !finite(k) || k < 0 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSteepness, cfg.SigmoidK)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurveType, cfg.Type)
	}

	cfg.TotalSupply = new(big.Int).Set(cfg.TotalSupply)
	total := toFloat(cfg.TotalSupply)
	logMin := math.Log10(cfg.MinPrice)
	logMax := math.Log10(cfg.MaxPrice)
	return &Curve{
		cfg:      cfg,
		total:    total,
		last:     total - 1,
		logMin:   logMin,
		logMax:   logMax,
		logRange: logMax - logMin,
		k:        k,
	}, nil
}

// Config returns a copy of the configuration the curve was built from.
func (c *Curve) Config() Config {
	cfg := c.cfg
	cfg.TotalSupply = new(big.Int).Set(c.cfg.TotalSupply)
	return cfg
}

// PriceAtToken returns the unit price of the token at a 0-based index. The
// first and last index return MinPrice and MaxPrice exactly.
func (c *Curve) PriceAtToken(index float64) float64 {
	if index <= 0 {
		return c.cfg.MinPrice
	}
	if index >= c.last {
		return c.cfg.MaxPrice
	}

	switch c.cfg.Type {
	case Exponential:
		return math.Pow(10, c.logMin+c.logRange*index/c.last)
	case Linear:
		return c.cfg.MinPrice + (c.cfg.MaxPrice-c.cfg.MinPrice)*index/c.last
	case Sigmoid:
		s := 1 / (1 + math.Exp(-c.k*(index-c.last/2)))
		return c.cfg.MinPrice + (c.cfg.MaxPrice-c.cfg.MinPrice)*s
	}
	return c.cfg.MinPrice
}

// TokenAtPrice inverts PriceAtToken. Sigmoid curves map prices whose
// normalised value collapses to 0 or 1 onto the curve midpoint.
func (c *Curve) TokenAtPrice(price float64) float64 {
	if price <= c.cfg.MinPrice {
		return 0
	}
	if price >= c.cfg.MaxPrice {
		return c.last
	}

	var idx float64
	switch c.cfg.Type {
	case Exponential:
		idx = math.Floor((math.Log10(price) - c.logMin) / c.logRange * c.last)
	case Linear:
		idx = math.Floor((price - c.cfg.MinPrice) / (c.cfg.MaxPrice - c.cfg.MinPrice) * c.last)
	case Sigmoid:
		mid := c.last / 2
		norm := (price - c.cfg.MinPrice) / (c.cfg.MaxPrice - c.cfg.MinPrice)
		if norm <= 0 || norm >= 1 {
			return mid
		}
		idx = math.Floor(-math.Log((1-norm)/norm)/c.k + mid)
	}
	return math.Max(0, math.Min(idx, c.last))
}

func (c *Curve) CurrentPrice(sold *big.Int) float64 {
	return c.PriceAtToken(toFloat(sold))
}

// CostForTokens approximates the integral of price over [sold, sold+buy).
func (c *Curve) CostForTokens(sold, buy *big.Int) float64 {
	if buy == nil || buy.Sign() <= 0 {
		return 0
	}

	start := toFloat(sold)
	n := toFloat(buy)
	end := math.Min(start+n, c.last)
	if end < start {
		end = start
	}

	if n < smallPurchase {
		return (c.PriceAtToken(start) + c.PriceAtToken(end)) / 2 * n
	}

	step := (end - start) / integrationSegments
	cost := 0.0
	for i := 0; i < integrationSegments; i++ {
		p1 := c.PriceAtToken(math.Floor(start + float64(i)*step))
		p2 := c.PriceAtToken(math.Floor(start + float64(i+1)*step))
		cost += (p1 + p2) / 2 * step
	}
	return cost
}

// TokensForPayment buys whole steps greedily from sold onward, then one
// partial step at the boundary price. The result never exceeds the
// remaining supply.
func (c *Curve) TokensForPayment(sold *big.Int, payment float64) *big.Int {
	if !(payment > 0) {
		return new(big.Int)
	}

	start := toFloat(sold)
	step := math.Max(1, math.Floor(c.total/paymentSteps))
	remaining := payment
	received := 0.0

	for i := start; i < c.total && remaining > 0; i += step {
		price := c.PriceAtToken(i)
		maxAtPrice := math.Min(step, c.total-i)
		cost := price * maxAtPrice
		if cost <= remaining {
			remaining -= cost
			received += maxAtPrice
			continue
		}
		received += math.Floor(remaining / price)
		break
	}

	received = math.Min(received, c.total-start)
	if received <= 0 {
		return new(big.Int)
	}
	out, _ := big.NewFloat(received).Int(nil)
	return out
}

func (c *Curve) PurchaseQuote(sold *big.Int, payment float64) PurchaseQuote {
	current := c.CurrentPrice(sold)
	tokens := c.TokensForPayment(sold, payment)
	cost := c.CostForTokens(sold, tokens)
	newPrice := c.CurrentPrice(new(big.Int).Add(sold, tokens))

	q := PurchaseQuote{
		TokensReceived: tokens,
		TotalCost:      cost,
		NewPrice:       newPrice,
	}
	if tokens.Sign() > 0 {
		q.AveragePrice = cost / toFloat(tokens)
	}
	if current > 0 {
		q.PriceImpact = (newPrice - current) / current * 100
	}
	return q
}

func (c *Curve) MarketCap(sold *big.Int) float64 {
	return c.CurrentPrice(sold) * toFloat(sold)
}

// FDV is the fully diluted valuation at the current price.
func (c *Curve) FDV(sold *big.Int) float64 {
	return c.CurrentPrice(sold) * c.total
}

// Progress returns the percentage of supply sold, 0-100.
func (c *Curve) Progress(sold *big.Int) float64 {
	return toFloat(sold) / c.total * 100
}

func (c *Curve) RemainingSupply(sold *big.Int) *big.Int {
	return new(big.Int).Sub(c.cfg.TotalSupply, sold)
}

// Points samples the curve at n+1 evenly spaced indices for charting.
func (c *Curve) Points(n int) []Point {
	if n <= 0 {
		n = 100
	}
	points := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		idx := math.Floor(float64(i) / float64(n) * c.last)
		points = append(points, Point{
			TokenIndex:  idx,
			TokensSold:  idx + 1,
			Price:       c.PriceAtToken(idx),
			PercentSold: (idx + 1) / c.total * 100,
		})
	}
	return points
}

func (c *Curve) Milestones() []Milestone {
	out := make([]Milestone, 0, len(milestonePercents))
	for _, pct := range milestonePercents {
		idx := math.Floor(pct / 100 * c.last)
		out = append(out, Milestone{
			Label:       milestoneLabel(pct),
			TokenIndex:  idx,
			Price:       c.PriceAtToken(idx),
			PercentSold: pct,
		})
	}
	return out
}

func milestoneLabel(pct float64) string {
	switch pct {
	case 0:
		return "First token"
	case 100:
		return "Last token"
	}
	return strconv.FormatFloat(pct, 'f', -1, 64) + "% sold"
}

func toFloat(x *big.Int) float64 {
	if x == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(x).Float64()
	return f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
