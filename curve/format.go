package curve

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// lower bounds for 3..9 fixed decimals; anything smaller gets 10
var subCentBounds = []float64{0.001, 0.0001, 0.00001, 0.000001, 0.0000001, 0.00000001, 0.000000001}

// FormatPrice renders a price for display without scientific notation.
// Sub-unit prices grow their fixed decimals from 2 up to 10.
func FormatPrice(price float64) string {
	switch {
	case price >= 1_000_000:
		return "$" + toFixed(price/1_000_000, 1) + "M"
	case price >= 1_000:
		return "$" + toFixed(price/1_000, 1) + "K"
	case price >= 0.01:
		return "$" + toFixed(price, 2)
	}

	places := int32(10)
	for i, bound := range subCentBounds {
		if price >= bound {
			places = int32(3 + i)
			break
		}
	}
	return "$" + toFixed(price, places)
}

// FormatNumber renders counts with K/M/B suffixes; smaller values use en-US
// grouping with at most three fraction digits.
func FormatNumber(n float64) string {
	switch {
	case n >= 1_000_000_000:
		return toFixed(n/1_000_000_000, 2) + "B"
	case n >= 1_000_000:
		return toFixed(n/1_000_000, 1) + "M"
	case n >= 1_000:
		return toFixed(n/1_000, 1) + "K"
	}
	return printer.Sprint(number.Decimal(roundHalfUp(n, 3), number.MaxFractionDigits(3)))
}

// FormatCurrency renders a USD amount with grouping and exactly two
// decimals, e.g. "$1,234.50" or "-$0.13".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$" + toFixed(amount, 2)
	}
	rounded := roundHalfUp(amount, 2)
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return sign + "$" + printer.Sprint(number.Decimal(rounded,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// roundHalfUp rounds the shortest decimal form of x away from zero on ties,
// the way en-US locale formatting does.
func roundHalfUp(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

func FormatCount(n *big.Int) string {
	return FormatNumber(toFloat(n))
}

// toFixed matches JavaScript's Number.prototype.toFixed: it rounds the exact
// binary value, with ties going up.
func toFixed(x float64, places int32) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	exact := new(big.Float).SetFloat64(x).Text('f', 1100)
	d, err := decimal.NewFromString(exact)
	if err != nil {
		return decimal.NewFromFloat(x).StringFixed(places)
	}
	return d.StringFixed(places)
}
