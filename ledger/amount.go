package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrTickTooShort   = errors.New("tick must be at least 4 characters")
	ErrTickTooLong    = errors.New("tick must be at most 5 characters")
	ErrTickCharacters = errors.New("tick must be alphanumeric")
	ErrInvalidAmount  = errors.New("invalid amount")
)

var tickPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

func ValidateTick(tick string) error {
	switch {
	case len(tick) < 4:
		return ErrTickTooShort
	case len(tick) > 5:
		return ErrTickTooLong
	case !tickPattern.MatchString(tick):
		return ErrTickCharacters
	}
	return nil
}

// ParseAmount converts a human decimal string into base units, truncating
// digits beyond decimals. Negative amounts are rejected.
func ParseAmount(s string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	return d.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}

// FormatAmount renders base units as a decimal string without trailing zeros.
func FormatAmount(amount *big.Int, decimals int) string {
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
