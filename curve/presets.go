package curve

import (
	"math/big"
	"sort"
)

// DefaultConfig is a fair-launch curve spanning thirteen orders of magnitude
// over one billion tokens.
func DefaultConfig() Config {
	return Config{
		Name:        "Token",
		Symbol:      "TOKEN",
		TotalSupply: big.NewInt(1_000_000_000),
		MinPrice:    0.0000001,
		MaxPrice:    1_000_000,
		Type:        Exponential,
	}
}

var presets = map[string]func() Config{
	"pumpFun": func() Config {
		c := DefaultConfig()
		c.Name, c.Symbol = "Fair Launch Token", "PUMP"
		return c
	},
	"conservative": func() Config {
		c := DefaultConfig()
		c.Name, c.Symbol = "Conservative Token", "SAFE"
		c.MinPrice, c.MaxPrice = 0.001, 1000
		return c
	},
	"linear": func() Config {
		c := DefaultConfig()
		c.Name, c.Symbol = "Linear Token", "LINE"
		c.MinPrice, c.MaxPrice = 0.01, 100
		c.Type = Linear
		return c
	},
	"sigmoid": func() Config {
		c := DefaultConfig()
		c.Name, c.Symbol = "Sigmoid Token", "SIG"
		c.MinPrice, c.MaxPrice = 0.001, 1000
		c.Type = Sigmoid
		c.SigmoidK = DefaultSigmoidK
		return c
	},
	"community": func() Config {
		c := DefaultConfig()
		c.Name, c.Symbol = "Community Token", "COMM"
		c.TotalSupply = big.NewInt(1_000_000)
		c.MinPrice, c.MaxPrice = 0.01, 100
		return c
	},
	"microCap": func() Config {
		c := DefaultConfig()
		c.Name, c.Symbol = "Micro Token", "MICRO"
		c.TotalSupply = big.NewInt(10_000)
		c.MinPrice, c.MaxPrice = 1, 10_000
		return c
	},
}

// Preset returns a fresh copy of a named configuration.
func Preset(name string) (Config, bool) {
	fn, ok := presets[name]
	if !ok {
		return Config{}, false
	}
	return fn(), true
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
