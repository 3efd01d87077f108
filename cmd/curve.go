package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"tokenomics-kernel/curve"
	"tokenomics-kernel/ledger"
)

var (
	curvePreset  string
	curveSupply  string
	curveMin     float64
	curveMax     float64
	curveType    string
	curveSold    string
	curvePayment float64
	curvePoints  int
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Inspect bonding curve pricing",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

// buildCurve starts from the preset (or the default configuration) and
// applies any flags that were set explicitly.
func buildCurve(cmd *cobra.Command) (*curve.Curve, error) {
	cfg := curve.DefaultConfig()
	if curvePreset != "" {
		p, ok := curve.Preset(curvePreset)
		if !ok {
			return nil, fmt.Errorf("%w: %s (have %s)", ErrUnknownPreset, curvePreset, strings.Join(curve.PresetNames(), ", "))
		}
		cfg = p
	}
	flags := cmd.Flags()
	if flags.Changed("supply") {
		supply, err := ledger.ParseAmount(curveSupply, 0)
		if err != nil {
			return nil, err
		}
		cfg.TotalSupply = supply
	}
	if flags.Changed("min-price") {
		cfg.MinPrice = curveMin
	}
	if flags.Changed("max-price") {
		cfg.MaxPrice = curveMax
	}
	if flags.Changed("type") {
		cfg.Type = curve.Type(strings.ToLower(curveType))
	}
	return curve.New(cfg)
}

var quoteCurveCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote a purchase at the current point of the curve",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := buildCurve(cmd)
		if err != nil {
			return err
		}
		sold, err := ledger.ParseAmount(curveSold, 0)
		if err != nil {
			return err
		}
		q := c.PurchaseQuote(sold, curvePayment)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "current price:  %s\n", curve.FormatPrice(c.CurrentPrice(sold)))
		fmt.Fprintf(out, "tokens:         %s\n", curve.FormatCount(q.TokensReceived))
		fmt.Fprintf(out, "total cost:     %s\n", curve.FormatPrice(q.TotalCost))
		fmt.Fprintf(out, "average price:  %s\n", curve.FormatPrice(q.AveragePrice))
		fmt.Fprintf(out, "new price:      %s\n", curve.FormatPrice(q.NewPrice))
		fmt.Fprintf(out, "price impact:   %.2f%%\n", q.PriceImpact)
		fmt.Fprintf(out, "market cap:     %s\n", curve.FormatPrice(c.MarketCap(new(big.Int).Add(sold, q.TokensReceived))))
		fmt.Fprintf(out, "progress:       %.4f%%\n", c.Progress(new(big.Int).Add(sold, q.TokensReceived)))
		return nil
	},
}

var milestonesCurveCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Print prices at notable points of the curve",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := buildCurve(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, m := range c.Milestones() {
			fmt.Fprintf(out, "%-12s %14s  %s\n", m.Label, curve.FormatNumber(m.TokenIndex+1), curve.FormatPrice(m.Price))
		}
		return nil
	},
}

var pointsCurveCmd = &cobra.Command{
	Use:   "points",
	Short: "Sample the curve for charting",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := buildCurve(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range c.Points(curvePoints) {
			fmt.Fprintf(out, "%8.2f%% %14s  %s\n", p.PercentSold, curve.FormatNumber(p.TokensSold), curve.FormatPrice(p.Price))
		}
		return nil
	},
}

var presetsCurveCmd = &cobra.Command{
	Use:   "presets",
	Short: "List curve presets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, name := range curve.PresetNames() {
			cfg, _ := curve.Preset(name)
			fmt.Fprintf(out, "%-14s %-12s supply %s, %s to %s\n", name, cfg.Type,
				curve.FormatCount(cfg.TotalSupply), curve.FormatPrice(cfg.MinPrice), curve.FormatPrice(cfg.MaxPrice))
		}
		return nil
	},
}
