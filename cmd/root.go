package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "brc100",
	Short:        "BRC-100 token indexer and bonding curve tools",
	SilenceUsage: true,
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		indexCmd,
		curveCmd,
		inscribeCmd,
	)

	curveCmd.AddCommand(
		quoteCurveCmd,
		milestonesCurveCmd,
		pointsCurveCmd,
		presetsCurveCmd,
	)
	curveCmd.PersistentFlags().StringVar(&curvePreset, "preset", "", "start from a named preset")
	curveCmd.PersistentFlags().StringVar(&curveSupply, "supply", "", "total supply")
	curveCmd.PersistentFlags().Float64Var(&curveMin, "min-price", 0, "price of the first token")
	curveCmd.PersistentFlags().Float64Var(&curveMax, "max-price", 0, "price of the last token")
	curveCmd.PersistentFlags().StringVar(&curveType, "type", "", "exponential, linear or sigmoid")
	quoteCurveCmd.Flags().StringVar(&curveSold, "sold", "0", "tokens already sold")
	quoteCurveCmd.Flags().Float64Var(&curvePayment, "payment", 0, "amount to spend")
	pointsCurveCmd.Flags().IntVar(&curvePoints, "n", 20, "number of segments")

	inscribeCmd.AddCommand(
		deployInscribeCmd,
		mintInscribeCmd,
		transferInscribeCmd,
		burnInscribeCmd,
	)
	inscribeCmd.PersistentFlags().StringVar(&inscribeTick, "tick", "", "token tick")
	inscribeCmd.PersistentFlags().IntVar(&inscribeDecimals, "decimals", 0, "decimals the amounts below are written in")
	inscribeCmd.PersistentFlags().StringVar(&inscribeAmount, "amount", "", "amount for mint, transfer and burn")
	deployInscribeCmd.Flags().StringVar(&inscribeMax, "max", "", "max supply")
	deployInscribeCmd.Flags().StringVar(&inscribeLimit, "limit", "", "per-mint limit")
	deployInscribeCmd.Flags().StringVar(&inscribeSelf, "self", "", "amount minted to the deployer")
	deployInscribeCmd.Flags().StringVar(&inscribeDesc, "desc", "", "description")
	transferInscribeCmd.Flags().StringVar(&inscribeTo, "to", "", "fixed recipient")
}
