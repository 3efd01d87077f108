package main

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"tokenomics-kernel/core/model"
	"tokenomics-kernel/ledger"
)

var (
	inscribeTick     string
	inscribeDecimals int
	inscribeAmount   string
	inscribeMax      string
	inscribeLimit    string
	inscribeSelf     string
	inscribeDesc     string
	inscribeTo       string
)

var inscribeCmd = &cobra.Command{
	Use:   "inscribe",
	Short: "Build transaction input for a BRC-100 inscription",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

// units converts a flag value written with --decimals places into base units.
func units(name, value string) (*big.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: --%s is required", ErrInvalidArgs, name)
	}
	amt, err := ledger.ParseAmount(value, inscribeDecimals)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return amt, nil
}

func printInscription(cmd *cobra.Command, payload *model.BRC100) error {
	if err := ledger.ValidateTick(ledger.NormalizeTick(payload.Tick)); err != nil {
		return err
	}
	content, err := payload.Serialize()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, content)
	fmt.Fprintln(out, "0x"+hex.EncodeToString([]byte(model.EncodeDataURI("application/json", content))))
	return nil
}

var deployInscribeCmd = &cobra.Command{
	Use: "deploy",
	RunE: func(cmd *cobra.Command, _ []string) error {
		max, err := units("max", inscribeMax)
		if err != nil {
			return err
		}
		opts := model.DeployOptions{Tick: inscribeTick, Max: max, Description: inscribeDesc}
		if inscribeLimit != "" {
			if opts.Limit, err = units("limit", inscribeLimit); err != nil {
				return err
			}
		}
		if inscribeSelf != "" {
			if opts.SelfMint, err = units("self", inscribeSelf); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("decimals") {
			dec := inscribeDecimals
			opts.Decimals = &dec
		}
		return printInscription(cmd, model.NewDeploy(opts))
	},
}

var mintInscribeCmd = &cobra.Command{
	Use: "mint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		amt, err := units("amount", inscribeAmount)
		if err != nil {
			return err
		}
		return printInscription(cmd, model.NewMint(inscribeTick, amt))
	},
}

var transferInscribeCmd = &cobra.Command{
	Use: "transfer",
	RunE: func(cmd *cobra.Command, _ []string) error {
		amt, err := units("amount", inscribeAmount)
		if err != nil {
			return err
		}
		return printInscription(cmd, model.NewTransfer(inscribeTick, amt, inscribeTo))
	},
}

var burnInscribeCmd = &cobra.Command{
	Use: "burn",
	RunE: func(cmd *cobra.Command, _ []string) error {
		amt, err := units("amount", inscribeAmount)
		if err != nil {
			return err
		}
		return printInscription(cmd, model.NewBurn(inscribeTick, amt))
	},
}
