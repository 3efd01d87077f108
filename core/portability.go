package core

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"tokenomics-kernel/ledger"
	"tokenomics-kernel/portable"
)

var (
	ErrInsufficientHolding = errors.New("holder balance does not cover amount")
	ErrUnknownTick         = errors.New("tick not deployed")
)

// PublishToken registers a deployed ledger token in the cross-app registry.
func PublishToken(reg *portable.Registry, l *ledger.Ledger, tick string, chain portable.Chain) (*portable.Token, error) {
	tok, ok := l.Token(tick)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTick, tick)
	}
	decimals := tok.Decimals
	pt := portable.NewToken(portable.TokenInput{
		Symbol:        tok.Tick,
		Name:          tok.Tick,
		Standard:      portable.StandardCustom,
		Type:          portable.Fungible,
		Chain:         chain,
		InscriptionID: tok.DeployRef.InscriptionID,
		Decimals:      &decimals,
		TotalSupply:   tok.Max,
		Issuer:        portable.Issuer{ID: tok.Deployer},
		Metadata:      portable.Metadata{Description: tok.Description, Image: tok.Icon},
	})
	if err := reg.RegisterToken(pt); err != nil {
		return nil, err
	}
	return pt, nil
}

// AttestHolding issues a portable proof for amount of tick, provided the
// holder's ledger balance covers it. Reserved (transferable) balance counts.
func AttestHolding(ctx context.Context, l *ledger.Ledger, m *portable.Manager, tokenID, tick, holder string, amount *big.Int, sourceApp string, sign portable.SignFunc) (*portable.Proof, error) {
	bal, ok := l.Balance(tick, holder)
	if !ok || bal.Total().Cmp(amount) < 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrInsufficientHolding, holder, tick)
	}
	return m.CreateProof(ctx, tokenID, holder, amount, sourceApp, sign)
}
