package portable

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newRegistryWithTokens(t *testing.T) (*Registry, *Token, *Token, *Token) {
	t.Helper()

	reg := NewRegistry()
	ordi := NewToken(TokenInput{Symbol: "ordi", Name: "Ordinals", Standard: StandardBRC20, Type: Fungible, Chain: ChainBitcoin, InscriptionID: "abc123i0"})
	usdc := NewToken(TokenInput{Symbol: "USDC", Name: "USD Coin", Standard: StandardERC20, Type: Fungible, Chain: ChainEthereum, ContractAddress: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", TotalSupply: big.NewInt(1_000_000)})
	punk := NewToken(TokenInput{Symbol: "PUNK", Name: "Punks", Standard: StandardERC721, Type: NonFungible, Chain: ChainEthereum})
	punk.Apps = []AppRegistration{{AppID: "gallery", Status: AppActive, Permissions: []Permission{PermissionRead}}}
	for _, tok := range []*Token{ordi, usdc, punk} {
		require.NoError(t, reg.RegisterToken(tok))
	}
	return reg, ordi, usdc, punk
}

func TestNewToken(t *testing.T) {
	fungible := NewToken(TokenInput{Symbol: "A", Type: Fungible, Issuer: Issuer{Name: "x", Verified: true}})
	require.True(t, strings.HasPrefix(fungible.ID, "token-"))
	require.Equal(t, 8, fungible.Decimals)
	require.False(t, fungible.Issuer.Verified)
	require.Equal(t, Unverified, fungible.Verification.Status)
	require.Empty(t, fungible.Apps)

	nft := NewToken(TokenInput{Symbol: "B", Type: NonFungible})
	require.Equal(t, 0, nft.Decimals)
	require.NotEqual(t, fungible.ID, nft.ID)

	six := 6
	require.Equal(t, 6, NewToken(TokenInput{Type: Fungible, Decimals: &six}).Decimals)
}

func TestRegistryLookups(t *testing.T) {
	require := require.New(t)

	reg, ordi, usdc, punk := newRegistryWithTokens(t)
	require.ErrorIs(reg.RegisterToken(&Token{}), ErrEmptyTokenID)

	got, ok := reg.TokenBySymbol("ORDI", "")
	require.True(ok)
	require.Equal(ordi.ID, got.ID)
	_, ok = reg.TokenBySymbol("ordi", ChainEthereum)
	require.False(ok)

	got, ok = reg.TokenByContract("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", ChainEthereum)
	require.True(ok)
	require.Equal(usdc.ID, got.ID)
	_, ok = reg.TokenByContract("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", ChainPolygon)
	require.False(ok)
	_, ok = reg.TokenByContract("", ChainEthereum)
	require.False(ok)

	eth := reg.TokensByChain(ChainEthereum)
	require.Len(eth, 2)
	require.Equal(usdc.ID, eth[0].ID)
	require.Equal(punk.ID, eth[1].ID)

	require.Len(reg.Tokens(), 3)
	require.Len(reg.TokensForApp("gallery"), 1)
	require.Empty(reg.TokensForApp("nobody"))

	// returned tokens are copies
	got.TotalSupply.SetInt64(1)
	got.Symbol = "MUT"
	again, _ := reg.Token(usdc.ID)
	require.Equal("USDC", again.Symbol)
	require.Equal(int64(1_000_000), again.TotalSupply.Int64())
}

func TestRegistryApps(t *testing.T) {
	require := require.New(t)

	reg, ordi, _, _ := newRegistryWithTokens(t)

	err := reg.RegisterApp("token-missing", AppRegistration{AppID: "x"})
	require.ErrorIs(err, ErrTokenNotFound)

	require.NoError(reg.RegisterApp(ordi.ID, AppRegistration{AppID: "wallet", Status: AppActive, Permissions: []Permission{PermissionRead}}))
	require.NoError(reg.RegisterApp(ordi.ID, AppRegistration{AppID: "wallet", Status: AppActive, Permissions: []Permission{PermissionRead, PermissionTransfer}}))

	tok, _ := reg.Token(ordi.ID)
	require.Len(tok.Apps, 1)
	require.Equal([]Permission{PermissionRead, PermissionTransfer}, tok.Apps[0].Permissions)

	reg.RevokeApp(ordi.ID, "wallet")
	reg.RevokeApp(ordi.ID, "unknown")
	reg.RevokeApp("token-missing", "wallet")
	tok, _ = reg.Token(ordi.ID)
	require.Equal(AppRevoked, tok.Apps[0].Status)
	require.Len(reg.TokensForApp("wallet"), 1)
}

func TestRegistryVerification(t *testing.T) {
	require := require.New(t)

	reg, ordi, usdc, punk := newRegistryWithTokens(t)
	ctx := context.Background()

	require.False(reg.VerifyToken(ctx, "token-missing"))

	// no verifier for brc-20
	require.True(reg.VerifyToken(ctx, ordi.ID))
	tok, _ := reg.Token(ordi.ID)
	require.Equal(Pending, tok.Verification.Status)

	reg.SetVerifier(StandardERC20, func(_ context.Context, tok *Token) (bool, error) {
		return tok.ContractAddress != "", nil
	})
	require.True(reg.VerifyToken(ctx, usdc.ID))
	tok, _ = reg.Token(usdc.ID)
	require.Equal(Verified, tok.Verification.Status)
	require.False(tok.Verification.VerifiedAt.IsZero())

	reg.SetVerifier(StandardERC721, func(context.Context, *Token) (bool, error) {
		return true, errors.New("rpc down")
	})
	require.False(reg.VerifyToken(ctx, punk.ID))
	tok, _ = reg.Token(punk.ID)
	require.Equal(Unverified, tok.Verification.Status)

	verified := reg.VerifiedTokens()
	require.Len(verified, 1)
	require.Equal(usdc.ID, verified[0].ID)

	stats := reg.Stats()
	require.Equal(3, stats.Total)
	require.Equal(1, stats.Verified)
	require.Equal(2, stats.ByChain[ChainEthereum])
	require.Equal(1, stats.ByChain[ChainBitcoin])
	require.Equal(1, stats.ByStandard[StandardERC721])
}
