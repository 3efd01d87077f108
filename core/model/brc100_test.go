package model

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"tokenomics-kernel/ledger"
)

func TestBuildersSerialize(t *testing.T) {
	require := require.New(t)

	dec := 8
	no := false
	deploy := NewDeploy(DeployOptions{
		Tick:       "ABCD",
		Max:        big.NewInt(21_000_000),
		Limit:      big.NewInt(1_000),
		Decimals:   &dec,
		SelfMint:   big.NewInt(0),
		Attributes: &Attributes{Burnable: &no},
	})
	s, err := deploy.Serialize()
	require.NoError(err)
	require.Equal(`{"p":"brc-100","op":"deploy","tick":"abcd","max":"21000000","lim":"1000","dec":"8","attr":{"burnable":false}}`, s)

	s, err = NewMint("abcd", big.NewInt(1000)).Serialize()
	require.NoError(err)
	require.Equal(`{"p":"brc-100","op":"mint","tick":"abcd","amt":"1000"}`, s)

	s, err = NewTransfer("ABCD", big.NewInt(5), "").Serialize()
	require.NoError(err)
	require.Equal(`{"p":"brc-100","op":"transfer","tick":"abcd","amt":"5"}`, s)

	s, err = NewTransfer("abcd", big.NewInt(5), "0xbob").Serialize()
	require.NoError(err)
	require.Equal(`{"p":"brc-100","op":"transfer","tick":"abcd","amt":"5","to":"0xbob"}`, s)

	s, err = NewBurn("abcd", big.NewInt(7)).Serialize()
	require.NoError(err)
	require.Equal(`{"p":"brc-100","op":"burn","tick":"abcd","amt":"7"}`, s)
}

func TestParseInscription(t *testing.T) {
	require := require.New(t)

	b, err := ParseInscription(` {"p":"BRC-100","op":"Deploy","tick":"ordi","max":"1000","lim":"100","dec":"2","self":"10","desc":"d","attr":{"mintable":true,"transferable":false},"extra":5} `)
	require.NoError(err)
	require.Equal(OperationDeploy, b.Op)
	require.Equal("ordi", b.Tick)
	require.NotNil(b.Attr)
	require.True(*b.Attr.Mintable)
	require.False(*b.Attr.Transferable)
	require.Nil(b.Attr.Burnable)

	d, code := b.Deployment()
	require.Equal(ValidCodeOK, code)
	require.Equal(int64(1000), d.Max.Int64())
	require.Equal(int64(100), d.Limit.Int64())
	require.Equal(int64(10), d.SelfMint.Int64())
	require.Equal(2, d.Decimals)
	require.Equal("d", d.Description)
	require.Equal(ledger.Capabilities{Mintable: true, Burnable: true, Transferable: false}, d.Capabilities)

	// numbers are not decimal strings and are ignored
	b, err = ParseInscription(`{"p":"brc-100","op":"mint","tick":"ordi","amt":100}`)
	require.NoError(err)
	_, code = b.Amount()
	require.Equal(ValidCodeAmountNotExists, code)

	_, err = ParseInscription(`{"p":"brc-20","op":"mint"}`)
	require.ErrorIs(err, ErrNotProtocol)
	_, err = ParseInscription(`{"p":`)
	require.ErrorIs(err, ErrMalformed)
	_, err = ParseInscription(`hello`)
	require.ErrorIs(err, ErrMalformed)
}

func TestDeploymentCodes(t *testing.T) {
	tests := []struct {
		name string
		b    BRC100
		code ValideCode
	}{
		{name: "missing max", b: BRC100{Tick: "abcd"}, code: ValidCodeWrongMax},
		{name: "fractional max", b: BRC100{Tick: "abcd", Max: "1.5"}, code: ValidCodeWrongMax},
		{name: "bad limit", b: BRC100{Tick: "abcd", Max: "10", Lim: "x"}, code: ValidCodeWrongLimit},
		{name: "bad decimals", b: BRC100{Tick: "abcd", Max: "10", Dec: "eight"}, code: ValideCodeWrongPrecision},
		{name: "bad self mint", b: BRC100{Tick: "abcd", Max: "10", Self: "1e3"}, code: ValidCodeWrongSelfMint},
		{name: "defaults", b: BRC100{Tick: "abcd", Max: "10"}, code: ValidCodeOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, code := tt.b.Deployment()
			require.Equal(t, tt.code, code)
			if code == ValidCodeOK {
				require.Nil(t, d.Limit)
				require.Equal(t, ledger.DefaultDecimals, d.Decimals)
				require.Equal(t, ledger.DefaultCapabilities(), d.Capabilities)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	amt, code := (&BRC100{Amt: " 250 "}).Amount()
	require.Equal(t, ValidCodeOK, code)
	require.Equal(t, int64(250), amt.Int64())

	_, code = (&BRC100{Amt: "2.5"}).Amount()
	require.Equal(t, ValidCodeAmountError, code)
	_, code = (&BRC100{}).Amount()
	require.Equal(t, ValidCodeAmountNotExists, code)
}

func TestValideCodeString(t *testing.T) {
	require.Equal(t, "Empty tick", ValidCodeEmptyTick.String())
	require.Equal(t, "Token minting completed", FromLedger(ledger.CodeTokenCompleted).String())
	require.Equal(t, "Operation successful", ValidCodeOK.String())
	require.Equal(t, "Unrecognized error code", ValideCode(-99).String())
}

func TestEncodeDataURI(t *testing.T) {
	require.Equal(t, "data:,hi", EncodeDataURI("", "hi"))
	require.Equal(t, "data:application/json,{}", EncodeDataURI("application/json", "{}"))
	require.Equal(t, "0xabc", (&Inscription{From: "0xABC"}).Owner())
	require.Equal(t, "0xdef", (&Inscription{From: "0xabc", To: "0xDEF"}).Owner())
}
