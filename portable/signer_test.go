package portable

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestEthereumVerifier(t *testing.T) {
	require := require.New(t)

	key, err := crypto.GenerateKey()
	require.NoError(err)
	holder := crypto.PubkeyToAddress(key.PublicKey).Hex()

	sig, err := KeySigner(key)(context.Background(), "hello")
	require.NoError(err)
	raw, err := hexutil.Decode(sig)
	require.NoError(err)
	require.Len(raw, crypto.SignatureLength)
	require.Contains([]byte{27, 28}, raw[crypto.RecoveryIDOffset])

	v := EthereumVerifier{}
	require.NoError(v.VerifySignature("hello", holder, sig))
	require.ErrorIs(v.VerifySignature("hello!", holder, sig), ErrInvalidSignature)
	require.ErrorIs(v.VerifySignature("hello", "0x0000000000000000000000000000000000000001", sig), ErrInvalidSignature)
	require.ErrorIs(v.VerifySignature("hello", "not-an-address", sig), ErrInvalidSignature)
	require.ErrorIs(v.VerifySignature("hello", holder, "0x1234"), ErrInvalidSignature)
}
