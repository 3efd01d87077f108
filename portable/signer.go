package portable

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidSignature = errors.New("invalid signature")

// SignFunc signs the canonical proof message on behalf of the holder. It may
// block on a wallet; cancellation is left to ctx.
type SignFunc func(ctx context.Context, message string) (string, error)

// SignatureVerifier checks that signature over message was produced by holder.
type SignatureVerifier interface {
	VerifySignature(message, holder, signature string) error
}

// KeySigner signs messages as an EIP-191 personal message with key, returning
// the 65-byte signature hex encoded with a 27/28 recovery id.
func KeySigner(key *ecdsa.PrivateKey) SignFunc {
	return func(ctx context.Context, message string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
		if err != nil {
			return "", err
		}
		sig[crypto.RecoveryIDOffset] += 27
		return hexutil.Encode(sig), nil
	}
}

// EthereumVerifier recovers the signer of an EIP-191 personal message and
// compares it against the holder address.
type EthereumVerifier struct{}

func (EthereumVerifier) VerifySignature(message, holder, signature string) error {
	if !common.IsHexAddress(holder) {
		return ErrInvalidSignature
	}
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return ErrInvalidSignature
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return ErrInvalidSignature
	}
	signer := crypto.PubkeyToAddress(*pub)
	if !strings.EqualFold(signer.Hex(), common.HexToAddress(holder).Hex()) {
		return ErrInvalidSignature
	}
	return nil
}
