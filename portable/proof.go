package portable

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ProofVersion = "1.0"
	// MaxProofAge is how long a proof stays acceptable after it was created.
	MaxProofAge = 5 * time.Minute
	nonceSize   = 16
)

type ProofToken struct {
	ID       string   `json:"id"`
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Standard Standard `json:"standard"`
	Chain    Chain    `json:"chain"`
	Contract string   `json:"contract,omitempty"`
}

type ProofHolder struct {
	Address   string `json:"address"`
	Signature string `json:"signature"`
}

// Proof is the portable document one application hands another to show that
// a holder owns an amount of a registered token.
type Proof struct {
	Version string      `json:"version"`
	Token   ProofToken  `json:"token"`
	Holder  ProofHolder `json:"holder"`
	// Amount is a base-unit decimal string.
	Amount string `json:"amount"`
	Nonce  string `json:"nonce"`
	// Timestamp is milliseconds since the Unix epoch.
	Timestamp int64  `json:"timestamp"`
	SourceApp string `json:"sourceApp"`
	Proof     string `json:"proof"`
}

type Manager struct {
	registry *Registry
	verifier SignatureVerifier
	now      func() time.Time
	log      logrus.FieldLogger
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithSignatureVerifier makes VerifyProof also check the holder signature
// over the canonical message. Without it only the digest is checked.
func WithSignatureVerifier(v SignatureVerifier) Option {
	return func(m *Manager) {
		m.verifier = v
	}
}

func NewManager(registry *Registry, opts ...Option) *Manager {
	m := &Manager{
		registry: registry,
		now:      time.Now,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateProof asks sign for a signature over the canonical message and binds
// it, with the plaintext fields, into a digest.
func (m *Manager) CreateProof(ctx context.Context, tokenID, holder string, amount *big.Int, sourceApp string, sign SignFunc) (*Proof, error) {
	token, ok := m.registry.Token(tokenID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid proof amount %v", amount)
	}
	nonce, err := newNonce()
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	timestamp := m.now().UnixMilli()
	amt := amount.String()

	signature, err := sign(ctx, signatureMessage(token.Symbol, token.ID, amt, holder, nonce, timestamp))
	if err != nil {
		return nil, fmt.Errorf("sign proof: %w", err)
	}

	return &Proof{
		Version: ProofVersion,
		Token: ProofToken{
			ID:       token.ID,
			Symbol:   token.Symbol,
			Name:     token.Name,
			Standard: token.Standard,
			Chain:    token.Chain,
			Contract: token.ContractAddress,
		},
		Holder: ProofHolder{
			Address:   holder,
			Signature: signature,
		},
		Amount:    amt,
		Nonce:     nonce,
		Timestamp: timestamp,
		SourceApp: sourceApp,
		Proof:     digest(token.ID, holder, amt, nonce, timestamp, signature),
	}, nil
}

// VerifyProof reports whether proof is current, names a registered token and
// carries a digest matching its own fields. Timestamps in the future pass.
func (m *Manager) VerifyProof(proof *Proof) bool {
	if proof == nil {
		return false
	}
	log := m.log.WithFields(logrus.Fields{
		"token":  proof.Token.ID,
		"holder": proof.Holder.Address,
	})
	if proof.Version != ProofVersion {
		log.Debugf("proof rejected: version %q", proof.Version)
		return false
	}
	if age := m.now().UnixMilli() - proof.Timestamp; age > MaxProofAge.Milliseconds() {
		log.Debugf("proof rejected: stale by %dms", age-MaxProofAge.Milliseconds())
		return false
	}
	token, ok := m.registry.Token(proof.Token.ID)
	if !ok {
		log.Debug("proof rejected: token not registered")
		return false
	}
	amount, ok := new(big.Int).SetString(proof.Amount, 10)
	if !ok {
		log.Debugf("proof rejected: amount %q", proof.Amount)
		return false
	}
	amt := amount.String()

	if digest(token.ID, proof.Holder.Address, amt, proof.Nonce, proof.Timestamp, proof.Holder.Signature) != proof.Proof {
		log.Debug("proof rejected: digest mismatch")
		return false
	}
	if m.verifier != nil {
		msg := signatureMessage(token.Symbol, token.ID, amt, proof.Holder.Address, proof.Nonce, proof.Timestamp)
		if err := m.verifier.VerifySignature(msg, proof.Holder.Address, proof.Holder.Signature); err != nil {
			log.WithError(err).Debug("proof rejected: signature")
			return false
		}
	}
	return true
}

// ImportProof verifies proof and, unless targetApp already holds an active
// registration on the token, registers it with read permission.
func (m *Manager) ImportProof(proof *Proof, targetApp string) (*Token, bool) {
	if !m.VerifyProof(proof) {
		return nil, false
	}
	token, ok := m.registry.Token(proof.Token.ID)
	if !ok {
		return nil, false
	}

	if app, ok := token.App(targetApp); ok && app.Status == AppActive {
		return token, true
	}
	err := m.registry.RegisterApp(token.ID, AppRegistration{
		AppID:        targetApp,
		AppName:      targetApp,
		Domain:       targetApp,
		RegisteredAt: m.now(),
		Permissions:  []Permission{PermissionRead},
		Status:       AppActive,
	})
	if err != nil {
		m.log.WithError(err).Warn("import proof")
		return nil, false
	}
	m.log.WithFields(logrus.Fields{
		"token": token.ID,
		"app":   targetApp,
	}).Info("app registered from imported proof")

	token, ok = m.registry.Token(proof.Token.ID)
	return token, ok
}

func signatureMessage(symbol, tokenID, amount, holder, nonce string, timestamp int64) string {
	return strings.Join([]string{
		"Cross-App Token Transfer",
		"Token: " + symbol + " (" + tokenID + ")",
		"Amount: " + amount,
		"Holder: " + holder,
		"Nonce: " + nonce,
		"Timestamp: " + strconv.FormatInt(timestamp, 10),
	}, "\n")
}

func newNonce() (string, error) {
	b := make([]byte, nonceSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
