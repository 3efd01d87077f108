// Package portable keeps a registry of tokens known across applications and
// issues short-lived proofs that a holder owns an amount of one of them.
package portable

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrEmptyTokenID  = errors.New("token id is empty")
)

type Standard string

const (
	StandardBSV20    Standard = "bsv-20"
	StandardBSV21    Standard = "bsv-21"
	StandardBRC20    Standard = "brc-20"
	StandardERC20    Standard = "erc-20"
	StandardERC721   Standard = "erc-721"
	StandardERC1155  Standard = "erc-1155"
	StandardSPL      Standard = "spl"
	StandardMetaplex Standard = "metaplex"
	StandardOrdinals Standard = "ordinals"
	StandardCustom   Standard = "custom"
)

type TokenType string

const (
	Fungible     TokenType = "fungible"
	NonFungible  TokenType = "non-fungible"
	SemiFungible TokenType = "semi-fungible"
)

type Chain string

const (
	ChainBSV      Chain = "bsv"
	ChainBitcoin  Chain = "bitcoin"
	ChainEthereum Chain = "ethereum"
	ChainSolana   Chain = "solana"
	ChainPolygon  Chain = "polygon"
	ChainBase     Chain = "base"
)

type VerificationStatus string

const (
	Unverified VerificationStatus = "unverified"
	Pending    VerificationStatus = "pending"
	Verified   VerificationStatus = "verified"
	Trusted    VerificationStatus = "trusted"
	Revoked    VerificationStatus = "revoked"
)

type Permission string

const (
	PermissionRead     Permission = "read"
	PermissionTransfer Permission = "transfer"
	PermissionBurn     Permission = "burn"
	PermissionMint     Permission = "mint"
	PermissionMetadata Permission = "metadata"
	PermissionAdmin    Permission = "admin"
)

type AppStatus string

const (
	AppActive    AppStatus = "active"
	AppSuspended AppStatus = "suspended"
	AppRevoked   AppStatus = "revoked"
)

type Issuer struct {
	ID        string
	Name      string
	Domain    string
	PublicKey string
	Verified  bool
}

type Attribute struct {
	TraitType   string
	Value       string
	DisplayType string
}

type Metadata struct {
	Description string
	Image       string
	ExternalURL string
	Attributes  []Attribute
}

type Verification struct {
	Status     VerificationStatus
	VerifiedAt time.Time
	VerifiedBy string
	Signature  string
	ProofURL   string
	ExpiresAt  time.Time
}

type AppRegistration struct {
	AppID        string
	AppName      string
	Domain       string
	RegisteredAt time.Time
	Permissions  []Permission
	Status       AppStatus
	CallbackURL  string
}

type Token struct {
	ID              string
	Symbol          string
	Name            string
	Standard        Standard
	Type            TokenType
	Chain           Chain
	ContractAddress string
	InscriptionID   string
	Decimals        int
	// TotalSupply is nil when unknown.
	TotalSupply  *big.Int
	Issuer       Issuer
	Metadata     Metadata
	Verification Verification
	Apps         []AppRegistration
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// App returns the registration of appID, if any.
func (t *Token) App(appID string) (AppRegistration, bool) {
	for _, app := range t.Apps {
		if app.AppID == appID {
			return app, true
		}
	}
	return AppRegistration{}, false
}

func (t *Token) clone() *Token {
	c := *t
	if t.TotalSupply != nil {
		c.TotalSupply = new(big.Int).Set(t.TotalSupply)
	}
	c.Metadata.Attributes = append([]Attribute(nil), t.Metadata.Attributes...)
	c.Apps = make([]AppRegistration, len(t.Apps))
	for i, app := range t.Apps {
		app.Permissions = append([]Permission(nil), app.Permissions...)
		c.Apps[i] = app
	}
	return &c
}

type TokenInput struct {
	Symbol          string
	Name            string
	Standard        Standard
	Type            TokenType
	Chain           Chain
	ContractAddress string
	InscriptionID   string
	// Decimals defaults to 8 for fungible tokens and 0 otherwise.
	Decimals    *int
	TotalSupply *big.Int
	Issuer      Issuer
	Metadata    Metadata
}

// NewToken builds an unverified token with a fresh id and no app
// registrations.
func NewToken(in TokenInput) *Token {
	decimals := 0
	if in.Type == Fungible {
		decimals = 8
	}
	if in.Decimals != nil {
		decimals = *in.Decimals
	}
	issuer := in.Issuer
	issuer.Verified = false

	now := time.Now()
	return &Token{
		ID:              "token-" + uuid.NewString(),
		Symbol:          in.Symbol,
		Name:            in.Name,
		Standard:        in.Standard,
		Type:            in.Type,
		Chain:           in.Chain,
		ContractAddress: in.ContractAddress,
		InscriptionID:   in.InscriptionID,
		Decimals:        decimals,
		TotalSupply:     in.TotalSupply,
		Issuer:          issuer,
		Metadata:        in.Metadata,
		Verification:    Verification{Status: Unverified},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// VerifyFunc decides whether a token is genuine, typically by asking the
// chain it lives on.
type VerifyFunc func(ctx context.Context, token *Token) (bool, error)

type Registry struct {
	mu        sync.RWMutex
	tokens    map[string]*Token
	order     []string
	appTokens map[string]map[string]struct{}
	verifiers map[Standard]VerifyFunc
	now       func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		tokens:    make(map[string]*Token),
		appTokens: make(map[string]map[string]struct{}),
		verifiers: make(map[Standard]VerifyFunc),
		now:       time.Now,
	}
}

// RegisterToken stores a copy of token, replacing any token with the same id.
func (r *Registry) RegisterToken(token *Token) error {
	if token.ID == "" {
		return ErrEmptyTokenID
	}
	t := token.clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.tokens[t.ID] = t
	for _, app := range t.Apps {
		r.index(app.AppID, t.ID)
	}
	return nil
}

func (r *Registry) Token(id string) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[id]
	if !ok {
		return nil, false
	}
	return t.clone(), true
}

// TokenBySymbol matches symbol case-insensitively. An empty chain matches any
// chain.
func (r *Registry) TokenBySymbol(symbol string, chain Chain) (*Token, bool) {
	return r.find(func(t *Token) bool {
		return strings.EqualFold(t.Symbol, symbol) && (chain == "" || t.Chain == chain)
	})
}

func (r *Registry) TokenByContract(address string, chain Chain) (*Token, bool) {
	return r.find(func(t *Token) bool {
		return t.Chain == chain && t.ContractAddress != "" && strings.EqualFold(t.ContractAddress, address)
	})
}

// TokensForApp returns every token appID was ever registered with, including
// revoked registrations.
func (r *Registry) TokensForApp(appID string) []*Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.appTokens[appID]
	var out []*Token
	for _, id := range r.order {
		if _, ok := ids[id]; ok {
			out = append(out, r.tokens[id].clone())
		}
	}
	return out
}

func (r *Registry) TokensByChain(chain Chain) []*Token {
	return r.filter(func(t *Token) bool { return t.Chain == chain })
}

// VerifiedTokens returns tokens whose status is verified or trusted.
func (r *Registry) VerifiedTokens() []*Token {
	return r.filter(isVerified)
}

// Tokens returns every token in registration order.
func (r *Registry) Tokens() []*Token {
	return r.filter(func(*Token) bool { return true })
}

// RegisterApp adds app to the token, replacing an earlier registration of the
// same app id.
func (r *Registry) RegisterApp(tokenID string, app AppRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	app.Permissions = append([]Permission(nil), app.Permissions...)

	replaced := false
	for i := range t.Apps {
		if t.Apps[i].AppID == app.AppID {
			t.Apps[i] = app
			replaced = true
			break
		}
	}
	if !replaced {
		t.Apps = append(t.Apps, app)
	}
	r.index(app.AppID, tokenID)
	t.UpdatedAt = r.now()
	return nil
}

// RevokeApp marks the app's registration revoked. Unknown tokens and apps are
// ignored.
func (r *Registry) RevokeApp(tokenID, appID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenID]
	if !ok {
		return
	}
	for i := range t.Apps {
		if t.Apps[i].AppID == appID {
			t.Apps[i].Status = AppRevoked
			t.UpdatedAt = r.now()
			return
		}
	}
}

// SetVerifier installs the verification callback used for tokens of standard.
func (r *Registry) SetVerifier(standard Standard, fn VerifyFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifiers[standard] = fn
}

// VerifyToken runs the verifier registered for the token's standard. Without
// one the token is marked pending and true is returned. A verifier error
// counts as a failed verification.
func (r *Registry) VerifyToken(ctx context.Context, tokenID string) bool {
	r.mu.RLock()
	t, ok := r.tokens[tokenID]
	var (
		fn       VerifyFunc
		snapshot *Token
	)
	if ok {
		fn = r.verifiers[t.Standard]
		snapshot = t.clone()
	}
	r.mu.RUnlock()
	if !ok {
		return false
	}

	if fn == nil {
		r.setVerification(tokenID, Pending)
		return true
	}

	// the callback may block on the network, so it runs without the lock
	verified, err := fn(ctx, snapshot)
	if err != nil || !verified {
		r.setVerification(tokenID, Unverified)
		return false
	}
	r.setVerification(tokenID, Verified)
	return true
}

func (r *Registry) setVerification(tokenID string, status VerificationStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenID]
	if !ok {
		return
	}
	now := r.now()
	t.Verification.Status = status
	t.Verification.VerifiedAt = time.Time{}
	if status == Verified {
		t.Verification.VerifiedAt = now
	}
	t.UpdatedAt = now
}

type Stats struct {
	Total      int
	ByChain    map[Chain]int
	ByStandard map[Standard]int
	Verified   int
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		Total:      len(r.tokens),
		ByChain:    make(map[Chain]int),
		ByStandard: make(map[Standard]int),
	}
	for _, t := range r.tokens {
		s.ByChain[t.Chain]++
		s.ByStandard[t.Standard]++
		if isVerified(t) {
			s.Verified++
		}
	}
	return s
}

// index must be called with mu held.
func (r *Registry) index(appID, tokenID string) {
	ids, ok := r.appTokens[appID]
	if !ok {
		ids = make(map[string]struct{})
		r.appTokens[appID] = ids
	}
	ids[tokenID] = struct{}{}
}

func (r *Registry) find(match func(*Token) bool) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if t := r.tokens[id]; match(t) {
			return t.clone(), true
		}
	}
	return nil, false
}

func (r *Registry) filter(match func(*Token) bool) []*Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Token
	for _, id := range r.order {
		if t := r.tokens[id]; match(t) {
			out = append(out, t.clone())
		}
	}
	return out
}

func isVerified(t *Token) bool {
	return t.Verification.Status == Verified || t.Verification.Status == Trusted
}
