// Package ledger tracks supply, balances and two-phase transfers of
// inscription-based fungible tokens.
//
// Every mutating call returns a Code instead of an error so a caller replaying
// a stream of observed inscriptions can skip invalid entries and keep going.
// Each tick owns its own book; operations on one tick are serialized by a
// per-tick lock, operations on different ticks proceed in parallel.
package ledger

import (
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"tokenomics-kernel/utils/lockmap"
)

type book struct {
	token    *Token
	balances map[string]*Balance
	intents  map[string]*TransferIntent
	events   []*Event
}

type Ledger struct {
	mu      sync.RWMutex
	books   map[string]*book
	intents map[string]string // intent id -> tick

	locks *lockmap.Lockmap
	seq   atomic.Uint64

	now func() time.Time
	log logrus.FieldLogger
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Ledger) {
		l.log = log
	}
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		books:   make(map[string]*book),
		intents: make(map[string]string),
		locks:   lockmap.New(16),
		now:     time.Now,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NormalizeTick lowercases and trims a tick the way it is keyed.
func NormalizeTick(tick string) string {
	return strings.ToLower(strings.TrimSpace(tick))
}

// Deploy creates a token. A positive SelfMint is credited to deployer
// immediately and counts toward minted and holders.
func (l *Ledger) Deploy(d Deployment, ref Ref, deployer string) (*Token, Code) {
	tick := NormalizeTick(d.Tick)
	if err := ValidateTick(tick); err != nil {
		return nil, l.reject("deploy", tick, CodeInvalidTick)
	}
	if d.Max == nil || d.Max.Sign() <= 0 {
		return nil, l.reject("deploy", tick, CodeInvalidAmount)
	}
	limit := d.Limit
	if limit == nil {
		limit = d.Max
	}
	if limit.Sign() <= 0 {
		return nil, l.reject("deploy", tick, CodeInvalidAmount)
	}
	selfMint := d.SelfMint
	if selfMint == nil {
		selfMint = new(big.Int)
	}
	if selfMint.Sign() < 0 {
		return nil, l.reject("deploy", tick, CodeInvalidAmount)
	}
	if selfMint.Cmp(d.Max) > 0 {
		return nil, l.reject("deploy", tick, CodeSelfMintOverMax)
	}
	if d.Decimals < 0 || d.Decimals > MaxDecimals {
		return nil, l.reject("deploy", tick, CodeInvalidDecimals)
	}

	l.locks.Lock(tick)
	defer l.locks.Unlock(tick)

	now := l.now()
	tok := &Token{
		Tick:         tick,
		Max:          new(big.Int).Set(d.Max),
		Limit:        new(big.Int).Set(limit),
		Decimals:     d.Decimals,
		Minted:       new(big.Int),
		Burned:       new(big.Int),
		State:        StateActive,
		Deployer:     deployer,
		DeployRef:    ref,
		SelfMint:     new(big.Int).Set(selfMint),
		Description:  d.Description,
		Icon:         d.Icon,
		Capabilities: d.Capabilities,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	b := &book{
		token:    tok,
		balances: make(map[string]*Balance),
		intents:  make(map[string]*TransferIntent),
	}

	l.mu.Lock()
	if _, exists := l.books[tick]; exists {
		l.mu.Unlock()
		return nil, l.reject("deploy", tick, CodeTokenDeployed)
	}
	l.books[tick] = b
	l.mu.Unlock()

	if selfMint.Sign() > 0 {
		l.issue(b, selfMint, deployer, ref, now)
	}

	l.log.WithFields(logrus.Fields{
		"tick":     tick,
		"max":      tok.Max.String(),
		"limit":    tok.Limit.String(),
		"selfMint": selfMint.String(),
		"deployer": deployer,
	}).Info("token deployed")
	return tok.clone(), CodeOK
}

func (l *Ledger) Mint(tick string, amount *big.Int, minter string, ref Ref) Code {
	tick = NormalizeTick(tick)
	if amount == nil || amount.Sign() <= 0 {
		return l.reject("mint", tick, CodeInvalidAmount)
	}

	l.locks.Lock(tick)
	defer l.locks.Unlock(tick)

	b := l.book(tick)
	if b == nil {
		return l.reject("mint", tick, CodeTokenNotExists)
	}
	tok := b.token
	if tok.State != StateActive {
		return l.reject("mint", tick, CodeTokenCompleted)
	}
	if !tok.Capabilities.Mintable {
		return l.reject("mint", tick, CodeNotMintable)
	}
	if amount.Cmp(tok.Limit) > 0 {
		return l.reject("mint", tick, CodeOverLimit)
	}
	if new(big.Int).Add(tok.Minted, amount).Cmp(tok.Max) > 0 {
		return l.reject("mint", tick, CodeOverTotalLimit)
	}

	l.issue(b, amount, minter, ref, l.now())
	return CodeOK
}

// issue credits newly minted supply; the caller holds the tick lock and has
// checked the cap.
func (l *Ledger) issue(b *book, amount *big.Int, to string, ref Ref, now time.Time) {
	tok := b.token
	tok.Minted.Add(tok.Minted, amount)
	tok.Trxs++
	tok.UpdatedAt = now
	if tok.Minted.Cmp(tok.Max) == 0 {
		tok.State = StateCompleted
		tok.CompletedAt = now
		l.log.WithField("tick", tok.Tick).Info("token mint completed")
	}

	l.credit(b, to, amount, now)
	l.record(b, &Event{
		Type:      EventMint,
		Tick:      tok.Tick,
		Amount:    new(big.Int).Set(amount),
		To:        to,
		Ref:       ref,
		Timestamp: now,
	})
}

// InscribeTransfer reserves amount of sender's available balance under a new
// intent. The intent id is ref.InscriptionID, or a generated id when empty.
// recipient may be empty, in which case it is resolved on execute.
func (l *Ledger) InscribeTransfer(tick string, amount *big.Int, sender, recipient string, ref Ref) (*TransferIntent, Code) {
	tick = NormalizeTick(tick)
	if amount == nil || amount.Sign() <= 0 {
		return nil, l.reject("inscribe", tick, CodeInvalidAmount)
	}

	l.locks.Lock(tick)
	defer l.locks.Unlock(tick)

	b := l.book(tick)
	if b == nil {
		return nil, l.reject("inscribe", tick, CodeTokenNotExists)
	}
	if !b.token.Capabilities.Transferable {
		return nil, l.reject("inscribe", tick, CodeNotTransferable)
	}
	bal, ok := b.balances[sender]
	if !ok || bal.Available.Cmp(amount) < 0 {
		return nil, l.reject("inscribe", tick, CodeBalanceNotSatisfied)
	}

	id := ref.InscriptionID
	if id == "" {
		id = uuid.NewString()
	}
	l.mu.Lock()
	if _, dup := l.intents[id]; dup {
		l.mu.Unlock()
		return nil, l.reject("inscribe", tick, CodeIntentExists)
	}
	l.intents[id] = tick
	l.mu.Unlock()

	now := l.now()
	bal.Available.Sub(bal.Available, amount)
	bal.Transferable.Add(bal.Transferable, amount)
	bal.UpdatedAt = now

	intent := &TransferIntent{
		ID:          id,
		Tick:        tick,
		Amount:      new(big.Int).Set(amount),
		From:        sender,
		To:          recipient,
		Status:      IntentInscribed,
		InscribeRef: ref,
		InscribedAt: now,
	}
	b.intents[id] = intent
	return intent.clone(), CodeOK
}

// ExecuteTransfer settles an inscribed intent. The intent's fixed recipient
// wins over fallback. An intent executes at most once.
func (l *Ledger) ExecuteTransfer(id, fallback string, ref Ref) Code {
	l.mu.RLock()
	tick, ok := l.intents[id]
	l.mu.RUnlock()
	if !ok {
		return l.reject("execute", id, CodeIntentNotExists)
	}

	l.locks.Lock(tick)
	defer l.locks.Unlock(tick)

	b := l.book(tick)
	if b == nil {
		return l.reject("execute", tick, CodeIntentNotExists)
	}
	intent, ok := b.intents[id]
	if !ok {
		return l.reject("execute", tick, CodeIntentNotExists)
	}
	if intent.Status != IntentInscribed {
		return l.reject("execute", tick, CodeIntentTransferred)
	}
	to := intent.To
	if to == "" {
		to = fallback
	}
	if to == "" {
		return l.reject("execute", tick, CodeRecipientMissing)
	}

	now := l.now()
	sender := b.balances[intent.From]
	sender.Transferable.Sub(sender.Transferable, intent.Amount)
	sender.UpdatedAt = now
	l.credit(b, to, intent.Amount, now)

	intent.Status = IntentTransferred
	intent.To = to
	intent.ExecuteRef = ref
	intent.TransferredAt = now

	b.token.Trxs++
	b.token.UpdatedAt = now
	l.record(b, &Event{
		Type:      EventTransfer,
		Tick:      tick,
		Amount:    new(big.Int).Set(intent.Amount),
		From:      intent.From,
		To:        to,
		Ref:       ref,
		Timestamp: now,
	})
	return CodeOK
}

func (l *Ledger) Burn(tick string, amount *big.Int, holder string, ref Ref) Code {
	tick = NormalizeTick(tick)
	if amount == nil || amount.Sign() <= 0 {
		return l.reject("burn", tick, CodeInvalidAmount)
	}

	l.locks.Lock(tick)
	defer l.locks.Unlock(tick)

	b := l.book(tick)
	if b == nil {
		return l.reject("burn", tick, CodeTokenNotExists)
	}
	if !b.token.Capabilities.Burnable {
		return l.reject("burn", tick, CodeNotBurnable)
	}
	bal, ok := b.balances[holder]
	if !ok || bal.Available.Cmp(amount) < 0 {
		return l.reject("burn", tick, CodeBalanceNotSatisfied)
	}

	now := l.now()
	bal.Available.Sub(bal.Available, amount)
	bal.UpdatedAt = now

	tok := b.token
	tok.Burned.Add(tok.Burned, amount)
	tok.Trxs++
	tok.UpdatedAt = now
	l.record(b, &Event{
		Type:      EventBurn,
		Tick:      tick,
		Amount:    new(big.Int).Set(amount),
		From:      holder,
		Ref:       ref,
		Timestamp: now,
	})
	return CodeOK
}

func (l *Ledger) book(tick string) *book {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.books[tick]
}

// credit adds to address's available balance, creating the row (and counting
// a new holder) on first receipt.
func (l *Ledger) credit(b *book, address string, amount *big.Int, now time.Time) {
	bal, ok := b.balances[address]
	if !ok {
		bal = &Balance{
			Tick:         b.token.Tick,
			Address:      address,
			Available:    new(big.Int),
			Transferable: new(big.Int),
		}
		b.balances[address] = bal
		b.token.Holders++
	}
	bal.Available.Add(bal.Available, amount)
	bal.UpdatedAt = now
}

func (l *Ledger) record(b *book, e *Event) {
	e.Seq = l.seq.Inc()
	b.events = append(b.events, e)
}

func (l *Ledger) reject(op, tick string, code Code) Code {
	l.log.WithFields(logrus.Fields{
		"op":   op,
		"tick": tick,
		"code": int(code),
	}).Debugf("ledger rejected: %s", code)
	return code
}
