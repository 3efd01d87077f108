package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
)

var (
	ErrSupplyMismatch   = errors.New("circulating supply does not match holder totals")
	ErrNegativeBalance  = errors.New("negative balance")
	ErrMintedOverMax    = errors.New("minted exceeds max")
	ErrStateMismatch    = errors.New("token state does not match minted supply")
	ErrReservedMismatch = errors.New("transferable balance does not match open intents")
)

func (l *Ledger) Token(tick string) (*Token, bool) {
	tick = NormalizeTick(tick)
	l.locks.RLock(tick)
	defer l.locks.RUnlock(tick)

	b := l.book(tick)
	if b == nil {
		return nil, false
	}
	return b.token.clone(), true
}

// Tokens returns every deployed token ordered by tick.
func (l *Ledger) Tokens() []*Token {
	ticks := l.ticks()
	out := make([]*Token, 0, len(ticks))
	for _, tick := range ticks {
		if tok, ok := l.Token(tick); ok {
			out = append(out, tok)
		}
	}
	return out
}

func (l *Ledger) Balance(tick, address string) (*Balance, bool) {
	tick = NormalizeTick(tick)
	l.locks.RLock(tick)
	defer l.locks.RUnlock(tick)

	b := l.book(tick)
	if b == nil {
		return nil, false
	}
	bal, ok := b.balances[address]
	if !ok {
		return nil, false
	}
	return bal.clone(), true
}

// Balances returns the non-empty balances of address across all ticks.
func (l *Ledger) Balances(address string) []*Balance {
	var out []*Balance
	for _, tick := range l.ticks() {
		bal, ok := l.Balance(tick, address)
		if ok && bal.Total().Sign() > 0 {
			out = append(out, bal)
		}
	}
	return out
}

// Holders returns every balance row of tick, largest total first.
func (l *Ledger) Holders(tick string) []*Balance {
	tick = NormalizeTick(tick)
	l.locks.RLock(tick)
	b := l.book(tick)
	if b == nil {
		l.locks.RUnlock(tick)
		return nil
	}
	out := make([]*Balance, 0, len(b.balances))
	for _, bal := range b.balances {
		out = append(out, bal.clone())
	}
	l.locks.RUnlock(tick)

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total().Cmp(out[j].Total()); c != 0 {
			return c > 0
		}
		return out[i].Address < out[j].Address
	})
	return out
}

func (l *Ledger) Intent(id string) (*TransferIntent, bool) {
	l.mu.RLock()
	tick, ok := l.intents[id]
	l.mu.RUnlock()
	if !ok {
		return nil, false
	}

	l.locks.RLock(tick)
	defer l.locks.RUnlock(tick)
	return l.book(tick).intents[id].clone(), true
}

// Events returns events newest first. An empty tick selects all ticks and a
// non-positive limit returns everything.
func (l *Ledger) Events(tick string, limit int) []*Event {
	ticks := l.ticks()
	if tick != "" {
		ticks = []string{NormalizeTick(tick)}
	}

	var out []*Event
	for _, t := range ticks {
		l.locks.RLock(t)
		if b := l.book(t); b != nil {
			for _, e := range b.events {
				out = append(out, e.clone())
			}
		}
		l.locks.RUnlock(t)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (l *Ledger) CirculatingSupply(tick string) (*big.Int, bool) {
	tok, ok := l.Token(tick)
	if !ok {
		return nil, false
	}
	return tok.Circulating(), true
}

// Audit checks the ledger-wide invariants for every tick: minted - burned
// equals the sum of holder totals, no balance field is negative, reserved
// balances match open intents, and the token state follows minted supply.
func (l *Ledger) Audit() error {
	for _, tick := range l.ticks() {
		if err := l.auditTick(tick); err != nil {
			return fmt.Errorf("tick %s: %w", tick, err)
		}
	}
	return nil
}

func (l *Ledger) auditTick(tick string) error {
	l.locks.RLock(tick)
	defer l.locks.RUnlock(tick)

	b := l.book(tick)
	tok := b.token

	if tok.Minted.Cmp(tok.Max) > 0 {
		return fmt.Errorf("%w: minted=%s max=%s", ErrMintedOverMax, tok.Minted, tok.Max)
	}
	if completed := tok.Minted.Cmp(tok.Max) == 0; completed != (tok.State == StateCompleted) {
		return fmt.Errorf("%w: state=%s minted=%s max=%s", ErrStateMismatch, tok.State, tok.Minted, tok.Max)
	}

	reserved := make(map[string]*big.Int)
	for _, in := range b.intents {
		if in.Status != IntentInscribed {
			continue
		}
		if reserved[in.From] == nil {
			reserved[in.From] = new(big.Int)
		}
		reserved[in.From].Add(reserved[in.From], in.Amount)
	}

	sum := new(big.Int)
	for addr, bal := range b.balances {
		if bal.Available.Sign() < 0 || bal.Transferable.Sign() < 0 {
			return fmt.Errorf("%w: %s available=%s transferable=%s", ErrNegativeBalance, addr, bal.Available, bal.Transferable)
		}
		want := reserved[addr]
		if want == nil {
			want = new(big.Int)
		}
		if bal.Transferable.Cmp(want) != 0 {
			return fmt.Errorf("%w: %s transferable=%s open=%s", ErrReservedMismatch, addr, bal.Transferable, want)
		}
		sum.Add(sum, bal.Available)
		sum.Add(sum, bal.Transferable)
	}

	if circulating := tok.Circulating(); circulating.Cmp(sum) != 0 {
		return fmt.Errorf("%w: circulating=%s holders=%s", ErrSupplyMismatch, circulating, sum)
	}
	return nil
}

func (l *Ledger) ticks() []string {
	l.mu.RLock()
	ticks := make([]string, 0, len(l.books))
	for tick := range l.books {
		ticks = append(ticks, tick)
	}
	l.mu.RUnlock()

	sort.Strings(ticks)
	return ticks
}
