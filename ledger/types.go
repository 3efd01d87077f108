package ledger

import (
	"math/big"
	"time"
)

type State string

const (
	StateActive State = "active"
	// StateCompleted is terminal: minted == max and mint is closed for good.
	StateCompleted State = "completed"
)

type IntentStatus string

const (
	IntentInscribed   IntentStatus = "inscribed"
	IntentTransferred IntentStatus = "transferred"
)

type EventType string

const (
	EventMint     EventType = "mint"
	EventTransfer EventType = "transfer"
	EventBurn     EventType = "burn"
)

const (
	DefaultDecimals = 18
	MaxDecimals     = 18
)

type Capabilities struct {
	Mintable     bool
	Burnable     bool
	Transferable bool
}

func DefaultCapabilities() Capabilities {
	return Capabilities{Mintable: true, Burnable: true, Transferable: true}
}

// Ref points at the external observation that caused a ledger change.
type Ref struct {
	InscriptionID string
	TxID          string
	BlockHeight   uint64
}

type Deployment struct {
	Tick string
	Max  *big.Int
	// Limit caps a single mint; nil means Max.
	Limit    *big.Int
	Decimals int
	// SelfMint is credited to the deployer at deploy time.
	SelfMint     *big.Int
	Description  string
	Icon         string
	Capabilities Capabilities
}

// NewDeployment returns a deployment with the protocol defaults filled in.
func NewDeployment(tick string, max *big.Int) Deployment {
	return Deployment{
		Tick:         tick,
		Max:          max,
		Decimals:     DefaultDecimals,
		Capabilities: DefaultCapabilities(),
	}
}

type Token struct {
	Tick     string
	Max      *big.Int
	Limit    *big.Int
	Decimals int
	Minted   *big.Int
	Burned   *big.Int
	// Holders counts addresses that ever received a balance.
	Holders int
	Trxs    int
	State   State

	Deployer     string
	DeployRef    Ref
	SelfMint     *big.Int
	Description  string
	Icon         string
	Capabilities Capabilities

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt time.Time
}

// Circulating is minted minus burned.
func (t *Token) Circulating() *big.Int {
	return new(big.Int).Sub(t.Minted, t.Burned)
}

// Progress is the minted share of max as a percentage with two decimals.
func (t *Token) Progress() float64 {
	if t.Max.Sign() == 0 {
		return 100
	}
	bp := new(big.Int).Mul(t.Minted, big.NewInt(10000))
	bp.Quo(bp, t.Max)
	return float64(bp.Int64()) / 100
}

func (t *Token) clone() *Token {
	c := *t
	c.Max = new(big.Int).Set(t.Max)
	c.Limit = new(big.Int).Set(t.Limit)
	c.Minted = new(big.Int).Set(t.Minted)
	c.Burned = new(big.Int).Set(t.Burned)
	c.SelfMint = new(big.Int).Set(t.SelfMint)
	return &c
}

type Balance struct {
	Tick    string
	Address string
	// Available is spendable now; Transferable is reserved by inscribed
	// transfers that have not executed yet.
	Available    *big.Int
	Transferable *big.Int
	UpdatedAt    time.Time
}

func (b *Balance) Total() *big.Int {
	return new(big.Int).Add(b.Available, b.Transferable)
}

func (b *Balance) clone() *Balance {
	c := *b
	c.Available = new(big.Int).Set(b.Available)
	c.Transferable = new(big.Int).Set(b.Transferable)
	return &c
}

type TransferIntent struct {
	ID     string
	Tick   string
	Amount *big.Int
	From   string
	// To is fixed at inscription time when set, otherwise resolved on execute.
	To     string
	Status IntentStatus

	InscribeRef   Ref
	ExecuteRef    Ref
	InscribedAt   time.Time
	TransferredAt time.Time
}

func (i *TransferIntent) clone() *TransferIntent {
	c := *i
	c.Amount = new(big.Int).Set(i.Amount)
	return &c
}

// Event is an append-only audit record; Seq orders events across all ticks.
type Event struct {
	Seq       uint64
	Type      EventType
	Tick      string
	Amount    *big.Int
	From      string
	To        string
	Ref       Ref
	Timestamp time.Time
}

func (e *Event) clone() *Event {
	c := *e
	c.Amount = new(big.Int).Set(e.Amount)
	return &c
}
