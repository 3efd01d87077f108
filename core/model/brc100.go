package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"tokenomics-kernel/ledger"
)

type Operation string

const ProtocolName = "brc-100"

const (
	OperationDeploy   Operation = "deploy"
	OperationMint     Operation = "mint"
	OperationTransfer Operation = "transfer"
	OperationBurn     Operation = "burn"
	// OperationExecute marks records produced from executor receipts.
	OperationExecute Operation = "execute"
)

var (
	ErrNotProtocol = errors.New("not a brc-100 inscription")
	ErrMalformed   = errors.New("malformed inscription")
)

type Attributes struct {
	Mintable     *bool `json:"mintable,omitempty"`
	Burnable     *bool `json:"burnable,omitempty"`
	Transferable *bool `json:"transferable,omitempty"`
}

// BRC100 is the JSON document carried by an inscription. Amounts are decimal
// strings of base units.
type BRC100 struct {
	P    string      `json:"p"`
	Op   Operation   `json:"op"`
	Tick string      `json:"tick"`
	Max  string      `json:"max,omitempty"`
	Lim  string      `json:"lim,omitempty"`
	Dec  string      `json:"dec,omitempty"`
	Self string      `json:"self,omitempty"`
	Desc string      `json:"desc,omitempty"`
	Icon string      `json:"icon,omitempty"`
	Attr *Attributes `json:"attr,omitempty"`
	Amt  string      `json:"amt,omitempty"`
	To   string      `json:"to,omitempty"`
}

type DeployOptions struct {
	Tick        string
	Max         *big.Int
	Limit       *big.Int
	Decimals    *int
	SelfMint    *big.Int
	Description string
	Icon        string
	Attributes  *Attributes
}

func NewDeploy(opts DeployOptions) *BRC100 {
	b := &BRC100{
		P:    ProtocolName,
		Op:   OperationDeploy,
		Tick: strings.ToLower(opts.Tick),
		Max:  opts.Max.String(),
		Desc: opts.Description,
		Icon: opts.Icon,
		Attr: opts.Attributes,
	}
	if opts.Limit != nil {
		b.Lim = opts.Limit.String()
	}
	if opts.Decimals != nil {
		b.Dec = strconv.Itoa(*opts.Decimals)
	}
	if opts.SelfMint != nil && opts.SelfMint.Sign() > 0 {
		b.Self = opts.SelfMint.String()
	}
	return b
}

func NewMint(tick string, amount *big.Int) *BRC100 {
	return &BRC100{P: ProtocolName, Op: OperationMint, Tick: strings.ToLower(tick), Amt: amount.String()}
}

// NewTransfer builds a transfer inscription; an empty to leaves the recipient
// to be chosen when the transfer executes.
func NewTransfer(tick string, amount *big.Int, to string) *BRC100 {
	return &BRC100{P: ProtocolName, Op: OperationTransfer, Tick: strings.ToLower(tick), Amt: amount.String(), To: to}
}

func NewBurn(tick string, amount *big.Int) *BRC100 {
	return &BRC100{P: ProtocolName, Op: OperationBurn, Tick: strings.ToLower(tick), Amt: amount.String()}
}

func (b *BRC100) Serialize() (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseInscription reads a BRC-100 document. Non-string fields other than
// attr are ignored, the same way a loose JSON reader would treat them.
func ParseInscription(content string) (*BRC100, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}
	if strings.ToLower(strings.TrimSpace(fields["p"])) != ProtocolName {
		return nil, ErrNotProtocol
	}

	b := &BRC100{
		P:    ProtocolName,
		Op:   Operation(strings.ToLower(strings.TrimSpace(fields["op"]))),
		Tick: fields["tick"],
		Max:  fields["max"],
		Lim:  fields["lim"],
		Dec:  fields["dec"],
		Self: fields["self"],
		Desc: fields["desc"],
		Icon: fields["icon"],
		Amt:  fields["amt"],
		To:   fields["to"],
	}
	if attr, ok := raw["attr"].(map[string]interface{}); ok {
		b.Attr = &Attributes{
			Mintable:     boolField(attr, "mintable"),
			Burnable:     boolField(attr, "burnable"),
			Transferable: boolField(attr, "transferable"),
		}
	}
	return b, nil
}

// Deployment converts a deploy document into ledger terms.
func (b *BRC100) Deployment() (ledger.Deployment, ValideCode) {
	if strings.TrimSpace(b.Max) == "" {
		return ledger.Deployment{}, ValidCodeWrongMax
	}
	max, ok := parseUnits(b.Max)
	if !ok {
		return ledger.Deployment{}, ValidCodeWrongMax
	}
	d := ledger.NewDeployment(b.Tick, max)
	d.Description = b.Desc
	d.Icon = b.Icon

	if b.Lim != "" {
		if d.Limit, ok = parseUnits(b.Lim); !ok {
			return ledger.Deployment{}, ValidCodeWrongLimit
		}
	}
	if b.Dec != "" {
		dec, err := strconv.Atoi(strings.TrimSpace(b.Dec))
		if err != nil {
			return ledger.Deployment{}, ValideCodeWrongPrecision
		}
		d.Decimals = dec
	}
	if b.Self != "" {
		if d.SelfMint, ok = parseUnits(b.Self); !ok {
			return ledger.Deployment{}, ValidCodeWrongSelfMint
		}
	}
	if b.Attr != nil {
		d.Capabilities = ledger.Capabilities{
			Mintable:     orTrue(b.Attr.Mintable),
			Burnable:     orTrue(b.Attr.Burnable),
			Transferable: orTrue(b.Attr.Transferable),
		}
	}
	return d, ValidCodeOK
}

// Amount parses amt as an integer count of base units.
func (b *BRC100) Amount() (*big.Int, ValideCode) {
	if strings.TrimSpace(b.Amt) == "" {
		return nil, ValidCodeAmountNotExists
	}
	amt, ok := parseUnits(b.Amt)
	if !ok {
		return nil, ValidCodeAmountError
	}
	return amt, ValidCodeOK
}

// parseUnits accepts base-10 integers only; sign checks are left to the
// ledger.
func parseUnits(s string) (*big.Int, bool) {
	return new(big.Int).SetString(strings.TrimSpace(s), 10)
}

func boolField(m map[string]interface{}, key string) *bool {
	v, ok := m[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

func orTrue(v *bool) bool {
	return v == nil || *v
}
