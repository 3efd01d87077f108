package model

import "tokenomics-kernel/ledger"

// ValideCode is the validity of an indexed record. Positive one is success,
// parse-level failures are defined here and every other negative value is a
// ledger.Code.
type ValideCode int8

const (
	ValidCodeUnknowError     ValideCode = 0
	ValidCodeOK              ValideCode = 1
	ValidCodeEmptyTick       ValideCode = -1
	ValideCodeWrongOperation ValideCode = -3

	ValidCodeWrongMax        ValideCode = -10
	ValideCodeWrongPrecision ValideCode = -12
	ValidCodeWrongLimit      ValideCode = -14
	ValidCodeWrongSelfMint   ValideCode = -19

	ValidCodeAmountNotExists ValideCode = -21
	ValidCodeAmountError     ValideCode = -22

	ValidCodeSenderNotMatch   ValideCode = -33
	ValidCodeExecutorNotMatch ValideCode = -37
)

var codeMessages = map[ValideCode]string{
	ValidCodeEmptyTick:        "Empty tick",
	ValideCodeWrongOperation:  "Wrong operation",
	ValidCodeWrongMax:         "Wrong max value",
	ValideCodeWrongPrecision:  "Wrong precision",
	ValidCodeWrongLimit:       "Wrong mint limit",
	ValidCodeWrongSelfMint:    "Wrong self mint amount",
	ValidCodeAmountNotExists:  "Amount does not exist",
	ValidCodeAmountError:      "Amount error",
	ValidCodeSenderNotMatch:   "Executed sender does not match inscriber",
	ValidCodeExecutorNotMatch: "Event not emitted by executor contract",
}

// FromLedger lifts a ledger result into a record code.
func FromLedger(code ledger.Code) ValideCode {
	return ValideCode(code)
}

func (code ValideCode) String() string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return ledger.Code(code).String()
}
