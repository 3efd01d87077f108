package ledger

// Code is the outcome of a ledger operation. Rule violations are ordinary
// results, not errors: a replaying indexer records the code and moves on.
type Code int8

const (
	CodeUnknownError Code = 0
	CodeOK           Code = 1

	CodeInvalidTick     Code = -2
	CodeInvalidAmount   Code = -11
	CodeInvalidDecimals Code = -12
	CodeOverLimit       Code = -16
	CodeTokenDeployed   Code = -17
	CodeSelfMintOverMax Code = -18

	CodeTokenNotExists      Code = -23
	CodeTokenCompleted      Code = -25
	CodeNotMintable         Code = -26
	CodeOverTotalLimit      Code = -27
	CodeBalanceNotSatisfied Code = -29

	CodeIntentExists      Code = -30
	CodeIntentNotExists   Code = -31
	CodeIntentTransferred Code = -32
	CodeRecipientMissing  Code = -34
	CodeNotTransferable   Code = -35
	CodeNotBurnable       Code = -36
)

var codeMessages = map[Code]string{
	CodeUnknownError:        "Unknown error",
	CodeOK:                  "Operation successful",
	CodeInvalidTick:         "Tick must be 4-5 alphanumeric characters",
	CodeInvalidAmount:       "Amount must be positive",
	CodeInvalidDecimals:     "Wrong decimals",
	CodeOverLimit:           "Over per-mint limit",
	CodeTokenDeployed:       "Token already deployed",
	CodeSelfMintOverMax:     "Self mint exceeds max supply",
	CodeTokenNotExists:      "Token does not exist",
	CodeTokenCompleted:      "Token minting completed",
	CodeNotMintable:         "Token is not mintable",
	CodeOverTotalLimit:      "Over total limit",
	CodeBalanceNotSatisfied: "Balance not satisfied",
	CodeIntentExists:        "Transfer inscription already exists",
	CodeIntentNotExists:     "Transfer inscription does not exist",
	CodeIntentTransferred:   "Transfer inscription already transferred",
	CodeRecipientMissing:    "No recipient for transfer",
	CodeNotTransferable:     "Token is not transferable",
	CodeNotBurnable:         "Token is not burnable",
}

func (c Code) OK() bool {
	return c == CodeOK
}

func (c Code) String() string {
	msg, ok := codeMessages[c]
	if !ok {
		return "Unrecognized error code"
	}
	return msg
}
