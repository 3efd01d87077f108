package model

import "math/big"

// Record is one indexed protocol operation with the outcome it produced.
type Record struct {
	Number    uint64 // global inscription number, zero for executions
	Hash      string
	Block     uint64
	Tick      string
	Operation Operation
	From      string
	To        string
	Decimals  int
	Max       *big.Int
	Limit     *big.Int
	Amount    *big.Int
	Timestamp uint64
	Valid     ValideCode
}
