package model

import (
	"github.com/ethereum/go-ethereum/core/types"
)

type ChainBlock struct {
	Number     uint64
	Hash       string
	ParentHash string
	Txs        []*ChainTransaction
	Receipts   []*ChainReceipt
	Timestamp  uint64
}

type ChainTransaction struct {
	Id        string
	From      string
	To        string
	Block     uint64
	Idx       uint32
	Timestamp uint64
	// Input is the 0x-prefixed hex of the call data.
	Input string
}

// ChainReceipt pairs a receipt with the time of the block that included it.
type ChainReceipt struct {
	*types.Receipt
	Block     uint64
	Timestamp uint64
}

// Succeeded reports whether the transaction did not revert.
func (r *ChainReceipt) Succeeded() bool {
	return r.Status == types.ReceiptStatusSuccessful
}
