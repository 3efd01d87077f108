// Package core replays BRC-100 inscriptions found in EVM blocks into a ledger.
package core

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"tokenomics-kernel/core/model"
	"tokenomics-kernel/ledger"
)

var (
	ErrorNoPrefix      = errors.New("no prefix")
	ErrorDecode        = errors.New("decode error")
	ErrorNoContent     = errors.New("no content")
	ErrorInvalidUTF8   = errors.New("content is not valid utf8 string")
	ErrorBlockNotMatch = errors.New("block number not match")
)

// hex of "data:"
const dataPrefixHex = "0x646174613a"

type Indexer struct {
	ledger   *ledger.Ledger
	metrics  *Metrics
	executor common.Address

	mu                sync.Mutex
	latestBlock       uint64
	inscriptionNumber uint64
	records           []*model.Record
}

type Option func(*Indexer)

// WithExecutor only accepts execute events emitted by contract.
func WithExecutor(contract common.Address) Option {
	return func(idx *Indexer) {
		idx.executor = contract
	}
}

func WithMetrics(m *Metrics) Option {
	return func(idx *Indexer) {
		idx.metrics = m
	}
}

// WithStartBlock sets the last handled block; indexing resumes at start+1.
func WithStartBlock(start uint64) Option {
	return func(idx *Indexer) {
		idx.latestBlock = start
	}
}

func NewIndexer(l *ledger.Ledger, opts ...Option) *Indexer {
	idx := &Indexer{ledger: l}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

func (idx *Indexer) Ledger() *ledger.Ledger {
	return idx.ledger
}

func (idx *Indexer) LatestBlock() uint64 {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.latestBlock
}

// Records returns every record produced so far, oldest first.
func (idx *Indexer) Records() []*model.Record {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return append([]*model.Record(nil), idx.records...)
}

// HandleNewBlock applies a block. Blocks must arrive in order; invalid
// inscriptions are recorded and skipped.
func (idx *Indexer) HandleNewBlock(block *model.ChainBlock) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	logrus.Infof("handle block %d", block.Number)
	if idx.latestBlock != block.Number-1 {
		logrus.Warnf("block number not match, latest: %d, current: %d", idx.latestBlock, block.Number)
		return fmt.Errorf("%w: latest %d, got %d", ErrorBlockNotMatch, idx.latestBlock, block.Number)
	}

	for _, trx := range block.Txs {
		if err := idx.handleTransaction(trx); err != nil && !isSkippable(err) {
			return err
		}
	}
	for _, receipt := range block.Receipts {
		idx.handleReceipt(receipt)
	}

	idx.latestBlock = block.Number
	idx.metrics.block(block.Number)
	return nil
}

func isSkippable(err error) bool {
	return errors.Is(err, ErrorNoPrefix) || errors.Is(err, ErrorDecode) ||
		errors.Is(err, ErrorNoContent) || errors.Is(err, ErrorInvalidUTF8)
}

func (idx *Indexer) handleTransaction(trx *model.ChainTransaction) error {
	if !strings.HasPrefix(strings.ToLower(trx.Input), dataPrefixHex) {
		return ErrorNoPrefix
	}
	bytes, err := hex.DecodeString(trx.Input[2:])
	if err != nil {
		logrus.Warnf("inscribe err %v at block %d:%d", err, trx.Block, trx.Idx)
		return ErrorDecode
	}
	input := string(bytes)

	sepIdx := strings.Index(input, ",")
	if sepIdx == -1 || sepIdx == len(input)-1 {
		return ErrorNoContent
	}
	contentType := "text/plain"
	if sepIdx > len(model.DataPrefix) {
		contentType = input[len(model.DataPrefix):sepIdx]
	}
	content := input[sepIdx+1:]
	if !utf8.ValidString(content) {
		logrus.Infof("content at %s is not valid utf8 string", trx.Id)
		return ErrorInvalidUTF8
	}

	inscription := &model.Inscription{
		Hash:        trx.Id,
		Number:      idx.inscriptionNumber,
		From:        strings.ToLower(trx.From),
		To:          strings.ToLower(trx.To),
		Block:       trx.Block,
		Idx:         trx.Idx,
		Timestamp:   trx.Timestamp,
		ContentType: contentType,
		Content:     content,
	}
	idx.inscriptionNumber++
	idx.metrics.inscription()

	idx.handleProtocols(inscription)
	return nil
}

func (idx *Indexer) handleProtocols(inscription *model.Inscription) {
	content := strings.TrimSpace(inscription.Content)
	if content == "" || content[0] != '{' {
		return
	}
	payload, err := model.ParseInscription(content)
	if err != nil {
		if !errors.Is(err, model.ErrNotProtocol) {
			logrus.Infof("json parse error: %v, at %d", err, inscription.Number)
		}
		return
	}

	record := &model.Record{
		Number:    inscription.Number,
		Hash:      inscription.Hash,
		Block:     inscription.Block,
		Tick:      ledger.NormalizeTick(payload.Tick),
		Operation: payload.Op,
		From:      inscription.From,
		To:        inscription.To,
		Timestamp: inscription.Timestamp,
	}

	switch {
	case record.Tick == "":
		record.Valid = model.ValidCodeEmptyTick
	case payload.Op == model.OperationDeploy:
		record.Valid = idx.deployToken(record, inscription, payload)
	case payload.Op == model.OperationMint:
		record.Valid = idx.mintToken(record, inscription, payload)
	case payload.Op == model.OperationTransfer:
		record.Valid = idx.transferToken(record, inscription, payload)
	case payload.Op == model.OperationBurn:
		record.Valid = idx.burnToken(record, inscription, payload)
	default:
		record.Valid = model.ValideCodeWrongOperation
	}

	if record.Valid != model.ValidCodeOK {
		logrus.Warnf("%s token %s error: %s, at %d", payload.Op, record.Tick, record.Valid, inscription.Number)
	}
	idx.metrics.record(payload.Op, record.Valid)
	idx.records = append(idx.records, record)
}

func ref(inscription *model.Inscription) ledger.Ref {
	return ledger.Ref{
		InscriptionID: inscription.Hash,
		TxID:          inscription.Hash,
		BlockHeight:   inscription.Block,
	}
}

// deployToken credits any self mint to the inscription owner.
func (idx *Indexer) deployToken(record *model.Record, inscription *model.Inscription, payload *model.BRC100) model.ValideCode {
	d, code := payload.Deployment()
	if code != model.ValidCodeOK {
		return code
	}
	record.Max = d.Max
	record.Limit = d.Limit
	record.Decimals = d.Decimals
	record.Amount = d.SelfMint

	_, lc := idx.ledger.Deploy(d, ref(inscription), inscription.Owner())
	return model.FromLedger(lc)
}

func (idx *Indexer) mintToken(record *model.Record, inscription *model.Inscription, payload *model.BRC100) model.ValideCode {
	amt, code := payload.Amount()
	if code != model.ValidCodeOK {
		return code
	}
	record.Amount = amt
	record.To = inscription.Owner()
	return model.FromLedger(idx.ledger.Mint(record.Tick, amt, record.To, ref(inscription)))
}

// transferToken reserves the sender's balance under an intent keyed by the
// inscribing transaction hash. It settles later through an execute event.
func (idx *Indexer) transferToken(record *model.Record, inscription *model.Inscription, payload *model.BRC100) model.ValideCode {
	amt, code := payload.Amount()
	if code != model.ValidCodeOK {
		return code
	}
	record.Amount = amt
	record.To = strings.ToLower(payload.To)
	_, lc := idx.ledger.InscribeTransfer(record.Tick, amt, inscription.From, record.To, ref(inscription))
	return model.FromLedger(lc)
}

func (idx *Indexer) burnToken(record *model.Record, inscription *model.Inscription, payload *model.BRC100) model.ValideCode {
	amt, code := payload.Amount()
	if code != model.ValidCodeOK {
		return code
	}
	record.Amount = amt
	record.To = ""
	return model.FromLedger(idx.ledger.Burn(record.Tick, amt, inscription.From, ref(inscription)))
}

func (idx *Indexer) handleReceipt(receipt *model.ChainReceipt) {
	if !receipt.Succeeded() {
		return
	}
	for _, log := range receipt.Logs {
		if len(log.Topics) == 0 || log.Topics[0].Hex() != model.TopicsExecuteTransfer {
			continue
		}
		event, err := model.ParseExecuteEvent(log)
		if err != nil {
			logrus.Warnf("unpack event %s error: %s", model.ExecuteEventName, err)
			continue
		}
		logrus.Infof("handleReceipt hash: %s event: %s id: %s", receipt.TxHash.Hex(), model.ExecuteEventName, event.Hash())
		idx.handleExecuteEvent(receipt, log.Address, event)
	}
}

func (idx *Indexer) handleExecuteEvent(receipt *model.ChainReceipt, emitter common.Address, event *model.ExecuteTransferEvent) {
	record := &model.Record{
		Hash:      receipt.TxHash.Hex(),
		Block:     receipt.Block,
		Operation: model.OperationExecute,
		From:      strings.ToLower(event.From.Hex()),
		To:        strings.ToLower(event.To.Hex()),
		Timestamp: receipt.Timestamp,
	}
	record.Valid = idx.executeTransfer(record, emitter, event)
	if record.Valid != model.ValidCodeOK {
		logrus.Warnf("execute transfer %s error: %s", event.Hash(), record.Valid)
	}
	idx.metrics.record(model.OperationExecute, record.Valid)
	idx.records = append(idx.records, record)
}

func (idx *Indexer) executeTransfer(record *model.Record, emitter common.Address, event *model.ExecuteTransferEvent) model.ValideCode {
	if idx.executor != (common.Address{}) && emitter != idx.executor {
		return model.ValidCodeExecutorNotMatch
	}
	intent, ok := idx.ledger.Intent(event.Hash())
	if !ok {
		return model.FromLedger(ledger.CodeIntentNotExists)
	}
	record.Tick = intent.Tick
	record.Amount = intent.Amount
	if intent.From != record.From {
		return model.ValidCodeSenderNotMatch
	}
	fallback := record.To
	if event.To == (common.Address{}) {
		fallback = ""
	}
	code := idx.ledger.ExecuteTransfer(intent.ID, fallback, ledger.Ref{
		TxID:        record.Hash,
		BlockHeight: record.Block,
	})
	if code == ledger.CodeOK {
		// a fixed recipient may differ from the event's
		if settled, ok := idx.ledger.Intent(intent.ID); ok {
			record.To = settled.To
		}
	}
	return model.FromLedger(code)
}
