// Package chain fetches blocks and receipts from an EVM JSON-RPC endpoint.
package chain

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"

	"tokenomics-kernel/core/model"
)

type BlockchainClient struct {
	client  *ethclient.Client
	timeout time.Duration
}

// NewBlockchainClient dials ethURL. Every later call is bounded by timeout.
func NewBlockchainClient(ctx context.Context, ethURL string, timeout time.Duration) (*BlockchainClient, error) {
	rpcClient, err := rpc.DialContext(ctx, ethURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", ethURL, err)
	}
	return &BlockchainClient{client: ethclient.NewClient(rpcClient), timeout: timeout}, nil
}

func (bc *BlockchainClient) Close() {
	bc.client.Close()
}

func (bc *BlockchainClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if bc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, bc.timeout)
}

func (bc *BlockchainClient) GetBlock(ctx context.Context, blockNumber uint64) (*types.Block, error) {
	ctx, cancel := bc.withTimeout(ctx)
	defer cancel()
	return bc.client.BlockByNumber(ctx, new(big.Int).SetUint64(blockNumber))
}

// GetBlockReceipts uses eth_getBlockReceipts and falls back to one
// eth_getTransactionReceipt per transaction on nodes without it.
func (bc *BlockchainClient) GetBlockReceipts(ctx context.Context, block *types.Block) ([]*types.Receipt, error) {
	rctx, cancel := bc.withTimeout(ctx)
	receipts, err := bc.client.BlockReceipts(rctx, rpc.BlockNumberOrHashWithHash(block.Hash(), false))
	cancel()
	if err == nil {
		return receipts, nil
	}
	logrus.Debugf("eth_getBlockReceipts %d unavailable: %v", block.NumberU64(), err)

	res := make([]*types.Receipt, 0, len(block.Transactions()))
	for _, tx := range block.Transactions() {
		rctx, cancel := bc.withTimeout(ctx)
		receipt, err := bc.client.TransactionReceipt(rctx, tx.Hash())
		cancel()
		if err != nil {
			logrus.Errorf("GetBlockReceipts %v err: %v", tx.Hash(), err)
			return nil, err
		}
		res = append(res, receipt)
	}
	return res, nil
}

func (bc *BlockchainClient) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := bc.withTimeout(ctx)
	defer cancel()
	return bc.client.BlockNumber(ctx)
}

// GetChainBlock fetches a block with its receipts in indexer form.
func (bc *BlockchainClient) GetChainBlock(ctx context.Context, number uint64) (*model.ChainBlock, error) {
	block, err := bc.GetBlock(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("get block %d: %w", number, err)
	}
	receipts, err := bc.GetBlockReceipts(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("get receipts %d: %w", number, err)
	}
	return ConvertBlockToChainBlock(block, receipts), nil
}

// ConvertBlockToChainBlock flattens a block. Transactions whose sender cannot
// be recovered are dropped.
func ConvertBlockToChainBlock(block *types.Block, receipts []*types.Receipt) *model.ChainBlock {
	chainBlock := &model.ChainBlock{
		Number:     block.NumberU64(),
		Hash:       block.Hash().Hex(),
		ParentHash: block.ParentHash().Hex(),
		Timestamp:  block.Time(),
	}
	for idx, tx := range block.Transactions() {
		from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
		if err != nil {
			logrus.Warnf("recover sender of %s: %v", tx.Hash().Hex(), err)
			continue
		}

		var to string
		if tx.To() != nil {
			to = tx.To().Hex()
		}

		chainBlock.Txs = append(chainBlock.Txs, &model.ChainTransaction{
			Id:        tx.Hash().Hex(),
			From:      from.Hex(),
			To:        to,
			Block:     block.NumberU64(),
			Idx:       uint32(idx),
			Timestamp: block.Time(),
			Input:     "0x" + hex.EncodeToString(tx.Data()),
		})
	}
	for _, receipt := range receipts {
		chainBlock.Receipts = append(chainBlock.Receipts, &model.ChainReceipt{
			Receipt:   receipt,
			Block:     block.NumberU64(),
			Timestamp: block.Time(),
		})
	}
	return chainBlock
}
