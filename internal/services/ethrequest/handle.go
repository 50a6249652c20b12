package ethrequest

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kryptapp/krypt/pkg/krypt"
)

const (
	defaultPollInterval = time.Second
)

var (
	ErrTxReverted = errors.New("transaction reverted")
)

// ReceiptFetcher is satisfied by *ethclient.Client
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// TxHandle waits for a transaction receipt by polling the node
type TxHandle struct {
	hash     common.Hash
	receipts ReceiptFetcher
	interval time.Duration
}

func NewTxHandle(hash common.Hash, receipts ReceiptFetcher) *TxHandle {
	return &TxHandle{
		hash:     hash,
		receipts: receipts,
		interval: defaultPollInterval,
	}
}

// WithInterval changes how often the node is polled
func (h *TxHandle) WithInterval(d time.Duration) *TxHandle {
	h.interval = d
	return h
}

func (h *TxHandle) Hash() common.Hash {
	return h.hash
}

// Wait blocks until the transaction is mined. A mined but failed transaction returns
// ErrTxReverted wrapped as a submission failure.
func (h *TxHandle) Wait(ctx context.Context) error {
	_, err := h.WaitReceipt(ctx)
	return err
}

func (h *TxHandle) WaitReceipt(ctx context.Context) (*types.Receipt, error) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		receipt, err := h.receipts.TransactionReceipt(ctx, h.hash)
		if err == nil && receipt != nil {
			if receipt.Status != types.ReceiptStatusSuccessful {
				return receipt, krypt.NewError(krypt.ErrorKindSubmissionFailed, "transaction "+h.hash.Hex()+" reverted", ErrTxReverted)
			}

			return receipt, nil
		}

		if err != nil && !errors.Is(err, ethereum.NotFound) {
			// the node could be briefly unavailable, keep polling until ctx is done
			log.Default().Println("[receipt] ", h.hash.Hex(), ": ", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
