package krypt

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxRequest is a transaction the wallet is asked to sign and broadcast
type TxRequest struct {
	From     common.Address
	To       common.Address
	ValueWei *big.Int
	GasLimit uint64 // 0 lets the wallet estimate
	Data     []byte
}

// TxHandle is a submitted, not yet confirmed, ledger write
type TxHandle interface {
	Hash() common.Hash
	// Wait blocks until the transaction is mined or ctx is done
	Wait(ctx context.Context) error
}

// WalletGateway holds the user's keys and authorizes transactions
type WalletGateway interface {
	// DiscoverAccount returns the first already authorized account without prompting
	DiscoverAccount(ctx context.Context) (common.Address, bool, error)
	// RequestConnection prompts the user to authorize an account
	RequestConnection(ctx context.Context) (common.Address, error)
	SignAndSend(ctx context.Context, tx TxRequest) (TxHandle, error)
}
