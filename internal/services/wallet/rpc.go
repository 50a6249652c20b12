package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/kryptapp/krypt/internal/services/ethrequest"
	"github.com/kryptapp/krypt/pkg/krypt"
)

// SendTxArgs are the eth_sendTransaction parameters
type SendTxArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
	Value *hexutil.Big    `json:"value"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
}

// RPC is a gateway to a wallet provider speaking the EIP-1193 JSON-RPC methods
type RPC struct {
	rpc      *rpc.Client
	receipts ethrequest.ReceiptFetcher
}

func NewRPC(ctx context.Context, endpoint string, receipts ethrequest.ReceiptFetcher) (*RPC, error) {
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, krypt.NewError(krypt.ErrorKindWalletUnavailable, "no wallet found", err)
	}

	return NewRPCWithClient(c, receipts), nil
}

func NewRPCWithClient(c *rpc.Client, receipts ethrequest.ReceiptFetcher) *RPC {
	return &RPC{
		rpc:      c,
		receipts: receipts,
	}
}

func (w *RPC) Close() {
	w.rpc.Close()
}

func (w *RPC) DiscoverAccount(ctx context.Context) (common.Address, bool, error) {
	var accounts []common.Address
	err := w.rpc.CallContext(ctx, &accounts, ETHAccounts)
	if err != nil {
		return common.Address{}, false, krypt.NewError(krypt.ErrorKindWalletUnavailable, "no wallet found", err)
	}

	if len(accounts) == 0 {
		return common.Address{}, false, nil
	}

	return accounts[0], true, nil
}

func (w *RPC) RequestConnection(ctx context.Context) (common.Address, error) {
	var accounts []common.Address
	err := w.rpc.CallContext(ctx, &accounts, ETHRequestAccounts)
	if isMethodNotFound(err) {
		// node style providers only expose their unlocked accounts
		err = w.rpc.CallContext(ctx, &accounts, ETHAccounts)
	}
	if err != nil {
		return common.Address{}, classifyAccountError(err)
	}

	if len(accounts) == 0 {
		return common.Address{}, krypt.NewError(krypt.ErrorKindUserRejected, "no account was authorized", nil)
	}

	return accounts[0], nil
}

func (w *RPC) SignAndSend(ctx context.Context, tx krypt.TxRequest) (krypt.TxHandle, error) {
	to := tx.To

	value := tx.ValueWei
	if value == nil {
		value = new(big.Int)
	}

	args := SendTxArgs{
		From:  tx.From,
		To:    &to,
		Value: (*hexutil.Big)(value),
		Data:  tx.Data,
	}

	if tx.GasLimit > 0 {
		gas := hexutil.Uint64(tx.GasLimit)
		args.Gas = &gas
	}

	var hash common.Hash
	err := w.rpc.CallContext(ctx, &hash, ETHSendTransaction, args)
	if err != nil {
		return nil, classifySendError(err)
	}

	return ethrequest.NewTxHandle(hash, w.receipts), nil
}
