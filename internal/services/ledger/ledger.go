package ledger

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kryptapp/krypt/internal/contracts/transactions"
	"github.com/kryptapp/krypt/pkg/krypt"
)

// Ledger reads and appends transfer records on the deployed Transactions contract.
// Reads go straight to the node, writes are signed and broadcast by the wallet.
type Ledger struct {
	addr   common.Address
	caller *transactions.TransactionsCaller
	wallet krypt.WalletGateway
}

func New(addr common.Address, caller bind.ContractCaller, wallet krypt.WalletGateway) (*Ledger, error) {
	c, err := transactions.NewTransactionsCaller(addr, caller)
	if err != nil {
		return nil, err
	}

	return &Ledger{
		addr:   addr,
		caller: c,
		wallet: wallet,
	}, nil
}

// Address returns the contract address
func (l *Ledger) Address() common.Address {
	return l.addr
}

func (l *Ledger) ReadAllRecords(ctx context.Context) ([]krypt.TransferRecord, error) {
	txs, err := l.caller.GetAllTransaction(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, krypt.NewError(krypt.ErrorKindLedgerUnreachable, "could not read transfers", err)
	}

	records := make([]krypt.TransferRecord, 0, len(txs))
	for _, tx := range txs {
		records = append(records, krypt.NewTransferRecord(tx.Sender, tx.Receiver, tx.Amount, tx.Message, tx.Keyword, tx.Timestamp))
	}

	return records, nil
}

func (l *Ledger) ReadRecordCount(ctx context.Context) (int64, error) {
	count, err := l.caller.GetTransactionCount(&bind.CallOpts{Context: ctx})
	if err != nil {
		return 0, krypt.NewError(krypt.ErrorKindLedgerUnreachable, "could not read transfer count", err)
	}

	if !count.IsInt64() {
		return 0, krypt.NewError(krypt.ErrorKindLedgerUnreachable, "transfer count out of range: "+count.String(), nil)
	}

	return count.Int64(), nil
}

// AppendRecord submits addToBlockchain through the wallet
func (l *Ledger) AppendRecord(ctx context.Context, req krypt.AppendRequest) (krypt.TxHandle, error) {
	if req.AmountWei == nil {
		return nil, krypt.NewError(krypt.ErrorKindValidationFailed, "missing amount", errors.New("nil amount"))
	}

	data, err := transactions.PackAddToBlockchain(req.To, req.AmountWei, req.Message, req.Keyword)
	if err != nil {
		return nil, krypt.NewError(krypt.ErrorKindValidationFailed, "could not encode transfer record", err)
	}

	return l.wallet.SignAndSend(ctx, krypt.TxRequest{
		From:     req.From,
		To:       l.addr,
		ValueWei: big.NewInt(0),
		Data:     data,
	})
}
