package wallet

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/kryptapp/krypt/pkg/krypt"
)

const (
	ETHAccounts        = "eth_accounts"
	ETHRequestAccounts = "eth_requestAccounts"
	ETHSendTransaction = "eth_sendTransaction"

	codeUserRejected   = 4001 // EIP-1193 user rejected request
	codeUnauthorized   = 4100 // EIP-1193 method or account not authorized
	codeMethodNotFound = -32601
)

// None is the gateway used when no wallet is configured
type None struct{}

func (None) DiscoverAccount(ctx context.Context) (common.Address, bool, error) {
	return common.Address{}, false, krypt.ErrWalletUnavailable
}

func (None) RequestConnection(ctx context.Context) (common.Address, error) {
	return common.Address{}, krypt.ErrWalletUnavailable
}

func (None) SignAndSend(ctx context.Context, tx krypt.TxRequest) (krypt.TxHandle, error) {
	return nil, krypt.ErrWalletUnavailable
}

func rpcErrorCode(err error) (int, bool) {
	var rerr rpc.Error
	if errors.As(err, &rerr) {
		return rerr.ErrorCode(), true
	}

	return 0, false
}

func isRejection(err error) bool {
	code, ok := rpcErrorCode(err)
	return ok && (code == codeUserRejected || code == codeUnauthorized)
}

func isMethodNotFound(err error) bool {
	code, ok := rpcErrorCode(err)
	return ok && code == codeMethodNotFound
}

// classifyAccountError maps a failed account request to a gateway error kind
func classifyAccountError(err error) error {
	if isRejection(err) {
		return krypt.NewError(krypt.ErrorKindUserRejected, "request rejected by user", err)
	}

	return krypt.NewError(krypt.ErrorKindWalletUnavailable, "no wallet found", err)
}

// classifySendError maps a failed send to a gateway error kind
func classifySendError(err error) error {
	if isRejection(err) {
		return krypt.NewError(krypt.ErrorKindUserRejected, "transaction rejected by user", err)
	}

	return krypt.NewError(krypt.ErrorKindSubmissionFailed, "transaction submission failed", err)
}
