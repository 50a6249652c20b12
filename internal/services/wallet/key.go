package wallet

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	com "github.com/kryptapp/krypt/internal/common"
	"github.com/kryptapp/krypt/internal/services/ethrequest"
	"github.com/kryptapp/krypt/pkg/krypt"
)

// KeyBackend is the part of *ethclient.Client the key wallet needs
type KeyBackend interface {
	ethrequest.ReceiptFetcher

	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Key is a headless wallet holding a single private key. Its account is always authorized.
type Key struct {
	mu      sync.Mutex
	key     *ecdsa.PrivateKey
	addr    common.Address
	backend KeyBackend
}

func NewKey(privateKeyHex string, backend KeyBackend) (*Key, error) {
	pk, err := com.HexToPrivateKey(privateKeyHex)
	if err != nil {
		return nil, err
	}

	return &Key{
		key:     pk,
		addr:    crypto.PubkeyToAddress(pk.PublicKey),
		backend: backend,
	}, nil
}

func (k *Key) Address() common.Address {
	return k.addr
}

func (k *Key) DiscoverAccount(ctx context.Context) (common.Address, bool, error) {
	return k.addr, true, nil
}

func (k *Key) RequestConnection(ctx context.Context) (common.Address, error) {
	return k.addr, nil
}

func (k *Key) SignAndSend(ctx context.Context, tx krypt.TxRequest) (krypt.TxHandle, error) {
	if tx.From != (common.Address{}) && tx.From != k.addr {
		return nil, krypt.NewError(krypt.ErrorKindUserRejected, "account "+tx.From.Hex()+" is not managed by this wallet", nil)
	}

	// nonces are handed out by the node, sends from this key must not interleave
	k.mu.Lock()
	defer k.mu.Unlock()

	value := tx.ValueWei
	if value == nil {
		value = new(big.Int)
	}

	to := tx.To

	nonce, err := k.backend.PendingNonceAt(ctx, k.addr)
	if err != nil {
		return nil, classifySendError(err)
	}

	gasPrice, err := k.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, classifySendError(err)
	}

	gas := tx.GasLimit
	if gas == 0 {
		gas, err = k.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:  k.addr,
			To:    &to,
			Value: value,
			Data:  tx.Data,
		})
		if err != nil {
			return nil, classifySendError(err)
		}
	}

	chainID, err := k.backend.ChainID(ctx)
	if err != nil {
		return nil, classifySendError(err)
	}

	signed, err := types.SignTx(types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     tx.Data,
	}), types.LatestSignerForChainID(chainID), k.key)
	if err != nil {
		return nil, classifySendError(err)
	}

	err = k.backend.SendTransaction(ctx, signed)
	if err != nil {
		return nil, classifySendError(err)
	}

	return ethrequest.NewTxHandle(signed.Hash(), k.backend), nil
}
