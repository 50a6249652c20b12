// Package transactions is a binding to the Transactions contract, in the shape abigen produces.
package transactions

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// TransactionsTransferStruct is an auto generated low-level Go binding around an user-defined struct.
type TransactionsTransferStruct struct {
	Sender    common.Address
	Receiver  common.Address
	Amount    *big.Int
	Message   string
	Timestamp *big.Int
	Keyword   string
}

// TransactionsMetaData contains all meta data concerning the Transactions contract.
var TransactionsMetaData = &bind.MetaData{
	ABI: "[{\"anonymous\":false,\"inputs\":[{\"indexed\":false,\"internalType\":\"address\",\"name\":\"from\",\"type\":\"address\"},{\"indexed\":false,\"internalType\":\"address\",\"name\":\"receiver\",\"type\":\"address\"},{\"indexed\":false,\"internalType\":\"uint256\",\"name\":\"amount\",\"type\":\"uint256\"},{\"indexed\":false,\"internalType\":\"string\",\"name\":\"message\",\"type\":\"string\"},{\"indexed\":false,\"internalType\":\"uint256\",\"name\":\"timestamp\",\"type\":\"uint256\"},{\"indexed\":false,\"internalType\":\"string\",\"name\":\"keyword\",\"type\":\"string\"}],\"name\":\"Transfer\",\"type\":\"event\"},{\"inputs\":[{\"internalType\":\"addresspayable\",\"name\":\"receiver\",\"type\":\"address\"},{\"internalType\":\"uint256\",\"name\":\"amount\",\"type\":\"uint256\"},{\"internalType\":\"string\",\"name\":\"message\",\"type\":\"string\"},{\"internalType\":\"string\",\"name\":\"keyword\",\"type\":\"string\"}],\"name\":\"addToBlockchain\",\"outputs\":[],\"stateMutability\":\"nonpayable\",\"type\":\"function\"},{\"inputs\":[],\"name\":\"getAllTransaction\",\"outputs\":[{\"components\":[{\"internalType\":\"address\",\"name\":\"sender\",\"type\":\"address\"},{\"internalType\":\"address\",\"name\":\"receiver\",\"type\":\"address\"},{\"internalType\":\"uint256\",\"name\":\"amount\",\"type\":\"uint256\"},{\"internalType\":\"string\",\"name\":\"message\",\"type\":\"string\"},{\"internalType\":\"uint256\",\"name\":\"timestamp\",\"type\":\"uint256\"},{\"internalType\":\"string\",\"name\":\"keyword\",\"type\":\"string\"}],\"internalType\":\"structTransactions.TransferStruct[]\",\"name\":\"\",\"type\":\"tuple[]\"}],\"stateMutability\":\"view\",\"type\":\"function\"},{\"inputs\":[],\"name\":\"getTransactionCount\",\"outputs\":[{\"internalType\":\"uint256\",\"name\":\"\",\"type\":\"uint256\"}],\"stateMutability\":\"view\",\"type\":\"function\"}]",
}

// TransactionsABI is the input ABI used to generate the binding from.
// Deprecated: Use TransactionsMetaData.ABI instead.
var TransactionsABI = TransactionsMetaData.ABI

// TransactionsCaller is an auto generated read-only Go binding around an Ethereum contract.
type TransactionsCaller struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// NewTransactionsCaller creates a new read-only instance of Transactions, bound to a specific deployed contract.
func NewTransactionsCaller(address common.Address, caller bind.ContractCaller) (*TransactionsCaller, error) {
	contract, err := bindTransactions(address, caller, nil, nil)
	if err != nil {
		return nil, err
	}
	return &TransactionsCaller{contract: contract}, nil
}

// bindTransactions binds a generic wrapper to an already deployed contract.
func bindTransactions(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor, filterer bind.ContractFilterer) (*bind.BoundContract, error) {
	parsed, err := TransactionsMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, errors.New("GetABI returned nil")
	}
	return bind.NewBoundContract(address, *parsed, caller, transactor, filterer), nil
}

// GetAllTransaction is a free data retrieval call binding the contract method getAllTransaction.
//
// Solidity: function getAllTransaction() view returns((address,address,uint256,string,uint256,string)[])
func (_Transactions *TransactionsCaller) GetAllTransaction(opts *bind.CallOpts) ([]TransactionsTransferStruct, error) {
	var out []interface{}
	err := _Transactions.contract.Call(opts, &out, "getAllTransaction")

	if err != nil {
		return *new([]TransactionsTransferStruct), err
	}

	out0 := *abi.ConvertType(out[0], new([]TransactionsTransferStruct)).(*[]TransactionsTransferStruct)

	return out0, err
}

// GetTransactionCount is a free data retrieval call binding the contract method getTransactionCount.
//
// Solidity: function getTransactionCount() view returns(uint256)
func (_Transactions *TransactionsCaller) GetTransactionCount(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := _Transactions.contract.Call(opts, &out, "getTransactionCount")

	if err != nil {
		return *new(*big.Int), err
	}

	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)

	return out0, err
}

// PackAddToBlockchain returns the calldata of addToBlockchain, for wallets that sign raw transactions.
//
// Solidity: function addToBlockchain(address receiver, uint256 amount, string message, string keyword) returns()
func PackAddToBlockchain(receiver common.Address, amount *big.Int, message string, keyword string) ([]byte, error) {
	parsed, err := TransactionsMetaData.GetAbi()
	if err != nil {
		return nil, err
	}

	return parsed.Pack("addToBlockchain", receiver, amount, message, keyword)
}
