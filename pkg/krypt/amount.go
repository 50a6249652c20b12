package krypt

import (
	"errors"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	// EtherDecimals is the number of decimals between wei and ether
	EtherDecimals = 18
)

var (
	errAmountEmpty     = errors.New("amount is empty")
	errAmountInvalid   = errors.New("amount is not a decimal number")
	errAmountNegative  = errors.New("amount must be greater than zero")
	errAmountPrecision = errors.New("amount has more than 18 decimals")
	errAmountOverflow  = errors.New("amount does not fit in 256 bits")
)

// ParseEther converts a decimal ether string ("2", "0.5") into wei
func ParseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, errAmountEmpty
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errAmountInvalid
	}

	if !d.IsPositive() {
		return nil, errAmountNegative
	}

	wei := d.Shift(EtherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, errAmountPrecision
	}

	v := wei.BigInt()

	// anything larger than a uint256 cannot be encoded in the contract call
	if _, overflow := uint256.FromBig(v); overflow {
		return nil, errAmountOverflow
	}

	return v, nil
}

// WeiToEther converts wei into a floating ether value, for display only
func WeiToEther(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}

	f, _ := decimal.NewFromBigInt(wei, -EtherDecimals).Float64()
	return f
}

// FormatEther returns the exact decimal representation of wei in ether
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	return decimal.NewFromBigInt(wei, -EtherDecimals).String()
}
