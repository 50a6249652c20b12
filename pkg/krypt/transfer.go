package krypt

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// TransferGasLimit is the gas limit of a plain value transfer
	TransferGasLimit uint64 = 21000
)

type DraftField string

const (
	DraftFieldAddressTo DraftField = "address_to"
	DraftFieldAmount    DraftField = "amount"
	DraftFieldKeyword   DraftField = "keyword"
	DraftFieldMessage   DraftField = "message"
)

func DraftFieldFromString(s string) (DraftField, error) {
	switch s {
	case "address_to", "addressTo":
		return DraftFieldAddressTo, nil
	case "amount":
		return DraftFieldAmount, nil
	case "keyword":
		return DraftFieldKeyword, nil
	case "message":
		return DraftFieldMessage, nil
	}

	return "", NewError(ErrorKindValidationFailed, "unknown draft field: "+s, nil)
}

// TransferDraft is the form being filled in before a submission
type TransferDraft struct {
	AddressTo string `json:"address_to"`
	Amount    string `json:"amount"`
	Keyword   string `json:"keyword"`
	Message   string `json:"message"`
}

// Set updates a single field of the draft
func (d *TransferDraft) Set(field DraftField, value string) {
	switch field {
	case DraftFieldAddressTo:
		d.AddressTo = value
	case DraftFieldAmount:
		d.Amount = value
	case DraftFieldKeyword:
		d.Keyword = value
	case DraftFieldMessage:
		d.Message = value
	}
}

// Validate checks that every field is filled in and returns the parsed recipient and amount
func (d *TransferDraft) Validate() (common.Address, *big.Int, error) {
	missing := []string{}
	if strings.TrimSpace(d.AddressTo) == "" {
		missing = append(missing, string(DraftFieldAddressTo))
	}
	if strings.TrimSpace(d.Amount) == "" {
		missing = append(missing, string(DraftFieldAmount))
	}
	if strings.TrimSpace(d.Keyword) == "" {
		missing = append(missing, string(DraftFieldKeyword))
	}
	if strings.TrimSpace(d.Message) == "" {
		missing = append(missing, string(DraftFieldMessage))
	}

	if len(missing) > 0 {
		return common.Address{}, nil, NewError(ErrorKindValidationFailed, fmt.Sprintf("missing fields: %s", strings.Join(missing, ", ")), nil)
	}

	to := strings.TrimSpace(d.AddressTo)
	if !common.IsHexAddress(to) {
		return common.Address{}, nil, NewError(ErrorKindValidationFailed, "invalid recipient address: "+to, nil)
	}

	wei, err := ParseEther(d.Amount)
	if err != nil {
		return common.Address{}, nil, NewError(ErrorKindValidationFailed, "invalid amount", err)
	}

	return common.HexToAddress(to), wei, nil
}

// TransferRecord is a transfer as stored on the ledger
type TransferRecord struct {
	From      common.Address `json:"from"`
	To        common.Address `json:"to"`
	AmountWei *big.Int       `json:"amount_wei"`
	Amount    float64        `json:"amount"`
	Message   string         `json:"message"`
	Keyword   string         `json:"keyword"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewTransferRecord maps the raw ledger values of a transfer, timestamp in seconds
func NewTransferRecord(from, to common.Address, amountWei *big.Int, message, keyword string, timestamp *big.Int) TransferRecord {
	ms := int64(0)
	if timestamp != nil {
		ms = new(big.Int).Mul(timestamp, big.NewInt(1000)).Int64()
	}

	wei := new(big.Int)
	if amountWei != nil {
		wei.Set(amountWei)
	}

	return TransferRecord{
		From:      from,
		To:        to,
		AmountWei: wei,
		Amount:    WeiToEther(wei),
		Message:   message,
		Keyword:   keyword,
		Timestamp: time.UnixMilli(ms).UTC(),
	}
}

// TimestampMillis returns the millisecond epoch of the record
func (r TransferRecord) TimestampMillis() int64 {
	return r.Timestamp.UnixMilli()
}

// AppendRequest are the arguments of a ledger write
type AppendRequest struct {
	From      common.Address
	To        common.Address
	AmountWei *big.Int
	Message   string
	Keyword   string
}
