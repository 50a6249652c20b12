package krypt

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestDraftValidate(t *testing.T) {
	valid := TransferDraft{
		AddressTo: "0x480fbe37526226b6c6e2a7afa449cdf661939d2f",
		Amount:    "2",
		Keyword:   "thanks",
		Message:   "hi",
	}

	t.Run("valid", func(t *testing.T) {
		to, wei, err := valid.Validate()
		if err != nil {
			t.Fatal(err)
		}

		if to != common.HexToAddress(valid.AddressTo) {
			t.Errorf("expected %s, got %s", valid.AddressTo, to.Hex())
		}

		expected, _ := new(big.Int).SetString("2000000000000000000", 10)
		if wei.Cmp(expected) != 0 {
			t.Errorf("expected %s, got %s", expected, wei)
		}
	})

	invalid := map[string]func(d *TransferDraft){
		"empty address":   func(d *TransferDraft) { d.AddressTo = "" },
		"blank amount":    func(d *TransferDraft) { d.Amount = "  " },
		"empty keyword":   func(d *TransferDraft) { d.Keyword = "" },
		"empty message":   func(d *TransferDraft) { d.Message = "" },
		"bad address":     func(d *TransferDraft) { d.AddressTo = "0xABC" },
		"bad amount":      func(d *TransferDraft) { d.Amount = "abc" },
		"negative amount": func(d *TransferDraft) { d.Amount = "-2" },
	}

	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			d := valid
			mutate(&d)

			_, _, err := d.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected validation failure, got %v", err)
			}
		})
	}
}

func TestDraftSet(t *testing.T) {
	d := TransferDraft{}

	for _, name := range []string{"addressTo", "amount", "keyword", "message"} {
		f, err := DraftFieldFromString(name)
		if err != nil {
			t.Fatal(err)
		}
		d.Set(f, name+"-value")
	}

	if d.AddressTo != "addressTo-value" || d.Amount != "amount-value" || d.Keyword != "keyword-value" || d.Message != "message-value" {
		t.Errorf("unexpected draft: %+v", d)
	}

	if _, err := DraftFieldFromString("gas"); KindOf(err) != ErrorKindValidationFailed {
		t.Errorf("expected validation failure for unknown field, got %v", err)
	}
}

func TestNewTransferRecord(t *testing.T) {
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)

	r := NewTransferRecord(common.Address{1}, common.Address{2}, wei, "hi", "thanks", big.NewInt(1672531200))

	if r.Amount != 1.5 {
		t.Errorf("expected display amount 1.5, got %v", r.Amount)
	}

	if r.AmountWei.Cmp(wei) != 0 {
		t.Errorf("expected exact amount %s, got %s", wei, r.AmountWei)
	}

	// the record must not alias the input
	wei.SetInt64(0)
	if r.AmountWei.Sign() == 0 {
		t.Error("record amount changed with its input")
	}

	if r.TimestampMillis() != 1672531200000 {
		t.Errorf("expected 1672531200000, got %d", r.TimestampMillis())
	}
}
