package krypt

import "context"

// LedgerClient is a typed binding to the deployed transfers contract
type LedgerClient interface {
	ReadAllRecords(ctx context.Context) ([]TransferRecord, error)
	ReadRecordCount(ctx context.Context) (int64, error)
	AppendRecord(ctx context.Context, req AppendRequest) (TxHandle, error)
}

// CountCache durably stores the last known record count
type CountCache interface {
	TransferCount() (int64, bool, error)
	SetTransferCount(count int64) error
}
