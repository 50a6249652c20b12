package store

import (
	"context"
	"log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kryptapp/krypt/pkg/krypt"
)

// Start runs account discovery. A discovered account connects the store and triggers
// one full refresh; otherwise the store stays disconnected and nothing is read.
func (s *Store) Start(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	addr, ok, err := s.wallet.DiscoverAccount(ctx)
	if err != nil {
		return s.report(ctx, krypt.WithKind(krypt.ErrorKindWalletUnavailable, "no wallet found", err))
	}

	if !ok {
		log.Default().Println("no account connected")
		return nil
	}

	log.Default().Println("account connected: ", addr.Hex())

	s.update(func() {
		// a submission started meanwhile owns the state
		if s.state.busy() {
			return
		}

		s.account = addr
		s.connected = true
		if s.state == StateDisconnected {
			s.state = StateConnectedIdle
		}
	})

	return s.Refresh(ctx)
}

// Connect prompts the wallet for an account. On success the store is reset so that no
// read cached under the previous account survives.
func (s *Store) Connect(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	if s.Busy() {
		return s.report(ctx, krypt.ErrBusy)
	}

	addr, err := s.wallet.RequestConnection(ctx)
	if err != nil {
		return s.report(ctx, krypt.WithKind(krypt.ErrorKindWalletUnavailable, "no wallet found", err))
	}

	log.Default().Println("connection granted for: ", addr.Hex())

	return s.Reset(ctx)
}

// Reset reinitializes every field the way a fresh start would, then runs Start
func (s *Store) Reset(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	count := s.cachedCount()

	s.mu.Lock()
	if s.state.busy() {
		s.mu.Unlock()
		return s.report(ctx, krypt.ErrBusy)
	}

	s.state = StateDisconnected
	s.account = common.Address{}
	s.connected = false
	s.draft = krypt.TransferDraft{}
	s.history = nil
	s.count = count
	s.publishLocked()

	return s.Start(ctx)
}

// Refresh replaces the history with the ledger records and updates the persisted count
func (s *Store) Refresh(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	records, err := s.ledger.ReadAllRecords(ctx)
	if err != nil {
		return s.report(ctx, krypt.WithKind(krypt.ErrorKindLedgerUnreachable, "could not read transfers", err))
	}

	s.update(func() {
		s.history = records
	})

	return s.refreshCount(ctx)
}

func (s *Store) refreshCount(ctx context.Context) error {
	count, err := s.ledger.ReadRecordCount(ctx)
	if err != nil {
		return s.report(ctx, krypt.WithKind(krypt.ErrorKindLedgerUnreachable, "could not read transfer count", err))
	}

	s.update(func() {
		s.count = count
	})

	s.persistCount(count)

	return nil
}
