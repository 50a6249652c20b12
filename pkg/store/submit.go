package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	com "github.com/kryptapp/krypt/internal/common"
	"github.com/kryptapp/krypt/pkg/krypt"
)

// Submit sends the draft as a value transfer, records it on the ledger, waits for the
// record to be confirmed and then resets the store against the refreshed ledger.
//
// Every failure returns the store to connected_idle.
func (s *Store) Submit(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}

	s.mu.Lock()
	if s.state != StateConnectedIdle && s.state != StateDisconnected {
		s.mu.Unlock()
		return s.report(ctx, krypt.ErrBusy)
	}

	if !s.connected {
		s.mu.Unlock()
		return s.report(ctx, krypt.NewError(krypt.ErrorKindValidationFailed, "connect a wallet before sending", nil))
	}

	from := s.account
	draft := s.draft

	to, wei, err := draft.Validate()
	if err != nil {
		s.mu.Unlock()
		return s.report(ctx, err)
	}

	s.state = StateSubmitting
	s.publishLocked()

	tx, err := s.wallet.SignAndSend(ctx, krypt.TxRequest{
		From:     from,
		To:       to,
		ValueWei: wei,
		GasLimit: s.gasLimit,
	})
	if err != nil {
		s.setState(StateConnectedIdle)
		return s.report(ctx, krypt.WithKind(krypt.ErrorKindSubmissionFailed, "transfer could not be sent", err))
	}

	log.Default().Printf("transfer sent: %s", tx.Hash().Hex())

	s.setState(StateConfirming)

	h, err := s.ledger.AppendRecord(ctx, krypt.AppendRequest{
		From:      from,
		To:        to,
		AmountWei: wei,
		Message:   draft.Message,
		Keyword:   draft.Keyword,
	})
	if err != nil {
		s.setState(StateConnectedIdle)
		return s.report(ctx, krypt.WithKind(krypt.ErrorKindSubmissionFailed, "transfer could not be recorded", err))
	}

	log.Default().Printf("Loading: %s", h.Hash().Hex())

	err = s.waitConfirmation(ctx, h)
	if err != nil {
		s.setState(StateConnectedIdle)
		return s.report(ctx, err)
	}

	log.Default().Printf("Success: %s", h.Hash().Hex())

	s.setState(StateRefreshingAfterConfirm)
	s.info(fmt.Sprintf("sent %s ETH to %s", krypt.FormatEther(wei), com.ShortenAddress(to.Hex())))

	err = s.refreshCount(ctx)
	if err != nil {
		s.setState(StateConnectedIdle)
		return err
	}

	return s.Reset(ctx)
}

func (s *Store) waitConfirmation(ctx context.Context, h krypt.TxHandle) error {
	if s.confirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.confirmTimeout)
		defer cancel()
	}

	err := h.Wait(ctx)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return krypt.NewError(krypt.ErrorKindConfirmationTimeout, fmt.Sprintf("transaction %s not confirmed after %s", h.Hash().Hex(), s.confirmTimeout), err)
	}

	return krypt.WithKind(krypt.ErrorKindSubmissionFailed, fmt.Sprintf("transaction %s failed", h.Hash().Hex()), err)
}
