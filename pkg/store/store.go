package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	com "github.com/kryptapp/krypt/internal/common"
	"github.com/kryptapp/krypt/pkg/krypt"
)

type State string

const (
	StateDisconnected           State = "disconnected"
	StateConnectedIdle          State = "connected_idle"
	StateSubmitting             State = "submitting"
	StateConfirming             State = "confirming"
	StateRefreshingAfterConfirm State = "refreshing_after_confirm"
)

const (
	defaultMaxNotices = 20
)

var (
	ErrClosed = errors.New("store is closed")
)

// Snapshot is a consistent copy of the store fields, safe to hand to a renderer
type Snapshot struct {
	State   State                  `json:"state"`
	Account *common.Address        `json:"account"`
	Draft   krypt.TransferDraft    `json:"draft"`
	History []krypt.TransferRecord `json:"transfers"`
	Count   int64                  `json:"transfer_count"`
	Busy    bool                   `json:"busy"`
}

type Option func(*Store)

// WithConfirmTimeout bounds the wait for a ledger write confirmation, 0 waits forever
func WithConfirmTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.confirmTimeout = d
	}
}

// WithGasLimit sets the gas limit of the value transfer
func WithGasLimit(gas uint64) Option {
	return func(s *Store) {
		s.gasLimit = gas
	}
}

func WithNotifier(n krypt.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithObserver registers a function called with a snapshot after every change
func WithObserver(fn func(Snapshot)) Option {
	return func(s *Store) {
		s.observers = append(s.observers, fn)
	}
}

func WithMaxNotices(n int) Option {
	return func(s *Store) {
		s.maxNotices = n
	}
}

// Store coordinates the wallet connection, transfer submission and ledger refreshes.
//
// The store never holds its lock across a wallet or ledger call. Refreshes replace the
// history wholesale, so concurrent refreshes only change which snapshot wins last.
type Store struct {
	wallet   krypt.WalletGateway
	ledger   krypt.LedgerClient
	cache    krypt.CountCache
	notifier krypt.Notifier

	confirmTimeout time.Duration
	gasLimit       uint64
	maxNotices     int
	observers      []func(Snapshot)

	mu        sync.Mutex
	state     State
	account   common.Address
	connected bool
	draft     krypt.TransferDraft
	history   []krypt.TransferRecord
	count     int64
	notices   []krypt.Notice
	closed    bool
}

// New creates a store in the disconnected state. Call Start to run account discovery.
func New(wallet krypt.WalletGateway, ledger krypt.LedgerClient, cache krypt.CountCache, opts ...Option) *Store {
	s := &Store{
		wallet:     wallet,
		ledger:     ledger,
		cache:      cache,
		gasLimit:   krypt.TransferGasLimit,
		maxNotices: defaultMaxNotices,
		state:      StateDisconnected,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.count = s.cachedCount()

	return s
}

// Close ends the lifecycle of the store, every later operation fails with ErrClosed
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.observers = nil
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Busy is true while a transfer is in flight
func (s *Store) Busy() bool {
	return s.State().busy()
}

func (st State) busy() bool {
	return st == StateSubmitting || st == StateConfirming
}

func (s *Store) Account() (common.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.account, s.connected
}

func (s *Store) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count
}

func (s *Store) History() []krypt.TransferRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]krypt.TransferRecord{}, s.history...)
}

func (s *Store) Draft() krypt.TransferDraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.draft
}

// SetDraftField updates one field of the draft
func (s *Store) SetDraftField(field krypt.DraftField, value string) {
	s.update(func() {
		s.draft.Set(field, value)
	})
}

// UpdateDraft overwrites the non-empty fields of the draft
func (s *Store) UpdateDraft(d krypt.TransferDraft) {
	s.update(func() {
		if d.AddressTo != "" {
			s.draft.AddressTo = d.AddressTo
		}
		if d.Amount != "" {
			s.draft.Amount = d.Amount
		}
		if d.Keyword != "" {
			s.draft.Keyword = d.Keyword
		}
		if d.Message != "" {
			s.draft.Message = d.Message
		}
	})
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:   s.state,
		Draft:   s.draft,
		History: append([]krypt.TransferRecord{}, s.history...),
		Count:   s.count,
		Busy:    s.state.busy(),
	}

	if s.connected {
		acc := s.account
		snap.Account = &acc
	}

	return snap
}

// update applies fn under the lock and publishes the resulting snapshot
func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	s.publishLocked()
}

// publishLocked releases the lock and hands the current snapshot to the observers
func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}

func (s *Store) setState(st State) {
	s.update(func() {
		s.state = st
	})
}

func (s *Store) cachedCount() int64 {
	if s.cache == nil {
		return 0
	}

	count, ok, err := s.cache.TransferCount()
	if err != nil {
		log.Default().Println("failed to read cached transfer count: ", err)
		return 0
	}

	if !ok {
		return 0
	}

	return count
}

func (s *Store) persistCount(count int64) {
	if s.cache == nil {
		return
	}

	err := s.cache.SetTransferCount(count)
	if err != nil {
		log.Default().Println("failed to persist transfer count: ", err)
	}
}

// Notices returns the notices that have not been dismissed, oldest first
func (s *Store) Notices() []krypt.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]krypt.Notice{}, s.notices...)
}

// Dismiss removes a notice, returns false if it does not exist
func (s *Store) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notices {
		if n.ID == id {
			s.notices = com.Remove(s.notices, i)
			return true
		}
	}

	return false
}

func (s *Store) addNotice(n krypt.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notices = append(s.notices, n)
	if s.maxNotices > 0 && len(s.notices) > s.maxNotices {
		s.notices = s.notices[len(s.notices)-s.maxNotices:]
	}
}

func (s *Store) info(message string) {
	log.Default().Println(message)
	s.addNotice(krypt.NewNotice(krypt.NoticeLevelInfo, krypt.ErrorKindUnknown, message))
}

// report turns err into a notice, forwards it and returns it unchanged
func (s *Store) report(ctx context.Context, err error) error {
	log.Default().Println("[store] ", err)

	s.addNotice(krypt.NoticeFromError(err))

	if s.notifier == nil {
		return err
	}

	var nerr error
	switch krypt.KindOf(err) {
	case krypt.ErrorKindUserRejected, krypt.ErrorKindValidationFailed, krypt.ErrorKindBusy:
		// the user caused these, nothing to alert on
	case krypt.ErrorKindConfirmationTimeout:
		nerr = s.notifier.NotifyWarning(ctx, err)
	default:
		nerr = s.notifier.NotifyError(ctx, err)
	}
	if nerr != nil {
		log.Default().Println("failed to forward notice: ", nerr)
	}

	return err
}
