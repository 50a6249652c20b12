package store

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kryptapp/krypt/pkg/krypt"
	"github.com/stretchr/testify/require"
)

var (
	testAccount   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	testRecipient = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

type testHandle struct {
	hash common.Hash
	wait func(ctx context.Context) error
}

func (h *testHandle) Hash() common.Hash {
	return h.hash
}

func (h *testHandle) Wait(ctx context.Context) error {
	if h.wait == nil {
		return nil
	}
	return h.wait(ctx)
}

type testWallet struct {
	mu sync.Mutex

	account    *common.Address
	discoverFn func() error
	connectErr error
	sendErr    error
	sendGate   func()

	discovers int
	connects  int
	sent      []krypt.TxRequest
}

func (w *testWallet) DiscoverAccount(ctx context.Context) (common.Address, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.discovers++
	if w.discoverFn != nil {
		if err := w.discoverFn(); err != nil {
			return common.Address{}, false, err
		}
	}
	if w.account == nil {
		return common.Address{}, false, nil
	}
	return *w.account, true, nil
}

func (w *testWallet) RequestConnection(ctx context.Context) (common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.connects++
	if w.connectErr != nil {
		return common.Address{}, w.connectErr
	}
	w.account = &testAccount
	return testAccount, nil
}

func (w *testWallet) SignAndSend(ctx context.Context, req krypt.TxRequest) (krypt.TxHandle, error) {
	w.mu.Lock()
	gate := w.sendGate
	w.sendGate = nil
	w.mu.Unlock()

	if gate != nil {
		gate()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sendErr != nil {
		return nil, w.sendErr
	}
	w.sent = append(w.sent, req)
	return &testHandle{hash: common.BigToHash(big.NewInt(int64(len(w.sent))))}, nil
}

func (w *testWallet) sentCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sent)
}

type testLedger struct {
	mu sync.Mutex

	records   []krypt.TransferRecord
	readErr   error
	appendErr error
	wait      func(ctx context.Context) error

	reads   int
	counts  int
	appends int
}

func (l *testLedger) ReadAllRecords(ctx context.Context) ([]krypt.TransferRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reads++
	if l.readErr != nil {
		return nil, l.readErr
	}
	return append([]krypt.TransferRecord{}, l.records...), nil
}

func (l *testLedger) ReadRecordCount(ctx context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counts++
	if l.readErr != nil {
		return 0, l.readErr
	}
	return int64(len(l.records)), nil
}

func (l *testLedger) AppendRecord(ctx context.Context, req krypt.AppendRequest) (krypt.TxHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.appends++
	if l.appendErr != nil {
		return nil, l.appendErr
	}

	wait := l.wait
	return &testHandle{
		hash: common.HexToHash("0xabc"),
		wait: func(ctx context.Context) error {
			if wait != nil {
				if err := wait(ctx); err != nil {
					return err
				}
			}

			// the record only shows up once mined
			l.mu.Lock()
			defer l.mu.Unlock()
			l.records = append(l.records, krypt.NewTransferRecord(req.From, req.To, req.AmountWei, req.Message, req.Keyword, big.NewInt(time.Now().Unix())))
			return nil
		},
	}, nil
}

func (l *testLedger) readCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads
}

type testCache struct {
	mu    sync.Mutex
	count *int64
	gate  func()
}

func (c *testCache) TransferCount() (int64, bool, error) {
	c.mu.Lock()
	gate := c.gate
	c.gate = nil
	c.mu.Unlock()

	if gate != nil {
		gate()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count == nil {
		return 0, false, nil
	}
	return *c.count, true, nil
}

func (c *testCache) SetTransferCount(count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.count = &count
	return nil
}

func fillDraft(s *Store, amount string) {
	s.SetDraftField(krypt.DraftFieldAddressTo, testRecipient)
	s.SetDraftField(krypt.DraftFieldAmount, amount)
	s.SetDraftField(krypt.DraftFieldKeyword, "cat")
	s.SetDraftField(krypt.DraftFieldMessage, "hello")
}

func TestStartDiscovery(t *testing.T) {
	ctx := context.Background()

	t.Run("no account", func(t *testing.T) {
		w := &testWallet{}
		l := &testLedger{}
		s := New(w, l, &testCache{})

		require.NoError(t, s.Start(ctx))
		require.Equal(t, StateDisconnected, s.State())
		require.Equal(t, 0, l.readCount())

		_, ok := s.Account()
		require.False(t, ok)
	})

	t.Run("account", func(t *testing.T) {
		acc := testAccount
		w := &testWallet{account: &acc}
		l := &testLedger{records: []krypt.TransferRecord{
			krypt.NewTransferRecord(testAccount, common.HexToAddress(testRecipient), big.NewInt(1e18), "hi", "dog", big.NewInt(1700000000)),
		}}
		c := &testCache{}
		s := New(w, l, c)

		require.NoError(t, s.Start(ctx))
		require.Equal(t, StateConnectedIdle, s.State())
		require.Equal(t, 1, l.readCount())

		addr, ok := s.Account()
		require.True(t, ok)
		require.Equal(t, testAccount, addr)

		require.Len(t, s.History(), 1)
		require.Equal(t, int64(1), s.Count())

		cached, ok, err := c.TransferCount()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, int64(1), cached)
	})

	t.Run("wallet unavailable", func(t *testing.T) {
		w := &testWallet{discoverFn: func() error { return errors.New("dial tcp: connection refused") }}
		l := &testLedger{}
		s := New(w, l, &testCache{})

		err := s.Start(ctx)
		require.ErrorIs(t, err, krypt.ErrWalletUnavailable)
		require.Equal(t, StateDisconnected, s.State())
		require.Equal(t, 0, l.readCount())

		notices := s.Notices()
		require.Len(t, notices, 1)
		require.Equal(t, krypt.ErrorKindWalletUnavailable, notices[0].Kind)
	})
}

func TestNewLoadsCachedCount(t *testing.T) {
	count := int64(7)
	s := New(&testWallet{}, &testLedger{}, &testCache{count: &count})

	require.Equal(t, int64(7), s.Count())
	require.Equal(t, StateDisconnected, s.State())

	s = New(&testWallet{}, &testLedger{}, nil)
	require.Equal(t, int64(0), s.Count())
}

func TestRefreshIsIdempotent(t *testing.T) {
	ctx := context.Background()

	acc := testAccount
	l := &testLedger{records: []krypt.TransferRecord{
		krypt.NewTransferRecord(testAccount, common.HexToAddress(testRecipient), big.NewInt(5e17), "a", "b", big.NewInt(1700000000)),
		krypt.NewTransferRecord(testAccount, common.HexToAddress(testRecipient), big.NewInt(2e18), "c", "d", big.NewInt(1700000100)),
	}}
	s := New(&testWallet{account: &acc}, l, &testCache{})

	require.NoError(t, s.Start(ctx))
	first := s.Snapshot()

	require.NoError(t, s.Refresh(ctx))
	require.NoError(t, s.Refresh(ctx))
	second := s.Snapshot()

	require.Equal(t, first, second)
	require.Len(t, second.History, 2)
	require.Equal(t, int64(2), second.Count)
}

func TestRefreshLedgerUnreachable(t *testing.T) {
	ctx := context.Background()

	acc := testAccount
	l := &testLedger{readErr: errors.New("connection refused")}
	s := New(&testWallet{account: &acc}, l, &testCache{})

	err := s.Start(ctx)
	require.ErrorIs(t, err, krypt.ErrLedgerUnreachable)
	require.Equal(t, StateConnectedIdle, s.State())
	require.Empty(t, s.History())
}

func TestConnect(t *testing.T) {
	ctx := context.Background()

	t.Run("granted", func(t *testing.T) {
		w := &testWallet{}
		l := &testLedger{}
		s := New(w, l, &testCache{})

		require.NoError(t, s.Start(ctx))
		require.Equal(t, StateDisconnected, s.State())

		s.SetDraftField(krypt.DraftFieldKeyword, "stale")

		require.NoError(t, s.Connect(ctx))
		require.Equal(t, StateConnectedIdle, s.State())
		require.Equal(t, 1, l.readCount())
		require.Equal(t, krypt.TransferDraft{}, s.Draft())
	})

	t.Run("rejected", func(t *testing.T) {
		w := &testWallet{connectErr: krypt.NewError(krypt.ErrorKindUserRejected, "user rejected the request", nil)}
		s := New(w, &testLedger{}, &testCache{})

		err := s.Connect(ctx)
		require.ErrorIs(t, err, krypt.ErrUserRejected)
		require.Equal(t, StateDisconnected, s.State())

		_, ok := s.Account()
		require.False(t, ok)
	})

	t.Run("no wallet", func(t *testing.T) {
		w := &testWallet{connectErr: errors.New("no provider")}
		s := New(w, &testLedger{}, &testCache{})

		err := s.Connect(ctx)
		require.ErrorIs(t, err, krypt.ErrWalletUnavailable)
		require.Equal(t, StateDisconnected, s.State())

		notices := s.Notices()
		require.Len(t, notices, 1)
		require.Equal(t, krypt.ErrorKindWalletUnavailable, notices[0].Kind)
	})
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		draft krypt.TransferDraft
	}{
		{"empty", krypt.TransferDraft{}},
		{"missing message", krypt.TransferDraft{AddressTo: testRecipient, Amount: "1", Keyword: "cat"}},
		{"bad address", krypt.TransferDraft{AddressTo: "0x123", Amount: "1", Keyword: "cat", Message: "hi"}},
		{"bad amount", krypt.TransferDraft{AddressTo: testRecipient, Amount: "abc", Keyword: "cat", Message: "hi"}},
		{"negative amount", krypt.TransferDraft{AddressTo: testRecipient, Amount: "-1", Keyword: "cat", Message: "hi"}},
		{"too precise", krypt.TransferDraft{AddressTo: testRecipient, Amount: "0.0000000000000000001", Keyword: "cat", Message: "hi"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			acc := testAccount
			w := &testWallet{account: &acc}
			l := &testLedger{}
			s := New(w, l, &testCache{})
			require.NoError(t, s.Start(ctx))

			s.UpdateDraft(tc.draft)

			err := s.Submit(ctx)
			require.ErrorIs(t, err, krypt.ErrValidationFailed)
			require.Equal(t, StateConnectedIdle, s.State())
			require.Equal(t, 0, w.sentCount())
			require.Equal(t, 0, l.appends)
		})
	}

	t.Run("not connected", func(t *testing.T) {
		w := &testWallet{}
		s := New(w, &testLedger{}, &testCache{})
		fillDraft(s, "1")

		err := s.Submit(ctx)
		require.ErrorIs(t, err, krypt.ErrValidationFailed)
		require.Equal(t, StateDisconnected, s.State())
		require.Equal(t, 0, w.sentCount())
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	acc := testAccount
	w := &testWallet{account: &acc}
	l := &testLedger{}
	c := &testCache{}

	busy := []bool{}
	states := []State{}
	s := New(w, l, c, WithObserver(func(snap Snapshot) {
		if len(busy) == 0 || busy[len(busy)-1] != snap.Busy {
			busy = append(busy, snap.Busy)
		}
		if len(states) == 0 || states[len(states)-1] != snap.State {
			states = append(states, snap.State)
		}
		require.Equal(t, snap.State == StateSubmitting || snap.State == StateConfirming, snap.Busy)
	}))

	require.NoError(t, s.Start(ctx))
	require.False(t, s.Busy())
	require.Equal(t, int64(0), s.Count())

	fillDraft(s, "2")

	require.NoError(t, s.Submit(ctx))

	require.Equal(t, []bool{false, true, false}, busy)
	require.Equal(t, []State{
		StateConnectedIdle,
		StateSubmitting,
		StateConfirming,
		StateRefreshingAfterConfirm,
		StateDisconnected,
		StateConnectedIdle,
	}, states)

	require.Equal(t, StateConnectedIdle, s.State())
	require.Equal(t, int64(1), s.Count())
	require.Equal(t, krypt.TransferDraft{}, s.Draft())

	history := s.History()
	require.Len(t, history, 1)
	require.Equal(t, "2000000000000000000", history[0].AmountWei.String())
	require.Equal(t, 2.0, history[0].Amount)
	require.Equal(t, testAccount, history[0].From)
	require.Equal(t, common.HexToAddress(testRecipient), history[0].To)
	require.Equal(t, "hello", history[0].Message)
	require.Equal(t, "cat", history[0].Keyword)

	require.Len(t, w.sent, 1)
	require.Equal(t, krypt.TransferGasLimit, w.sent[0].GasLimit)
	require.Equal(t, testAccount, w.sent[0].From)
	require.Equal(t, "2000000000000000000", w.sent[0].ValueWei.String())

	cached, ok, err := c.TransferCount()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), cached)

	notices := s.Notices()
	require.Len(t, notices, 1)
	require.Equal(t, krypt.NoticeLevelInfo, notices[0].Level)
	require.Equal(t, "sent 2 ETH to 0x3C44...93BC", notices[0].Message)
}

func TestSubmitSendFailure(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		err  error
		kind krypt.ErrorKind
	}{
		{"rejected", krypt.NewError(krypt.ErrorKindUserRejected, "user rejected the request", nil), krypt.ErrorKindUserRejected},
		{"failed", errors.New("insufficient funds"), krypt.ErrorKindSubmissionFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			acc := testAccount
			w := &testWallet{account: &acc, sendErr: tc.err}
			l := &testLedger{}
			s := New(w, l, &testCache{})
			require.NoError(t, s.Start(ctx))
			fillDraft(s, "1")

			err := s.Submit(ctx)
			require.Error(t, err)
			require.Equal(t, tc.kind, krypt.KindOf(err))
			require.Equal(t, StateConnectedIdle, s.State())
			require.False(t, s.Busy())
			require.Equal(t, 0, l.appends)

			// the draft survives so the user can retry
			require.Equal(t, "1", s.Draft().Amount)
		})
	}
}

func TestSubmitAppendFailure(t *testing.T) {
	ctx := context.Background()

	acc := testAccount
	w := &testWallet{account: &acc}
	l := &testLedger{appendErr: krypt.NewError(krypt.ErrorKindUserRejected, "user rejected the request", nil)}
	s := New(w, l, &testCache{})
	require.NoError(t, s.Start(ctx))
	fillDraft(s, "1")

	err := s.Submit(ctx)
	require.ErrorIs(t, err, krypt.ErrUserRejected)
	require.Equal(t, StateConnectedIdle, s.State())
	require.Equal(t, 1, w.sentCount())
	require.Empty(t, s.History())
}

func TestSubmitReverted(t *testing.T) {
	ctx := context.Background()

	acc := testAccount
	w := &testWallet{account: &acc}
	l := &testLedger{wait: func(ctx context.Context) error {
		return errors.New("execution reverted")
	}}
	s := New(w, l, &testCache{})
	require.NoError(t, s.Start(ctx))
	fillDraft(s, "1")

	err := s.Submit(ctx)
	require.ErrorIs(t, err, krypt.ErrSubmissionFailed)
	require.Equal(t, StateConnectedIdle, s.State())
}

func TestSubmitConfirmationTimeout(t *testing.T) {
	ctx := context.Background()

	acc := testAccount
	w := &testWallet{account: &acc}
	l := &testLedger{wait: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	n := &testNotifier{}
	s := New(w, l, &testCache{}, WithConfirmTimeout(20*time.Millisecond), WithNotifier(n))
	require.NoError(t, s.Start(ctx))
	fillDraft(s, "1")

	err := s.Submit(ctx)
	require.ErrorIs(t, err, krypt.ErrConfirmationTimeout)
	require.Equal(t, StateConnectedIdle, s.State())
	require.False(t, s.Busy())
	require.Empty(t, s.History())

	require.Equal(t, 1, n.warnings)
	require.Equal(t, 0, n.errors)
}

func TestSubmitWhileBusy(t *testing.T) {
	ctx := context.Background()

	release := make(chan struct{})
	confirming := make(chan struct{})
	var once sync.Once

	acc := testAccount
	w := &testWallet{account: &acc}
	l := &testLedger{wait: func(ctx context.Context) error {
		<-release
		return nil
	}}
	s := New(w, l, &testCache{}, WithObserver(func(snap Snapshot) {
		if snap.State == StateConfirming {
			once.Do(func() { close(confirming) })
		}
	}))
	require.NoError(t, s.Start(ctx))
	fillDraft(s, "1")

	done := make(chan error, 1)
	go func() {
		done <- s.Submit(ctx)
	}()

	<-confirming
	require.True(t, s.Busy())

	require.ErrorIs(t, s.Submit(ctx), krypt.ErrBusy)
	require.ErrorIs(t, s.Connect(ctx), krypt.ErrBusy)
	require.ErrorIs(t, s.Reset(ctx), krypt.ErrBusy)
	require.Equal(t, StateConfirming, s.State())

	close(release)
	require.NoError(t, <-done)

	require.Equal(t, StateConnectedIdle, s.State())
	require.Equal(t, 1, w.sentCount())
	require.Len(t, s.History(), 1)
}

func TestResetDuringSubmit(t *testing.T) {
	ctx := context.Background()

	acc := testAccount
	w := &testWallet{account: &acc}
	l := &testLedger{}
	c := &testCache{}
	s := New(w, l, c)
	require.NoError(t, s.Start(ctx))
	fillDraft(s, "1")

	// reset stalls on the cache read, before touching the state
	resetEntered := make(chan struct{})
	resetRelease := make(chan struct{})
	c.mu.Lock()
	c.gate = func() {
		close(resetEntered)
		<-resetRelease
	}
	c.mu.Unlock()

	// the submission stalls while the wallet signs
	signEntered := make(chan struct{})
	signRelease := make(chan struct{})
	w.mu.Lock()
	w.sendGate = func() {
		close(signEntered)
		<-signRelease
	}
	w.mu.Unlock()

	resetDone := make(chan error, 1)
	go func() {
		resetDone <- s.Reset(ctx)
	}()
	<-resetEntered

	submitDone := make(chan error, 1)
	go func() {
		submitDone <- s.Submit(ctx)
	}()
	<-signEntered

	require.Equal(t, StateSubmitting, s.State())

	close(resetRelease)
	require.ErrorIs(t, <-resetDone, krypt.ErrBusy)

	require.Equal(t, StateSubmitting, s.State())
	require.True(t, s.Busy())
	require.Equal(t, "1", s.Draft().Amount)

	addr, ok := s.Account()
	require.True(t, ok)
	require.Equal(t, testAccount, addr)

	close(signRelease)
	require.NoError(t, <-submitDone)

	require.Equal(t, StateConnectedIdle, s.State())
	require.Equal(t, 1, w.sentCount())
	require.Len(t, s.History(), 1)
}

func TestStartKeepsSubmissionState(t *testing.T) {
	ctx := context.Background()

	acc := testAccount
	w := &testWallet{account: &acc}
	s := New(w, &testLedger{}, &testCache{})
	require.NoError(t, s.Start(ctx))
	fillDraft(s, "1")

	signEntered := make(chan struct{})
	signRelease := make(chan struct{})
	w.mu.Lock()
	w.sendGate = func() {
		close(signEntered)
		<-signRelease
	}
	w.mu.Unlock()

	submitDone := make(chan error, 1)
	go func() {
		submitDone <- s.Submit(ctx)
	}()
	<-signEntered

	// a discovery racing the submission must not report the store as idle
	require.NoError(t, s.Start(ctx))
	require.Equal(t, StateSubmitting, s.State())
	require.True(t, s.Busy())

	close(signRelease)
	require.NoError(t, <-submitDone)
	require.Equal(t, StateConnectedIdle, s.State())
}

func TestNotices(t *testing.T) {
	ctx := context.Background()

	n := &testNotifier{}
	s := New(&testWallet{}, &testLedger{}, &testCache{}, WithMaxNotices(2), WithNotifier(n))

	for i := 0; i < 3; i++ {
		require.Error(t, s.Submit(ctx))
	}

	notices := s.Notices()
	require.Len(t, notices, 2)

	// validation failures are not forwarded
	require.Equal(t, 0, n.errors)

	require.True(t, s.Dismiss(notices[0].ID))
	require.False(t, s.Dismiss(notices[0].ID))
	require.Len(t, s.Notices(), 1)
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	s := New(&testWallet{}, &testLedger{}, &testCache{})
	s.Close()

	require.ErrorIs(t, s.Start(ctx), ErrClosed)
	require.ErrorIs(t, s.Connect(ctx), ErrClosed)
	require.ErrorIs(t, s.Reset(ctx), ErrClosed)
	require.ErrorIs(t, s.Refresh(ctx), ErrClosed)
	require.ErrorIs(t, s.Submit(ctx), ErrClosed)
}

type testNotifier struct {
	mu       sync.Mutex
	messages int
	warnings int
	errors   int
}

func (n *testNotifier) Notify(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages++
	return nil
}

func (n *testNotifier) NotifyWarning(ctx context.Context, err error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings++
	return nil
}

func (n *testNotifier) NotifyError(ctx context.Context, err error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors++
	return nil
}
