package transfers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	com "github.com/kryptapp/krypt/internal/common"
	"github.com/kryptapp/krypt/pkg/krypt"
	"github.com/kryptapp/krypt/pkg/store"
)

// GifSearcher resolves a keyword to an image url, it never fails
type GifSearcher interface {
	Search(ctx context.Context, keyword string) string
}

type Service struct {
	store *store.Store
	gifs  GifSearcher

	// submit runs a detached submission, replaced in tests
	submit func(fn func())
}

func NewService(s *store.Store, gifs GifSearcher) *Service {
	return &Service{
		store: s,
		gifs:  gifs,
		submit: func(fn func()) {
			go fn()
		},
	}
}

type record struct {
	From      string  `json:"from"`
	FromShort string  `json:"from_short"`
	To        string  `json:"to"`
	ToShort   string  `json:"to_short"`
	AmountWei string  `json:"amount_wei"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message"`
	Keyword   string  `json:"keyword"`
	Timestamp int64   `json:"timestamp"`
	Date      string  `json:"date"`
}

func newRecord(r krypt.TransferRecord) record {
	from := r.From.Hex()
	to := r.To.Hex()

	wei := "0"
	if r.AmountWei != nil {
		wei = r.AmountWei.String()
	}

	return record{
		From:      from,
		FromShort: com.ShortenAddress(from),
		To:        to,
		ToShort:   com.ShortenAddress(to),
		AmountWei: wei,
		Amount:    r.Amount,
		Message:   r.Message,
		Keyword:   r.Keyword,
		Timestamp: r.TimestampMillis(),
		Date:      r.Timestamp.Format(time.RFC3339),
	}
}

type state struct {
	State   store.State         `json:"state"`
	Account string              `json:"account,omitempty"`
	Short   string              `json:"account_short,omitempty"`
	Draft   krypt.TransferDraft `json:"draft"`
	Count   int64               `json:"transfer_count"`
	Busy    bool                `json:"busy"`
}

// State returns the current state of the store, without the history
func (s *Service) State(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	st := state{
		State: snap.State,
		Draft: snap.Draft,
		Count: snap.Count,
		Busy:  snap.Busy,
	}

	if snap.Account != nil {
		st.Account = snap.Account.Hex()
		st.Short = com.ShortenAddress(st.Account)
	}

	err := com.Body(w, st, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Connect prompts the wallet for an account
func (s *Service) Connect(w http.ResponseWriter, r *http.Request) {
	err := s.store.Connect(r.Context())
	if err != nil {
		com.ErrorResponse(w, err)
		return
	}

	s.State(w, r)
}

// Reset reinitializes the store
func (s *Service) Reset(w http.ResponseWriter, r *http.Request) {
	err := s.store.Reset(r.Context())
	if err != nil {
		com.ErrorResponse(w, err)
		return
	}

	s.State(w, r)
}

// UpdateDraft overwrites the fields present in the body, a body with "field" and "value" sets a single field
func (s *Service) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		krypt.TransferDraft
		Field string `json:"field"`
		Value string `json:"value"`
	}

	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if body.Field != "" {
		field, err := krypt.DraftFieldFromString(body.Field)
		if err != nil {
			com.ErrorResponse(w, err)
			return
		}

		s.store.SetDraftField(field, body.Value)
	} else {
		s.store.UpdateDraft(body.TransferDraft)
	}

	err = com.Body(w, s.store.Draft(), nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetAll returns the transfer history, optionally filtered on an address
func (s *Service) GetAll(w http.ResponseWriter, r *http.Request) {
	history := s.store.History()

	addr := r.URL.Query().Get("address")
	if addr != "" {
		addr = com.ChecksumAddress(addr)

		history = com.Filter(history, func(h krypt.TransferRecord) bool {
			return com.IsSameHexAddress(addr, h.From.Hex()) || com.IsSameHexAddress(addr, h.To.Hex())
		})
	}

	records := []record{}
	for _, h := range history {
		records = append(records, newRecord(h))
	}

	err := com.BodyMultiple(w, records, com.Pagination{Limit: len(records), Offset: 0, Total: len(records)})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Send submits the draft. The submission needs wallet prompts and a confirmation, so it runs
// detached from the request; progress is visible through the state and notices.
func (s *Service) Send(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil && r.Body != http.NoBody {
		defer r.Body.Close()

		// an empty body submits the draft as it is
		var d krypt.TransferDraft
		err := json.NewDecoder(r.Body).Decode(&d)
		switch {
		case errors.Is(err, io.EOF):
		case err != nil:
			w.WriteHeader(http.StatusBadRequest)
			return
		default:
			s.store.UpdateDraft(d)
		}
	}

	if s.store.Busy() {
		com.ErrorResponse(w, krypt.ErrBusy)
		return
	}

	if _, ok := s.store.Account(); !ok {
		com.ErrorResponse(w, krypt.NewError(krypt.ErrorKindValidationFailed, "connect a wallet before sending", nil))
		return
	}

	d := s.store.Draft()
	if _, _, err := d.Validate(); err != nil {
		com.ErrorResponse(w, err)
		return
	}

	s.submit(func() {
		err := s.store.Submit(context.Background())
		if err != nil {
			log.Default().Println("submission failed: ", err)
		}
	})

	w.WriteHeader(http.StatusAccepted)
}

// Refresh reloads the history and count from the ledger
func (s *Service) Refresh(w http.ResponseWriter, r *http.Request) {
	err := s.store.Refresh(r.Context())
	if err != nil {
		com.ErrorResponse(w, err)
		return
	}

	s.GetAll(w, r)
}

func (s *Service) Notices(w http.ResponseWriter, r *http.Request) {
	err := com.BodyMultiple(w, s.store.Notices(), nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Service) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !s.store.Dismiss(id) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type gif struct {
	Keyword string `json:"keyword"`
	URL     string `json:"url"`
}

// Gif returns the image associated with a keyword
func (s *Service) Gif(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err := com.Body(w, gif{Keyword: keyword, URL: s.gifs.Search(r.Context(), keyword)}, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
