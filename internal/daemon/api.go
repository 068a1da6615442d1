package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/pipeline"

	"github.com/shopspring/decimal"
)

// Ledger operation names used in metrics.
const (
	opCreate    = "create_session"
	opSetIncome = "set_income"
	opAdd       = "add"
	opSync      = "sync"
	opPatch     = "patch"
	opDelete    = "delete"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var (
	errSessionNotFound = errors.New("session not found")
	errNotFound        = errors.New("not found")
)

// SummaryView is the JSON form of model.Summary. Amounts are decimal strings.
type SummaryView struct {
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	Deduction        decimal.Decimal `json:"deduction"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	TotalCommitments decimal.Decimal `json:"total_commitments"`
	Balance          decimal.Decimal `json:"balance"`
	CommitmentRatio  decimal.Decimal `json:"commitment_ratio"`
	BalanceRatio     decimal.Decimal `json:"balance_ratio"`
	RatiosDefined    bool            `json:"ratios_defined"`
}

// CommitmentView is one ledger entry.
type CommitmentView struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Class  string          `json:"class"`
}

// BreakdownView is one breakdown row.
type BreakdownView struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Class      string          `json:"class"`
	Percentage decimal.Decimal `json:"percentage"`
}

// SessionView is the full state of a session.
type SessionView struct {
	ID          string           `json:"id"`
	GrossSalary decimal.Decimal  `json:"gross_salary"`
	Commitments []CommitmentView `json:"commitments"`
	Summary     SummaryView      `json:"summary"`
	Breakdown   []BreakdownView  `json:"breakdown"`
}

type entryRequest struct {
	Name   string           `json:"name"`
	Amount *decimal.Decimal `json:"amount"`
}

type createRequest struct {
	GrossSalary *decimal.Decimal `json:"gross_salary"`
	Commitments []entryRequest   `json:"commitments"`
}

type incomeRequest struct {
	GrossSalary *decimal.Decimal `json:"gross_salary"`
}

type patchRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Toggle bool             `json:"toggle"`
	Rename *string          `json:"rename"`
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func summaryView(sum model.Summary) SummaryView {
	return SummaryView{
		GrossSalary:      sum.Gross,
		Deduction:        sum.Deduction,
		NetSalary:        sum.NetSalary,
		TotalCommitments: sum.TotalCommitments,
		Balance:          sum.Balance,
		CommitmentRatio:  sum.CommitmentRatio.Round(4),
		BalanceRatio:     sum.BalanceRatio.Round(4),
		RatiosDefined:    sum.RatiosDefined,
	}
}

func sessionView(id string, sess *pipeline.Session) SessionView {
	entries := sess.Ledger.Entries()
	v := SessionView{
		ID:          id,
		GrossSalary: sess.Income.Gross,
		Commitments: make([]CommitmentView, len(entries)),
		Summary:     summaryView(sess.Summary()),
	}
	for i, c := range entries {
		v.Commitments[i] = CommitmentView{Name: c.Name, Amount: c.Amount, Class: string(c.Classification)}
	}
	for _, r := range pipeline.Breakdown(entries) {
		v.Breakdown = append(v.Breakdown, BreakdownView{
			Name:       r.Name,
			Amount:     r.Amount,
			Class:      string(r.Classification),
			Percentage: r.Percentage,
		})
	}
	return v
}

func toEntries(reqs []entryRequest) ([]model.Entry, error) {
	out := make([]model.Entry, len(reqs))
	for i, e := range reqs {
		if e.Amount == nil {
			return nil, &model.InvalidInputError{Field: "amount", Reason: fmt.Sprintf("missing for %q", e.Name)}
		}
		out[i] = model.Entry{Name: e.Name, Amount: *e.Amount}
	}
	return out, nil
}

// apply runs fn on session id under its lock and answers with the new state.
// The session lock is released before the event is published.
func (s *Service) apply(w http.ResponseWriter, id, op, event string, code int, fn func(*pipeline.Session) error) {
	e := s.lookup(id)
	if e == nil {
		s.metrics.observeOp(op, resultNotFound)
		writeError(w, errSessionNotFound)
		return
	}

	e.mu.Lock()
	if err := fn(e.session); err != nil {
		e.mu.Unlock()
		s.metrics.observeOp(op, resultFor(err))
		s.log.Warn("ledger operation rejected", "op", op, "session", id, "error", err)
		writeError(w, err)
		return
	}
	e.lastUsed = s.now()
	view := sessionView(id, e.session)
	e.mu.Unlock()

	s.metrics.observeOp(op, resultOK)
	if event != "" {
		s.publish(event, id, &view.Summary)
	}
	writeJSON(w, code, view)
}

func (s *Service) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.metrics.observeOp(opCreate, resultInvalid)
		writeError(w, err)
		return
	}

	gross := s.cfg.DefaultGross
	if req.GrossSalary != nil {
		gross = *req.GrossSalary
	}
	sess, err := pipeline.NewSession(gross)
	if err == nil && req.Commitments != nil {
		var entries []model.Entry
		if entries, err = toEntries(req.Commitments); err == nil {
			err = sess.Ledger.Sync(entries)
		}
	}
	if err != nil {
		s.metrics.observeOp(opCreate, resultFor(err))
		writeError(w, err)
		return
	}

	id := s.createSession(sess)
	s.metrics.observeOp(opCreate, resultOK)
	view := sessionView(id, sess)
	s.publish(EventSessionCreated, id, &view.Summary)
	writeJSON(w, http.StatusCreated, view)
}

func (s *Service) handleGetSession(w http.ResponseWriter, r *http.Request) {
	e := s.lookup(r.PathValue("id"))
	if e == nil {
		writeError(w, errSessionNotFound)
		return
	}
	e.mu.Lock()
	e.lastUsed = s.now()
	view := sessionView(r.PathValue("id"), e.session)
	e.mu.Unlock()

	writeJSON(w, http.StatusOK, view)
}

func (s *Service) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.deleteSession(id) {
		writeError(w, errSessionNotFound)
		return
	}
	s.publish(EventSessionDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.metrics.observeOp(opSetIncome, resultInvalid)
		writeError(w, err)
		return
	}
	if req.GrossSalary == nil {
		s.metrics.observeOp(opSetIncome, resultInvalid)
		writeError(w, &model.InvalidInputError{Field: "gross salary", Reason: "missing"})
		return
	}

	s.apply(w, r.PathValue("id"), opSetIncome, EventIncomeChanged, http.StatusOK, func(sess *pipeline.Session) error {
		return sess.SetGrossSalary(*req.GrossSalary)
	})
}

func (s *Service) handleAddCommitment(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.metrics.observeOp(opAdd, resultInvalid)
		writeError(w, err)
		return
	}
	entries, err := toEntries([]entryRequest{req})
	if err != nil {
		s.metrics.observeOp(opAdd, resultInvalid)
		writeError(w, err)
		return
	}

	s.apply(w, r.PathValue("id"), opAdd, EventLedgerChanged, http.StatusCreated, func(sess *pipeline.Session) error {
		return sess.Ledger.Add(entries[0].Name, entries[0].Amount)
	})
}

func (s *Service) handleSyncCommitments(w http.ResponseWriter, r *http.Request) {
	var req []entryRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.metrics.observeOp(opSync, resultInvalid)
		writeError(w, err)
		return
	}
	entries, err := toEntries(req)
	if err != nil {
		s.metrics.observeOp(opSync, resultInvalid)
		writeError(w, err)
		return
	}

	s.apply(w, r.PathValue("id"), opSync, EventLedgerChanged, http.StatusOK, func(sess *pipeline.Session) error {
		return sess.Ledger.Sync(entries)
	})
}

// handlePatchCommitment applies amount, toggle and rename in that order.
// All inputs are validated before anything changes.
func (s *Service) handlePatchCommitment(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.metrics.observeOp(opPatch, resultInvalid)
		writeError(w, err)
		return
	}
	if req.Amount == nil && !req.Toggle && req.Rename == nil {
		s.metrics.observeOp(opPatch, resultInvalid)
		writeError(w, &model.InvalidInputError{Field: "patch", Reason: "expected amount, toggle or rename"})
		return
	}
	if req.Amount != nil {
		if err := model.ValidateAmount(*req.Amount); err != nil {
			s.metrics.observeOp(opPatch, resultInvalid)
			writeError(w, err)
			return
		}
	}
	if req.Rename != nil {
		if err := model.ValidateName(*req.Rename); err != nil {
			s.metrics.observeOp(opPatch, resultInvalid)
			writeError(w, err)
			return
		}
	}

	name := r.PathValue("name")
	s.apply(w, r.PathValue("id"), opPatch, EventLedgerChanged, http.StatusOK, func(sess *pipeline.Session) error {
		if _, ok := sess.Ledger.Get(name); !ok {
			return fmt.Errorf("%w: commitment %q", errNotFound, name)
		}
		if req.Amount != nil {
			if err := sess.Ledger.SetAmount(name, *req.Amount); err != nil {
				return err
			}
		}
		if req.Toggle {
			sess.Ledger.Toggle(name)
		}
		if req.Rename != nil {
			return sess.Ledger.Rename(name, *req.Rename)
		}
		return nil
	})
}

func (s *Service) handleDeleteCommitment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e := s.lookup(id)
	if e == nil {
		s.metrics.observeOp(opDelete, resultNotFound)
		writeError(w, errSessionNotFound)
		return
	}

	e.mu.Lock()
	e.session.Ledger.Delete(r.PathValue("name"))
	e.lastUsed = s.now()
	sum := summaryView(e.session.Summary())
	e.mu.Unlock()

	s.metrics.observeOp(opDelete, resultOK)
	s.publish(EventLedgerChanged, id, &sum)
	w.WriteHeader(http.StatusNoContent)
}

func resultFor(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return resultInvalid
	case errors.Is(err, errNotFound), errors.Is(err, errSessionNotFound):
		return resultNotFound
	default:
		return "error"
	}
}

// decodeBody decodes a JSON request body into v. An empty body is accepted
// only when allowEmpty is set.
func decodeBody(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return &model.InvalidInputError{Field: "body", Reason: strings.TrimPrefix(err.Error(), "json: ")}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var iie *model.InvalidInputError
	switch {
	case errors.As(err, &iie):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Field: iie.Field})
	case errors.Is(err, errSessionNotFound), errors.Is(err, errNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}
