package daemon

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return New(Config{
		DefaultGross: decimal.NewFromInt(4030),
		EventsBuffer: 50,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) SessionView {
	t.Helper()
	var v SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createSession(t *testing.T, h http.Handler) SessionView {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeView(t, rec)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2})

	s.publish(EventLedgerChanged, "a", nil)
	s.publish(EventLedgerChanged, "b", nil)
	s.publish(EventLedgerChanged, "c", nil)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestService().Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestCreateSessionDefaults(t *testing.T) {
	v := createSession(t, newTestService().Handler())

	assert.NotEmpty(t, v.ID)
	assert.Len(t, v.Commitments, 18)
	assert.True(t, v.Summary.NetSalary.Equal(dec("3586.7")))
	assert.True(t, v.Summary.TotalCommitments.Equal(dec("3300.49")))
	assert.True(t, v.Summary.Balance.Equal(dec("286.21")))
	assert.True(t, v.Summary.CommitmentRatio.Round(2).Equal(dec("92.02")))
	assert.Equal(t, "Rumah Sewa", v.Breakdown[0].Name)
}

func TestCreateSessionWithBody(t *testing.T) {
	h := newTestService().Handler()
	rec := do(t, h, http.MethodPost, "/v1/sessions",
		`{"gross_salary": "5000", "commitments": [{"name": "Rent", "amount": "1500"}, {"name": "Food", "amount": 300}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	v := decodeView(t, rec)
	assert.True(t, v.GrossSalary.Equal(dec("5000")))
	require.Len(t, v.Commitments, 2)
	assert.Equal(t, "flexible", v.Commitments[0].Class)

	rec = do(t, h, http.MethodPost, "/v1/sessions", `{"gross_salary": "-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJSONAmountsAreStrings(t *testing.T) {
	h := newTestService().Handler()
	rec := do(t, h, http.MethodPost, "/v1/sessions", "")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "4030", raw["gross_salary"])
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newTestService().Handler()
	a := createSession(t, h)
	b := createSession(t, h)
	require.NotEqual(t, a.ID, b.ID)

	rec := do(t, h, http.MethodDelete, "/v1/sessions/"+a.ID+"/commitments/Makan", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	got := decodeView(t, do(t, h, http.MethodGet, "/v1/sessions/"+b.ID, ""))
	assert.Len(t, got.Commitments, 18)
	got = decodeView(t, do(t, h, http.MethodGet, "/v1/sessions/"+a.ID, ""))
	assert.Len(t, got.Commitments, 17)
}

func TestUnknownSession(t *testing.T) {
	h := newTestService().Handler()

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/v1/sessions/nope", ""},
		{http.MethodDelete, "/v1/sessions/nope", ""},
		{http.MethodPut, "/v1/sessions/nope/income", `{"gross_salary": "1"}`},
		{http.MethodPost, "/v1/sessions/nope/commitments", `{"name": "Gym", "amount": "1"}`},
		{http.MethodDelete, "/v1/sessions/nope/commitments/Gym", ""},
	} {
		rec := do(t, h, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestAddAndSetIncome(t *testing.T) {
	h := newTestService().Handler()
	id := createSession(t, h).ID

	rec := do(t, h, http.MethodPost, "/v1/sessions/"+id+"/commitments", `{"name": "Gym", "amount": "45.50"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decodeView(t, rec)
	assert.Len(t, v.Commitments, 19)
	assert.True(t, v.Summary.TotalCommitments.Equal(dec("3345.99")))

	rec = do(t, h, http.MethodPut, "/v1/sessions/"+id+"/income", `{"gross_salary": "0"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	assert.False(t, v.Summary.RatiosDefined)
	assert.True(t, v.Summary.CommitmentRatio.IsZero())
}

func TestInvalidInputIs400AndLeavesState(t *testing.T) {
	h := newTestService().Handler()
	id := createSession(t, h).ID

	cases := []struct{ method, path, body string }{
		{http.MethodPost, "/v1/sessions/" + id + "/commitments", `{"name": "", "amount": "1"}`},
		{http.MethodPost, "/v1/sessions/" + id + "/commitments", `{"name": "Gym", "amount": "-1"}`},
		{http.MethodPost, "/v1/sessions/" + id + "/commitments", `{"name": "Gym"}`},
		{http.MethodPost, "/v1/sessions/" + id + "/commitments", `not json`},
		{http.MethodPut, "/v1/sessions/" + id + "/income", `{"gross_salary": "-4030"}`},
		{http.MethodPut, "/v1/sessions/" + id + "/income", `{}`},
		{http.MethodPut, "/v1/sessions/" + id + "/commitments", `[{"name": "A", "amount": "1"}, {"name": "B", "amount": "-1"}]`},
		{http.MethodPatch, "/v1/sessions/" + id + "/commitments/Ninja", `{"amount": "-5"}`},
		{http.MethodPatch, "/v1/sessions/" + id + "/commitments/Ninja", `{}`},
		{http.MethodPatch, "/v1/sessions/" + id + "/commitments/Ninja", `{"rename": " "}`},
	}
	for _, tc := range cases {
		rec := do(t, h, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s %s", tc.method, tc.path, tc.body)
	}

	v := decodeView(t, do(t, h, http.MethodGet, "/v1/sessions/"+id, ""))
	assert.Len(t, v.Commitments, 18)
	assert.True(t, v.GrossSalary.Equal(dec("4030")))
	assert.True(t, v.Commitments[1].Amount.Equal(dec("290")))
}

func TestHugeExponentAmountsRejected(t *testing.T) {
	h := newTestService().Handler()

	rec := do(t, h, http.MethodPost, "/v1/sessions",
		`{"commitments": [{"name": "A", "amount": "1e2000000"}, {"name": "B", "amount": "1"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Less(t, rec.Body.Len(), 1024)

	rec = do(t, h, http.MethodPost, "/v1/sessions", `{"gross_salary": "1e2000000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := createSession(t, h).ID
	cases := []struct{ method, path, body string }{
		{http.MethodPost, "/v1/sessions/" + id + "/commitments", `{"name": "Gym", "amount": "1e2000000"}`},
		{http.MethodPost, "/v1/sessions/" + id + "/commitments", `{"name": "Gym", "amount": "1e-2000000"}`},
		{http.MethodPut, "/v1/sessions/" + id + "/income", `{"gross_salary": "1e13"}`},
		{http.MethodPut, "/v1/sessions/" + id + "/commitments", `[{"name": "A", "amount": "1e2000000"}]`},
		{http.MethodPatch, "/v1/sessions/" + id + "/commitments/Ninja", `{"amount": "1e2000000"}`},
	}
	for _, tc := range cases {
		rec := do(t, h, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s %s", tc.method, tc.path, tc.body)
	}

	rec = do(t, h, http.MethodPost, "/v1/sessions/"+id+"/commitments", `{"name": "Gym", "amount": "999999999999.99"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	v := decodeView(t, do(t, h, http.MethodGet, "/v1/sessions/"+id, ""))
	assert.True(t, v.GrossSalary.Equal(dec("4030")))
	assert.True(t, v.Commitments[1].Amount.Equal(dec("290")))
}

func TestPatchCommitment(t *testing.T) {
	h := newTestService().Handler()
	id := createSession(t, h).ID

	rec := do(t, h, http.MethodPatch, "/v1/sessions/"+id+"/commitments/Ninja",
		`{"amount": "310", "toggle": true, "rename": "Motorbike"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	v := decodeView(t, rec)
	got := v.Commitments[1]
	assert.Equal(t, "Motorbike", got.Name)
	assert.True(t, got.Amount.Equal(dec("310")))
	assert.Equal(t, "flexible", got.Class)

	rec = do(t, h, http.MethodPatch, "/v1/sessions/"+id+"/commitments/Ninja", `{"toggle": true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSyncCommitments(t *testing.T) {
	h := newTestService().Handler()
	id := createSession(t, h).ID

	rec := do(t, h, http.MethodPut, "/v1/sessions/"+id+"/commitments",
		`[{"name": "Ninja", "amount": "300"}, {"name": "Gym", "amount": "45"}, {"name": "Ninja", "amount": "310"}]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	v := decodeView(t, rec)
	require.Len(t, v.Commitments, 2)
	assert.Equal(t, "Ninja", v.Commitments[0].Name)
	assert.True(t, v.Commitments[0].Amount.Equal(dec("310")))
	assert.Equal(t, "fixed", v.Commitments[0].Class)
}

func TestDeleteCommitmentIdempotent(t *testing.T) {
	h := newTestService().Handler()
	id := createSession(t, h).ID

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodDelete, "/v1/sessions/"+id+"/commitments/Nonexistent", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
	v := decodeView(t, do(t, h, http.MethodGet, "/v1/sessions/"+id, ""))
	assert.Len(t, v.Commitments, 18)
}

func TestDeleteSession(t *testing.T) {
	h := newTestService().Handler()
	id := createSession(t, h).ID

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/v1/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/sessions/"+id, "").Code)
}

func TestEventsAndStatus(t *testing.T) {
	s := newTestService()
	h := s.Handler()
	id := createSession(t, h).ID
	do(t, h, http.MethodPost, "/v1/sessions/"+id+"/commitments", `{"name": "Gym", "amount": "45"}`)

	var events []Event
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/v1/events", "").Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, EventSessionCreated, events[0].Type)
	assert.Equal(t, EventLedgerChanged, events[1].Type)
	assert.Equal(t, id, events[1].SessionID)
	require.NotNil(t, events[1].Summary)
	assert.True(t, events[1].Summary.TotalCommitments.Equal(dec("3345.49")))

	var st Status
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodGet, "/v1/status", "").Body.Bytes(), &st))
	assert.Equal(t, 1, st.Sessions)
	assert.Equal(t, 2, st.EventCount)
}

func TestEvictIdle(t *testing.T) {
	s := newTestService()
	h := s.Handler()
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	stale := createSession(t, h).ID
	now = now.Add(23 * time.Hour)
	fresh := createSession(t, h).ID
	now = now.Add(2 * time.Hour)

	assert.Equal(t, 1, s.evictIdle())
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/sessions/"+stale, "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/sessions/"+fresh, "").Code)
}

func TestMetricsExposed(t *testing.T) {
	h := newTestService().Handler()
	id := createSession(t, h).ID
	do(t, h, http.MethodPatch, "/v1/sessions/"+id+"/commitments/Ninja", `{"amount": "-5"}`)

	body := do(t, h, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `cbudget_ledger_operations_total{op="create_session",result="ok"} 1`)
	assert.Contains(t, body, `cbudget_ledger_operations_total{op="patch",result="invalid"} 1`)
	assert.Contains(t, body, "cbudget_sessions 1")
	assert.Contains(t, body, "cbudget_http_request_duration_seconds_bucket")
}

func TestWriteSSE(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSSE(rec, Event{ID: 7, Type: EventLedgerChanged, SessionID: "abc"})

	out := rec.Body.String()
	if !strings.HasPrefix(out, "id: 7\nevent: ledger_changed\ndata: {") {
		t.Fatalf("unexpected SSE frame: %q", out)
	}
	if !bytes.HasSuffix(rec.Body.Bytes(), []byte("}\n\n")) {
		t.Fatalf("SSE frame not terminated: %q", out)
	}
}
