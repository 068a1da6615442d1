// Package daemon serves budget sessions over a JSON HTTP API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/cbudget/internal/pipeline"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Config controls the service runtime behavior.
type Config struct {
	Addr          string
	DefaultGross  decimal.Decimal
	SessionTTL    time.Duration
	SweepInterval time.Duration
	EventsBuffer  int
	Logger        *slog.Logger
}

// Event is emitted whenever a session changes.
type Event struct {
	ID        int64        `json:"id"`
	Type      string       `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	SessionID string       `json:"session_id"`
	Summary   *SummaryView `json:"summary,omitempty"`
}

// Event types.
const (
	EventSessionCreated = "session_created"
	EventSessionDeleted = "session_deleted"
	EventSessionExpired = "session_expired"
	EventLedgerChanged  = "ledger_changed"
	EventIncomeChanged  = "income_changed"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Sessions        int       `json:"sessions"`
	SessionTTLSec   int       `json:"session_ttl_sec"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// sessionEntry serializes operations on one session.
type sessionEntry struct {
	mu       sync.Mutex
	session  *pipeline.Session
	lastUsed time.Time
}

// Service holds the session registry and HTTP API.
type Service struct {
	cfg     Config
	log     *slog.Logger
	metrics *Metrics
	now     func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	sessions    map[string]*sessionEntry
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new service with the provided config.
func New(cfg Config) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		log:       cfg.Logger,
		metrics:   newMetrics(),
		now:       time.Now,
		startedAt: time.Now(),
		sessions:  make(map[string]*sessionEntry),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the instrumented HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)

	mux.HandleFunc("POST /v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("PUT /v1/sessions/{id}/income", s.handleSetIncome)
	mux.HandleFunc("POST /v1/sessions/{id}/commitments", s.handleAddCommitment)
	mux.HandleFunc("PUT /v1/sessions/{id}/commitments", s.handleSyncCommitments)
	mux.HandleFunc("PATCH /v1/sessions/{id}/commitments/{name}", s.handlePatchCommitment)
	mux.HandleFunc("DELETE /v1/sessions/{id}/commitments/{name}", s.handleDeleteCommitment)

	mux.Handle("GET /metrics", s.metrics.Handler())

	return instrument(mux, s.metrics, s.log)
}

// Run serves HTTP and sweeps idle sessions until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		s.log.Info("cbudget service listening", "addr", s.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := s.evictIdle(); n > 0 {
					s.log.Info("expired idle sessions", "count", n)
				}
			}
		}
	})

	return g.Wait()
}

// createSession registers sess under a fresh id.
func (s *Service) createSession(sess *pipeline.Session) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &sessionEntry{session: sess, lastUsed: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.sessions.Set(float64(n))
	return id
}

// lookup returns the entry for id, or nil.
func (s *Service) lookup(id string) *sessionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// deleteSession drops id and reports whether it existed.
func (s *Service) deleteSession(id string) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.sessions.Set(float64(n))
	return ok
}

// evictIdle drops sessions unused for longer than SessionTTL.
func (s *Service) evictIdle() int {
	cutoff := s.now().Add(-s.cfg.SessionTTL)

	s.mu.Lock()
	var expired []string
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := e.lastUsed.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.sessions.Set(float64(n))
	for _, id := range expired {
		s.publish(EventSessionExpired, id, nil)
	}
	return len(expired)
}

// publish appends an event to the ring buffer and fans it out to streams.
func (s *Service) publish(typ, sessionID string, summary *SummaryView) {
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: s.now(),
		SessionID: sessionID,
		Summary:   summary,
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Sessions:        len(s.sessions),
		SessionTTLSec:   int(s.cfg.SessionTTL.Seconds()),
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
