package paper

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrSessionNotFound indicates an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Session is one isolated paper trading run: its configuration, current
// portfolio, trade ledger and lifecycle state.
type Session struct {
	ID        string    `json:"id"`
	Config    Config    `json:"config"`
	Portfolio Portfolio `json:"portfolio"`
	Trades    []Trade   `json:"trades"`
	StartedAt time.Time `json:"started_at"`
	IsRunning bool      `json:"is_running"`
}

// clone returns a deep copy safe to hand to callers.
func (s *Session) clone() *Session {
	out := *s
	out.Portfolio = s.Portfolio.Clone()
	out.Trades = CloneTrades(s.Trades)
	return &out
}

// Registry owns all sessions of the process. Sessions are looked up by id and
// live until the process exits; stopping a session keeps it retrievable.
//
// A single mutex guards the session map. There is no per-session lock:
// concurrent updates to the same session are last-write-wins, which is
// acceptable because each session has exactly one logical writer. Safety
// under concurrent multi-writer access is a non-goal.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	defaults        Config
	writer          *SnapshotWriter
	logger          zerolog.Logger
	onSnapshotError func(error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithSnapshotWriter enables best-effort snapshot persistence on Stop.
func WithSnapshotWriter(w *SnapshotWriter) Option {
	return func(r *Registry) { r.writer = w }
}

// WithLogger overrides the package-global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithSnapshotErrorHook registers a callback invoked when a snapshot write
// fails. The failure is still swallowed; the hook exists for observability.
func WithSnapshotErrorHook(fn func(error)) Option {
	return func(r *Registry) { r.onSnapshotError = fn }
}

// NewRegistry creates an empty registry using defaults as the base session
// configuration.
func NewRegistry(defaults Config, opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		defaults: defaults,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// newSessionID builds a time-prefixed id with a random suffix. Collisions are
// treated as negligible and not defended against.
func newSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("paper_%d_%s", now.UnixMilli(), suffix)
}

// Start creates a session from the registry defaults overlaid with the
// caller's patch, inserts it and returns a copy of the new session.
func (r *Registry) Start(patch ConfigPatch) (*Session, error) {
	cfg := r.defaults.Apply(patch)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &Session{
		ID:        newSessionID(now),
		Config:    cfg,
		Portfolio: NewPortfolio(cfg.InitialBalance),
		Trades:    []Trade{},
		StartedAt: now,
		IsRunning: true,
	}

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	r.logger.Info().
		Str("session_id", session.ID).
		Float64("initial_balance", cfg.InitialBalance).
		Strs("symbols", cfg.Symbols).
		Msg("Paper trading session started")

	return session.clone(), nil
}

// Stop marks the session as stopped and triggers a best-effort snapshot
// write. A snapshot failure is logged and swallowed; Stop still succeeds.
// Stopping an already-stopped session is idempotent; the second return
// reports whether this call performed the running-to-stopped transition.
func (r *Registry) Stop(id string) (*Session, bool, error) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return nil, false, fmt.Errorf("stop %q: %w", id, ErrSessionNotFound)
	}
	transitioned := session.IsRunning
	session.IsRunning = false
	snapshot := session.clone()
	r.mu.Unlock()

	if r.writer != nil {
		if err := r.writer.Write(snapshot); err != nil {
			r.logger.Warn().Err(err).
				Str("session_id", id).
				Msg("Session snapshot write failed")
			if r.onSnapshotError != nil {
				r.onSnapshotError(err)
			}
		}
	}

	r.logger.Info().
		Str("session_id", id).
		Int("trades", len(snapshot.Trades)).
		Float64("final_equity", snapshot.Portfolio.Equity).
		Msg("Paper trading session stopped")

	return snapshot, transitioned, nil
}

// Update wholesale-replaces the session's portfolio and/or trade ledger with
// the supplied state. Nil arguments leave the corresponding part untouched.
// The replaced portfolio is re-observed so the equity-curve invariants hold
// no matter what the caller sent.
func (r *Registry) Update(id string, portfolio *Portfolio, trades []Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("update %q: %w", id, ErrSessionNotFound)
	}

	if portfolio != nil {
		p := portfolio.Clone()
		p.Observe()
		session.Portfolio = p
	}
	if trades != nil {
		if len(trades) < len(session.Trades) {
			r.logger.Warn().
				Str("session_id", id).
				Int("have", len(session.Trades)).
				Int("incoming", len(trades)).
				Msg("Ledger replacement shrinks trade history")
		}
		session.Trades = CloneTrades(trades)
	}
	return nil
}

// Get returns a copy of the session.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", id, ErrSessionNotFound)
	}
	return session.clone(), nil
}

// List returns copies of all sessions ordered by start time, newest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		out = append(out, session.clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
