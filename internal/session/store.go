// Package session holds the per-upload state the UI used to keep in implicit
// widget bindings: the loaded sheets, the active sheet's raw and canonical
// tables, and the user's current view selections, all behind one explicit
// session object. Sessions live in memory only and expire; nothing persists.
package session

import (
	"log"
	"sync"
	"time"

	"brineviz/domain/core"
	"brineviz/domain/table"
	"brineviz/internal/normalize"
)

// Selections captures the user's current chart choices
type Selections struct {
	ScatterX         string   `json:"scatter_x,omitempty"`
	ScatterY         string   `json:"scatter_y,omitempty"`
	TimeSeriesParams []string `json:"time_series_params,omitempty"`
	RatioNumerator   string   `json:"ratio_numerator,omitempty"`
	RatioDenominator string   `json:"ratio_denominator,omitempty"`
}

// Session owns one upload's state. The raw tables are immutable once loaded;
// the canonical table is rebuilt in full whenever the active sheet or the
// cleaning options change.
type Session struct {
	ID         core.SessionID
	Filename   string
	Sheets     map[string]*table.RawTable
	SheetNames []string
	Active     string
	Canonical  *table.CanonicalTable
	Options    normalize.Options
	Selections Selections
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Raw returns the active sheet's raw table
func (s *Session) Raw() *table.RawTable {
	if s.Active == "" {
		return nil
	}
	return s.Sheets[s.Active]
}

// Store is an in-memory session registry. Each session is owned by one user
// interaction at a time; the store only guards the map itself.
type Store struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*Session
	ttl      time.Duration
}

// NewStore creates a store whose sessions expire after ttl of inactivity
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[core.SessionID]*Session),
		ttl:      ttl,
	}
}

// Create registers a new session for an upload. No sheet is active yet;
// SelectSheet runs the first normalization.
func (st *Store) Create(filename string, sheets map[string]*table.RawTable, sheetNames []string, opts normalize.Options) *Session {
	now := time.Now()
	sess := &Session{
		ID:         core.SessionID(core.NewID()),
		Filename:   filename,
		Sheets:     sheets,
		SheetNames: sheetNames,
		Options:    opts,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	log.Printf("[SessionStore] session %s created for %s (%d sheets)", sess.ID, filename, len(sheets))
	return sess
}

// Get looks up a session by ID and refreshes its expiry clock
func (st *Store) Get(id core.SessionID) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, core.NewSessionNotFoundError(id)
	}
	sess.UpdatedAt = time.Now()
	return sess, nil
}

// SelectSheet makes a sheet active and normalizes it from its stored raw
// table. On failure the session keeps its previous active sheet and
// canonical table; there is no partial result.
func (st *Store) SelectSheet(id core.SessionID, sheet string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, core.NewSessionNotFoundError(id)
	}
	raw, ok := sess.Sheets[sheet]
	if !ok {
		return nil, core.NewSheetNotFoundError(sheet)
	}

	canonical, err := normalize.New(sess.Options).Normalize(raw)
	if err != nil {
		return nil, err
	}

	sess.Active = sheet
	sess.Canonical = canonical
	sess.UpdatedAt = time.Now()
	log.Printf("[SessionStore] session %s normalized sheet %q (%d parameters, %d dates)",
		sess.ID, sheet, len(canonical.Rows), len(canonical.Dates))
	return sess, nil
}

// SetOptions swaps the cleaning options and renormalizes the active sheet,
// if any. Invalid options leave the session untouched.
func (st *Store) SetOptions(id core.SessionID, opts normalize.Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, core.NewSessionNotFoundError(id)
	}

	if sess.Active != "" {
		canonical, err := normalize.New(opts).Normalize(sess.Sheets[sess.Active])
		if err != nil {
			return nil, err
		}
		sess.Canonical = canonical
	}
	sess.Options = opts
	sess.UpdatedAt = time.Now()
	return sess, nil
}

// UpdateSelections applies a mutation to the session's chart selections
func (st *Store) UpdateSelections(id core.SessionID, update func(*Selections)) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, core.NewSessionNotFoundError(id)
	}
	update(&sess.Selections)
	sess.UpdatedAt = time.Now()
	return sess, nil
}

// Delete removes a session
func (st *Store) Delete(id core.SessionID) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// CleanupExpired drops sessions idle longer than the store's TTL and returns
// how many were removed
func (st *Store) CleanupExpired() int {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[SessionStore] expired %d idle sessions", removed)
	}
	return removed
}
