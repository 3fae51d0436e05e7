package wizard

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/nagame-dev/aiready/internal/quizbank"
)

// Store holds the live sessions, keyed by opaque token. Sessions are
// isolated from each other; the store lock only guards the map.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	clock    func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		clock:    time.Now,
	}
}

func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Create starts a fresh session over the given question bank.
func (st *Store) Create(questions []quizbank.Question, referrer, userAgent string) *Session {
	s := newSession(generateToken(), questions, referrer, userAgent, st.clock())
	st.mu.Lock()
	st.sessions[s.Token] = s
	st.mu.Unlock()
	return s
}

// Get returns the session for a token, or nil.
func (st *Store) Get(token string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[token]
}

// Delete removes a session after an explicit teardown.
func (st *Store) Delete(token string) {
	st.mu.Lock()
	delete(st.sessions, token)
	st.mu.Unlock()
}
