package intake

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/orders/internal/metrics"
)

type Step int

const (
	StepCustomer Step = iota
	StepProduct
	StepQuantity
	StepPrice
)

// Session holds the fields collected so far for one conversation.
type Session struct {
	Step      Step
	Customer  string
	Product   string
	Quantity  int
	UpdatedAt time.Time
}

// SessionStore keeps per-conversation form state keyed by chat id. Entries
// expire after ttl so an abandoned form does not live forever.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	logger   *zap.Logger
}

func NewSessionStore(ttl time.Duration, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		logger:   logger,
	}
}

// Start begins a fresh session for the chat, discarding any previous state.
func (s *SessionStore) Start(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[chatID]; !exists {
		metrics.IntakeSessionsActive.Inc()
	}
	session := &Session{Step: StepCustomer, UpdatedAt: time.Now()}
	s.sessions[chatID] = session
	return session
}

// Get returns the session for the chat, if one is in progress and not expired.
func (s *SessionStore) Get(chatID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return nil, false
	}
	if time.Since(session.UpdatedAt) > s.ttl {
		delete(s.sessions, chatID)
		metrics.IntakeSessionsActive.Dec()
		return nil, false
	}
	return session, true
}

// Touch refreshes the session expiry after a turn.
func (s *SessionStore) Touch(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[chatID]; ok {
		session.UpdatedAt = time.Now()
	}
}

func (s *SessionStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[chatID]; ok {
		delete(s.sessions, chatID)
		metrics.IntakeSessionsActive.Dec()
	}
}

// StartCleanup prunes expired sessions until ctx is cancelled.
func (s *SessionStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanup()
			}
		}
	}()
}

func (s *SessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, session := range s.sessions {
		if time.Since(session.UpdatedAt) > s.ttl {
			delete(s.sessions, chatID)
			metrics.IntakeSessionsActive.Dec()
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("expired intake sessions removed", zap.Int("count", removed))
	}
}
