package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Check-in flow states. A session moves IDLE -> PENDING_VERIFY on scan or bill
// submission, then to exactly one terminal state. Terminal states are never
// retried automatically; the user must start a new scan.
const (
	ScanStateIdle          = "IDLE"
	ScanStatePendingVerify = "PENDING_VERIFY"
	ScanStateCredited      = "CREDITED"
	ScanStateRejected      = "REJECTED"
)

// ScanSession tracks one pass through the check-in state machine.
type ScanSession struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	State         string     `json:"state"`
	VendorID      *uuid.UUID `json:"vendor_id,omitempty"`
	TransactionID *uuid.UUID `json:"transaction_id,omitempty"`
	Message       string     `json:"message,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Terminal reports whether the session reached an end state.
func (s *ScanSession) Terminal() bool {
	return s.State == ScanStateCredited || s.State == ScanStateRejected
}

// ScanStore manages in-flight scan sessions in memory.
type ScanStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*ScanSession
}

func NewScanStore() *ScanStore {
	return &ScanStore{sessions: make(map[uuid.UUID]*ScanSession)}
}

// Begin opens a session in PENDING_VERIFY. Stale terminal sessions are
// reaped on each new scan.
func (ss *ScanStore) Begin(userID uuid.UUID) *ScanSession {
	ss.cleanup()

	ss.mu.Lock()
	defer ss.mu.Unlock()

	session := &ScanSession{
		ID:        uuid.New(),
		UserID:    userID,
		State:     ScanStatePendingVerify,
		StartedAt: time.Now(),
	}
	ss.sessions[session.ID] = session
	return session
}

// Get retrieves a session by id.
func (ss *ScanStore) Get(id uuid.UUID) (*ScanSession, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	session, exists := ss.sessions[id]
	return session, exists
}

// Credit moves a pending session to CREDITED. Transitions out of a terminal
// state are ignored.
func (ss *ScanStore) Credit(id, vendorID, transactionID uuid.UUID) {
	ss.complete(id, ScanStateCredited, func(s *ScanSession) {
		s.VendorID = &vendorID
		s.TransactionID = &transactionID
	})
}

// Reject moves a pending session to REJECTED with a user-visible reason.
func (ss *ScanStore) Reject(id uuid.UUID, reason string) {
	ss.complete(id, ScanStateRejected, func(s *ScanSession) {
		s.Message = reason
	})
}

func (ss *ScanStore) complete(id uuid.UUID, state string, update func(*ScanSession)) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	session, exists := ss.sessions[id]
	if !exists || session.Terminal() {
		return
	}
	update(session)
	session.State = state
	now := time.Now()
	session.CompletedAt = &now
}

// cleanup removes terminal sessions older than an hour.
func (ss *ScanStore) cleanup() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)
	for id, session := range ss.sessions {
		if session.CompletedAt != nil && session.CompletedAt.Before(cutoff) {
			delete(ss.sessions, id)
		}
	}
}
