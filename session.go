package funplus

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionListener is notified when sessions start and end. Tracers use
// it to emit session_start / session_end events automatically.
type SessionListener interface {
	SessionStarted(userID, sessionID string, startTS int64)
	SessionEnded(userID, sessionID string, startTS, sessionLength int64)
}

// SessionManager owns the current user and session identity shared by
// every event producer.
type SessionManager struct {
	appID string

	mu        sync.Mutex
	userID    string
	sessionID string
	startTS   int64 // epoch seconds; 0 means no active session
	listeners []SessionListener
}

// NewSessionManager creates a session manager without an active
// session. An empty initial user gets an anonymous random identity.
func NewSessionManager(appID, userID string) *SessionManager {
	if userID == "" {
		userID = uuid.NewString()
	}
	return &SessionManager{appID: appID, userID: userID}
}

// UserID returns the current user identity.
func (s *SessionManager) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// SessionID returns the current session identity, or "" outside a
// session.
func (s *SessionManager) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// RegisterListener adds a session status listener. Callers must not
// register the same listener twice.
func (s *SessionManager) RegisterListener(l SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// StartSession begins a session for the given user, ending any session
// in progress first. The session ID embeds the app/user identity padded
// to a fixed width plus the start timestamp.
func (s *SessionManager) StartSession(userID string) {
	s.EndSession()

	s.mu.Lock()
	s.userID = userID
	s.startTS = time.Now().Unix()
	s.sessionID = "i" + padIdentity(s.appID+"-"+userID) + strconv.FormatInt(s.startTS, 10)
	listeners := append([]SessionListener(nil), s.listeners...)
	userID, sessionID, startTS := s.userID, s.sessionID, s.startTS
	s.mu.Unlock()

	for _, l := range listeners {
		l.SessionStarted(userID, sessionID, startTS)
	}
}

// EndSession ends the active session, if any, notifying listeners with
// the session length in seconds.
func (s *SessionManager) EndSession() {
	s.mu.Lock()
	if s.startTS == 0 {
		s.mu.Unlock()
		return
	}
	length := time.Now().Unix() - s.startTS
	userID, sessionID, startTS := s.userID, s.sessionID, s.startTS
	listeners := append([]SessionListener(nil), s.listeners...)
	s.startTS = 0
	s.mu.Unlock()

	for _, l := range listeners {
		l.SessionEnded(userID, sessionID, startTS, length)
	}

	s.mu.Lock()
	if s.startTS == 0 {
		s.sessionID = ""
	}
	s.mu.Unlock()
}

// UserIDChanged rotates the session to a new user identity.
func (s *SessionManager) UserIDChanged(newUserID string) {
	s.StartSession(newUserID)
}

// padIdentity truncates or right-pads the identity part of a session ID
// to exactly 23 characters.
func padIdentity(identity string) string {
	const width = 23
	if len(identity) >= width {
		return identity[:width]
	}
	return identity + strings.Repeat("0", width-len(identity))
}
