package identity

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStatus is the authentication phase of a session
type SessionStatus string

const (
	SessionIdle            SessionStatus = "idle"
	SessionLoading         SessionStatus = "loading"
	SessionAuthenticated   SessionStatus = "authenticated"
	SessionUnauthenticated SessionStatus = "unauthenticated"
	SessionError           SessionStatus = "error"
)

// SessionState is an immutable snapshot of a session. UserID is set only
// when Status is SessionAuthenticated; ErrMessage only for SessionError.
type SessionState struct {
	Status     SessionStatus
	UserID     uuid.UUID
	ErrMessage string
}

// SessionEventKind identifies a session transition trigger
type SessionEventKind string

const (
	EventLoadStarted  SessionEventKind = "load_started"
	EventLoginOK      SessionEventKind = "login_ok"
	EventLoggedOut    SessionEventKind = "logged_out"
	EventLoadFailed   SessionEventKind = "load_failed"
	EventInitComplete SessionEventKind = "init_complete"
)

// SessionEvent carries a transition trigger with its payload
type SessionEvent struct {
	Kind    SessionEventKind
	UserID  uuid.UUID
	Message string
}

// InitialSessionState is the state before any event has been applied
func InitialSessionState() SessionState {
	return SessionState{Status: SessionIdle}
}

// Reduce applies an event to a state and returns the next state. It is a
// pure function: the input state is never mutated and unknown events leave
// the state unchanged.
//
// A login event for the user already authenticated is a no-op, so token
// refreshes do not churn the session. An init-complete event forces any
// session still idle or loading to settle as unauthenticated, guaranteeing
// startup always terminates in a stable state.
func Reduce(state SessionState, event SessionEvent) SessionState {
	switch event.Kind {
	case EventLoadStarted:
		if state.Status == SessionAuthenticated {
			return state
		}
		return SessionState{Status: SessionLoading}

	case EventLoginOK:
		if state.Status == SessionAuthenticated && state.UserID == event.UserID {
			return state
		}
		return SessionState{Status: SessionAuthenticated, UserID: event.UserID}

	case EventLoggedOut:
		return SessionState{Status: SessionUnauthenticated}

	case EventLoadFailed:
		return SessionState{Status: SessionError, ErrMessage: event.Message}

	case EventInitComplete:
		if state.Status == SessionIdle || state.Status == SessionLoading {
			return SessionState{Status: SessionUnauthenticated}
		}
		return state
	}

	return state
}

// SessionTracker holds the current session state behind a mutex and invokes
// the login hook exactly once per distinct authenticated user.
type SessionTracker struct {
	mu      sync.Mutex
	state   SessionState
	onLogin func(userID uuid.UUID)
}

// NewSessionTracker creates a tracker in the initial state. The onLogin
// hook may be nil.
func NewSessionTracker(onLogin func(userID uuid.UUID)) *SessionTracker {
	return &SessionTracker{
		state:   InitialSessionState(),
		onLogin: onLogin,
	}
}

// Apply reduces the event into the tracked state and returns the new state
func (t *SessionTracker) Apply(event SessionEvent) SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.state
	t.state = Reduce(prev, event)

	if t.onLogin != nil &&
		t.state.Status == SessionAuthenticated &&
		(prev.Status != SessionAuthenticated || prev.UserID != t.state.UserID) {
		t.onLogin(t.state.UserID)
	}

	return t.state
}

// State returns the current session state
func (t *SessionTracker) State() SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
