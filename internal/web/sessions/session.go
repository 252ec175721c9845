// Package sessions wraps gorilla sessions with the small surface this app
// needs: the authenticated user id, the return-to path saved across a login
// redirect and kind-scoped one-shot flash messages.
package sessions

import (
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// Flash kinds. Flashes of different kinds are stored and drained separately.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

const (
	userIDKey   = "userID"
	returnToKey = "returnTo"
)

type Session struct {
	base      *sessions.Session
	needsSave bool
}

func (s *Session) NeedsSave() bool {
	return s.needsSave
}

// UserID returns the authenticated user id, if any.
func (s *Session) UserID() (uuid.UUID, bool) {
	raw, ok := s.base.Values[userIDKey].(string)
	if !ok {
		return uuid.Nil, false
	}

	// The id is stored as a string so the cookie codec doesn't need to
	// know about uuid.UUID.
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func (s *Session) SetUserID(userID uuid.UUID) {
	s.needsSave = true
	s.base.Values[userIDKey] = userID.String()
}

func (s *Session) DeleteUserID() {
	s.needsSave = true
	delete(s.base.Values, userIDKey)
}

// SetReturnTo records the path to resume after login, overwriting any
// previously saved path.
func (s *Session) SetReturnTo(path string) {
	s.needsSave = true
	s.base.Values[returnToKey] = path
}

// PopReturnTo returns the saved return-to path and clears it.
// The second return value reports whether a path was saved.
func (s *Session) PopReturnTo() (string, bool) {
	path, ok := s.base.Values[returnToKey].(string)
	if !ok {
		return "", false
	}

	s.needsSave = true
	delete(s.base.Values, returnToKey)

	return path, true
}

// AddFlash queues a one-shot message of the provided kind.
func (s *Session) AddFlash(kind, msg string) {
	s.needsSave = true
	s.base.AddFlash(msg, flashKey(kind))
}

// Flashes drains all queued messages of the provided kind. Messages are
// returned at most once.
func (s *Session) Flashes(kind string) []string {
	raw := s.base.Flashes(flashKey(kind))
	if len(raw) > 0 {
		s.needsSave = true
	}

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}

	return out
}

func flashKey(kind string) string {
	return "_flash_" + kind
}
