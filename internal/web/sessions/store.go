package sessions

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const CookieName = "tdl-session"

// MaxAge is the lifetime of the session cookie. Saving the session on every
// request re-issues the cookie, so the expiry slides while the user is active.
const MaxAge = 7 * 24 * 60 * 60 // seconds

type Store struct {
	store sessions.Store
}

func NewStore(store sessions.Store) *Store {
	return &Store{store: store}
}

// Get returns the session for the request. A cookie that fails to decode is
// not an error, the visitor simply starts over with a fresh session.
func (s *Store) Get(r *http.Request) (*Session, error) {
	base, err := s.store.Get(r, CookieName)
	if err != nil {
		if base == nil {
			return nil, err
		}

		return &Session{base: base, needsSave: true}, nil
	}

	return &Session{base: base}, nil
}

func (s *Store) Save(r *http.Request, w http.ResponseWriter, sess *Session) error {
	err := s.store.Save(r, w, sess.base)
	if err != nil {
		return err
	}

	sess.needsSave = false
	return nil
}
