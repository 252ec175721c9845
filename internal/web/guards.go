package web

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/avisser/todolist/internal/errorz"
	"github.com/avisser/todolist/internal/web/sessions"
)

// guard is a single stage of the request pipeline. A guard either lets the
// request pass, possibly with an enriched context, or writes a response and
// halts the pipeline by returning false.
type guard func(w http.ResponseWriter, r *http.Request, sess *sessions.Session) (*http.Request, bool)

// guarded registers a handler behind the provided guards. Guards run in the
// order they are given and short-circuit on the first rejection.
func (s *Server) guarded(pattern string, handler http.Handler, guards ...guard) {
	s.mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		for _, g := range guards {
			next, ok := g(w, r, sess)
			if !ok {
				return
			}
			r = next
		}

		handler.ServeHTTP(w, r)
	}))
}

func (s *Server) public(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
}

// requireUser rejects requests without an authenticated identity. The session
// identity is resolved to a stored user on every request, so a session
// referencing a user that no longer exists is treated as not signed in.
//
// On rejection the originally requested path is saved so a successful login
// can resume it.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request, sess *sessions.Session) (*http.Request, bool) {
	if userID, ok := sess.UserID(); ok {
		user, err := s.deps.AuthService.UserByID(r.Context(), userID)
		if err == nil {
			return r.WithContext(ctxWithUser(r.Context(), user)), true
		}

		if !errors.Is(err, errorz.ErrNotFound) {
			s.handleError(w, r, err)
			return r, false
		}

		sess.DeleteUserID()
	}

	sess.SetReturnTo(r.URL.RequestURI())
	sess.AddFlash(sessions.FlashError, flashMustLogin)
	s.redirect(w, r, sess, "/login")
	return r, false
}

// requireAuthor rejects requests targeting an activity the authenticated user
// did not create. It must run after requireUser. On success the loaded
// activity is available to the handler via activityFromCtx.
func (s *Server) requireAuthor(w http.ResponseWriter, r *http.Request, sess *sessions.Session) (*http.Request, bool) {
	user, err := userFromCtx(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return r, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sess.AddFlash(sessions.FlashError, flashNoActivity)
		s.redirect(w, r, sess, "/list")
		return r, false
	}

	activity, err := s.deps.TodoService.ActivityByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, errorz.ErrNotFound) {
			sess.AddFlash(sessions.FlashError, flashNoActivity)
			s.redirect(w, r, sess, "/list")
			return r, false
		}

		s.handleError(w, r, err)
		return r, false
	}

	if activity.AuthorID != user.ID {
		sess.AddFlash(sessions.FlashError, flashNotAuthor)
		s.redirect(w, r, sess, "/list")
		return r, false
	}

	return r.WithContext(ctxWithActivity(r.Context(), activity)), true
}

// redirect saves the session before writing the redirect, so flashes and the
// return-to path queued by guards survive to the next request.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, sess *sessions.Session, target string) {
	if err := s.deps.SessionStore.Save(r, w, sess); err != nil {
		s.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}
