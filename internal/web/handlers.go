package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/avisser/todolist/internal/auth"
	"github.com/avisser/todolist/internal/errorz"
	"github.com/avisser/todolist/internal/todo"
	"github.com/avisser/todolist/internal/web/sessions"
)

// The user facing messages shown via flashes.
const (
	flashMustLogin     = "You must be signed in"
	flashNotAuthor     = "You did not create this activity!"
	flashNoActivity    = "Cannot find that activity!"
	flashCreated       = "Successfully made a new activity!"
	flashUpdated       = "Successfully updated activity!"
	flashCompleted     = "You completed the activity!"
	flashWelcomeBack   = "Welcome back!"
	flashWelcome       = "Welcome to your To Do List!"
	flashLoggedOut     = "Logged out!"
	flashBadLogin      = "Invalid username or password"
	flashUsernameTaken = "A user with that username is already registered"
)

func (s *Server) listActivities() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		activities, err := s.deps.TodoService.Activities(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		err = s.writeView(w, r, "activities-index", activities)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
	})
}

func (s *Server) createActivity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		user, err := userFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		in, err := decodeForm[todo.ActivityInput](s, r)
		if err != nil {
			s.rejectActivityInput(w, r, sess, "activities-new", in, err)
			return
		}

		// Authorship is stamped from the session identity, the form has
		// no say in it.
		_, err = s.deps.TodoService.Create(r.Context(), in, user.ID)
		if err != nil {
			s.rejectActivityInput(w, r, sess, "activities-new", in, err)
			return
		}

		sess.AddFlash(sessions.FlashSuccess, flashCreated)
		s.redirect(w, r, sess, "/list")
	})
}

func (s *Server) showActivity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		activity, err := activityFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		author, err := s.deps.AuthService.UserByID(r.Context(), activity.AuthorID)
		if err != nil {
			// The author is gone while their activity is not, that is a
			// store inconsistency, not a user facing not found.
			s.handleError(w, r, fmt.Errorf("failed to load author %v of activity %v: %v", activity.AuthorID, activity.ID, err))
			return
		}

		data := struct {
			Activity todo.Activity
			Author   auth.User
		}{
			Activity: activity,
			Author:   author,
		}

		err = s.writeView(w, r, "activities-show", data)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
	})
}

func (s *Server) editActivity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		activity, err := activityFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		err = s.writeView(w, r, "activities-edit", activity)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
	})
}

func (s *Server) updateActivity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		activity, err := activityFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		in, err := decodeForm[todo.ActivityInput](s, r)
		if err == nil {
			_, err = s.deps.TodoService.Update(r.Context(), activity.ID, in)
		}
		if err != nil {
			if errors.Is(err, errorz.ErrNotFound) {
				// The guard saw this activity a moment ago.
				s.handleError(w, r, fmt.Errorf("activity %v vanished during update: %v", activity.ID, err))
				return
			}

			// Re-render the form with the rejected description.
			activity.Description = in.Description
			s.rejectActivityInput(w, r, sess, "activities-edit", activity, err)
			return
		}

		sess.AddFlash(sessions.FlashSuccess, flashUpdated)
		s.redirect(w, r, sess, "/list")
	})
}

func (s *Server) deleteActivity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		activity, err := activityFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		err = s.deps.TodoService.Delete(r.Context(), activity.ID)
		if err != nil {
			if errors.Is(err, errorz.ErrNotFound) {
				err = fmt.Errorf("activity %v vanished during delete: %v", activity.ID, err)
			}

			s.handleError(w, r, err)
			return
		}

		sess.AddFlash(sessions.FlashSuccess, flashCompleted)
		s.redirect(w, r, sess, "/list")
	})
}

// rejectActivityInput re-renders an activity form after its input was
// rejected. Errors that are not input related go to the catch-all handler.
func (s *Server) rejectActivityInput(w http.ResponseWriter, r *http.Request, sess *sessions.Session, view string, data any, err error) {
	var invalidInput errorz.InvalidInput
	if !errors.As(err, &invalidInput) {
		s.handleError(w, r, err)
		return
	}

	sess.AddFlash(sessions.FlashError, invalidInput.Error())

	werr := s.writeViewStatus(w, r, view, data, http.StatusBadRequest)
	if werr != nil {
		s.handleError(w, r, werr)
		return
	}
}

func (s *Server) registerUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		reg, err := decodeForm[auth.Registration](s, r)
		if err == nil {
			var user auth.User
			user, err = s.deps.AuthService.Register(r.Context(), reg)
			if err == nil {
				// A register away from the login page should not resume
				// a path saved for a different account.
				sess.PopReturnTo()
				s.signIn(w, r, sess, user.ID, flashWelcome, "/list")
				return
			}
		}

		var invalidInput errorz.InvalidInput
		switch {
		case errors.Is(err, auth.ErrDuplicateUsername):
			sess.AddFlash(sessions.FlashError, flashUsernameTaken)
			s.redirect(w, r, sess, "/register")
		case errors.As(err, &invalidInput):
			sess.AddFlash(sessions.FlashError, invalidInput.Error())
			s.redirect(w, r, sess, "/register")
		default:
			s.handleError(w, r, err)
		}
	})
}

func (s *Server) loginUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		creds, err := decodeForm[auth.Credentials](s, r)
		if err == nil {
			var user auth.User
			user, err = s.deps.AuthService.Authenticate(r.Context(), creds)
			if err == nil {
				target, ok := sess.PopReturnTo()
				if !ok || !localTarget(target) {
					target = "/list"
				}

				s.signIn(w, r, sess, user.ID, flashWelcomeBack, target)
				return
			}
		}

		// Malformed credentials and wrong credentials are indistinguishable
		// to the client.
		var invalidInput errorz.InvalidInput
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.As(err, &invalidInput) {
			sess.AddFlash(sessions.FlashError, flashBadLogin)
			s.redirect(w, r, sess, "/login")
			return
		}

		s.handleError(w, r, err)
	})
}

func (s *Server) logoutUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromCtx(r.Context())
		if err != nil {
			s.handleError(w, r, err)
			return
		}

		sess.DeleteUserID()
		// A saved location does not outlive the session it was queued in.
		sess.PopReturnTo()
		sess.AddFlash(sessions.FlashSuccess, flashLoggedOut)
		s.redirect(w, r, sess, "/login")
	})
}

// localTarget reports whether target stays on this site. A target starting
// with two slashes would be interpreted by browsers as a protocol relative
// URL pointing at another host.
func localTarget(target string) bool {
	return strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//")
}

// signIn attaches the user id to the session and redirects to target.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, sess *sessions.Session, userID uuid.UUID, flash, target string) {
	// We clear the CSRF token cookie to provide defense in depth against
	// fixation attacks. If an attacker somehow gained access to the CSRF
	// token before the user logged in, it is worthless afterwards.
	//
	// A new CSRF token will be generated on the next GET request after
	// the redirect.
	http.SetCookie(w, &http.Cookie{
		Name:   csrfTokenCookieName,
		MaxAge: -1,
	})

	sess.SetUserID(userID)
	sess.AddFlash(sessions.FlashSuccess, flash)
	s.redirect(w, r, sess, target)
}
