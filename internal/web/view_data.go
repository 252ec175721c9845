package web

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"

	"github.com/avisser/todolist/internal"
	"github.com/avisser/todolist/internal/errorz"
	"github.com/avisser/todolist/internal/web/sessions"
)

// viewData is passed to every rendered view. Global is the same for all
// views, View is view specific.
type viewData struct {
	Global globalData
	View   any
}

type globalData struct {
	Version    string
	CSRFToken  string
	IsLoggedIn bool
	UserID     uuid.UUID
	Success    []string
	Error      []string
}

func (s *Server) writeView(w http.ResponseWriter, r *http.Request, name string, data any) error {
	return s.writeViewStatus(w, r, name, data, http.StatusOK)
}

// writeViewStatus renders the named view. Reading the flashes here is what
// consumes them, the session save that follows persists their removal.
func (s *Server) writeViewStatus(w http.ResponseWriter, r *http.Request, name string, data any, status int) error {
	global := globalData{
		Version:   internal.Build.Revision,
		CSRFToken: csrf.Token(r),
	}

	sess, err := sessionFromCtx(r.Context())
	if err == nil {
		userID, ok := sess.UserID()
		global.IsLoggedIn = ok
		global.UserID = userID
		global.Success = sess.Flashes(sessions.FlashSuccess)
		global.Error = sess.Flashes(sessions.FlashError)

		if err := s.deps.SessionStore.Save(r, w, sess); err != nil {
			return err
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return s.deps.ViewRenderer.Render(w, name, viewData{
		Global: global,
		View:   data,
	})
}

// handleError converts errors that escaped the guards into a response. It
// only ever renders generic pages, internal failures are logged but never
// shown to the client.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidInput errorz.InvalidInput

	switch {
	case errors.Is(err, errorz.ErrNotFound):
		s.errorView(w, r, "not-found", http.StatusNotFound)
	case errors.As(err, &invalidInput):
		s.errorView(w, r, "error", http.StatusBadRequest)
	default:
		s.deps.Logger.Error("internal server error", "url", r.URL.String(), "error", err)
		s.errorView(w, r, "error", http.StatusInternalServerError)
	}
}

func (s *Server) errorView(w http.ResponseWriter, r *http.Request, name string, status int) {
	err := s.writeViewStatus(w, r, name, nil, status)
	if err != nil {
		s.deps.Logger.Error("failed to render error view", "view", name, "error", err)
		http.Error(w, http.StatusText(status), status)
	}
}
