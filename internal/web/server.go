package web

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/schema"

	"github.com/avisser/todolist/internal/auth"
	"github.com/avisser/todolist/internal/krypto"
	"github.com/avisser/todolist/internal/todo"
	"github.com/avisser/todolist/internal/web/sessions"
)

const (
	csrfTokenCookieName = "tdl-csrf"
	csrfTokenField      = "csrf_token"
)

// ViewRenderer renders named views with the given data.
type ViewRenderer interface {
	Render(w io.Writer, name string, data any) error
}

// ServerDeps are the dependencies for the server.
type ServerDeps struct {
	Logger       *slog.Logger
	ViewRenderer ViewRenderer
	AuthService  *auth.Service
	TodoService  *todo.Service
	SessionStore *sessions.Store
	DistFS       http.FileSystem
}

// ServerConfig is the configuration for the server.
type ServerConfig struct {
	CSRFKey      krypto.Key
	SecureCookie bool
}

type Server struct {
	deps    *ServerDeps
	mux     *http.ServeMux
	decoder *schema.Decoder
	handler http.Handler
}

func NewServer(deps *ServerDeps, cfg ServerConfig) *Server {
	s := &Server{
		deps:    deps,
		mux:     http.NewServeMux(),
		decoder: schema.NewDecoder(),
	}

	// Activity endpoints. All of them require a signed in user, the ones
	// targeting a single activity additionally require that user to be
	// its author.
	s.guarded("GET /list", s.listActivities(), s.requireUser)
	s.guarded("GET /list/new", s.viewHandler("activities-new"), s.requireUser)
	s.guarded("POST /list", s.createActivity(), s.requireUser)
	s.guarded("GET /list/{id}", s.showActivity(), s.requireUser, s.requireAuthor)
	s.guarded("GET /list/{id}/edit", s.editActivity(), s.requireUser, s.requireAuthor)
	s.guarded("PUT /list/{id}", s.updateActivity(), s.requireUser, s.requireAuthor)
	s.guarded("DELETE /list/{id}", s.deleteActivity(), s.requireUser, s.requireAuthor)

	// User endpoints.
	s.public("GET /register", s.viewHandler("register-user"))
	s.public("POST /register", s.registerUser())
	s.public("GET /login", s.viewHandler("login-user"))
	s.public("POST /login", s.loginUser())
	s.public("GET /logout", s.logoutUser())

	s.public("GET /{$}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/list", http.StatusFound)
	}))

	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(s.deps.DistFS)))

	// Everything else renders the not-found page.
	s.public("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.errorView(w, r, "not-found", http.StatusNotFound)
	}))

	// Wrap the mux with global middlewares.
	csrfMW := csrf.Protect(
		cfg.CSRFKey.SecretValue(),
		csrf.CookieName(csrfTokenCookieName),
		csrf.FieldName(csrfTokenField),
		csrf.Secure(cfg.SecureCookie),
	)

	middlewares := []func(http.Handler) http.Handler{
		csrfMW,
		methodOverride,
		sessionMiddleware(s),
	}
	s.handler = s.mux
	for i := len(middlewares) - 1; i >= 0; i-- {
		s.handler = middlewares[i](s.handler)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// viewHandler renders the view with the given name without any view data.
func (s *Server) viewHandler(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := s.writeView(w, r, name, nil)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
	})
}
