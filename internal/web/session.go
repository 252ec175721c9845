package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avisser/todolist/internal/auth"
	"github.com/avisser/todolist/internal/todo"
	"github.com/avisser/todolist/internal/web/sessions"
)

// sessionMiddleware is a middleware that creates a session and injects it in the context.
// Saving the session here re-issues the cookie on every request, which keeps
// the expiry window sliding while the user remains active.
func sessionMiddleware(srv *Server) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := srv.deps.SessionStore.Get(r)
			if err != nil {
				srv.handleError(w, r, err)
				return
			}

			err = srv.deps.SessionStore.Save(r, w, sess)
			if err != nil {
				srv.handleError(w, r, err)
				return
			}

			ctx := ctxWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type ctxKey string

const (
	sessionCtxKey  ctxKey = "_session"
	userCtxKey     ctxKey = "_user"
	activityCtxKey ctxKey = "_activity"
)

func ctxWithSession(ctx context.Context, sess *sessions.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, sess)
}

func sessionFromCtx(ctx context.Context) (*sessions.Session, error) {
	sess, ok := ctx.Value(sessionCtxKey).(*sessions.Session)
	if !ok {
		return nil, fmt.Errorf("could not get session from context")
	}

	return sess, nil
}

func ctxWithUser(ctx context.Context, user auth.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// userFromCtx returns the authenticated user. It can only be used downstream
// of the requireUser guard, which resolves the session identity.
func userFromCtx(ctx context.Context) (auth.User, error) {
	user, ok := ctx.Value(userCtxKey).(auth.User)
	if !ok {
		return auth.User{}, fmt.Errorf("could not get user from context")
	}

	return user, nil
}

func ctxWithActivity(ctx context.Context, activity todo.Activity) context.Context {
	return context.WithValue(ctx, activityCtxKey, activity)
}

// activityFromCtx returns the activity targeted by the route. It can only be
// used downstream of the requireAuthor guard, which loads the activity.
func activityFromCtx(ctx context.Context) (todo.Activity, error) {
	activity, ok := ctx.Value(activityCtxKey).(todo.Activity)
	if !ok {
		return todo.Activity{}, fmt.Errorf("could not get activity from context")
	}

	return activity, nil
}
