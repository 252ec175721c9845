package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"

	gsessions "github.com/gorilla/sessions"
)

func storeForTest() *Store {
	return NewStore(gsessions.NewCookieStore([]byte("test")))
}

func Test_Store_Get(t *testing.T) {
	t.Run("ok, no cookie", func(t *testing.T) {
		store := storeForTest()

		r := httptest.NewRequest(http.MethodGet, "/", nil)

		sess, err := store.Get(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := sess.UserID(); ok {
			t.Errorf("expected a fresh session without a user id")
		}
	})

	t.Run("ok, undecodable cookie starts a fresh session", func(t *testing.T) {
		store := storeForTest()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})

		sess, err := store.Get(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := sess.UserID(); ok {
			t.Errorf("expected a fresh session without a user id")
		}

		if !sess.NeedsSave() {
			t.Errorf("expected the fresh session to need saving")
		}
	})
}
