package sessions

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	gsessions "github.com/gorilla/sessions"
)

func sessionForTest() *Session {
	base := gsessions.NewSession(gsessions.NewCookieStore([]byte("test")), CookieName)
	base.Values = make(map[any]any)
	return &Session{base: base}
}

func Test_Session_UserID(t *testing.T) {
	t.Run("ok, set and get", func(t *testing.T) {
		sess := sessionForTest()

		want := uuid.New()
		sess.SetUserID(want)

		got, ok := sess.UserID()
		if !ok || got != want {
			t.Fatalf("got %v %v, want %v true", got, ok, want)
		}

		if !sess.NeedsSave() {
			t.Errorf("expected session to need saving")
		}
	})

	t.Run("ok, delete", func(t *testing.T) {
		sess := sessionForTest()
		sess.SetUserID(uuid.New())
		sess.DeleteUserID()

		if _, ok := sess.UserID(); ok {
			t.Fatalf("expected no user id after delete")
		}
	})

	t.Run("ok, no user id", func(t *testing.T) {
		sess := sessionForTest()

		if _, ok := sess.UserID(); ok {
			t.Fatalf("expected no user id on a fresh session")
		}
	})

	t.Run("ok, garbage value is ignored", func(t *testing.T) {
		sess := sessionForTest()
		sess.base.Values[userIDKey] = "not-a-uuid"

		if _, ok := sess.UserID(); ok {
			t.Fatalf("expected garbage user id to be ignored")
		}
	})
}

func Test_Session_ReturnTo(t *testing.T) {
	t.Run("ok, set overwrites and pop clears", func(t *testing.T) {
		sess := sessionForTest()

		sess.SetReturnTo("/list/1/edit")
		sess.SetReturnTo("/list/2/edit")

		got, ok := sess.PopReturnTo()
		if !ok || got != "/list/2/edit" {
			t.Fatalf("got %q %v, want %q true", got, ok, "/list/2/edit")
		}

		if _, ok := sess.PopReturnTo(); ok {
			t.Fatalf("expected return-to to be cleared after pop")
		}
	})

	t.Run("ok, nothing saved", func(t *testing.T) {
		sess := sessionForTest()

		if _, ok := sess.PopReturnTo(); ok {
			t.Fatalf("expected no return-to on a fresh session")
		}
	})
}

func Test_Session_Flashes(t *testing.T) {
	t.Run("ok, drained exactly once", func(t *testing.T) {
		sess := sessionForTest()

		sess.AddFlash(FlashSuccess, "first")
		sess.AddFlash(FlashSuccess, "second")

		got := sess.Flashes(FlashSuccess)
		want := []string{"first", "second"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}

		if again := sess.Flashes(FlashSuccess); len(again) != 0 {
			t.Fatalf("expected flashes to be drained, got %v", again)
		}
	})

	t.Run("ok, kinds are separate queues", func(t *testing.T) {
		sess := sessionForTest()

		sess.AddFlash(FlashSuccess, "yay")
		sess.AddFlash(FlashError, "nay")

		if got := sess.Flashes(FlashError); !reflect.DeepEqual(got, []string{"nay"}) {
			t.Fatalf("got %v, want [nay]", got)
		}

		// The success flash is still queued.
		if got := sess.Flashes(FlashSuccess); !reflect.DeepEqual(got, []string{"yay"}) {
			t.Fatalf("got %v, want [yay]", got)
		}
	})
}
