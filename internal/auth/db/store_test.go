package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avisser/todolist/internal/auth"
	"github.com/avisser/todolist/internal/auth/db"
	"github.com/avisser/todolist/internal/db/testdb"
	"github.com/avisser/todolist/internal/errorz"
	"github.com/avisser/todolist/internal/krypto"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func Test_Store_CreateUser(t *testing.T) {
	t.Run("ok, create and find user", func(t *testing.T) {
		store, _ := storeForTest(t)

		user := testUser(t, nil)

		err := store.CreateUser(context.Background(), &user)
		if err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		t.Run("find by id", func(t *testing.T) {
			assertFindUsers(t, store, &auth.UserFilter{
				IDs: []uuid.UUID{user.ID},
			}, []auth.User{user})
		})

		t.Run("find by username", func(t *testing.T) {
			assertFindUsers(t, store, &auth.UserFilter{
				Usernames: []auth.Username{user.Username},
			}, []auth.User{user})
		})

		t.Run("find by other username", func(t *testing.T) {
			assertFindUsers(t, store, &auth.UserFilter{
				Usernames: []auth.Username{must(auth.ParseUsername("bob"))},
			}, []auth.User{})
		})
	})

	t.Run("ok, usernames and emails are not stored as plaintext", func(t *testing.T) {
		store, sqlDB := storeForTest(t)

		user := testUser(t, nil)
		err := store.CreateUser(context.Background(), &user)
		if err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		var rawUsername, rawEmail []byte
		row := sqlDB.QueryRow(`SELECT username_encrypted, email_encrypted FROM users`)
		if err := row.Scan(&rawUsername, &rawEmail); err != nil {
			t.Fatalf("failed to query raw columns: %v", err)
		}

		if strings.Contains(string(rawUsername), string(user.Username)) {
			t.Errorf("username stored as plaintext: %q", rawUsername)
		}
		if strings.Contains(string(rawEmail), string(user.Email)) {
			t.Errorf("email stored as plaintext: %q", rawEmail)
		}
	})

	t.Run("fail, duplicate username", func(t *testing.T) {
		store, _ := storeForTest(t)

		user := testUser(t, nil)
		err := store.CreateUser(context.Background(), &user)
		if err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		dup := testUser(t, func(u *auth.User) {
			u.ID = uuid.New()
			u.Email = must(auth.ParseEmail("other@example.com"))
		})

		err = store.CreateUser(context.Background(), &dup)
		if !errors.Is(err, errorz.ErrConstraintViolated) {
			t.Fatalf("expected error %v, got %v via errors.Is()", errorz.ErrConstraintViolated, err)
		}
	})

	t.Run("fail, zero uuid", func(t *testing.T) {
		store, _ := storeForTest(t)

		user := testUser(t, func(u *auth.User) {
			u.ID = uuid.Nil
		})

		err := store.CreateUser(context.Background(), &user)
		if !errors.Is(err, errorz.ErrConstraintViolated) {
			t.Fatalf("expected error %v, got %v via errors.Is()", errorz.ErrConstraintViolated, err)
		}
	})
}

func Test_Store_FindUsers(t *testing.T) {
	t.Run("ok, ordered by creation time", func(t *testing.T) {
		store, _ := storeForTest(t)

		second := testUser(t, func(u *auth.User) {
			u.CreatedAt = now(t, 1)
			u.UpdatedAt = now(t, 1)
		})
		first := testUser(t, func(u *auth.User) {
			u.ID = uuid.New()
			u.Username = must(auth.ParseUsername("bob"))
			u.Email = must(auth.ParseEmail("bob@example.com"))
			u.CreatedAt = now(t, 0)
			u.UpdatedAt = now(t, 0)
		})

		for _, u := range []*auth.User{&second, &first} {
			if err := store.CreateUser(context.Background(), u); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}
		}

		assertFindUsers(t, store, &auth.UserFilter{}, []auth.User{first, second})
	})
}

func now(t *testing.T, i int) time.Time {
	t.Helper()
	if i > 9 {
		t.Fatalf("invalid time index: %d", i)
	}

	ts, err := time.Parse(time.RFC3339, fmt.Sprintf("2024-01-01T00:00:0%dZ", i))
	if err != nil {
		t.Fatalf("failed to parse time: %v", err)
	}

	return ts
}

func storeForTest(t *testing.T) (*db.Store, *sql.DB) {
	t.Helper()

	encryptor := must(krypto.NewEncryptor([]krypto.Key{
		must(krypto.ParseKey("2b671594b775f371eab4050b4d58326682df6b1a6cc2e886717b1a26b4d6c45d")),
	}))
	indexKey := must(krypto.ParseKey("b61115eeb1bdf0847f1d7ea978c7da71e3b31361f7450bc8aa12566a16b7b03f"))

	testDB := testdb.RunWhile(t, true)

	return db.New(testDB, testDB, encryptor, indexKey), testDB
}

func testUser(t *testing.T, modFunc func(*auth.User)) auth.User {
	t.Helper()

	hash, err := krypto.ParseArgon2Hash("$argon2id$v=19$m=47104,t=1,p=1$vP9U4C5jsOzFQLj0gvUkYw$YLrSb2dGfcVohlm8syynqHs6/NHxXS9rt/t6TjL7pi0")
	if err != nil {
		t.Fatalf("failed to parse hash: %v", err)
	}

	u := auth.User{
		ID:           uuid.New(),
		Username:     must(auth.ParseUsername("alice")),
		Email:        must(auth.ParseEmail("alice@example.com")),
		PasswordHash: hash,
		CreatedAt:    now(t, 0),
		UpdatedAt:    now(t, 0),
	}

	if modFunc != nil {
		modFunc(&u)
	}

	return u
}

func assertFindUsers(t *testing.T, store *db.Store, filter *auth.UserFilter, want []auth.User) {
	t.Helper()

	got, err := store.FindUsers(context.Background(), filter)
	if err != nil {
		t.Fatalf("failed to find users: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d users, want %d", len(got), len(want))
	}

	for i := range got {
		// Compare times with Equal, the driver normalizes time zones.
		if !got[i].CreatedAt.Equal(want[i].CreatedAt) || !got[i].UpdatedAt.Equal(want[i].UpdatedAt) {
			t.Errorf("user %d timestamps differ, got %v %v want %v %v", i, got[i].CreatedAt, got[i].UpdatedAt, want[i].CreatedAt, want[i].UpdatedAt)
		}

		got[i].CreatedAt = want[i].CreatedAt
		got[i].UpdatedAt = want[i].UpdatedAt
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("got\n%#v\nwant\n%#v\n", got[i], want[i])
		}
	}
}
