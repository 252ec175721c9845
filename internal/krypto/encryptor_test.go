package krypto_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/avisser/todolist/internal/krypto"
)

func Test_NewEncryptor(t *testing.T) {
	t.Run("fail, no keys", func(t *testing.T) {
		_, err := krypto.NewEncryptor(nil)
		if err == nil {
			t.Fatalf("wanted error, got <nil>")
		}
	})
}

func Test_Encryptor_EncryptAndDecrypt(t *testing.T) {
	okCases := map[string][]byte{
		"ok, minimum input": {0},
		"ok, typical input": []byte("my secret message"),
	}

	for name, raw := range okCases {
		t.Run(name, func(t *testing.T) {
			enc := must(krypto.NewEncryptor([]krypto.Key{
				must(krypto.ParseKey("2b671594b775f371eab4050b4d58326682df6b1a6cc2e886717b1a26b4d6c45d")),
			}))

			result, err := enc.Encrypt(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			decrypted, err := enc.Decrypt(result)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !bytes.Equal(decrypted, raw) {
				t.Fatalf("want %q, got %q", raw, decrypted)
			}
		})
	}

	invalidEncrypt := map[string][]byte{
		"nil":         nil,
		"empty slice": {},
	}

	for name, raw := range invalidEncrypt {
		t.Run(name, func(t *testing.T) {
			enc := must(krypto.NewEncryptor([]krypto.Key{
				must(krypto.ParseKey("2b671594b775f371eab4050b4d58326682df6b1a6cc2e886717b1a26b4d6c45d")),
			}))

			_, err := enc.Encrypt(raw)
			if !errors.Is(err, krypto.ErrInvalidData) {
				t.Fatalf("wanted error %v, got %v (via errors.Is)", krypto.ErrInvalidData, err)
			}
		})
	}

	t.Run("ok, multiple keys", func(t *testing.T) {
		enc := must(krypto.NewEncryptor([]krypto.Key{
			must(krypto.ParseKey("2b671594b775f371eab4050b4d58326682df6b1a6cc2e886717b1a26b4d6c45d")),
			must(krypto.ParseKey("90303dfed7994260ea4817a5ca8a392915cd401115b2f97495dadfcbcd14adbf")),
		}))

		raw := []byte("my secret message")
		result, err := enc.Encrypt(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		decrypted, err := enc.Decrypt(result)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !bytes.Equal(decrypted, raw) {
			t.Fatalf("want %q, got %q", raw, decrypted)
		}
	})

	t.Run("fail, decrypt with unknown key index", func(t *testing.T) {
		enc := must(krypto.NewEncryptor([]krypto.Key{
			must(krypto.ParseKey("2b671594b775f371eab4050b4d58326682df6b1a6cc2e886717b1a26b4d6c45d")),
			must(krypto.ParseKey("90303dfed7994260ea4817a5ca8a392915cd401115b2f97495dadfcbcd14adbf")),
		}))

		result, err := enc.Encrypt([]byte("my secret message"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// An encryptor that only knows the first key cannot decrypt data
		// encrypted with the second.
		older := must(krypto.NewEncryptor([]krypto.Key{
			must(krypto.ParseKey("2b671594b775f371eab4050b4d58326682df6b1a6cc2e886717b1a26b4d6c45d")),
		}))

		_, err = older.Decrypt(result)
		if !errors.Is(err, krypto.ErrUnknownKey) {
			t.Fatalf("wanted error %v, got %v (via errors.Is)", krypto.ErrUnknownKey, err)
		}
	})

	t.Run("fail, decrypt tampered data", func(t *testing.T) {
		enc := must(krypto.NewEncryptor([]krypto.Key{
			must(krypto.ParseKey("2b671594b775f371eab4050b4d58326682df6b1a6cc2e886717b1a26b4d6c45d")),
		}))

		result, err := enc.Encrypt([]byte("my secret message"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		result[len(result)-1] ^= 0xff

		_, err = enc.Decrypt(result)
		if !errors.Is(err, krypto.ErrInvalidData) {
			t.Fatalf("wanted error %v, got %v (via errors.Is)", krypto.ErrInvalidData, err)
		}
	})
}
