package krypto

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Parameters for new hashes, based on the OWASP recommendations for argon2id.
const (
	argon2Variant     = "argon2id"
	argon2MemoryKiB   = 47104
	argon2Iterations  = 1
	argon2Parallelism = 1

	saltLen = 16
	hashLen = 32
)

// ErrInvalidInput indicates the input could not be hashed or parsed.
var ErrInvalidInput = errors.New("invalid input")

// Argon2Hash is an argon2id hash and the parameters used to create it.
//
// Hashes are encoded using the PHC string format:
//
//	$argon2id$v=19$m=47104,t=1,p=1$<salt>$<hash>
//
// The salt and hash are base64 encoded without padding.
type Argon2Hash struct {
	Variant     string
	Version     int
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	Salt        []byte
	Hash        []byte
}

// HashArgon2 hashes the provided data using argon2id with a random salt.
func HashArgon2(data []byte) (Argon2Hash, error) {
	if len(data) == 0 {
		return Argon2Hash{}, fmt.Errorf("no data provided: %w", ErrInvalidInput)
	}

	salt, err := randBytes(saltLen)
	if err != nil {
		return Argon2Hash{}, err
	}

	return hashWithSalt(data, salt), nil
}

// HashArgon2WithKey hashes the provided data using argon2id with a salt
// derived from the provided key. The same data and key always produce the
// same hash, which makes the result usable as a blind index.
func HashArgon2WithKey(data []byte, key Key) (Argon2Hash, error) {
	if len(data) == 0 {
		return Argon2Hash{}, fmt.Errorf("no data provided: %w", ErrInvalidInput)
	}

	if len(key.value) < saltLen {
		return Argon2Hash{}, ErrInvalidKey
	}

	return hashWithSalt(data, key.value[:saltLen]), nil
}

func hashWithSalt(data, salt []byte) Argon2Hash {
	hash := argon2.IDKey(data, salt, argon2Iterations, argon2MemoryKiB, argon2Parallelism, hashLen)

	return Argon2Hash{
		Variant:     argon2Variant,
		Version:     argon2.Version,
		MemoryKiB:   argon2MemoryKiB,
		Iterations:  argon2Iterations,
		Parallelism: argon2Parallelism,
		Salt:        salt,
		Hash:        hash,
	}
}

// ParseArgon2Hash parses a PHC formatted argon2id hash.
func ParseArgon2Hash(raw string) (Argon2Hash, error) {
	parts := strings.Split(raw, "$")
	if len(parts) != 6 || parts[0] != "" {
		return Argon2Hash{}, fmt.Errorf("malformed hash: %w", ErrInvalidInput)
	}

	if parts[1] != argon2Variant {
		return Argon2Hash{}, fmt.Errorf("unsupported variant %q: %w", parts[1], ErrInvalidInput)
	}

	h := Argon2Hash{
		Variant: parts[1],
	}

	if _, err := fmt.Sscanf(parts[2], "v=%d", &h.Version); err != nil {
		return Argon2Hash{}, fmt.Errorf("malformed version: %w", ErrInvalidInput)
	}

	if h.Version != argon2.Version {
		return Argon2Hash{}, fmt.Errorf("unsupported version %d: %w", h.Version, ErrInvalidInput)
	}

	params := strings.Split(parts[3], ",")
	if len(params) != 3 {
		return Argon2Hash{}, fmt.Errorf("malformed parameters: %w", ErrInvalidInput)
	}

	mem, err := paramValue(params[0], "m")
	if err != nil {
		return Argon2Hash{}, err
	}
	h.MemoryKiB = uint32(mem)

	iter, err := paramValue(params[1], "t")
	if err != nil {
		return Argon2Hash{}, err
	}
	h.Iterations = uint32(iter)

	par, err := paramValue(params[2], "p")
	if err != nil {
		return Argon2Hash{}, err
	}
	h.Parallelism = uint8(par)

	h.Salt, err = base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return Argon2Hash{}, fmt.Errorf("malformed salt: %w", ErrInvalidInput)
	}

	h.Hash, err = base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return Argon2Hash{}, fmt.Errorf("malformed hash data: %w", ErrInvalidInput)
	}

	return h, nil
}

func paramValue(part, name string) (uint64, error) {
	prefix := name + "="
	if !strings.HasPrefix(part, prefix) {
		return 0, fmt.Errorf("missing parameter %q: %w", name, ErrInvalidInput)
	}

	v, err := strconv.ParseUint(strings.TrimPrefix(part, prefix), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed parameter %q: %w", name, ErrInvalidInput)
	}

	return v, nil
}

// MatchBytes rehashes raw using the same parameters and salt and compares
// the result to the stored hash in constant time.
func (h Argon2Hash) MatchBytes(raw []byte) bool {
	other := argon2.IDKey(raw, h.Salt, h.Iterations, h.MemoryKiB, h.Parallelism, uint32(len(h.Hash)))
	return subtle.ConstantTimeCompare(h.Hash, other) == 1
}

// String encodes the hash using the PHC string format.
func (h Argon2Hash) String() string {
	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		h.Variant,
		h.Version,
		h.MemoryKiB,
		h.Iterations,
		h.Parallelism,
		base64.RawStdEncoding.EncodeToString(h.Salt),
		base64.RawStdEncoding.EncodeToString(h.Hash),
	)
}

func (h Argon2Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Argon2Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseArgon2Hash(string(text))
	if err != nil {
		return err
	}

	*h = parsed

	return nil
}

// Scan implements sql.Scanner so hashes can be read from the database.
func (h *Argon2Hash) Scan(src any) error {
	s, ok := src.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into Argon2Hash: %w", src, ErrInvalidInput)
	}

	return h.UnmarshalText([]byte(s))
}
