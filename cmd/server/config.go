package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avisser/todolist/internal/krypto"
)

// httpConfig is the configuration for the HTTP server.
type httpConfig struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
}

// dbConfig is the configuration for the sqlite database.
type dbConfig struct {
	file    string
	migrate bool
}

// config is the configuration for the server command.
type config struct {
	http           httpConfig
	db             dbConfig
	csrfKey        krypto.Key
	sessionKey     krypto.Key
	encryptionKeys []krypto.Key
	blindIndexKey  krypto.Key
	secureCookie   bool
}

// requiredEnv are environment variables without a sane default, the server
// refuses to start when any of them is missing.
var requiredEnv = []string{
	"CSRF_KEY",
	"SESSION_KEY",
	"ENCRYPTION_KEYS",
	"BLIND_INDEX_KEY",
}

// defaultConfig returns a config with sane default values.
func defaultConfig() config {
	return config{
		http: httpConfig{
			addr:            ":8888",
			readTimeout:     time.Second * 5,
			writeTimeout:    time.Second * 10,
			idleTimeout:     time.Second * 120,
			shutdownTimeout: time.Second * 15,
		},
		db: dbConfig{
			file:    "todolist.db",
			migrate: true,
		},
		secureCookie: true,
	}
}

// envMap maps environment variable names to fields in the config struct.
var envMap = map[string]func(v string, c *config) error{
	"HTTP_ADDR": func(v string, c *config) error {
		c.http.addr = v
		return nil
	},
	"HTTP_READ_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.readTimeout, 0, math.MaxInt64)
	},
	"HTTP_WRITE_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.writeTimeout, 0, math.MaxInt64)
	},
	"HTTP_IDLE_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.idleTimeout, 0, math.MaxInt64)
	},
	"HTTP_SHUTDOWN_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.shutdownTimeout, 0, math.MaxInt64)
	},
	"DB_FILE": func(v string, c *config) error {
		c.db.file = v
		return nil
	},
	"DB_MIGRATE": func(v string, c *config) error {
		return confBool(v, &c.db.migrate)
	},
	"CSRF_KEY": func(v string, c *config) error {
		return confKey(v, &c.csrfKey)
	},
	"SESSION_KEY": func(v string, c *config) error {
		return confKey(v, &c.sessionKey)
	},
	"ENCRYPTION_KEYS": func(v string, c *config) error {
		return confKeys(v, &c.encryptionKeys)
	},
	"BLIND_INDEX_KEY": func(v string, c *config) error {
		return confKey(v, &c.blindIndexKey)
	},
	"SECURE_COOKIE": func(v string, c *config) error {
		return confBool(v, &c.secureCookie)
	},
}

// configFromEnv returns a config with values from the environment. It falls
// back to default values for any missing environment variables.
//
// It does a best effort to validate provided values, so that mistakes are
// caught ASAP. However, there is no guarantee that the returned config
// is valid and will work.
func configFromEnv() (config, error) {
	c := defaultConfig()

	for _, key := range requiredEnv {
		if _, ok := os.LookupEnv(key); !ok {
			return c, fmt.Errorf("missing required env variable %s", key)
		}
	}

	for key, mf := range envMap {
		if val, ok := os.LookupEnv(key); ok {
			if err := mf(val, &c); err != nil {
				return c, fmt.Errorf("invalid env variable %s: %w", key, err)
			}
		}
	}

	return c, nil
}

// confDuration attempts to parse v into tgt and checks if the result is in
// the provided range (inclusive).
func confDuration(v string, tgt *time.Duration, min, max time.Duration) error {
	dur, err := time.ParseDuration(v)
	if err != nil {
		return err
	}

	if dur < min || dur > max {
		return fmt.Errorf("duration %s not in range [%s, %s] (inclusive)", dur, min, max)
	}

	*tgt = dur

	return nil
}

func confBool(v string, tgt *bool) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}

	*tgt = b

	return nil
}

func confKey(v string, tgt *krypto.Key) error {
	key, err := krypto.ParseKey(v)
	if err != nil {
		return err
	}

	*tgt = key

	return nil
}

// confKeys parses a comma separated list of keys.
func confKeys(v string, tgt *[]krypto.Key) error {
	parts := strings.Split(v, ",")

	keys := make([]krypto.Key, 0, len(parts))
	for _, part := range parts {
		key, err := krypto.ParseKey(strings.TrimSpace(part))
		if err != nil {
			return err
		}

		keys = append(keys, key)
	}

	*tgt = keys

	return nil
}
