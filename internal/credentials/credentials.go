// Package credentials resolves the mailbox login used for notifications.
package credentials

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
)

const (
	UserEnv     = "EMAIL_USER"
	PasswordEnv = "EMAIL_PASS"

	// KeyringService is the OS keyring service name passwords are stored under
	KeyringService = "room-watch"
)

// ErrCredentialsMissing means notification is disabled for this run
var ErrCredentialsMissing = errors.New("email credentials not found")

// Credentials is a mailbox login
type Credentials struct {
	User     string
	Password string
}

// Complete reports whether both fields are set
func (c Credentials) Complete() bool {
	return c.User != "" && c.Password != ""
}

// keyringGet is swapped out in tests
var keyringGet = keyring.Get

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment without overriding variables that are already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Resolve fills in missing fields of c from the environment and, for the password,
// the OS keyring. The returned credentials are complete unless err wraps
// ErrCredentialsMissing.
func Resolve(c Credentials) (Credentials, error) {
	if c.User == "" {
		c.User = os.Getenv(UserEnv)
	}
	if c.Password == "" {
		c.Password = os.Getenv(PasswordEnv)
	}
	if c.Password == "" && c.User != "" {
		if pw, err := keyringGet(KeyringService, c.User); err == nil {
			c.Password = pw
		}
	}

	switch {
	case c.User == "" && c.Password == "":
		return c, fmt.Errorf("%w: set %s and %s", ErrCredentialsMissing, UserEnv, PasswordEnv)
	case c.User == "":
		return c, fmt.Errorf("%w: %s is not set", ErrCredentialsMissing, UserEnv)
	case c.Password == "":
		return c, fmt.Errorf("%w: %s is not set and no keyring entry exists", ErrCredentialsMissing, PasswordEnv)
	}
	return c, nil
}

// Store saves the password for user in the OS keyring
func Store(user, password string) error {
	if user == "" {
		return errors.New("user cannot be empty")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(KeyringService, user, password); err != nil {
		return fmt.Errorf("storing password in keyring: %w", err)
	}
	return nil
}
