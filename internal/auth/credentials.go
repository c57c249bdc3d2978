package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Credentials is what a session keeps on disk between runs.
type Credentials struct {
	Token   string    `toml:"token"`
	Email   string    `toml:"email,omitempty"`
	APIBase string    `toml:"api_base,omitempty"`
	SavedAt time.Time `toml:"saved_at"`
}

// LoadCredentials reads credentials.toml. A missing file returns an error
// matching os.ErrNotExist.
func LoadCredentials(path string) (*Credentials, error) {
	var c Credentials
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, err
	}
	if c.Token == "" {
		return nil, fmt.Errorf("%s: empty token", path)
	}
	return &c, nil
}

// SaveCredentials writes credentials readable only by the owner.
func SaveCredentials(path string, c *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(c)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// RemoveCredentials deletes the credentials file if present.
func RemoveCredentials(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
