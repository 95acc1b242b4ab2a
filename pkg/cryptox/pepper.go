package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	pepperPath string
	pepperOnce sync.Once
	pepper     string
)

// SetPepperPath points the package at the pepper file. Must be called before
// the first hash or verify; later calls are ignored once the pepper loads.
func SetPepperPath(path string) {
	pepperPath = path
}

// GetPepper returns the process-wide password pepper, loading it from the
// configured file on first use. A missing file is created with a fresh
// random pepper. An empty path disables peppering.
func GetPepper() string {
	pepperOnce.Do(func() {
		if pepperPath == "" {
			return
		}
		p, err := loadOrGeneratePepper(pepperPath)
		if err != nil {
			panic("cryptox: pepper unavailable: " + err.Error())
		}
		pepper = p
	})
	return pepper
}

func loadOrGeneratePepper(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(raw)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(p+"\n"), 0o600); err != nil {
		return "", err
	}
	return p, nil
}
