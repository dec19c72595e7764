package app

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"github.com/screfinery/screfinery/pkg/jwtx"
)

const jwtSecretLength = 48

// InitTokenSigner loads the HS256 secret from the configured file, generating
// one on first boot. Losing the file invalidates every token in the wild.
func InitTokenSigner(cfg Config) (*jwtx.HS256, error) {
	secret, err := loadOrGenerateSecret(cfg.JWTSecretFile)
	if err != nil {
		return nil, fmt.Errorf("loading jwt secret: %w", err)
	}

	return jwtx.NewHS256(secret, cfg.Issuer)
}

func loadOrGenerateSecret(path string) ([]byte, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		secret := make([]byte, jwtSecretLength)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, secret, 0600); err != nil {
			return nil, err
		}
		return secret, nil
	}

	return os.ReadFile(path)
}
