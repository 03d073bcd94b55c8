package auth

import (
	"fmt"
	"os"
)

// KeySource delivers the PEM-encoded RSA keypair used for token signing.
// Deployments differ only in where the material lives (config vars on a
// PaaS, key files on a host); callers never branch on platform themselves.
type KeySource interface {
	PrivateKeyPEM() ([]byte, error)
	PublicKeyPEM() ([]byte, error)
}

// FileKeySource reads the keypair from files on disk.
type FileKeySource struct {
	PrivateKeyPath string
	PublicKeyPath  string
}

func (s FileKeySource) PrivateKeyPEM() ([]byte, error) {
	data, err := os.ReadFile(s.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key %s: %w", s.PrivateKeyPath, err)
	}
	return data, nil
}

func (s FileKeySource) PublicKeyPEM() ([]byte, error) {
	data, err := os.ReadFile(s.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key %s: %w", s.PublicKeyPath, err)
	}
	return data, nil
}

// EnvKeySource reads the keypair from environment variables holding the
// PEM text directly.
type EnvKeySource struct {
	PrivateKeyVar string
	PublicKeyVar  string
}

func (s EnvKeySource) PrivateKeyPEM() ([]byte, error) {
	value := os.Getenv(s.PrivateKeyVar)
	if value == "" {
		return nil, fmt.Errorf("environment variable %s is not set", s.PrivateKeyVar)
	}
	return []byte(value), nil
}

func (s EnvKeySource) PublicKeyPEM() ([]byte, error) {
	value := os.Getenv(s.PublicKeyVar)
	if value == "" {
		return nil, fmt.Errorf("environment variable %s is not set", s.PublicKeyVar)
	}
	return []byte(value), nil
}
