package config

import (
	"errors"

	"github.com/zalando/go-keyring"

	pkgerrors "github.com/sideko-inc/sideko/pkg/errors"
)

// Keychain stores secrets in an OS credential store.
type Keychain interface {
	Get(service, account string) (string, error)
	Set(service, account, secret string) error
	Delete(service, account string) error
}

// OSKeychain is the platform keychain (macOS Keychain, Windows Credential
// Manager, Secret Service on Linux). A missing item is reported as
// pkgerrors.ErrKeychainNoEntry.
type OSKeychain struct{}

// Get implements Keychain.
func (OSKeychain) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", pkgerrors.ErrKeychainNoEntry
	}
	return secret, err
}

// Set implements Keychain.
func (OSKeychain) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

// Delete implements Keychain.
func (OSKeychain) Delete(service, account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return pkgerrors.ErrKeychainNoEntry
	}
	return err
}
