// Package credentials provides a high-level API for persisting and retrieving account secrets from the system keyring.
package credentials

import (
	"github.com/zalando/go-keyring"
)

const service = "streamz-cli"

// SetPassword persists the account password to the system keyring, keyed by username.
func SetPassword(username, password string) error {
	return keyring.Set(service, username, password)
}

// GetPassword retrieves the account password for the given username from the system keyring.
func GetPassword(username string) (string, error) {
	return keyring.Get(service, username)
}

// DeletePassword removes the stored password for the given username from the system keyring.
func DeletePassword(username string) error {
	return keyring.Delete(service, username)
}
