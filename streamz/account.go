package streamz

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/streamz-cli/streamz/filesystem"
	"github.com/streamz-cli/streamz/log"
)

// AccountStorage is the persisted session state. Field names are a wire
// contract with the token file; absent fields decode to their zero value
// rather than failing.
type AccountStorage struct {
	JWTToken string `json:"jwt_token"`
	Profile  string `json:"profile"`
	Product  string `json:"product"`

	// Hash is the fingerprint of the credentials the token was issued for.
	Hash string `json:"hash"`
}

// IsValidToken reports whether the cached session token is still usable for
// downstream calls. The token must decode as a well-formed JWT with a
// present, unexpired exp claim. The signature is not verified: the backend,
// not this client, is the trust boundary. Never panics on garbage input.
func (a *AccountStorage) IsValidToken() bool {
	if a.JWTToken == "" {
		// We have no token
		return false
	}

	token, _, err := jwt.NewParser().ParseUnverified(a.JWTToken, jwt.MapClaims{})
	if err != nil {
		log.Debugf("session token is not valid: %v", err)
		return false
	}

	expiry, err := token.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		log.Debug("session token has no expiry claim")
		return false
	}

	if expiry.Before(time.Now()) {
		log.Debug("session token is expired")
		return false
	}

	return true
}

// Fingerprint derives a deterministic one-way hash over the credential pair.
// It is used purely to detect credential changes between runs, not as a
// security measure.
func Fingerprint(username, password string) string {
	sum := md5.Sum([]byte(username + ":" + password))
	return hex.EncodeToString(sum[:])
}

// loadAccount best-effort deserializes the persisted session state.
// A missing or corrupt file yields empty state, never an error.
func loadAccount(path string) *AccountStorage {
	account := &AccountStorage{}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		log.Warn("could not use the token cache since it is invalid or non-existent")
		return account
	}

	if err := json.Unmarshal(data, account); err != nil {
		log.Warnf("discarding corrupt token cache: %v", err)
		return &AccountStorage{}
	}

	return account
}

// saveAccount serializes the session state atomically. The file is written
// next to its final location and renamed into place so a crash mid-write
// cannot leave a partial token file, and concurrent writers cannot observe
// interleaved content.
func saveAccount(path string, account *AccountStorage) error {
	fs := filesystem.API()

	if err := fs.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	data, err := json.MarshalIndent(account, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := fs.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return fs.Rename(tmp, path)
}
