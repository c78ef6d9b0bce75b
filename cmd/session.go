// Package cmd implements the command-line interface for streamz-cli.
package cmd

import (
	"github.com/spf13/viper"
	"github.com/streamz-cli/streamz/credentials"
	"github.com/streamz-cli/streamz/key"
	"github.com/streamz-cli/streamz/streamz"
	"github.com/streamz-cli/streamz/where"
)

// buildAuth assembles a session manager from the configured credentials.
// When no password is configured and keyring usage is enabled, the password
// is looked up in the system keyring under the configured username.
func buildAuth() (*streamz.Auth, error) {
	username := viper.GetString(key.CredentialsUsername)
	password := viper.GetString(key.CredentialsPassword)

	if password == "" && username != "" && viper.GetBool(key.CredentialsUseKeyring) {
		if stored, err := credentials.GetPassword(username); err == nil {
			password = stored
		}
	}

	return streamz.NewAuth(
		username,
		password,
		viper.GetString(key.CredentialsProvider),
		viper.GetString(key.ProfileSelector),
		where.Tokens(),
	)
}
