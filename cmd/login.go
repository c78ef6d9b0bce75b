package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamz-cli/streamz/color"
	"github.com/streamz-cli/streamz/credentials"
	"github.com/streamz-cli/streamz/key"
	"github.com/streamz-cli/streamz/streamz"
	"github.com/streamz-cli/streamz/style"
	"github.com/streamz-cli/streamz/util"
	"github.com/streamz-cli/streamz/where"
)

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().BoolP("force", "f", false, "discard cached tokens and log in again")
	loginCmd.Flags().BoolP("keyring", "k", false, "store the password in the system keyring")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with your Streamz account",
	Long: `Log in with your Streamz account.

Missing credentials are prompted for interactively. Tokens are cached on
disk, so subsequent commands reuse the session until it expires.`,
	Run: func(cmd *cobra.Command, args []string) {
		username := viper.GetString(key.CredentialsUsername)
		password := viper.GetString(key.CredentialsPassword)

		if username == "" {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Username (e-mail)",
			}, &username, survey.WithValidator(survey.Required)))
			viper.Set(key.CredentialsUsername, username)
		}

		if password == "" && viper.GetBool(key.CredentialsUseKeyring) {
			if stored, err := credentials.GetPassword(username); err == nil {
				password = stored
			}
		}

		if password == "" {
			handleErr(survey.AskOne(&survey.Password{
				Message: "Password",
			}, &password, survey.WithValidator(survey.Required)))
		}

		auth, err := streamz.NewAuth(
			username,
			password,
			viper.GetString(key.CredentialsProvider),
			viper.GetString(key.ProfileSelector),
			where.Tokens(),
		)
		handleErr(err)

		force, _ := cmd.Flags().GetBool("force")
		_, err = auth.Login(force)
		handleErr(err)

		if saveKeyring, _ := cmd.Flags().GetBool("keyring"); saveKeyring {
			handleErr(credentials.SetPassword(username, password))
			viper.Set(key.CredentialsUseKeyring, true)
			util.Ignore(viper.WriteConfig)
		}

		fmt.Printf("%s Logged in as %s\n", style.Fg(color.Green)("✓"), style.Fg(color.HiPurple)(username))
	},
}
