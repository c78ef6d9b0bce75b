package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamz-cli/streamz/color"
	"github.com/streamz-cli/streamz/credentials"
	"github.com/streamz-cli/streamz/key"
	"github.com/streamz-cli/streamz/style"
)

func init() {
	rootCmd.AddCommand(logoutCmd)

	logoutCmd.Flags().BoolP("forget", "f", false, "also remove the password from the system keyring")
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the cached session tokens",
	Run: func(cmd *cobra.Command, args []string) {
		auth, err := buildAuth()
		handleErr(err)
		handleErr(auth.Logout())

		if forget, _ := cmd.Flags().GetBool("forget"); forget {
			username := viper.GetString(key.CredentialsUsername)
			if username != "" {
				handleErr(credentials.DeletePassword(username))
			}
		}

		fmt.Printf("%s Logged out\n", style.Fg(color.Green)("✓"))
	},
}
