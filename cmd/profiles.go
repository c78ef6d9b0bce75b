package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamz-cli/streamz/color"
	"github.com/streamz-cli/streamz/key"
	"github.com/streamz-cli/streamz/style"
	"github.com/streamz-cli/streamz/util"
)

func init() {
	rootCmd.AddCommand(profilesCmd)

	profilesCmd.Flags().StringP("products", "P", "", "comma-separated products to list profiles for")
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the profiles available on the account",
	Long: `List the profiles available on the account.

Pass the printed selector to --profile (or set it in the config) to pin a
profile for playback.`,
	Run: func(cmd *cobra.Command, args []string) {
		auth, err := buildAuth()
		handleErr(err)
		_, err = auth.Login(false)
		handleErr(err)

		products := viper.GetString(key.ProfileProducts)
		if flagProducts, _ := cmd.Flags().GetString("products"); flagProducts != "" {
			products = flagProducts
		}

		profiles, err := auth.Profiles(products)
		handleErr(err)

		width, _, err := util.TerminalSize()
		if err != nil {
			width = 80
		}

		for _, profile := range profiles {
			selector := profile.ID + ":" + profile.Product
			name := profile.Name
			if profile.ColorStart != "" {
				name = style.Fg(lipgloss.Color(profile.ColorStart))(name)
			}

			fmt.Println(style.Truncate(width)(fmt.Sprintf(
				"%s %s %s",
				name,
				style.Faint(profile.Product),
				style.Fg(color.Blue)(selector),
			)))
		}

		fmt.Println()
		fmt.Println(style.Faint(util.Quantify(len(profiles), "profile", "profiles")))
	},
}
