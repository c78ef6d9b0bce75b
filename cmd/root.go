// Package cmd implements the command-line interface for streamz-cli.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamz-cli/streamz/color"
	"github.com/streamz-cli/streamz/constant"
	"github.com/streamz-cli/streamz/key"
	"github.com/streamz-cli/streamz/log"
	"github.com/streamz-cli/streamz/style"
	"github.com/streamz-cli/streamz/version"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("profile", "p", "", "Profile selector to use, formatted as \"profileId:product\"")
	lo.Must0(viper.BindPFlag(key.ProfileSelector, rootCmd.PersistentFlags().Lookup("profile")))

	rootCmd.PersistentFlags().StringP("username", "u", "", "Streamz account e-mail address")
	lo.Must0(viper.BindPFlag(key.CredentialsUsername, rootCmd.PersistentFlags().Lookup("username")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd defines the entry point for the streamz-cli application.
var rootCmd = &cobra.Command{
	Use:   constant.Streamz,
	Short: "A command-line client for the Streamz video service",
	Long: style.Fg(color.HiPurple)("streamz") + "\n" +
		style.New().Italic(true).Foreground(color.Purple).Render("    - A command-line client for the Streamz video service"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Red)("✗"), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
