package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/streamz-cli/streamz/color"
	"github.com/streamz-cli/streamz/streamz"
	"github.com/streamz-cli/streamz/style"
	"github.com/streamz-cli/streamz/util"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("json", "j", false, "print the resolved stream as JSON")
	playCmd.Flags().Bool("license", true, "print the Widevine license-key descriptor")
}

var playCmd = &cobra.Command{
	Use:   "play <movie|episode> <id>",
	Short: "Resolve a movie or episode into a playable stream",
	Long: `Resolve a movie or episode into a playable stream.

The resolved manifest URL and license descriptor are short-lived; pipe them
straight into a player instead of caching them.`,
	Example: "  streamz play episode d8659669-bb1c-4442-a43f-92998e271a3e",
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var streamType string
		switch args[0] {
		case "movie", "movies":
			streamType = streamz.TypeMovies
		case "episode", "episodes":
			streamType = streamz.TypeEpisodes
		default:
			handleErr(fmt.Errorf("unknown stream type %q, expected movie or episode", args[0]))
		}

		auth, err := buildAuth()
		handleErr(err)

		resolved, err := streamz.NewStream(auth).GetStream(streamType, args[1])
		handleErr(err)

		var licenseKey string
		if resolved.LicenseURL != "" {
			licenseKey, err = streamz.CreateLicenseKey(resolved.LicenseURL, streamz.KeyTypeR, nil, "")
			handleErr(err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			handleErr(json.NewEncoder(os.Stdout).Encode(struct {
				*streamz.ResolvedStream
				LicenseKey string `json:"license_key,omitempty"`
			}{resolved, licenseKey}))
			return
		}

		title := resolved.Title
		if resolved.Program != "" {
			title = resolved.Program + " - " + title
		}

		fmt.Println(style.Fg(color.HiPurple)(title), style.Faint(formatDuration(resolved.Duration)))
		fmt.Println(style.Faint("manifest "), resolved.URL)
		if printLicense, _ := cmd.Flags().GetBool("license"); printLicense && licenseKey != "" {
			fmt.Println(style.Faint("license  "), licenseKey)
		}
		for _, subtitle := range resolved.Subtitles {
			fmt.Println(style.Faint("subtitle "), subtitle.Name, style.Faint(subtitle.URL))
		}
		if len(resolved.Subtitles) > 0 {
			fmt.Println(style.Faint(util.Quantify(len(resolved.Subtitles), "subtitle track", "subtitle tracks")))
		}
	},
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return ""
	}

	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}
