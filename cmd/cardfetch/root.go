package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"cardfetch/pkg/ui"
)

var (
	// Version information, set with -ldflags at build time
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
	verbose    bool

	console *ui.Console
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cardfetch",
	Short: "Bulk download card images from a card catalog API",
	Long: `cardfetch downloads the image of every card listed by a catalog API
(by default the YGOPRODeck card database) into a local folder, one file per
card named <id>.jpg.

Requests are sent in batches with a pause between batches so the image host's
rate limit is respected. Failed cards are reported at the end and do not stop
the run. Press Ctrl+C to stop after the current download.

Running cardfetch without a subcommand is the same as 'cardfetch fetch'.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		console = ui.NewConsole(os.Stdout, noColor, quiet)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, args)
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if console == nil {
			console = ui.NewConsole(os.Stderr, noColor, quiet)
		}
		console.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.cardfetch.yaml or ~/.config/cardfetch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print only errors and the final report")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show log output alongside progress")

	addFetchFlags(rootCmd)

	rootCmd.SetVersionTemplate(`cardfetch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
