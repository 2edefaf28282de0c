// missionci validates mission contracts and reviews pull requests.
//
// Usage:
//
//	missionci check [contract...] [--changed=<path>]... [--summary]
//	missionci review
//	missionci reviewer
//	missionci watch
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"missionci/internal/config"
	"missionci/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// cfg is loaded once per invocation by the root pre-run hook.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "missionci",
	Short: "Validate mission contracts against the template and review pull requests",
	Long: "missionci checks every contract folder against the mission template\n" +
		"and reports the result on the pull request as a single review.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Config file (default "+config.DefaultPath+" when present)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", defaultLogFormat(), "Log format: text, json, actions")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(reviewerCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.Version = version
}

func setup(cmd *cobra.Command, _ []string) error {
	w := cmd.ErrOrStderr()
	if rootFlags.logFormat == logging.FormatActions {
		// Workflow commands are only picked up from stdout.
		w = cmd.OutOrStdout()
	}
	logging.Init(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat, w)

	c, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	c.ApplyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func defaultLogFormat() string {
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return logging.FormatActions
	}
	return logging.FormatText
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
