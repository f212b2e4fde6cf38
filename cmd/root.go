// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fburl/internal/config"
)

// Version is set at build time via ldflags.
var Version = "0.2.0"

// Global flags
var (
	flagHD      bool
	flagSD      bool
	flagTitle   bool
	flagJSON    bool
	flagTimeout time.Duration
	flagConfig  string
	flagDebug   bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "fburl URL...",
	Short: "Get video URLs from Facebook URL.",
	Long: `fburl fetches each video page once and prints the direct video URL
found in it, one line per distinct URL, as soon as each page resolves.
Failures are reported on stderr and do not stop the other URLs.`,
	Version:           Version,
	Args:              cobra.MinimumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              fetchRun,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&flagHD, "hd", false, "Get HD quality video URL (default)")
	rootCmd.Flags().BoolVar(&flagSD, "sd", false, "Get SD quality video URL")
	rootCmd.MarkFlagsMutuallyExclusive("hd", "sd")
	rootCmd.Flags().BoolVarP(&flagTitle, "title", "t", false, "Also print the video title")
	rootCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Print one JSON object per URL")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Per-page fetch timeout, 0 disables (default from config: 30s)")

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/fburl/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagSD {
		cfg.Quality = "sd"
	} else if flagHD {
		cfg.Quality = "hd"
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = flagTimeout.String()
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogging(cmd)
	log.Debug().
		Str("quality", cfg.Quality).
		Dur("timeout", cfg.TimeoutDuration()).
		Int("max_redirects", cfg.MaxRedirects).
		Msg("configuration loaded")

	return nil
}

// setupLogging points the global zerolog logger at stderr. Only debug
// output is logged; results and errors are printed, not logged.
func setupLogging(cmd *cobra.Command) {
	stderr := cmd.ErrOrStderr()
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !useColor(cfg.Color, stderr),
	})
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
