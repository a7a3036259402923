package cmd

import (
	"fmt"
	"os"

	"github.com/JA3G3R/clippyzard/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	format  string
	jobs    int
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "clippyzard",
	Short: "Clippyzard imports Rust clippy diagnostics as normalized issues",
	Long: `Clippyzard reads the line-delimited JSON written by
"cargo clippy --message-format=json" and turns every lint diagnostic into a
flat issue record (file, rule, message, span, severity).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "HCL config file (default: ./"+config.DefaultFile+" if present, env "+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", "", "output format: table, json, yaml, msgpack")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 0, "reports scanned in parallel (default: GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output on stderr")
}

// loadConfig resolves settings: defaults < config file < env < flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}
	path := cfgFile
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("jobs") {
		cfg.Jobs = jobs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func infof(msg string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}

func warnf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s "+msg, append([]any{color.New(color.FgYellow).Sprint("warning:")}, args...)...)
}
