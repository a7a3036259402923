package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/JA3G3R/clippyzard/config"
	"github.com/JA3G3R/clippyzard/output"
	"github.com/JA3G3R/clippyzard/scanners"
	"github.com/JA3G3R/clippyzard/store"
	"github.com/JA3G3R/clippyzard/types"
	"github.com/spf13/cobra"
)

var (
	dbPath       string
	failOnIssues bool
)

var clippyCmd = &cobra.Command{
	Use:   "clippy [reports...]",
	Short: "Import clippy JSON reports",
	Long: `Import one or more clippy reports. Arguments may be paths or glob
patterns such as "target/**/clippy*.json". Lines of the report that are not
JSON objects (cargo progress output, for example) are ignored.

Examples:
  cargo clippy --message-format=json > clippy.json
  clippyzard clippy clippy.json
  clippyzard clippy "reports/**/*.json" -o json --db issues.db`,
	RunE: runClippy,
}

func init() {
	clippyCmd.Flags().StringVar(&dbPath, "db", "", "also store issues in this SQLite database (env "+config.EnvDatabase+")")
	clippyCmd.Flags().BoolVar(&failOnIssues, "fail-on-issues", false, "exit with an error when any issue was reported")
	rootCmd.AddCommand(clippyCmd)
}

func runClippy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.Database = dbPath
	}
	if len(args) == 0 {
		args = []string{"clippy.json"}
	}

	paths, err := scanners.Discover(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no reports matched %v", args)
	}
	infof("Importing %d clippy report(s)\n", len(paths))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := scanners.ScanReports(ctx, paths, cfg.Jobs, cfg.Apply)
	if err != nil {
		return err
	}
	return report(ctx, cmd.OutOrStdout(), cfg, results)
}

// report prints, optionally stores, and decides the exit status.
func report(ctx context.Context, w io.Writer, cfg *config.Config, results []scanners.Result) error {
	var all []types.Issue
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		all = append(all, res.Issues...)
	}

	if err := output.Print(w, all, cfg.Format); err != nil {
		return fmt.Errorf("cannot write issues: %w", err)
	}
	if !quiet || failed > 0 {
		output.Summary(os.Stderr, results)
	}

	if cfg.Database != "" {
		if err := save(ctx, cfg.Database, results); err != nil {
			return err
		}
		infof("Stored issues in %s\n", cfg.Database)
	}

	switch {
	case failed > 0:
		return fmt.Errorf("%d of %d report(s) could not be imported", failed, len(results))
	case failOnIssues && len(all) > 0:
		return fmt.Errorf("%d issue(s) reported", len(all))
	}
	if len(all) == 0 && !quiet {
		warnf("no clippy issues found; was the report written with --message-format=json?\n")
	}
	return nil
}

func save(ctx context.Context, path string, results []scanners.Result) error {
	st, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if err := st.Save(ctx, res.Path, res.Issues); err != nil {
			return err
		}
	}
	return nil
}
