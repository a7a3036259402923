package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JA3G3R/clippyzard/config"
	"github.com/JA3G3R/clippyzard/scanners"
	"github.com/JA3G3R/clippyzard/store"
	"github.com/JA3G3R/clippyzard/types"
)

const diagnostic = `{"message":{"code":{"code":"clippy::needless_return"},"message":"unneeded return","level":"warning","spans":[{"file_name":"src/lib.rs","line_start":10,"line_end":10,"column_start":5,"column_end":17}],"children":[]}}`

func TestClippyCommand(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "clippy.json")
	content := diagnostic + "\n    Checking demo v0.1.0 (/src/demo)\n" + strings.Replace(diagnostic, "src/lib.rs", "src/main.rs", 1) + "\n"
	if err := os.WriteFile(report, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	dbFile := filepath.Join(dir, "issues.db")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"clippy", report, "-o", "json", "-q", "--db", dbFile})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		quiet = false
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var issues []types.Issue
	if err := json.Unmarshal(out.Bytes(), &issues); err != nil {
		t.Fatalf("cannot decode output %q: %v", out.String(), err)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	if types.String(issues[1].FilePath) != "src/main.rs" {
		t.Errorf("unexpected second issue %+v", issues[1])
	}

	ctx := context.Background()
	st, err := store.Open(ctx, dbFile)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	stored, err := st.Issues(ctx, report)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 stored issues, got %d", len(stored))
	}
}

func TestReportFailures(t *testing.T) {
	cfg := config.Default()
	cfg.Format = "json"
	ctx := context.Background()
	issue := types.Issue{RuleKey: types.Ptr("clippy::x")}

	quiet = true
	t.Cleanup(func() {
		quiet = false
		failOnIssues = false
	})

	failed := []scanners.Result{
		{Path: "ok.json", Issues: []types.Issue{issue}},
		{Path: "missing.json", Err: scanners.ErrReportNotFound},
	}
	if err := report(ctx, &bytes.Buffer{}, cfg, failed); err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("expected import failure, got %v", err)
	}

	ok := []scanners.Result{{Path: "ok.json", Issues: []types.Issue{issue}}}
	if err := report(ctx, &bytes.Buffer{}, cfg, ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	failOnIssues = true
	if err := report(ctx, &bytes.Buffer{}, cfg, ok); err == nil {
		t.Error("expected error with --fail-on-issues")
	}
	if err := report(ctx, &bytes.Buffer{}, cfg, []scanners.Result{{Path: "empty.json"}}); err != nil {
		t.Errorf("no issues must not fail with --fail-on-issues: %v", err)
	}
}
