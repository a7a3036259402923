package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JA3G3R/clippyzard/types"
	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clippyzard.hcl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
format        = "json"
jobs          = 4
database      = "out/issues.db"
strip_prefix  = "/builds/demo/"
exclude_rules = ["clippy::needless_return"]
levels        = ["warning", "error"]

rule "clippy::unwrap_used" {
  severity = "error"
}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Format:       "json",
		Jobs:         4,
		Database:     "out/issues.db",
		StripPrefix:  "/builds/demo/",
		ExcludeRules: []string{"clippy::needless_return"},
		Levels:       []string{"warning", "error"},
		Rules:        []Rule{{Key: "clippy::unwrap_used", Severity: "error"}},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoadDefaultsFormat(t *testing.T) {
	cfg, err := Load(writeConfig(t, `jobs = 2`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != "table" {
		t.Errorf("expected default format table, got %q", cfg.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(writeConfig(t, `format = `)); err == nil {
		t.Error("expected syntax error")
	}
	if _, err := Load(writeConfig(t, `unknown = 1`)); err == nil {
		t.Error("expected error for unknown attribute")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: *Default()},
		{name: "msgpack", cfg: Config{Format: "msgpack"}},
		{name: "unknown format", cfg: Config{Format: "xml"}, wantErr: true},
		{name: "negative jobs", cfg: Config{Format: "table", Jobs: -1}, wantErr: true},
		{name: "empty rule severity", cfg: Config{Format: "table", Rules: []Rule{{Key: "clippy::x"}}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvFormat, "yaml")
	t.Setenv(EnvDatabase, "env.db")
	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Format != "yaml" || cfg.Database != "env.db" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvFormat+"=json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	// t.Setenv registers restoring the variable; godotenv does not override set values.
	t.Setenv(EnvFormat, "")
	os.Unsetenv(EnvFormat)

	if err := LoadEnv(); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(EnvFormat); got != "json" {
		t.Errorf("expected %s=json from .env, got %q", EnvFormat, got)
	}
}

func issue(rule, severity, path string) types.Issue {
	return types.Issue{
		RuleKey:  types.Ptr(rule),
		Severity: types.Ptr(severity),
		FilePath: types.Ptr(path),
	}
}

func TestApply(t *testing.T) {
	cfg := &Config{
		StripPrefix:  "/builds/demo/",
		ExcludeRules: []string{"clippy::needless_return"},
		Levels:       []string{"Warning", "error"},
		Rules:        []Rule{{Key: "clippy::unwrap_used", Severity: "error"}},
	}
	tests := []struct {
		name     string
		in       types.Issue
		want     types.Issue
		wantKeep bool
	}{
		{
			name:     "excluded rule",
			in:       issue("clippy::needless_return", "warning", "src/lib.rs"),
			wantKeep: false,
		},
		{
			name:     "level not listed",
			in:       issue("clippy::x", "help", "src/lib.rs"),
			wantKeep: false,
		},
		{
			name:     "level matched case-insensitively and prefix stripped",
			in:       issue("clippy::x", "warning", "/builds/demo/src/lib.rs"),
			want:     issue("clippy::x", "warning", "src/lib.rs"),
			wantKeep: true,
		},
		{
			name:     "severity override",
			in:       issue("clippy::unwrap_used", "note", "src/lib.rs"),
			want:     issue("clippy::unwrap_used", "error", "src/lib.rs"),
			wantKeep: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := *tt.in.FilePath
			got, keep := cfg.Apply(tt.in)
			if keep != tt.wantKeep {
				t.Fatalf("expected keep=%v, got %v", tt.wantKeep, keep)
			}
			if *tt.in.FilePath != before {
				t.Errorf("input issue was modified")
			}
			if !keep {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected issue (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyNoFilters(t *testing.T) {
	in := types.Issue{RuleKey: types.Ptr("clippy::x")}
	got, keep := Default().Apply(in)
	if !keep {
		t.Fatal("expected issue to be kept")
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("unexpected issue (-want +got):\n%s", diff)
	}
}
