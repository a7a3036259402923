package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/JA3G3R/clippyzard/types"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"
)

// DefaultFile is read when it exists and no --config was given.
const DefaultFile = "clippyzard.hcl"

// Env vars consulted by LoadEnv.
const (
	EnvConfig   = "CLIPPYZARD_CONFIG"
	EnvFormat   = "CLIPPYZARD_FORMAT"
	EnvDatabase = "CLIPPYZARD_DATABASE"
)

// Formats lists the accepted output formats.
var Formats = []string{"table", "json", "yaml", "msgpack"}

// Config is the clippyzard.hcl file:
//
//	format        = "json"
//	jobs          = 4
//	database      = "issues.db"
//	strip_prefix  = "/builds/project/"
//	exclude_rules = ["clippy::needless_return"]
//	levels        = ["warning", "error"]
//
//	rule "clippy::unwrap_used" {
//	  severity = "error"
//	}
type Config struct {
	Format       string   `hcl:"format,optional"`
	Jobs         int      `hcl:"jobs,optional"`
	Database     string   `hcl:"database,optional"`
	StripPrefix  string   `hcl:"strip_prefix,optional"`
	ExcludeRules []string `hcl:"exclude_rules,optional"`
	Levels       []string `hcl:"levels,optional"`
	Rules        []Rule   `hcl:"rule,block"`
}

// Rule overrides the reported severity of one rule.
type Rule struct {
	Key      string `hcl:"key,label"`
	Severity string `hcl:"severity"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Format: "table"}
}

// Load decodes the HCL file at path on top of the defaults. An empty path
// loads DefaultFile if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, nil
		}
		path = DefaultFile
	}
	if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
		return nil, fmt.Errorf("cannot load config %s: %w", path, err)
	}
	if cfg.Format == "" {
		cfg.Format = "table"
	}
	return cfg, nil
}

// LoadEnv loads .env from the working directory when present.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// ApplyEnv overrides file values with CLIPPYZARD_* variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database = v
	}
}

func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unknown output format %q; want one of %s", c.Format, strings.Join(Formats, ", "))
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative; got %d", c.Jobs)
	}
	for _, r := range c.Rules {
		if r.Severity == "" {
			return fmt.Errorf("rule %q: severity must not be empty", r.Key)
		}
	}
	return nil
}

// Apply filters and rewrites one issue. It returns false when the issue is
// excluded. The input issue is not modified.
func (c *Config) Apply(issue types.Issue) (types.Issue, bool) {
	rule := types.String(issue.RuleKey)
	if slices.Contains(c.ExcludeRules, rule) {
		return issue, false
	}
	for _, r := range c.Rules {
		if r.Key == rule {
			issue.Severity = types.Ptr(r.Severity)
		}
	}
	if len(c.Levels) > 0 && !containsFold(c.Levels, types.String(issue.Severity)) {
		return issue, false
	}
	if c.StripPrefix != "" && issue.FilePath != nil {
		issue.FilePath = types.Ptr(strings.TrimPrefix(*issue.FilePath, c.StripPrefix))
	}
	return issue, true
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
