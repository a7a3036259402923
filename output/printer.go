package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/JA3G3R/clippyzard/scanners"
	"github.com/JA3G3R/clippyzard/types"
	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v2"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	helpColor    = color.New(color.FgCyan)
)

// Print writes issues to w in the given format: table, json, yaml or msgpack.
func Print(w io.Writer, issues []types.Issue, format string) error {
	if issues == nil {
		issues = []types.Issue{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(issues)
	case "yaml":
		return yaml.NewEncoder(w).Encode(issues)
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(issues)
	case "table", "":
		return printTable(w, issues)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printTable(w io.Writer, issues []types.Issue) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tRULE\tFILE:LINE:COL\tMESSAGE")
	for _, issue := range issues {
		// Only the first line fits a table row; the rest is help text.
		msg, _, _ := strings.Cut(types.String(issue.Message), "\n")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			colorSeverity(types.String(issue.Severity)),
			types.String(issue.RuleKey),
			location(issue),
			msg)
	}
	return tw.Flush()
}

func location(issue types.Issue) string {
	loc := types.String(issue.FilePath)
	if issue.LineStart != nil {
		loc += fmt.Sprintf(":%d", *issue.LineStart)
		if issue.ColStart != nil {
			loc += fmt.Sprintf(":%d", *issue.ColStart)
		}
	}
	return loc
}

func colorSeverity(severity string) string {
	switch strings.ToLower(severity) {
	case "error", "error: internal compiler error":
		return errorColor.Sprint(severity)
	case "warning":
		return warningColor.Sprint(severity)
	case "help", "note":
		return helpColor.Sprint(severity)
	default:
		return severity
	}
}

// Summary writes per-report failures and the issue count per severity.
func Summary(w io.Writer, results []scanners.Result) {
	counts := make(map[string]int)
	total := 0
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s %s: %v\n", errorColor.Sprint("error:"), res.Path, res.Err)
			continue
		}
		for _, issue := range res.Issues {
			sev := types.String(issue.Severity)
			if sev == "" {
				sev = "unknown"
			}
			counts[sev]++
			total++
		}
	}

	levels := make([]string, 0, len(counts))
	for level := range counts {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	parts := make([]string, 0, len(levels))
	for _, level := range levels {
		parts = append(parts, fmt.Sprintf("%s=%d", level, counts[level]))
	}
	fmt.Fprintf(w, "%d issue(s) in %d report(s)", total, len(results))
	if len(parts) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(w)
}
