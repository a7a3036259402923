package scanners

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/JA3G3R/clippyzard/types"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// Result holds the issues read from one report, or the error that stopped it.
type Result struct {
	Path   string
	Issues []types.Issue
	Err    error
}

// Discover expands report arguments. Plain paths are kept as given, even when
// missing, so that scanning them reports the not-found error. Arguments with
// glob syntax (including **) are expanded to the matching files.
func Discover(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			add(pattern)
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid report pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("cannot expand report pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

// ScanReports scans paths with up to jobs reports in flight. Results are in
// the order of paths. A failing report only sets its own Result.Err; the
// returned error is non-nil only when ctx is done.
//
// keep, when set, may rewrite or drop each issue before it is collected.
func ScanReports(ctx context.Context, paths []string, jobs int, keep func(types.Issue) (types.Issue, bool)) ([]Result, error) {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res := Result{Path: path}
			res.Err = ScanClippy(path, func(issue types.Issue) {
				if keep != nil {
					var ok bool
					if issue, ok = keep(issue); !ok {
						return
					}
				}
				res.Issues = append(res.Issues, issue)
			})
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
