package scanners

import (
	"fmt"
	"iter"
	"strings"

	"github.com/JA3G3R/clippyzard/types"
	"github.com/valyala/fastjson"
)

// visitMsg starts the rustc child note that only links to the lint docs.
const visitMsg = "for further information visit"

var parserPool fastjson.ParserPool

// ScanClippy reads the clippy report at path and passes every reportable
// diagnostic to sink, in report order.
func ScanClippy(path string, sink func(types.Issue)) error {
	data, err := ToJSON(path)
	if err != nil {
		return err
	}
	return ReadClippy(data, sink)
}

// ReadClippy parses a document produced by Reassemble and passes every
// reportable diagnostic to sink. Diagnostics missing a rule code or a span
// are skipped silently.
func ReadClippy(data []byte, sink func(types.Issue)) error {
	p := parserPool.Get()
	defer parserPool.Put(p)

	doc, err := parseDoc(p, data)
	if err != nil {
		return err
	}
	for issue := range ExtractClippy(arrayAt(doc, resultsKey)) {
		sink(issue)
	}
	return nil
}

// ClippyIssues is the pull-style counterpart of ReadClippy.
func ClippyIssues(data []byte) (iter.Seq[types.Issue], error) {
	var p fastjson.Parser
	doc, err := parseDoc(&p, data)
	if err != nil {
		return nil, err
	}
	return ExtractClippy(arrayAt(doc, resultsKey)), nil
}

func parseDoc(p *fastjson.Parser, data []byte) (*fastjson.Value, error) {
	doc, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if err := checkNumbers(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return doc, nil
}

// checkNumbers rejects NaN and Inf literals, which fastjson accepts but
// JSON does not allow.
func checkNumbers(v *fastjson.Value) error {
	switch v.Type() {
	case fastjson.TypeNumber:
		raw := v.String()
		if strings.Trim(raw, "0123456789+-.eE") != "" {
			return fmt.Errorf("invalid number %q", raw)
		}
	case fastjson.TypeArray:
		arr, _ := v.Array()
		for _, item := range arr {
			if err := checkNumbers(item); err != nil {
				return err
			}
		}
	case fastjson.TypeObject:
		o, _ := v.Object()
		var err error
		o.Visit(func(_ []byte, item *fastjson.Value) {
			if err == nil {
				err = checkNumbers(item)
			}
		})
		return err
	}
	return nil
}

// ExtractClippy yields one Issue per element of results that has a
// message, a rule code and at least one span.
func ExtractClippy(results []*fastjson.Value) iter.Seq[types.Issue] {
	return func(yield func(types.Issue) bool) {
		for _, result := range results {
			issue, ok := extractIssue(result)
			if !ok {
				continue
			}
			if !yield(issue) {
				return
			}
		}
	}
}

func extractIssue(result *fastjson.Value) (types.Issue, bool) {
	message := objectAt(result, "message")
	if message == nil {
		return types.Issue{}, false
	}
	// "code": null is how rustc marks diagnostics that are not lints.
	code := objectAt(message, "code")
	if code == nil {
		return types.Issue{}, false
	}
	ruleKey := stringAt(code, "code")
	if ruleKey == nil {
		return types.Issue{}, false
	}
	spans := arrayAt(message, "spans")
	if len(spans) == 0 || spans[0].Type() != fastjson.TypeObject {
		return types.Issue{}, false
	}
	span := spans[0]

	issue := types.Issue{
		FilePath:  stringAt(span, "file_name"),
		RuleKey:   ruleKey,
		Message:   stringAt(message, "message"),
		LineStart: intAt(span, "line_start"),
		LineEnd:   intAt(span, "line_end"),
		ColStart:  intAt(span, "column_start"),
		ColEnd:    intAt(span, "column_end"),
		Severity:  stringAt(message, "level"),
	}
	if issue.Message != nil {
		if children := arrayAt(message, "children"); len(children) > 0 {
			issue.Message = types.Ptr(composeMessage(*issue.Message, children))
		}
	}
	return issue, true
}

// composeMessage appends the help lines and suggested replacements of
// children to primary, one per line.
func composeMessage(primary string, children []*fastjson.Value) string {
	lines := []string{primary}
	for _, child := range children {
		lines = append(lines, childDetails(child)...)
	}
	return strings.Join(lines, "\n")
}

func childDetails(child *fastjson.Value) []string {
	if child.Type() != fastjson.TypeObject || isNoise(child) {
		return nil
	}
	var lines []string
	if msg := stringAt(child, "message"); msg != nil {
		lines = append(lines, *msg)
	}
	if repl := suggestedReplacement(child); repl != nil {
		lines = append(lines, *repl)
	}
	return lines
}

// isNoise reports whether child is a note or a link to the lint docs.
// A child without level or message is neither.
func isNoise(child *fastjson.Value) bool {
	if level := stringAt(child, "level"); level != nil && strings.EqualFold(*level, "note") {
		return true
	}
	if msg := stringAt(child, "message"); msg != nil && strings.HasPrefix(*msg, visitMsg) {
		return true
	}
	return false
}

func suggestedReplacement(child *fastjson.Value) *string {
	spans := arrayAt(child, "spans")
	if len(spans) == 0 {
		return nil
	}
	return stringAt(spans[0], "suggested_replacement")
}
