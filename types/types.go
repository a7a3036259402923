package types

// Issue is one normalized clippy diagnostic. A nil field means the source
// diagnostic did not carry it (or carried it with the wrong JSON type).
type Issue struct {
	FilePath  *string `json:"file_path,omitempty" yaml:"file_path,omitempty" msgpack:"file_path,omitempty"`
	RuleKey   *string `json:"rule_key,omitempty" yaml:"rule_key,omitempty" msgpack:"rule_key,omitempty"` // e.g., "clippy::needless_return"
	Message   *string `json:"message,omitempty" yaml:"message,omitempty" msgpack:"message,omitempty"`
	LineStart *int    `json:"line_start,omitempty" yaml:"line_start,omitempty" msgpack:"line_start,omitempty"`
	LineEnd   *int    `json:"line_end,omitempty" yaml:"line_end,omitempty" msgpack:"line_end,omitempty"`
	ColStart  *int    `json:"column_start,omitempty" yaml:"column_start,omitempty" msgpack:"column_start,omitempty"`
	ColEnd    *int    `json:"column_end,omitempty" yaml:"column_end,omitempty" msgpack:"column_end,omitempty"`
	Severity  *string `json:"severity,omitempty" yaml:"severity,omitempty" msgpack:"severity,omitempty"` // raw level, e.g., "warning"
}

// String returns *s, or "" when s is absent.
func String(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Int returns *n, or 0 when n is absent.
func Int(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func Ptr[T any](v T) *T {
	return &v
}
