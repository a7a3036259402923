package scanners

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrReportNotFound is returned when no report path was given or the file does not exist.
	ErrReportNotFound = errors.New("clippy report not found")

	// ErrParse is returned when the reassembled report is not valid JSON.
	ErrParse = errors.New("cannot parse clippy report")
)

const (
	resultsKey = "results"
	beginJSON  = `{"` + resultsKey + `": [`
	endJSON    = `]}`

	maxLineSize = 16 * 1024 * 1024
)

// ToJSON reads the clippy report at path and returns it as a single
// {"results": [...]} JSON document.
func ToJSON(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrReportNotFound
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrReportNotFound, err)
		}
		return nil, fmt.Errorf("cannot open clippy report: %w", err)
	}
	defer f.Close()

	data, err := Reassemble(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read clippy report %s: %w", path, err)
	}
	return data, nil
}

// Reassemble joins every line of r that looks like a JSON object into a
// {"results": [...]} document. Other lines are dropped. Lines are not parsed
// here, only their first and last non-space characters are checked.
func Reassemble(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(beginJSON)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !isJSONObjectLine(line) {
			continue
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(line)
		n++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	buf.WriteString(endJSON)
	return buf.Bytes(), nil
}

func isJSONObjectLine(line string) bool {
	return strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}")
}
