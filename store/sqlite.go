package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JA3G3R/clippyzard/types"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS issues(
	report TEXT NOT NULL,
	file_path TEXT,
	rule_key TEXT,
	message TEXT,
	line_start INTEGER,
	line_end INTEGER,
	col_start INTEGER,
	col_end INTEGER,
	severity TEXT,
	ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_issues_report ON issues(report);
CREATE INDEX IF NOT EXISTS idx_issues_rule ON issues(rule_key);`

// Store keeps imported issues in a SQLite database.
type Store struct {
	db *sql.DB
}

func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create database dir: %w", err)
		}
	}
	dsn := "file:" + path + "?_pragma=busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot open database %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot init database schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts the issues of one report in a single transaction. Absent
// fields are stored as NULL.
func (s *Store) Save(ctx context.Context, report string, issues []types.Issue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO issues(report, file_path, rule_key, message, line_start, line_end, col_start, col_end, severity, ts) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, issue := range issues {
		if _, err := stmt.ExecContext(ctx, report,
			nullString(issue.FilePath), nullString(issue.RuleKey), nullString(issue.Message),
			nullInt(issue.LineStart), nullInt(issue.LineEnd), nullInt(issue.ColStart), nullInt(issue.ColEnd),
			nullString(issue.Severity), now); err != nil {
			return fmt.Errorf("cannot insert issue for %s: %w", report, err)
		}
	}
	return tx.Commit()
}

// Issues returns the stored issues of report in insertion order.
func (s *Store) Issues(ctx context.Context, report string) ([]types.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT file_path, rule_key, message, line_start, line_end, col_start, col_end, severity FROM issues WHERE report = ? ORDER BY rowid`, report)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Issue
	for rows.Next() {
		var (
			filePath, ruleKey, message, severity sql.NullString
			lineStart, lineEnd, colStart, colEnd sql.NullInt64
		)
		if err := rows.Scan(&filePath, &ruleKey, &message, &lineStart, &lineEnd, &colStart, &colEnd, &severity); err != nil {
			return nil, err
		}
		out = append(out, types.Issue{
			FilePath:  fromNullString(filePath),
			RuleKey:   fromNullString(ruleKey),
			Message:   fromNullString(message),
			LineStart: fromNullInt(lineStart),
			LineEnd:   fromNullInt(lineEnd),
			ColStart:  fromNullInt(colStart),
			ColEnd:    fromNullInt(colEnd),
			Severity:  fromNullString(severity),
		})
	}
	return out, rows.Err()
}

// Count returns how many issues are stored for report.
func (s *Store) Count(ctx context.Context, report string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM issues WHERE report = ?`, report).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return types.Ptr(s.String)
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	return types.Ptr(int(n.Int64))
}
