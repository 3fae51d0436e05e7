// Package archive keeps a local append-only copy of every submitted
// response in SQLite. It is the default submission sink when no external
// sheet is configured.
package archive

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nagame-dev/aiready/internal/submit"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	submitted_at  TEXT NOT NULL,
	answer_1      INTEGER NOT NULL,
	answer_2      INTEGER NOT NULL,
	answer_3      INTEGER NOT NULL,
	answer_4      INTEGER NOT NULL,
	answer_5      INTEGER NOT NULL,
	answer_6      INTEGER NOT NULL,
	answer_7      INTEGER NOT NULL,
	answer_8      INTEGER NOT NULL,
	answer_9      INTEGER NOT NULL,
	answer_10     INTEGER NOT NULL,
	readiness     INTEGER NOT NULL,
	adoption      INTEGER NOT NULL,
	reduction_pct REAL NOT NULL,
	region        TEXT NOT NULL DEFAULT '',
	industry      TEXT NOT NULL DEFAULT '',
	client_id     TEXT NOT NULL,
	user_agent    TEXT NOT NULL DEFAULT '',
	referrer      TEXT NOT NULL DEFAULT '',
	notes         TEXT NOT NULL DEFAULT ''
);
`

const insertStmt = `INSERT INTO responses (
	submitted_at,
	answer_1, answer_2, answer_3, answer_4, answer_5,
	answer_6, answer_7, answer_8, answer_9, answer_10,
	readiness, adoption, reduction_pct,
	region, industry, client_id, user_agent, referrer, notes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Store is a sqlite-backed submit.RowStore.
type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AppendRow inserts one response row in the contract column order.
func (s *Store) AppendRow(ctx context.Context, values []any) error {
	if len(values) != submit.ColumnCount {
		return fmt.Errorf("row has %d columns, want %d", len(values), submit.ColumnCount)
	}
	if _, err := s.db.ExecContext(ctx, insertStmt, values...); err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

// Count returns the number of archived responses.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM responses"); err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return n, nil
}

// Rows returns all archived rows in insertion order, each in the contract
// column order. Intended for exports and tests.
func (s *Store) Rows(ctx context.Context) ([][]any, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		submitted_at,
		answer_1, answer_2, answer_3, answer_4, answer_5,
		answer_6, answer_7, answer_8, answer_9, answer_10,
		readiness, adoption, reduction_pct,
		region, industry, client_id, user_agent, referrer, notes
		FROM responses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select responses: %w", err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		var (
			submittedAt  string
			answers      [10]int
			readiness    int
			adoption     int
			reductionPct float64
			region       string
			industry     string
			clientID     string
			userAgent    string
			referrer     string
			notes        string
		)
		if err := rows.Scan(&submittedAt,
			&answers[0], &answers[1], &answers[2], &answers[3], &answers[4],
			&answers[5], &answers[6], &answers[7], &answers[8], &answers[9],
			&readiness, &adoption, &reductionPct,
			&region, &industry, &clientID, &userAgent, &referrer, &notes); err != nil {
			return nil, err
		}
		row := []any{submittedAt}
		for _, a := range answers {
			row = append(row, a)
		}
		row = append(row, readiness, adoption, reductionPct, region, industry, clientID, userAgent, referrer, notes)
		out = append(out, row)
	}
	return out, rows.Err()
}

// Ensure Store satisfies the RowStore interface at compile time.
var _ submit.RowStore = (*Store)(nil)
