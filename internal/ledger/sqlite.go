package ledger

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/beatfindr/leadscout/internal/model"
)

// leadColumns is the SQL analog of model.LedgerHeader. The ledger stores
// display strings, like the sheet it replaces; the column set is the schema
// contract checked on Init.
var leadColumns = []string{"id", "captured_at", "source", "author", "title", "url", "tags"}

const createLeadsSQL = `
CREATE TABLE leads (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	captured_at TEXT NOT NULL,
	source      TEXT NOT NULL,
	author      TEXT NOT NULL,
	title       TEXT NOT NULL,
	url         TEXT NOT NULL,
	tags        TEXT NOT NULL
)`

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "ledger: sqlite exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_info(leads)`)
	if err != nil {
		return eris.Wrap(err, "ledger: sqlite table_info")
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid, notnull, pk int
			name, ctype      string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return eris.Wrap(err, "ledger: sqlite scan table_info")
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return eris.Wrap(err, "ledger: sqlite read table_info")
	}

	if len(columns) == 0 {
		_, err := s.db.ExecContext(ctx, createLeadsSQL)
		return eris.Wrap(err, "ledger: sqlite create leads")
	}

	if !columnsMatch(columns) {
		zap.L().Warn("ledger: schema mismatch, resetting leads table",
			zap.Strings("found", columns),
			zap.Strings("expected", leadColumns),
		)
		if _, err := s.db.ExecContext(ctx, `DROP TABLE leads`); err != nil {
			return eris.Wrap(err, "ledger: sqlite drop leads")
		}
		_, err := s.db.ExecContext(ctx, createLeadsSQL)
		return eris.Wrap(err, "ledger: sqlite recreate leads")
	}

	return nil
}

func (s *SQLiteStore) Leads(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT captured_at, source, author, title, url, tags FROM leads ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: sqlite select leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		cells := make([]string, 6)
		if err := rows.Scan(&cells[0], &cells[1], &cells[2], &cells[3], &cells[4], &cells[5]); err != nil {
			return nil, eris.Wrap(err, "ledger: sqlite scan lead")
		}
		leads = append(leads, model.LeadFromRow(cells))
	}
	return leads, eris.Wrap(rows.Err(), "ledger: sqlite read leads")
}

func (s *SQLiteStore) Append(ctx context.Context, leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	// One multi-row INSERT so the batch lands atomically or not at all.
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`INSERT INTO leads (captured_at, source, author, title, url, tags) VALUES `)
	for i, lead := range leads {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?)")
		row := lead.Row()
		for _, cell := range row {
			args = append(args, cell)
		}
	}

	_, err := s.db.ExecContext(ctx, sb.String(), args...)
	return eris.Wrap(err, "ledger: sqlite append leads")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func columnsMatch(got []string) bool {
	if len(got) != len(leadColumns) {
		return false
	}
	for i, c := range leadColumns {
		if got[i] != c {
			return false
		}
	}
	return true
}
