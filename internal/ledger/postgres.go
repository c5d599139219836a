package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/beatfindr/leadscout/internal/model"
)

// Pool is the subset of pgxpool.Pool the ledger uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

const createLeadsPgSQL = `
CREATE TABLE leads (
	id          BIGSERIAL PRIMARY KEY,
	captured_at TEXT NOT NULL,
	source      TEXT NOT NULL,
	author      TEXT NOT NULL,
	title       TEXT NOT NULL,
	url         TEXT NOT NULL,
	tags        TEXT NOT NULL
)`

// PostgresStore implements Store using pgx.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: postgres connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool (tests pass a pgxmock pool).
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Init(ctx context.Context) error {
	rows, err := s.pool.Query(ctx, `
		SELECT column_name FROM information_schema.columns
		WHERE table_name = 'leads'
		ORDER BY ordinal_position`)
	if err != nil {
		return eris.Wrap(err, "ledger: postgres inspect schema")
	}

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return eris.Wrap(err, "ledger: postgres scan column name")
		}
		columns = append(columns, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return eris.Wrap(err, "ledger: postgres read schema")
	}

	if len(columns) == 0 {
		_, err := s.pool.Exec(ctx, createLeadsPgSQL)
		return eris.Wrap(err, "ledger: postgres create leads")
	}

	if !columnsMatch(columns) {
		zap.L().Warn("ledger: schema mismatch, resetting leads table",
			zap.Strings("found", columns),
			zap.Strings("expected", leadColumns),
		)
		if _, err := s.pool.Exec(ctx, `DROP TABLE leads`); err != nil {
			return eris.Wrap(err, "ledger: postgres drop leads")
		}
		_, err := s.pool.Exec(ctx, createLeadsPgSQL)
		return eris.Wrap(err, "ledger: postgres recreate leads")
	}

	return nil
}

func (s *PostgresStore) Leads(ctx context.Context) ([]model.Lead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT captured_at, source, author, title, url, tags FROM leads ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "ledger: postgres select leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		cells := make([]string, 6)
		if err := rows.Scan(&cells[0], &cells[1], &cells[2], &cells[3], &cells[4], &cells[5]); err != nil {
			return nil, eris.Wrap(err, "ledger: postgres scan lead")
		}
		leads = append(leads, model.LeadFromRow(cells))
	}
	return leads, eris.Wrap(rows.Err(), "ledger: postgres read leads")
}

func (s *PostgresStore) Append(ctx context.Context, leads []model.Lead) error {
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
		base := i * 6
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		for _, cell := range lead.Row() {
			args = append(args, cell)
		}
	}

	_, err := s.pool.Exec(ctx, sb.String(), args...)
	return eris.Wrap(err, "ledger: postgres append leads")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
