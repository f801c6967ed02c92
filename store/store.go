// Package store is the read-only data access layer over the formulary database.
// A Store wraps one *sql.DB opened at process start and runs only the queries of its catalog.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FarmaSync/edups/metrics"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Supported drivers, as named in DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var (
	ErrUnknownDriver   = errors.New("unknown store driver")
	ErrUnknownQuery    = errors.New("unknown query")
	ErrParamCount      = errors.New("wrong number of query parameters")
	ErrDatabaseMissing = errors.New("database file not found")
)

// sqlDriverNames maps DB_DRIVER values to database/sql driver registrations.
var sqlDriverNames = map[string]string{
	DriverSQLite:   "sqlite",
	DriverPostgres: "pgx",
	DriverMySQL:    "mysql",
}

// Store runs catalog queries against an injected database handle.
type Store struct {
	db      *sql.DB
	driver  string
	queries map[QueryID]string
}

// New wraps an already opened handle. The caller keeps ownership of the handle's lifecycle
// unless it calls Close on the Store.
func New(db *sql.DB, driver string) *Store {
	queries := make(map[QueryID]string, len(catalog))
	for id, entry := range catalog {
		if driver == DriverPostgres {
			queries[id] = rebindDollar(entry.sql)
		} else {
			queries[id] = entry.sql
		}
	}
	return &Store{db: db, driver: driver, queries: queries}
}

// Open opens and pings the formulary database.
// For sqlite the DSN is a file path and the file must already exist: the schema is owned elsewhere.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	sqlDriver, ok := sqlDriverNames[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	if driver == DriverSQLite && !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if _, err := os.Stat(dsn); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseMissing, dsn)
		}
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return New(db, driver), nil
}

// Driver reports the DB_DRIVER the store was built for.
func (s *Store) Driver() string {
	return s.driver
}

// Ping checks that the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Fetch runs one catalog query with bound parameters and returns its rows in projection order.
// No retry is attempted.
func (s *Store) Fetch(ctx context.Context, id QueryID, args ...any) (*ResultSet, error) {
	entry, ok := catalog[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownQuery, int(id))
	}
	if len(args) != entry.params {
		return nil, fmt.Errorf("%w: %s expects %d, got %d", ErrParamCount, id, entry.params, len(args))
	}

	start := time.Now()
	rs, err := s.query(ctx, s.queries[id], args)
	metrics.ObserveQuery(id.String(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", id, err)
	}
	return rs, nil
}

func (s *Store) query(ctx context.Context, query string, args []any) (*ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	rs := &ResultSet{Columns: columns, Rows: []Row{}}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return rs, nil
}

// rebindDollar turns ? placeholders into $1, $2, ... for postgres.
func rebindDollar(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
