package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"goodlife/internal/adapters/http/perf"
)

// SQLDB is what the entity stores need from a connection.
// Queries are written with $N placeholders; *TimedDB rebinds them per dialect,
// so a bare *sql.DB only works against postgres.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQuery is the slow-query threshold when GOODLIFE_SLOW_QUERY_MS is unset.
const DefaultSlowQuery = 50 * time.Millisecond

// SlowQueryThreshold reads GOODLIFE_SLOW_QUERY_MS, falling back to DefaultSlowQuery.
func SlowQueryThreshold() time.Duration {
	if n, err := strconv.Atoi(os.Getenv("GOODLIFE_SLOW_QUERY_MS")); err == nil && n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return DefaultSlowQuery
}

// TimedDB rebinds placeholders for its dialect and times every statement.
// Statements are labelled "VERB table" (e.g. "UPDATE members") in logs and
// in the perf collector, so the query panel groups by table rather than by
// literal SQL.
type TimedDB struct {
	db        *sql.DB
	dialect   Dialect
	collector *perf.Collector
	slow      time.Duration
}

var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps db.
// PRE: db talks to dialect d; collector may be nil
func NewTimedDB(db *sql.DB, d Dialect, collector *perf.Collector) *TimedDB {
	return &TimedDB{db: db, dialect: d, collector: collector, slow: SlowQueryThreshold()}
}

// Dialect reports the backend the wrapped connection talks to.
func (t *TimedDB) Dialect() Dialect {
	return t.dialect
}

// ExecContext runs a write.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.db.ExecContext(ctx, t.dialect.Rebind(query), args...)
	t.observe(query, start, err)
	return res, err
}

// QueryContext runs a read returning rows.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, t.dialect.Rebind(query), args...)
	t.observe(query, start, err)
	return rows, err
}

// QueryRowContext runs a single-row read. Scan errors surface later and are not counted.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, t.dialect.Rebind(query), args...)
	t.observe(query, start, row.Err())
	return row
}

func failed(err error) bool {
	return err != nil && !errors.Is(err, sql.ErrNoRows)
}

func (t *TimedDB) observe(query string, start time.Time, err error) {
	elapsed := time.Since(start)
	label := StatementLabel(query)
	ms := float64(elapsed.Microseconds()) / 1000.0

	switch {
	case failed(err):
		slog.Warn("query_failed", "statement", label, "duration_ms", ms, "error", err)
	case elapsed >= t.slow:
		slog.Warn("slow_query", "statement", label, "duration_ms", ms)
	default:
		slog.Debug("query", "statement", label, "duration_ms", ms)
	}

	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       label,
			DurationMs: ms,
			Failed:     failed(err),
			Timestamp:  start,
		})
	}
}

// StatementLabel reduces a statement to its verb and target table.
// Anything it cannot classify is labelled by its first word.
func StatementLabel(query string) string {
	words := strings.Fields(query)
	if len(words) == 0 {
		return "EMPTY"
	}
	verb := strings.ToUpper(words[0])
	var marker string
	switch verb {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT":
		marker = "INTO"
	case "UPDATE":
		return verb + " " + tableName(words, 1)
	default:
		return verb
	}
	for i, w := range words {
		if strings.EqualFold(w, marker) {
			return verb + " " + tableName(words, i+1)
		}
	}
	return verb
}

func tableName(words []string, i int) string {
	if i >= len(words) {
		return "?"
	}
	name := words[i]
	if j := strings.IndexAny(name, "(,;"); j > 0 {
		name = name[:j]
	}
	return strings.ToLower(strings.Trim(name, `"`))
}
