package storage

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect names the SQL backend a query is sent to.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect resolves a configured driver name.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pq":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownDialect)
}

// postgresParam matches $1, $2 ... placeholders. A literal '$1' inside a
// quoted string would also match, so stores never embed one.
var postgresParam = regexp.MustCompile(`\$\d+`)

// Rebind converts a query written with postgres placeholders to the dialect's form.
// PRE: query uses $N placeholders in ascending order of first use
// POST: sqlite queries use ?; postgres queries are unchanged
func (d Dialect) Rebind(query string) string {
	if d != DialectSQLite {
		return query
	}
	return postgresParam.ReplaceAllString(query, "?")
}

// adaptDDL makes column additions idempotent where the backend supports it.
func (d Dialect) adaptDDL(stmt string) string {
	if d == DialectPostgres {
		return strings.Replace(stmt, "ADD COLUMN ", "ADD COLUMN IF NOT EXISTS ", 1)
	}
	return stmt
}
