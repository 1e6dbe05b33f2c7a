package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

// ErrMigrationRequired replaces the backend's error when checkout columns are missing.
var ErrMigrationRequired = errors.New("database setup incomplete: the payments table is missing the is_pending_member column. Run the database migration (goodlifectl migrate) and try again")

// ErrNotFound is returned by stores when no row matches.
var ErrNotFound = sql.ErrNoRows

// TranslateError maps backend errors to the messages shown to staff.
// POST: nil stays nil; the missing is_pending_member column becomes ErrMigrationRequired
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "is_pending_member") {
		return fmt.Errorf("%w (%v)", ErrMigrationRequired, err)
	}
	return err
}

// IsTransient reports failures worth retrying: dropped connections, network
// errors and timeouts. Query and constraint errors are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// RequireAffected turns a zero-row update into a not-found error.
func RequireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %w", entity, sql.ErrNoRows)
	}
	return nil
}
