package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	// Database drivers.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// sqlitePragmas enables WAL, a busy timeout and foreign keys on every pooled connection.
const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// Open connects to the backend named by dialect and verifies it is reachable.
// PRE: dsn is non-empty (a file path for sqlite, a connection URL for postgres)
// POST: returns a pinged *sql.DB with pool limits applied
func Open(d Dialect, dsn string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch d {
	case DialectSQLite:
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		db, err = sql.Open("sqlite", dsn+sep+sqlitePragmas)
	case DialectPostgres:
		db, err = sql.Open("postgres", dsn)
	default:
		return nil, fmt.Errorf("open database: %w", ErrUnknownDialect)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// migrations is the ordered schema history. Index i holds version i+1.
// Statements are portable between sqlite and postgres.
var migrations = [][]string{
	// 1: baseline tables.
	{
		`CREATE TABLE IF NOT EXISTS members (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			emergency_contact TEXT NOT NULL DEFAULT '',
			plan TEXT NOT NULL,
			start_date TEXT NOT NULL,
			expiry_date TEXT NOT NULL,
			status TEXT NOT NULL,
			photo TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS staff (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			position TEXT NOT NULL,
			phone TEXT NOT NULL,
			avatar TEXT NOT NULL DEFAULT '',
			privileges TEXT NOT NULL DEFAULT '[]',
			password_hash TEXT NOT NULL DEFAULT '',
			failed_logins INTEGER NOT NULL DEFAULT 0,
			locked_until TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id TEXT PRIMARY KEY,
			member_id TEXT NOT NULL DEFAULT '',
			member_name TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			date TEXT NOT NULL,
			method TEXT NOT NULL,
			status TEXT NOT NULL,
			confirmed_by TEXT NOT NULL DEFAULT '',
			transaction_id TEXT NOT NULL DEFAULT '',
			momo_phone TEXT NOT NULL DEFAULT '',
			network TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS announcements (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			date TEXT NOT NULL,
			priority TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS gallery (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS activity_logs (
			id TEXT PRIMARY KEY,
			role TEXT NOT NULL,
			user_email TEXT NOT NULL,
			action TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			timestamp TEXT NOT NULL,
			category TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_records (
			id TEXT PRIMARY KEY,
			staff_email TEXT NOT NULL,
			staff_role TEXT NOT NULL,
			date TEXT NOT NULL,
			sign_in_time TEXT NOT NULL,
			sign_out_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS client_checkins (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			check_in_time TEXT NOT NULL,
			check_out_time TEXT,
			date TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments (status)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_logs_timestamp ON activity_logs (timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_client_checkins_date ON client_checkins (date)`,
	},
	// 2: checkout registrations carried on the payment row.
	{
		`ALTER TABLE payments ADD COLUMN is_pending_member INTEGER NOT NULL DEFAULT 0`,
		`ALTER TABLE payments ADD COLUMN member_email TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE payments ADD COLUMN member_phone TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE payments ADD COLUMN member_address TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE payments ADD COLUMN member_photo TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE payments ADD COLUMN member_plan TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE payments ADD COLUMN member_start_date TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE payments ADD COLUMN member_expiry_date TEXT NOT NULL DEFAULT ''`,
	},
	// 3: warning severity on activity entries; one open shift per staff per day.
	{
		`ALTER TABLE activity_logs ADD COLUMN severity TEXT NOT NULL DEFAULT 'info'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_open_shift ON attendance_records (staff_email, date) WHERE sign_out_time IS NULL`,
	},
}

// LatestSchemaVersion is the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion reports the applied schema version; 0 for an untracked database.
// PRE: db is a valid connection
// POST: returns the highest recorded version
func SchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v)
	if err != nil {
		if isMissingTable(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies every migration above the recorded version, one transaction per version.
// PRE: db is a valid connection for dialect d
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB, d Dialect) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL, applied_at TEXT NOT NULL DEFAULT '')`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for v := current + 1; v <= LatestSchemaVersion(); v++ {
		if err := applyMigration(db, d, v); err != nil {
			return fmt.Errorf("migration %d: %w", v, err)
		}
		slog.Info("schema_migrated", "version", v, "dialect", string(d))
	}
	return nil
}

func applyMigration(db *sql.DB, d Dialect, version int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range migrations[version-1] {
		if _, err := tx.Exec(d.adaptDDL(stmt)); err != nil {
			if d == DialectSQLite && isDuplicateColumn(err) {
				// Column added by hand before version tracking existed.
				continue
			}
			return err
		}
	}
	if _, err := tx.Exec(d.Rebind(`INSERT INTO schema_version (version, applied_at) VALUES ($1, CURRENT_TIMESTAMP)`), version); err != nil {
		return err
	}
	return tx.Commit()
}

func isMissingTable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "does not exist")
}

func isDuplicateColumn(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}

// ErrUnknownDialect is returned for drivers other than sqlite and postgres.
var ErrUnknownDialect = errors.New("database driver must be 'sqlite' or 'postgres'")
