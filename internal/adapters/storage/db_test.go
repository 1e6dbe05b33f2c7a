package storage

import (
	"database/sql"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// schema lists name -> whitespace-collapsed DDL for every user table and index.
func schema(t *testing.T, db *sql.DB) map[string]string {
	t.Helper()
	rows, err := db.Query(`SELECT name, COALESCE(sql, '') FROM sqlite_master WHERE type IN ('table', 'index') AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		t.Fatalf("read sqlite_master: %v", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var name, ddl string
		if err := rows.Scan(&name, &ddl); err != nil {
			t.Fatalf("scan sqlite_master: %v", err)
		}
		out[name] = strings.Join(strings.Fields(ddl), " ")
	}
	return out
}

func tableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan table name: %v", err)
		}
		names = append(names, name)
	}
	return names
}

func TestMigrateDB_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	v, err := SchemaVersion(db)
	if err != nil || v != 0 {
		t.Fatalf("untracked SchemaVersion = %d, %v; want 0", v, err)
	}

	if err := MigrateDB(db, DialectSQLite); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	if v, _ := SchemaVersion(db); v != LatestSchemaVersion() {
		t.Errorf("SchemaVersion = %d, want %d", v, LatestSchemaVersion())
	}

	want := []string{"activity_logs", "announcements", "attendance_records", "client_checkins", "gallery", "members", "payments", "schema_version", "staff"}
	got := tableNames(t, db)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("tables = %v\nwant     %v", got, want)
	}
}

func TestMigrateDB_RerunIsNoop(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db, DialectSQLite); err != nil {
		t.Fatalf("first MigrateDB: %v", err)
	}
	before := schema(t, db)
	if err := MigrateDB(db, DialectSQLite); err != nil {
		t.Fatalf("second MigrateDB: %v", err)
	}
	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != LatestSchemaVersion() {
		t.Errorf("schema_version has %d rows, want one per migration (%d)", rows, LatestSchemaVersion())
	}
	after := schema(t, db)
	for name, ddl := range before {
		if after[name] != ddl {
			t.Errorf("%s changed on rerun:\nbefore: %s\nafter:  %s", name, ddl, after[name])
		}
	}
}

func TestMigrateDB_SameSchemaEveryTime(t *testing.T) {
	a, b := openTestDB(t), openTestDB(t)
	for _, db := range []*sql.DB{a, b} {
		if err := MigrateDB(db, DialectSQLite); err != nil {
			t.Fatalf("MigrateDB: %v", err)
		}
	}
	sa, sb := schema(t, a), schema(t, b)
	if len(sa) != len(sb) {
		t.Fatalf("object counts differ: %d vs %d", len(sa), len(sb))
	}
	for name, ddl := range sa {
		if sb[name] != ddl {
			t.Errorf("%s differs:\n%s\n%s", name, ddl, sb[name])
		}
	}
}

// TestMigrateDB_DataSurvival verifies rows written at an old version survive later migrations.
func TestMigrateDB_DataSurvival(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL, applied_at TEXT NOT NULL DEFAULT '')`); err != nil {
		t.Fatalf("create schema_version: %v", err)
	}
	if err := applyMigration(db, DialectSQLite, 1); err != nil {
		t.Fatalf("apply migration 1: %v", err)
	}
	_, err := db.Exec(`INSERT INTO payments (id, member_id, member_name, amount, date, method, status) VALUES ('p1', 'm1', 'Kofi Mensah', 150, '2026-01-05', 'Cash', 'Confirmed')`)
	if err != nil {
		t.Fatalf("insert payment at v1: %v", err)
	}

	if err := MigrateDB(db, DialectSQLite); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}

	var name string
	var pending int
	if err := db.QueryRow("SELECT member_name, is_pending_member FROM payments WHERE id = 'p1'").Scan(&name, &pending); err != nil {
		t.Fatalf("payment lost after migration: %v", err)
	}
	if name != "Kofi Mensah" || pending != 0 {
		t.Errorf("payment = (%q, %d), want (Kofi Mensah, 0)", name, pending)
	}
}

// TestMigrateDB_ExistingDB verifies an untracked database whose payments table
// already carries the checkout columns is brought to the latest version.
func TestMigrateDB_ExistingDB(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`CREATE TABLE payments (id TEXT PRIMARY KEY, member_id TEXT NOT NULL DEFAULT '', member_name TEXT NOT NULL, amount DOUBLE PRECISION NOT NULL, date TEXT NOT NULL, method TEXT NOT NULL, status TEXT NOT NULL, confirmed_by TEXT NOT NULL DEFAULT '', transaction_id TEXT NOT NULL DEFAULT '', momo_phone TEXT NOT NULL DEFAULT '', network TEXT NOT NULL DEFAULT '', is_pending_member INTEGER NOT NULL DEFAULT 0)`)
	if err != nil {
		t.Fatalf("failed to create pre-migration table: %v", err)
	}
	_, err = db.Exec(`INSERT INTO payments (id, member_name, amount, date, method, status, is_pending_member) VALUES ('p1', 'Ama Boateng', 100, '2026-02-01', 'Mobile Money', 'Pending', 1)`)
	if err != nil {
		t.Fatalf("failed to insert pre-migration data: %v", err)
	}

	if err := MigrateDB(db, DialectSQLite); err != nil {
		t.Fatalf("MigrateDB on existing db failed: %v", err)
	}

	var pending int
	if err := db.QueryRow("SELECT is_pending_member FROM payments WHERE id = 'p1'").Scan(&pending); err != nil {
		t.Fatalf("pre-migration data lost: %v", err)
	}
	if pending != 1 {
		t.Errorf("is_pending_member = %d, want 1", pending)
	}
	v, _ := SchemaVersion(db)
	if v != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", v, LatestSchemaVersion())
	}
}

// TestMigrateDB_OneOpenShift verifies the partial unique index on open attendance records.
func TestMigrateDB_OneOpenShift(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db, DialectSQLite); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	insert := `INSERT INTO attendance_records (id, staff_email, staff_role, date, sign_in_time, sign_out_time) VALUES (?, 'ama@goodlife.com', 'STAFF', '2026-03-01', '2026-03-01T08:00:00Z', ?)`
	if _, err := db.Exec(insert, "a1", "2026-03-01T12:00:00Z"); err != nil {
		t.Fatalf("closed shift: %v", err)
	}
	if _, err := db.Exec(insert, "a2", nil); err != nil {
		t.Fatalf("first open shift: %v", err)
	}
	if _, err := db.Exec(insert, "a3", nil); err == nil {
		t.Error("second open shift on the same day should violate the unique index")
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM members WHERE email = $1 AND plan = $2"
	if got := DialectSQLite.Rebind(q); got != "SELECT id FROM members WHERE email = ? AND plan = ?" {
		t.Errorf("sqlite Rebind = %q", got)
	}
	if got := DialectPostgres.Rebind(q); got != q {
		t.Errorf("postgres Rebind = %q, want unchanged", got)
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"": DialectSQLite, "sqlite": DialectSQLite, "postgres": DialectPostgres, "postgresql": DialectPostgres} {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Error("ParseDialect(mysql) should fail")
	}
}
