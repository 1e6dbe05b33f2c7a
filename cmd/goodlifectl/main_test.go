package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func useTempDB(t *testing.T) {
	t.Helper()
	t.Setenv("GOODLIFE_DB_DRIVER", "sqlite")
	t.Setenv("GOODLIFE_DB_DSN", filepath.Join(t.TempDir(), "goodlife.db"))
	t.Setenv("GOODLIFE_ADMIN_EMAIL", "admin@goodlife.com")
	t.Setenv("GOODLIFE_ADMIN_PASSWORD", "front-desk-123")
}

func TestNoBackend(t *testing.T) {
	t.Setenv("GOODLIFE_DB_DSN", "")
	_, err := run(t, "", "migrate")
	assert.ErrorIs(t, err, errNoBackend)
}

func TestMigrateSeedAndExport(t *testing.T) {
	useTempDB(t)

	out, err := run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema is up to date")

	out, err = run(t, "", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "members        3 added")

	out, err = run(t, "", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "members        already has rows, skipped")

	out, err = run(t, "", "checkins", "export", "--out", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Date,Name,Phone"), out)
}

func TestStaffCreate_ReadsPasswordFromStdin(t *testing.T) {
	useTempDB(t)
	_, err := run(t, "", "migrate")
	require.NoError(t, err)
	_, err = run(t, "", "seed")
	require.NoError(t, err)

	out, err := run(t, "desk-pass-1\n", "staff", "create",
		"--name", "Ama Desk", "--email", "ama@goodlife.com",
		"--position", "Front Desk", "--phone", "0244555666",
		"--privileges", "MANAGE_MEMBERS")
	require.NoError(t, err)
	assert.Contains(t, out, "created ama@goodlife.com (Staff Member)")
}

func TestStaffCreate_UnknownActor(t *testing.T) {
	useTempDB(t)
	_, err := run(t, "", "migrate")
	require.NoError(t, err)

	_, err = run(t, "secret-123\n", "staff", "create", "--as", "nobody@goodlife.com",
		"--name", "X", "--email", "x@goodlife.com")
	assert.ErrorContains(t, err, "no staff account")
}
