package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, dbFile, pepperFile string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--db", dbFile, "--pepper", pepperFile}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestAdminUserWorkflow(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "test.db")
	pepperFile := filepath.Join(dir, "pepper")

	out, err := runCLI(t, dbFile, pepperFile, "migrate")
	require.NoError(t, err)
	require.Contains(t, out, "migrations applied")

	out, err = runCLI(t, dbFile, pepperFile, "user", "create",
		"--name", "admin",
		"--mail", "admin@example.com",
		"--password", "hunter2hunter2",
		"--scopes", "user.*,ore.*",
	)
	require.NoError(t, err)
	require.Contains(t, out, "created user admin")

	out, err = runCLI(t, dbFile, pepperFile, "user", "list")
	require.NoError(t, err)
	require.Contains(t, out, "admin@example.com")
	require.Contains(t, out, "1 users")

	t.Run("malformed scope is rejected", func(t *testing.T) {
		_, err := runCLI(t, dbFile, pepperFile, "user", "create",
			"--name", "broken",
			"--mail", "broken@example.com",
			"--password", "hunter2hunter2",
			"--scopes", "nodot",
		)
		require.Error(t, err)
	})

	t.Run("set-scopes replaces wholesale", func(t *testing.T) {
		listOut, err := runCLI(t, dbFile, pepperFile, "user", "list")
		require.NoError(t, err)

		// Pull the ULID from the list output.
		id := listOut[:26]

		out, err := runCLI(t, dbFile, pepperFile, "user", "set-scopes", id,
			"--scopes", "mining_session.*")
		require.NoError(t, err)
		require.Contains(t, out, "mining_session.*")
		require.NotContains(t, out, "ore.*")
	})
}
