package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/omnibar/internal/history"
	"github.com/jask/omnibar/internal/keyseq"
	"github.com/jask/omnibar/internal/store"
)

// runCLI runs the app with an isolated config and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("OMNIBAR_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("OMNIBAR_DATABASE_PATH", filepath.Join(dir, "omnibar.db"))

	var out, errOut bytes.Buffer
	app := newCLIApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"omnibar"}, args...))
	return out.String(), err
}

func TestRankCommand(t *testing.T) {
	out, err := runCLI(t, "--ephemeral", "rank", "--route", "/dossiers", "--limit", "3", "doss")
	require.NoError(t, err)

	var got rankOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "doss", got.Query)
	require.NotEmpty(t, got.Items)
	assert.LessOrEqual(t, len(got.Items), 3)
	assert.Equal(t, "ctx-dossiers-create", got.Items[0].ID)
}

func TestParseCommand(t *testing.T) {
	out, err := runCLI(t, "--ephemeral", "parse", "ouvre", "le", "tableau", "de", "bord")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "NAVIGATE", got["type"])
	assert.Equal(t, "ouvre le tableau de bord", got["query"])

	_, err = runCLI(t, "--ephemeral", "parse")
	assert.Error(t, err)
}

func TestShortcutsCommand(t *testing.T) {
	out, err := runCLI(t, "--ephemeral", "shortcuts")
	require.NoError(t, err)

	var groups []keyseq.CategoryGroup
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups, 3)
	assert.Equal(t, keyseq.CategoryNavigation, groups[0].Category)
}

func TestSQLiteSessionPersists(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "nested", "omnibar.db")
	out, err := runCLI(t, "--db", db, "rank", "tableau")
	require.NoError(t, err)
	assert.FileExists(t, db)

	var got rankOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotEmpty(t, got.Items)
	assert.Equal(t, "nav-dashboard", got.Items[0].ID)
}

func TestSearchesCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "omnibar.db")
	st, err := store.OpenSQLite(db)
	require.NoError(t, err)
	seed := history.NewSearches(st, 5)
	seed.Add("villa casablanca")
	seed.Add("t3 rabat")
	require.NoError(t, st.Close())

	out, err := runCLI(t, "--db", db, "rank")
	require.NoError(t, err)
	var ranked rankOutput
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked.RecentSearches, 2)
	assert.Equal(t, "t3 rabat", ranked.RecentSearches[0].Query)

	out, err = runCLI(t, "--db", db, "searches", "--remove", "t3 rabat")
	require.NoError(t, err)
	var left []history.Search
	require.NoError(t, json.Unmarshal([]byte(out), &left))
	require.Len(t, left, 1)
	assert.Equal(t, "villa casablanca", left[0].Query)

	_, err = runCLI(t, "--db", db, "searches", "--remove", "absent")
	assert.Error(t, err)

	out, err = runCLI(t, "--db", db, "searches", "--clear")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}
