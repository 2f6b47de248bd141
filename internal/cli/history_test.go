package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qnorm/internal/config"
	"github.com/roach88/qnorm/internal/store"
)

// seedRunLog writes n runs and returns the database path.
func seedRunLog(t *testing.T, n int) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	for i := 1; i <= n; i++ {
		hash := "aaaaaaaaaaaaaaaaaaaa"
		if i%2 == 0 {
			hash = "bbbbbbbbbbbbbbbbbbbb"
		}
		require.NoError(t, st.WriteRun(context.Background(), store.Run{
			ID:                fmt.Sprintf("run-%d", i),
			Seq:               int64(i),
			Dialect:           "list",
			IRHash:            hash,
			QubitCount:        2,
			Shots:             10,
			IR:                bellIR,
			Histogram:         map[string]int{"00": 4, "11": 6},
			NormalizerVersion: "test",
			IRVersion:         "1",
		}))
	}
	return db
}

func executeHistory(t *testing.T, opts *RootOptions, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestHistory_Text(t *testing.T) {
	db := seedRunLog(t, 3)

	buf, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", db)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "   1  run-1  list    2 qubit(s)  10 shot(s)  aaaaaaaaaaaa")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("run-1")), bytes.Index(buf.Bytes(), []byte("run-3")))
	assert.NotContains(t, out, "00  4")
}

func TestHistory_VerboseShowsHistogram(t *testing.T) {
	db := seedRunLog(t, 1)

	buf, err := executeHistory(t, &RootOptions{Format: "text", Verbose: true}, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "        00  4")
	assert.Contains(t, buf.String(), "        11  6")
}

func TestHistory_JSONLimitAndHash(t *testing.T) {
	db := seedRunLog(t, 5)

	decode := func(buf *bytes.Buffer) []HistoryEntry {
		var resp struct {
			Data []HistoryEntry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		return resp.Data
	}

	buf, err := executeHistory(t, &RootOptions{Format: "json"}, "--db", db, "--limit", "2")
	require.NoError(t, err)
	entries := decode(buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-4", entries[0].ID)
	assert.Equal(t, "run-5", entries[1].ID)
	assert.Equal(t, map[string]int{"00": 4, "11": 6}, entries[1].Histogram)

	buf, err = executeHistory(t, &RootOptions{Format: "json"}, "--db", db, "--hash", "bbbbbbbbbbbbbbbbbbbb")
	require.NoError(t, err)
	entries = decode(buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-2", entries[0].ID)
	assert.Equal(t, "run-4", entries[1].ID)
}

func TestHistory_DatabaseFromConfig(t *testing.T) {
	db := seedRunLog(t, 1)
	cfg := config.Config{Store: config.StoreConfig{Path: db}}.WithDefaults()

	buf, err := executeHistory(t, &RootOptions{Format: "text", Config: &cfg})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "run-1")
}

func TestHistory_Empty(t *testing.T) {
	db := seedRunLog(t, 0)

	buf, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No runs recorded.")
}

func TestHistory_CommandErrors(t *testing.T) {
	_, err := executeHistory(t, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	buf, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E005]")
}

func TestHistory_Where(t *testing.T) {
	db := seedRunLog(t, 5)

	buf, err := executeHistory(t, &RootOptions{Format: "json"}, "--db", db,
		"--where", "seq>=2", "--where", "seq<5", "--hash", "aaaaaaaaaaaaaaaaaaaa")
	require.NoError(t, err)

	var resp struct {
		Data []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-3", resp.Data[0].ID)
}

func TestHistory_InvalidWhere(t *testing.T) {
	db := seedRunLog(t, 1)

	for _, expr := range []string{"histogram=x", "shots=many", "dialect"} {
		t.Run(expr, func(t *testing.T) {
			buf, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", db, "--where", expr)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, buf.String(), "Error [E001]")
		})
	}
}
