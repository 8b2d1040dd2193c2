package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/motorbench/internal/runner"
	"github.com/roach88/motorbench/internal/store"
)

// seedLedger records a successful pwm run, a failed pwm run and a hall dry run.
func seedLedger(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	h := newRunHarness("text")
	h.opts.IDs = store.NewFixedGenerator("run-1", "run-2", "run-3")

	h.runner.result = runner.Result{Stdout: "compiled\n"}
	require.NoError(t, h.execute("", append([]string{"pwm", "--db", dbPath}, pwmSet...)...))

	h.runner.result = runner.Result{ExitCode: 1, Stderr: "tb_pwm_generator_3phase.v:3: error\n"}
	require.Error(t, h.execute("", append([]string{"pwm", "--db", dbPath}, pwmSet...)...))

	require.NoError(t, h.execute("", "hall", "--dry-run", "--db", dbPath,
		"--set", "clock_mhz=100",
		"--set", "hall_period_ns=1000000",
		"--set", "hall_strobe_ns=100",
	))
	return dbPath
}

func TestHistory_Text(t *testing.T) {
	dbPath := seedLedger(t)

	out, err := executeRoot(t, "history", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "run-3")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "dry_run")
}

func TestHistory_FilterAndLimit(t *testing.T) {
	dbPath := seedLedger(t)

	out, err := executeRoot(t, "history", "--db", dbPath, "--scenario", "pwm", "--limit", "1", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-2", resp.Data[0].ID)
	assert.Equal(t, store.StatusFailed, resp.Data[0].Status)
}

func TestHistory_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := executeRoot(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")

	out, err = executeRoot(t, "history", "--db", dbPath, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"data": []`)
}

func TestHistory_MissingLedgerIsNotCreated(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "typo.db")

	out, err := executeRoot(t, "history", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
	assert.NotContains(t, out, "No runs recorded.")
	assert.NoFileExists(t, dbPath)
}

func TestHistory_UnknownScenario(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := executeRoot(t, "history", "--db", dbPath, "--scenario", "stepper")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeUnknownScenario)
}

func TestHistory_RequiresDB(t *testing.T) {
	_, err := executeRoot(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
