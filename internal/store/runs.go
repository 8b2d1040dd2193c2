package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/motorbench/internal/canonical"
)

// DomainRun separates run fingerprints from other hashes.
const DomainRun = "motorbench/run/v1"

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("run not found")

// Status is the outcome of a recorded run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"  // tool exited non-zero
	StatusError   Status = "error"   // tool could not be started
	StatusDryRun  Status = "dry_run" // invocation rendered, not executed
)

// RunRecord is what a caller hands to RecordRun.
type RunRecord struct {
	Scenario   string
	Invocation []string
	Defines    []string
	Status     Status
	ExitCode   int
	Stdout     string
	Stderr     string
	Error      string
}

// Run is a stored ledger entry.
type Run struct {
	ID          string   `json:"id"`
	Seq         int64    `json:"seq"`
	Scenario    string   `json:"scenario"`
	Fingerprint string   `json:"fingerprint"`
	Invocation  []string `json:"invocation"`
	Defines     []string `json:"defines"`
	Status      Status   `json:"status"`
	ExitCode    int      `json:"exit_code"`
	Stdout      string   `json:"stdout,omitempty"`
	Stderr      string   `json:"stderr,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Filter narrows ListRuns.
type Filter struct {
	// Scenario keeps only runs of this scenario when set.
	Scenario string

	// Limit keeps only the most recent N runs when > 0.
	Limit int
}

// Fingerprint identifies a configuration by its scenario and rendered tokens.
func Fingerprint(scenario string, invocation []string) (string, error) {
	return canonical.Fingerprint(DomainRun, map[string]any{
		"scenario":   scenario,
		"invocation": invocation,
	})
}

// RecordRun appends a run and returns it with ID, seq and fingerprint assigned.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) (Run, error) {
	if rec.Scenario == "" {
		return Run{}, errors.New("record run: scenario is required")
	}
	if len(rec.Invocation) == 0 {
		return Run{}, errors.New("record run: invocation is required")
	}

	fp, err := Fingerprint(rec.Scenario, rec.Invocation)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	// Stored columns keep tokens byte for byte; only the fingerprint is canonical.
	invJSON, err := json.Marshal(rec.Invocation)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	defines := rec.Defines
	if defines == nil {
		defines = []string{}
	}
	defJSON, err := json.Marshal(defines)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("record run: next seq: %w", err)
	}

	run := Run{
		ID:          s.ids.Generate(),
		Seq:         seq,
		Scenario:    rec.Scenario,
		Fingerprint: fp,
		Invocation:  append([]string(nil), rec.Invocation...),
		Defines:     append([]string{}, defines...),
		Status:      rec.Status,
		ExitCode:    rec.ExitCode,
		Stdout:      rec.Stdout,
		Stderr:      rec.Stderr,
		Error:       rec.Error,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, scenario, fingerprint, invocation, defines, status, exit_code, stdout, stderr, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Scenario,
		run.Fingerprint,
		string(invJSON),
		string(defJSON),
		string(run.Status),
		run.ExitCode,
		run.Stdout,
		run.Stderr,
		run.Error,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}

const selectRun = `
	SELECT id, seq, scenario, fingerprint, invocation, defines, status, exit_code, stdout, stderr, error
	FROM runs
`

// GetRun returns a single run, or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns runs in seq order, optionally filtered.
// With a Limit, the most recent runs are kept, still in ascending order.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, f Filter) ([]Run, error) {
	query := selectRun
	var args []any
	if f.Scenario != "" {
		query += ` WHERE scenario = ?`
		args = append(args, f.Scenario)
	}
	if f.Limit > 0 {
		query = `SELECT * FROM (` + query + ` ORDER BY seq DESC LIMIT ?)`
		args = append(args, f.Limit)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	return s.queryRuns(ctx, query, args...)
}

// RunsByFingerprint returns every run of an identical configuration.
func (s *Store) RunsByFingerprint(ctx context.Context, fingerprint string) ([]Run, error) {
	return s.queryRuns(ctx, selectRun+`
		WHERE fingerprint = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, fingerprint)
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run     Run
		invJSON string
		defJSON string
		status  string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Scenario,
		&run.Fingerprint,
		&invJSON,
		&defJSON,
		&status,
		&run.ExitCode,
		&run.Stdout,
		&run.Stderr,
		&run.Error,
	)
	if err != nil {
		return Run{}, err
	}
	run.Status = Status(status)

	if err := json.Unmarshal([]byte(invJSON), &run.Invocation); err != nil {
		return Run{}, fmt.Errorf("unmarshal invocation of run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(defJSON), &run.Defines); err != nil {
		return Run{}, fmt.Errorf("unmarshal defines of run %s: %w", run.ID, err)
	}
	return run, nil
}
