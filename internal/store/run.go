package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/qnorm/internal/ir"
	"github.com/roach88/qnorm/internal/queryir"
	"github.com/roach88/qnorm/internal/querysql"
)

// ErrRunNotFound is returned by GetRun when no row has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded simulator call.
type Run struct {
	ID                string
	Seq               int64
	Dialect           string
	IRHash            string
	QubitCount        int
	Shots             int
	LittleEndian      bool
	IR                string
	Histogram         map[string]int
	NormalizerVersion string
	IRVersion         string
}

// runColumnList is the scan order of scanRun.
var runColumnList = []string{
	"id", "seq", "dialect", "ir_hash", "qubit_count", "shots", "little_endian",
	"ir", "histogram", "normalizer_version", "ir_version",
}

var runColumns = strings.Join(runColumnList, ", ")

// WriteRun appends a run to the log.
// Uses ON CONFLICT(id) DO NOTHING, so writing the same run twice is a no-op.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	histJSON, err := marshalHistogram(run.Histogram)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Seq,
		run.Dialect,
		run.IRHash,
		run.QubitCount,
		run.Shots,
		run.LittleEndian,
		run.IR,
		histJSON,
		run.NormalizerVersion,
		run.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns recorded runs in seq order. A positive limit keeps only
// the most recent limit runs, still in ascending order.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	return s.FindRuns(ctx, nil, limit)
}

// RunsByHash returns every run of the circuit with the given content hash.
func (s *Store) RunsByHash(ctx context.Context, hash string) ([]Run, error) {
	return s.FindRuns(ctx, queryir.Equals{Field: "ir_hash", Value: queryir.Text(hash)}, 0)
}

// FindRuns returns the runs matching filter in seq order. A nil filter
// matches every run; limit behaves as in ListRuns.
func (s *Store) FindRuns(ctx context.Context, filter queryir.Predicate, limit int) ([]Run, error) {
	query, args, err := querysql.NewSQLCompiler().Compile(queryir.Select{
		From:    "runs",
		Columns: runColumnList,
		Filter:  filter,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("find runs: %w", err)
	}
	return s.queryRuns(ctx, query, args...)
}

// MaxSeq returns the highest recorded seq, or 0 for an empty log.
// The engine resumes its clock from this value.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("max seq: %w", err)
	}
	return seq.Int64, nil
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
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run      Run
		histJSON string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Dialect,
		&run.IRHash,
		&run.QubitCount,
		&run.Shots,
		&run.LittleEndian,
		&run.IR,
		&histJSON,
		&run.NormalizerVersion,
		&run.IRVersion,
	)
	if err != nil {
		return Run{}, err
	}
	run.Histogram, err = unmarshalHistogram(histJSON)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// marshalHistogram stores counts as canonical JSON so equal histograms
// produce identical column text.
func marshalHistogram(h map[string]int) (string, error) {
	obj := make(map[string]any, len(h))
	for k, v := range h {
		obj[k] = v
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal histogram: %w", err)
	}
	return string(data), nil
}

func unmarshalHistogram(data string) (map[string]int, error) {
	h := map[string]int{}
	if data == "" {
		return h, nil
	}
	if err := json.Unmarshal([]byte(data), &h); err != nil {
		return nil, fmt.Errorf("unmarshal histogram: %w", err)
	}
	return h, nil
}
