// Package store archives generated designs in a SQLite database so earlier
// runs can be listed and reloaded.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/doe/internal/doe"
)

// ErrRunNotFound is returned by LoadRun for an unknown run ID.
var ErrRunNotFound = errors.New("store: run not found")

// Store is a SQLite-backed run archive.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// RunOptions is the archived form of doe.Options.
type RunOptions struct {
	Seed       int64  `json:"seed"`
	LHDSamples int    `json:"lhd_samples"`
	Strategy   string `json:"strategy"`
	Iterations int    `json:"iterations"`
	Randomize  bool   `json:"randomize"`
	IDOffset   int    `json:"id_offset"`
	TestCount  int    `json:"test_count"`
	PerConfig  bool   `json:"per_config"`
	IDLabel    string `json:"id_label"`
}

// NewRunOptions captures the reproducible part of opts.
func NewRunOptions(opts doe.Options) RunOptions {
	label := opts.IDLabel
	if label == "" {
		label = doe.DefaultIDLabel
	}
	return RunOptions{
		Seed:       opts.Seed,
		LHDSamples: opts.LHDSamples,
		Strategy:   string(opts.Strategy),
		Iterations: opts.Iterations,
		Randomize:  opts.Randomize,
		IDOffset:   opts.IDOffset,
		TestCount:  opts.TestCount,
		PerConfig:  opts.PerConfig,
		IDLabel:    label,
	}
}

// RunInfo is one row of the run listing.
type RunInfo struct {
	ID             string
	CreatedAt      time.Time
	Seed           int64
	Configurations int
	Selected       int
	Strategy       string
	Iterations     int
	Randomized     bool
}

// Parameter is an archived parameter declaration.
type Parameter struct {
	Name      string
	Min       float64
	Max       float64
	Increment float64
	Kind      string
}

// Config is one archived design row. Values exclude the ConfigID.
type Config struct {
	ConfigID int
	Selected bool
	Values   []float64
}

// Run is a fully loaded archived design.
type Run struct {
	RunInfo
	IDLabel    string
	Options    RunOptions
	Summary    doe.Summary
	Parameters []Parameter
	Configs    []Config
}

// Open opens (creating if needed) the archive at path and migrates it to
// the latest schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open run archive %s", path)
	}
	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "configure run archive: %s", pragma)
		}
	}
	s := &Store{db: db, now: time.Now}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun archives d with the options it was built from and returns the new
// run ID. Every row of the full design is stored; rows outside the test
// selection are flagged as unselected.
func (s *Store) SaveRun(ctx context.Context, d *doe.Design, opts doe.Options) (string, error) {
	runOpts := NewRunOptions(opts)
	optsJSON, err := json.Marshal(runOpts)
	if err != nil {
		return "", errors.Wrap(err, "encode run options")
	}
	summary := d.Summary()
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return "", errors.Wrap(err, "encode run summary")
	}

	selection := d.Selection()
	selected := make(map[int]bool, len(selection))
	for _, r := range selection {
		selected[r] = true
	}

	id := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO doe_runs (run_id, created_at, seed, id_label, configurations, selected,
			strategy, iterations, randomized, options_json, summary_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(time.RFC3339Nano), runOpts.Seed, runOpts.IDLabel,
		summary.Configurations, len(selection), string(summary.Strategy), summary.Iterations,
		summary.Randomized, string(optsJSON), string(summaryJSON))
	if err != nil {
		return "", errors.Wrap(err, "insert run")
	}

	for i, p := range d.Registry().Params() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO doe_parameters (run_id, position, name, minimum, maximum, increment, kind)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, p.Name, p.Min, p.Max, p.Increment, p.Kind.String())
		if err != nil {
			return "", errors.Wrapf(err, "insert parameter %s", p.Name)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO doe_configs (run_id, row_index, config_id, selected, values_json)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", errors.Wrap(err, "prepare config insert")
	}
	defer stmt.Close()

	m := d.Matrix()
	rows, _ := m.Dims()
	for r := 0; r < rows; r++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		row := m.RawRowView(r)
		values, err := json.Marshal(row[1:])
		if err != nil {
			return "", errors.Wrapf(err, "encode row %d", r)
		}
		if _, err := stmt.ExecContext(ctx, id, r, int64(row[0]), selected[r], string(values)); err != nil {
			return "", errors.Wrapf(err, "insert row %d", r)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "commit run")
	}
	return id, nil
}

// ListRuns returns every archived run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, created_at, seed, configurations, selected, strategy, iterations, randomized
		FROM doe_runs
		ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		info, err := scanRunInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, errors.Wrap(rows.Err(), "iterate runs")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRunInfo(sc scanner) (RunInfo, error) {
	var info RunInfo
	var created string
	if err := sc.Scan(&info.ID, &created, &info.Seed, &info.Configurations, &info.Selected,
		&info.Strategy, &info.Iterations, &info.Randomized); err != nil {
		return RunInfo{}, errors.Wrap(err, "scan run")
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return RunInfo{}, errors.Wrapf(err, "parse created_at of run %s", info.ID)
	}
	info.CreatedAt = t
	return info, nil
}

// LoadRun reads back one archived run with its parameters and rows.
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, created_at, seed, configurations, selected, strategy, iterations, randomized,
			id_label, options_json, summary_json
		FROM doe_runs WHERE run_id = ?`, id)

	var run Run
	var created, optsJSON, summaryJSON string
	err := row.Scan(&run.ID, &created, &run.Seed, &run.Configurations, &run.Selected,
		&run.Strategy, &run.Iterations, &run.Randomized, &run.IDLabel, &optsJSON, &summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrRunNotFound, "run %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load run %s", id)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, errors.Wrapf(err, "parse created_at of run %s", id)
	}
	if err := json.Unmarshal([]byte(optsJSON), &run.Options); err != nil {
		return nil, errors.Wrapf(err, "decode options of run %s", id)
	}
	if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
		return nil, errors.Wrapf(err, "decode summary of run %s", id)
	}

	if run.Parameters, err = s.loadParameters(ctx, id); err != nil {
		return nil, err
	}
	if run.Configs, err = s.loadConfigs(ctx, id); err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *Store) loadParameters(ctx context.Context, id string) ([]Parameter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, minimum, maximum, increment, kind
		FROM doe_parameters WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, errors.Wrap(err, "query parameters")
	}
	defer rows.Close()

	var out []Parameter
	for rows.Next() {
		var p Parameter
		if err := rows.Scan(&p.Name, &p.Min, &p.Max, &p.Increment, &p.Kind); err != nil {
			return nil, errors.Wrap(err, "scan parameter")
		}
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "iterate parameters")
}

func (s *Store) loadConfigs(ctx context.Context, id string) ([]Config, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT config_id, selected, values_json
		FROM doe_configs WHERE run_id = ? ORDER BY row_index`, id)
	if err != nil {
		return nil, errors.Wrap(err, "query configs")
	}
	defer rows.Close()

	var out []Config
	for rows.Next() {
		var c Config
		var values string
		if err := rows.Scan(&c.ConfigID, &c.Selected, &values); err != nil {
			return nil, errors.Wrap(err, "scan config")
		}
		if err := json.Unmarshal([]byte(values), &c.Values); err != nil {
			return nil, errors.Wrapf(err, "decode config %d", c.ConfigID)
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "iterate configs")
}
