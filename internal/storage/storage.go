// Package storage persists generated lookup tables and simulated shots in
// SQLite, so table runs can be compared over time and individual shots
// replayed.
package storage

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fairway-data/carry.report/internal/flight"
)

// Store wraps the SQLite handle with the toolkit's persistence operations.
type Store struct {
	*sql.DB
}

// schema.sql bootstraps the tables for lookup-table runs and simulated
// shots. Structural changes beyond the bootstrap go through file migrations.
//
//go:embed schema.sql
var schemaSQL string

// NewStore opens (creating if needed) the database at path and ensures the
// bootstrap schema exists.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db}, nil
}

// newID mints a prefixed identifier, e.g. "run_5f4e...".
func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// TableRun is one persisted lookup-table generation.
type TableRun struct {
	ID             string `json:"id"`
	Version        string `json:"version"`
	GeneratedBy    string `json:"generated_by"`
	ArchetypeCount int    `json:"archetype_count"`
	VariantCount   int    `json:"variant_count"`
	CreatedAt      string `json:"created_at"`
}

// SimShot is one persisted flight simulation.
type SimShot struct {
	ID                string  `json:"id"`
	SpeedMPH          float64 `json:"speed_mph"`
	LaunchAngleDeg    float64 `json:"launch_angle_deg"`
	BackspinRPM       float64 `json:"backspin_rpm"`
	SpinAxisDeg       float64 `json:"spin_axis_deg"`
	WindSpeedMPH      float64 `json:"wind_speed_mph"`
	WindDirectionDeg  float64 `json:"wind_direction_deg"`
	CarryYards        float64 `json:"carry_yards"`
	ApexYards         float64 `json:"apex_yards"`
	CurveYards        float64 `json:"curve_yards"`
	FlightTimeSeconds float64 `json:"flight_time_seconds"`
	Truncated         bool    `json:"truncated"`
	CreatedAt         string  `json:"created_at"`
}

// SaveTableSet stores a generated table set and its variants, returning the
// new run's identifier.
func (s *Store) SaveTableSet(set *flight.TableSet) (string, error) {
	runID := newID("run")

	tx, err := s.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	variantCount := 0
	for _, table := range set.Archetypes {
		variantCount += len(table.Variants)
	}

	_, err = tx.Exec(
		`INSERT INTO table_runs (id, version, generated_by, archetype_count, variant_count)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, set.Version, set.GeneratedBy, len(set.Archetypes), variantCount,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert table run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO archetype_variants (
			run_id, archetype, variant, speed_mph, carry_yards, max_height_yards,
			curve_yards, curve_direction, flight_time_seconds, points_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare variant insert: %w", err)
	}
	defer stmt.Close()

	for name, table := range set.Archetypes {
		for key, v := range table.Variants {
			points, err := json.Marshal(v.Points)
			if err != nil {
				return "", fmt.Errorf("failed to encode points for %s/%s: %w", name, key, err)
			}
			_, err = stmt.Exec(
				runID, name, key, v.SpeedMPH, v.CarryYards, v.MaxHeightYards,
				v.CurveYards, v.CurveDirection, v.FlightTimeSeconds, string(points),
			)
			if err != nil {
				return "", fmt.Errorf("failed to insert variant %s/%s: %w", name, key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit table run: %w", err)
	}
	return runID, nil
}

// GetTableRun loads one run's metadata.
func (s *Store) GetTableRun(runID string) (*TableRun, error) {
	var run TableRun
	err := s.QueryRow(
		`SELECT id, version, generated_by, archetype_count, variant_count, created_at
		 FROM table_runs WHERE id = ?`, runID,
	).Scan(&run.ID, &run.Version, &run.GeneratedBy, &run.ArchetypeCount, &run.VariantCount, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load table run %s: %w", runID, err)
	}
	return &run, nil
}

// ListTableRuns returns the most recent runs, newest first.
func (s *Store) ListTableRuns(limit int) ([]TableRun, error) {
	rows, err := s.Query(
		`SELECT id, version, generated_by, archetype_count, variant_count, created_at
		 FROM table_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query table runs: %w", err)
	}
	defer rows.Close()

	var runs []TableRun
	for rows.Next() {
		var run TableRun
		if err := rows.Scan(&run.ID, &run.Version, &run.GeneratedBy, &run.ArchetypeCount, &run.VariantCount, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan table run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetVariantPoints loads one stored variant's trajectory.
func (s *Store) GetVariantPoints(runID, archetype, variant string) ([]flight.TablePoint, error) {
	var raw string
	err := s.QueryRow(
		`SELECT points_json FROM archetype_variants
		 WHERE run_id = ? AND archetype = ? AND variant = ?`,
		runID, archetype, variant,
	).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load variant %s/%s/%s: %w", runID, archetype, variant, err)
	}

	var points []flight.TablePoint
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		return nil, fmt.Errorf("failed to decode stored points: %w", err)
	}
	return points, nil
}

// SaveShot stores one simulation's inputs and summary, returning the shot's
// identifier.
func (s *Store) SaveShot(p flight.Params, res *flight.Result) (string, error) {
	shotID := newID("shot")
	_, err := s.Exec(
		`INSERT INTO sim_shots (
			id, speed_mph, launch_angle_deg, backspin_rpm, spin_axis_deg,
			wind_speed_mph, wind_direction_deg, carry_yards, apex_yards,
			curve_yards, flight_time_seconds, truncated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shotID, p.SpeedMPH, p.LaunchAngleDeg, p.BackspinRPM, p.SpinAxisDeg,
		p.WindSpeedMPH, p.WindDirectionDeg, res.CarryYards, res.ApexYards,
		res.CurveYards, res.FlightTimeSeconds, res.Truncated,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert shot: %w", err)
	}
	return shotID, nil
}

// RecentShots returns the latest simulated shots, newest first.
func (s *Store) RecentShots(limit int) ([]SimShot, error) {
	rows, err := s.Query(
		`SELECT id, speed_mph, launch_angle_deg, backspin_rpm, spin_axis_deg,
			wind_speed_mph, wind_direction_deg, carry_yards, apex_yards,
			curve_yards, flight_time_seconds, truncated, created_at
		 FROM sim_shots ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query shots: %w", err)
	}
	defer rows.Close()

	var shots []SimShot
	for rows.Next() {
		var sh SimShot
		err := rows.Scan(
			&sh.ID, &sh.SpeedMPH, &sh.LaunchAngleDeg, &sh.BackspinRPM, &sh.SpinAxisDeg,
			&sh.WindSpeedMPH, &sh.WindDirectionDeg, &sh.CarryYards, &sh.ApexYards,
			&sh.CurveYards, &sh.FlightTimeSeconds, &sh.Truncated, &sh.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shot: %w", err)
		}
		shots = append(shots, sh)
	}
	return shots, rows.Err()
}
