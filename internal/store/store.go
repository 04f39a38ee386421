// Package store persists projects, their last calculation snapshot and the
// admin-editable pricing tables. Inputs and results are stored as JSON.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/servicequote/internal/pricing"
)

// ErrNotFound is returned when a project or user does not exist.
var ErrNotFound = errors.New("not found")

// Fixed-width UTC timestamps keep ORDER BY on the text column chronological.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Store is the database/sql backed persistence layer. It speaks both the
// sqlite and postgres placeholder styles.
type Store struct {
	db       *sql.DB
	postgres bool
}

func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, postgres: driver == "postgres"}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Project is one stored proposal.
type Project struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Client    string                     `json:"client"`
	Input     pricing.ProjectInput       `json:"input"`
	Result    *pricing.CalculationResult `json:"result,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// ProjectSummary is a list row.
type ProjectSummary struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Client            string    `json:"client"`
	FinalMonthlyPrice float64   `json:"finalMonthlyPrice"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func now() string {
	return time.Now().UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func encodeResult(result *pricing.CalculationResult) (sql.NullString, error) {
	if result == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode result: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

// DecodeInput merges raw JSON onto the default project input. Fields missing
// from raw keep their defaults.
func DecodeInput(raw []byte) (pricing.ProjectInput, error) {
	in := pricing.NewProjectInput()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			return pricing.ProjectInput{}, fmt.Errorf("decode project input: %w", err)
		}
	}
	if in.LoadUnits == nil {
		in.LoadUnits = []pricing.LoadUnit{}
	}
	if in.TeamRoster == nil {
		in.TeamRoster = []pricing.TeamMember{}
	}
	if in.Tools == nil {
		in.Tools = []string{}
	}
	return in, nil
}

// CreateProject stores a new project with an optional result snapshot.
func (s *Store) CreateProject(ctx context.Context, in pricing.ProjectInput, result *pricing.CalculationResult) (Project, error) {
	rawInput, err := json.Marshal(in)
	if err != nil {
		return Project{}, fmt.Errorf("encode project input: %w", err)
	}
	rawResult, err := encodeResult(result)
	if err != nil {
		return Project{}, err
	}

	id := uuid.NewString()
	ts := now()
	if _, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO projects (id, name, client, input_json, result_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), id, in.Name, in.Client, string(rawInput), rawResult, ts, ts); err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}

	return Project{
		ID:        id,
		Name:      in.Name,
		Client:    in.Client,
		Input:     in,
		Result:    result,
		CreatedAt: parseTime(ts),
		UpdatedAt: parseTime(ts),
	}, nil
}

// GetProject loads one project by id.
func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	var (
		p                    Project
		rawInput             string
		rawResult            sql.NullString
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, name, client, input_json, result_json, created_at, updated_at
		FROM projects
		WHERE id = ?
	`), id).Scan(&p.ID, &p.Name, &p.Client, &rawInput, &rawResult, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, fmt.Errorf("query project %s: %w", id, err)
	}

	p.Input, err = DecodeInput([]byte(rawInput))
	if err != nil {
		return Project{}, err
	}
	if rawResult.Valid && rawResult.String != "" {
		var result pricing.CalculationResult
		if err := json.Unmarshal([]byte(rawResult.String), &result); err != nil {
			return Project{}, fmt.Errorf("decode project result: %w", err)
		}
		p.Result = &result
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// ListProjects returns projects, most recently updated first. A non-empty
// query filters on name or client, case-insensitively.
func (s *Store) ListProjects(ctx context.Context, query string) ([]ProjectSummary, error) {
	sqlQuery := `
		SELECT id, name, client, result_json, updated_at
		FROM projects
	`
	args := []any{}
	query = strings.TrimSpace(query)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		sqlQuery += ` WHERE LOWER(name) LIKE ? OR LOWER(client) LIKE ?`
		args = append(args, like, like)
	}
	sqlQuery += ` ORDER BY updated_at DESC, id`

	rows, err := s.db.QueryContext(ctx, s.rebind(sqlQuery), args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	out := []ProjectSummary{}
	for rows.Next() {
		var (
			item      ProjectSummary
			rawResult sql.NullString
			updatedAt string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Client, &rawResult, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		item.UpdatedAt = parseTime(updatedAt)
		if rawResult.Valid && rawResult.String != "" {
			var snapshot struct {
				Price struct {
					FinalMonthlyPrice float64 `json:"finalMonthlyPrice"`
				} `json:"price"`
			}
			if err := json.Unmarshal([]byte(rawResult.String), &snapshot); err == nil {
				item.FinalMonthlyPrice = snapshot.Price.FinalMonthlyPrice
			}
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project rows: %w", err)
	}
	return out, nil
}

// UpdateProjectInput replaces a project's input together with the result
// computed from it.
func (s *Store) UpdateProjectInput(ctx context.Context, id string, in pricing.ProjectInput, result *pricing.CalculationResult) error {
	rawInput, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode project input: %w", err)
	}
	rawResult, err := encodeResult(result)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE projects
		SET name = ?, client = ?, input_json = ?, result_json = ?, updated_at = ?
		WHERE id = ?
	`), in.Name, in.Client, string(rawInput), rawResult, now(), id)
	if err != nil {
		return fmt.Errorf("update project %s: %w", id, err)
	}
	return expectOne(res)
}

// SaveProjectResult stores a new calculation snapshot for a project.
func (s *Store) SaveProjectResult(ctx context.Context, id string, result pricing.CalculationResult) error {
	rawResult, err := encodeResult(&result)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE projects SET result_json = ?, updated_at = ? WHERE id = ?
	`), rawResult, now(), id)
	if err != nil {
		return fmt.Errorf("save project result %s: %w", id, err)
	}
	return expectOne(res)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
