package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/servicequote/internal/pricing"
)

const tablesID = 1

// GetTables returns the stored pricing tables merged onto the defaults, or
// the defaults when nothing has been saved yet.
func (s *Store) GetTables(ctx context.Context) (pricing.Tables, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT tables_json FROM pricing_tables WHERE id = ?`), tablesID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.DefaultTables(), nil
	}
	if err != nil {
		return pricing.Tables{}, fmt.Errorf("query pricing tables: %w", err)
	}
	return DecodeTables([]byte(raw))
}

// DecodeTables decodes raw JSON onto the default tables. A map or list section
// present in raw replaces the default section whole, so keys left out of it
// are removed. Absent sections keep their defaults, and the staffing
// constants merge field by field.
func DecodeTables(raw []byte) (pricing.Tables, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return pricing.Tables{}, fmt.Errorf("decode pricing tables: %w", err)
	}

	t := pricing.DefaultTables()
	for key := range sections {
		switch key {
		case "teamCoverageMultiplier":
			t.TeamCoverageMultiplier = nil
		case "serviceLevelMultiplier":
			t.ServiceLevelMultiplier = nil
		case "toolCostFactors":
			t.ToolCostFactors = nil
		case "marketBaseValue":
			t.MarketBaseValue = nil
		case "marketCoverageMultiplier":
			t.MarketCoverageMultiplier = nil
		case "scaleDiscounts":
			t.ScaleDiscounts = nil
		case "tierSalary":
			t.TierSalary = nil
		}
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return pricing.Tables{}, fmt.Errorf("decode pricing tables: %w", err)
	}
	return t, nil
}

// SaveTables replaces the singleton pricing tables row.
func (s *Store) SaveTables(ctx context.Context, t pricing.Tables) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode pricing tables: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO pricing_tables (id, tables_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET tables_json = excluded.tables_json, updated_at = excluded.updated_at
	`), tablesID, string(raw), now()); err != nil {
		return fmt.Errorf("save pricing tables: %w", err)
	}
	return nil
}

// HasTables reports whether pricing tables were ever saved.
func (s *Store) HasTables(ctx context.Context) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, s.rebind(`SELECT EXISTS(SELECT 1 FROM pricing_tables WHERE id = ?)`), tablesID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pricing tables existence: %w", err)
	}
	return exists, nil
}
