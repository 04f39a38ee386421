package seed

import (
	"context"
	"fmt"

	"github.com/Simplici0/servicequote/internal/auth"
	"github.com/Simplici0/servicequote/internal/pricing"
	"github.com/Simplici0/servicequote/internal/store"
)

const demoProjectName = "NOC demonstração"

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	DemoProject   bool
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, st *store.Store, cfg Config) (Stats, error) {
	stats := Stats{}

	if err := seedAdmin(ctx, st, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		return stats, err
	}
	if err := ensureTables(ctx, st, &stats); err != nil {
		return stats, err
	}
	if cfg.DemoProject {
		if err := ensureDemoProject(ctx, st, &stats); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, st *store.Store, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	exists, err := st.UserExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	inserted, err := st.EnsureUser(ctx, email, hash)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	if inserted {
		stats.Inserts++
	}
	return nil
}

func ensureTables(ctx context.Context, st *store.Store, stats *Stats) error {
	exists, err := st.HasTables(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := st.SaveTables(ctx, pricing.DefaultTables()); err != nil {
		return fmt.Errorf("insert default pricing tables: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureDemoProject(ctx context.Context, st *store.Store, stats *Stats) error {
	matches, err := st.ListProjects(ctx, demoProjectName)
	if err != nil {
		return fmt.Errorf("check demo project existence: %w", err)
	}
	for _, p := range matches {
		if p.Name == demoProjectName {
			return nil
		}
	}

	tables, err := st.GetTables(ctx)
	if err != nil {
		return err
	}
	in := DemoInput()
	result, err := pricing.Calculate(in, tables)
	if err != nil {
		return fmt.Errorf("calculate demo project: %w", err)
	}
	if _, err := st.CreateProject(ctx, in, &result); err != nil {
		return fmt.Errorf("insert demo project: %w", err)
	}
	stats.Inserts++
	return nil
}

// DemoInput is a mid-sized 24x7 NOC proposal used to showcase the engine.
func DemoInput() pricing.ProjectInput {
	in := pricing.NewProjectInput()
	in.Name = demoProjectName
	in.Client = "Cliente exemplo"
	in.ServiceLevel = pricing.ServiceLevelAdvanced
	in.Coverage = pricing.Coverage24x7
	in.LoadUnits = []pricing.LoadUnit{
		{Name: "Servidores", Quantity: 120, MetricsPerUnit: 45, EventsPerUnit: 2, Weight: 1.5},
		{Name: "Switches", Quantity: 60, MetricsPerUnit: 20, EventsPerUnit: 1},
		{Name: "Links WAN", Quantity: 20, MetricsPerUnit: 10, EventsPerUnit: 3, Weight: 2},
	}
	in.OperationalCosts = pricing.OperationalCosts{
		Server:              3500,
		Storage:             1200,
		Network:             800,
		MonitoringLicense:   2500,
		Integration:         600,
		Facility:            2000,
		Utilities:           400,
		TrainingAnnual:      12000,
		CertificationAnnual: 6000,
		Contingency:         1000,
	}
	in.TaxRates = pricing.TaxRates{Federal: 9.25, Municipal: 5}
	in.Variables = pricing.Variables{ProfitMarginPct: 20, RiskMarginPct: 5}
	in.Tools = []string{"zabbix", "grafana", "glpi"}
	return in
}
