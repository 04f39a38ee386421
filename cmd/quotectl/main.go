// quotectl prices service proposals from JSON files without a database.
//
// Usage:
//
//	quotectl calculate --input project.json [--tables tables.json] [--format text]
//	quotectl validate --input project.json
//	quotectl dimension --load 12000 --coverage 24x7 --level advanced
//	quotectl export --input project.json --pdf proposta.pdf --xlsx proposta.xlsx
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Simplici0/servicequote/internal/logging"
	"github.com/Simplici0/servicequote/internal/pricing"
	"github.com/Simplici0/servicequote/internal/report"
	"github.com/Simplici0/servicequote/internal/store"
	"github.com/Simplici0/servicequote/internal/validation"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "quotectl",
		Usage:     "Price NOC and service desk proposals from the command line",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			slog.SetDefault(logging.New(stderr, c.String("log-level")))
			return nil
		},
		// Exit codes are handled in main so tests can run the app in-process.
		ExitErrHandler: func(c *cli.Context, err error) {},
		Commands: []*cli.Command{
			calculateCommand(),
			validateCommand(),
			dimensionCommand(),
			exportCommand(),
		},
	}
}

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Path to the project input JSON",
		Required: true,
	}
}

func tablesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "tables",
		Aliases: []string{"t"},
		Usage:   "Path to pricing tables JSON, merged onto the defaults",
	}
}

// =============================================================================
// CALCULATE
// =============================================================================

func calculateCommand() *cli.Command {
	return &cli.Command{
		Name:  "calculate",
		Usage: "Run the full pricing pipeline for a project",
		Flags: []cli.Flag{
			inputFlag(),
			tablesFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "json",
				Usage:   "Output format (json, text)",
			},
		},
		Action: runCalculate,
	}
}

func runCalculate(c *cli.Context) error {
	in, tables, err := loadProject(c)
	if err != nil {
		return err
	}

	result, err := pricing.Calculate(in, tables)
	if err != nil {
		return fmt.Errorf("calculation rejected: %w", err)
	}
	slog.Debug("project priced",
		"name", in.Name,
		"final_monthly_price", result.Price.FinalMonthlyPrice,
		"derived_team", result.DerivedTeam,
	)

	switch strings.ToLower(c.String("format")) {
	case "json":
		return writeJSON(c.App.Writer, result)
	case "text":
		return report.WriteText(c.App.Writer, report.Build(in, result, time.Now()))
	default:
		return fmt.Errorf("unknown format %q (want json or text)", c.String("format"))
	}
}

// =============================================================================
// VALIDATE
// =============================================================================

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:   "validate",
		Usage:  "Check a project input section by section",
		Flags:  []cli.Flag{inputFlag()},
		Action: runValidate,
	}
}

func runValidate(c *cli.Context) error {
	in, err := readInput(c.String("input"))
	if err != nil {
		return err
	}

	r := validation.Validate(in)
	w := c.App.Writer
	for _, name := range validation.Sections {
		s := r.Sections[name]
		status := "ok"
		if !s.IsValid {
			status = "inválido"
		}
		fmt.Fprintf(w, "%s: %s\n", name, status)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  erro: %s\n", e)
		}
		for _, msg := range s.Warnings {
			fmt.Fprintf(w, "  aviso: %s\n", msg)
		}
		for _, msg := range s.Suggestions {
			fmt.Fprintf(w, "  sugestão: %s\n", msg)
		}
	}

	if !r.IsValid {
		return cli.Exit(fmt.Sprintf("%d error(s) found", len(r.Failed())), 1)
	}
	return nil
}

// =============================================================================
// DIMENSION
// =============================================================================

func dimensionCommand() *cli.Command {
	return &cli.Command{
		Name:  "dimension",
		Usage: "Size the support team for a monthly ticket or event volume",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "load", Usage: "Monthly tickets or events", Required: true},
			&cli.StringFlag{Name: "coverage", Value: string(pricing.Coverage8x5), Usage: "Coverage window (8x5, 12x5, 12x6, 24x5, 24x7)"},
			&cli.StringFlag{Name: "level", Value: string(pricing.ServiceLevelStandard), Usage: "Service level (basic, standard, advanced, premium)"},
			&cli.Float64Flag{Name: "split", Value: pricing.DefaultTier1SplitPct, Usage: "Share of volume handled by tier 1, in percent"},
			&cli.Float64Flag{Name: "tma", Value: pricing.DefaultTMAMinutes, Usage: "Average handling time in minutes"},
			&cli.Float64Flag{Name: "occupancy", Value: pricing.DefaultOccupancyPct, Usage: "Target agent occupancy, in percent"},
			&cli.BoolFlag{Name: "six-hour-tier1", Usage: "Tier 1 works six-hour shifts"},
			&cli.BoolFlag{Name: "six-hour-tier2", Usage: "Tier 2 works six-hour shifts"},
			tablesFlag(),
		},
		Action: runDimension,
	}
}

func runDimension(c *cli.Context) error {
	req := pricing.StaffingRequest{
		LoadTotal:         c.Float64("load"),
		Coverage:          pricing.Coverage(c.String("coverage")),
		ServiceLevel:      pricing.ServiceLevel(c.String("level")),
		Tier1SplitPct:     c.Float64("split"),
		TMAMinutes:        c.Float64("tma"),
		OccupancyPct:      c.Float64("occupancy"),
		Tier1SixHourShift: c.Bool("six-hour-tier1"),
		Tier2SixHourShift: c.Bool("six-hour-tier2"),
	}
	if !req.Coverage.Valid() {
		return fmt.Errorf("unknown coverage %q", req.Coverage)
	}
	if !req.ServiceLevel.Valid() {
		return fmt.Errorf("unknown service level %q", req.ServiceLevel)
	}
	if req.LoadTotal < 0 {
		return errors.New("load must not be negative")
	}

	tables, err := readTables(c.String("tables"))
	if err != nil {
		return err
	}
	s := pricing.Dimension(req, tables)

	w := c.App.Writer
	fmt.Fprintf(w, "N1: %d (carga %d / capacidade %d)\n", s.Tier1.Headcount, s.Tier1.Workload, s.Tier1.Capacity)
	fmt.Fprintf(w, "N2: %d (carga %d / capacidade %d)\n", s.Tier2.Headcount, s.Tier2.Workload, s.Tier2.Capacity)
	if s.Tier3 > 0 {
		fmt.Fprintf(w, "N3: %d\n", s.Tier3)
	}
	fmt.Fprintf(w, "Erlangs: %s\n", report.Quantity(s.Erlangs))
	fmt.Fprintf(w, "Equipe recomendada (%s): %d\n", req.Coverage, s.RecommendedTotal())
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Render a priced proposal to PDF and/or Excel",
		Flags: []cli.Flag{
			inputFlag(),
			tablesFlag(),
			&cli.StringFlag{Name: "pdf", Usage: "Write the PDF proposal to this path"},
			&cli.StringFlag{Name: "xlsx", Usage: "Write the Excel proposal to this path"},
		},
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	pdfPath, xlsxPath := c.String("pdf"), c.String("xlsx")
	if pdfPath == "" && xlsxPath == "" {
		return errors.New("nothing to export: pass --pdf and/or --xlsx")
	}

	in, tables, err := loadProject(c)
	if err != nil {
		return err
	}
	result, err := pricing.Calculate(in, tables)
	if err != nil {
		return fmt.Errorf("calculation rejected: %w", err)
	}
	doc := report.Build(in, result, time.Now())

	if pdfPath != "" {
		body, err := report.GeneratePDF(doc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(pdfPath, body, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		slog.Info("proposal exported", "format", "pdf", "path", pdfPath, "bytes", len(body))
	}
	if xlsxPath != "" {
		body, err := report.GenerateExcel(doc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(xlsxPath, body, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		slog.Info("proposal exported", "format", "xlsx", "path", xlsxPath, "bytes", len(body))
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func loadProject(c *cli.Context) (pricing.ProjectInput, pricing.Tables, error) {
	in, err := readInput(c.String("input"))
	if err != nil {
		return pricing.ProjectInput{}, pricing.Tables{}, err
	}
	tables, err := readTables(c.String("tables"))
	if err != nil {
		return pricing.ProjectInput{}, pricing.Tables{}, err
	}
	return in, tables, nil
}

func readInput(path string) (pricing.ProjectInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pricing.ProjectInput{}, fmt.Errorf("read input: %w", err)
	}
	return store.DecodeInput(raw)
}

// readTables returns the default tables when path is empty.
func readTables(path string) (pricing.Tables, error) {
	if path == "" {
		return pricing.DefaultTables(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return pricing.Tables{}, fmt.Errorf("read tables: %w", err)
	}
	tables, err := store.DecodeTables(raw)
	if err != nil {
		return pricing.Tables{}, err
	}
	if err := validation.ValidateTables(tables); err != nil {
		return pricing.Tables{}, fmt.Errorf("invalid tables: %w", err)
	}
	return tables, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
