package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Simplici0/servicequote/internal/auth"
	"github.com/Simplici0/servicequote/internal/db"
	"github.com/Simplici0/servicequote/internal/migrations"
	"github.com/Simplici0/servicequote/internal/pricing"
	"github.com/Simplici0/servicequote/internal/store"
	"github.com/Simplici0/servicequote/internal/validation"
)

const (
	testEmail    = "admin@servicequote.local"
	testPassword = "12345"
)

func newTestServer(t *testing.T) (*server, http.Handler) {
	t.Helper()

	database, err := db.Open("sqlite", filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	if err := migrations.Up(database, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := store.New(database, "sqlite")
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := st.EnsureUser(context.Background(), testEmail, hash); err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	authService, err := auth.NewService(userStore{st}, "test-secret")
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	srv := &server{
		auth:  authService,
		store: st,
		now:   func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) },
	}
	return srv, srv.routes()
}

func do(t *testing.T, srv *server, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if srv != nil {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: srv.auth.SessionValue(testEmail)})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func nocInput() pricing.ProjectInput {
	in := pricing.NewProjectInput()
	in.Name = "NOC Indústria"
	in.Client = "Metalúrgica"
	in.ServiceLevel = pricing.ServiceLevelAdvanced
	in.Coverage = pricing.Coverage24x5
	in.LoadUnits = []pricing.LoadUnit{{Name: "servers", Quantity: 150, MetricsPerUnit: 25, EventsPerUnit: 3}}
	in.OperationalCosts = pricing.OperationalCosts{Server: 2000, MonitoringLicense: 900, Facility: 600}
	in.TaxRates = pricing.TaxRates{Federal: 9.25, Municipal: 5}
	in.Variables = pricing.Variables{ProfitMarginPct: 20, RiskMarginPct: 5}
	return in
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, nil, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[healthResponse](t, rec); got.Status != "ok" {
		t.Fatalf("unexpected health body: %+v", got)
	}
}

func TestAPI_RequiresSession(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, nil, h, http.MethodGet, "/api/projects", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decode[errorResponse](t, rec); got.Error != "unauthorized" {
		t.Fatalf("unexpected error body: %+v", got)
	}
}

func TestLogin(t *testing.T) {
	_, h := newTestServer(t)

	bad := do(t, nil, h, http.MethodPost, "/login", loginRequest{Email: testEmail, Password: "nope"})
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", bad.Code)
	}

	ok := do(t, nil, h, http.MethodPost, "/login", loginRequest{Email: testEmail, Password: testPassword})
	if ok.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", ok.Code, ok.Body.String())
	}
	cookies := ok.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != auth.CookieName {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("session cookie rejected: %d", rec.Code)
	}
}

func TestCalculate(t *testing.T) {
	srv, h := newTestServer(t)

	rec := do(t, srv, h, http.MethodPost, "/api/calculate", nocInput())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[pricing.CalculationResult](t, rec)
	want := pricing.CalculateAll(nocInput(), pricing.DefaultTables())
	if got.Price.FinalMonthlyPrice != want.Price.FinalMonthlyPrice {
		t.Fatalf("final price = %v, want %v", got.Price.FinalMonthlyPrice, want.Price.FinalMonthlyPrice)
	}
}

func TestCalculate_PartialBodyUsesDefaults(t *testing.T) {
	srv, h := newTestServer(t)

	rec := do(t, srv, h, http.MethodPost, "/api/calculate", `{"loadUnits":[{"name":"pcs","quantity":10,"eventsPerUnit":1}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[pricing.CalculationResult](t, rec)
	if got.Load.TotalDevices != 10 || !got.DerivedTeam {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestCalculate_RejectsTaxAtHundredPercent(t *testing.T) {
	srv, h := newTestServer(t)
	in := nocInput()
	in.TaxRates = pricing.TaxRates{Federal: 70, State: 30}

	rec := do(t, srv, h, http.MethodPost, "/api/calculate", in)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if got := decode[errorResponse](t, rec); got.Error != pricing.CodeTaxRateTooHigh {
		t.Fatalf("unexpected error: %+v", got)
	}
}

func TestCalculate_RejectsOverflowingLoad(t *testing.T) {
	srv, h := newTestServer(t)
	in := nocInput()
	in.LoadUnits = []pricing.LoadUnit{{Name: "sensors", Quantity: 1e200, EventsPerUnit: 1e200}}

	rec := do(t, srv, h, http.MethodPost, "/api/calculate", in)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	if got := decode[errorResponse](t, rec); got.Error != pricing.CodeNonFiniteResult || got.Field != "load.monthlyEvents" {
		t.Fatalf("unexpected error: %+v", got)
	}

	created := do(t, srv, h, http.MethodPost, "/api/projects", in)
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", created.Code, created.Body.String())
	}
	if p := decode[projectResponse](t, created); p.Result != nil || p.CalculationError == nil {
		t.Fatalf("expected stored draft without result: %+v", p)
	}
}

func TestValidate(t *testing.T) {
	srv, h := newTestServer(t)
	in := nocInput()
	in.Variables.ProfitMarginPct = -5

	rec := do(t, srv, h, http.MethodPost, "/api/validate", in)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[validation.Report](t, rec)
	if got.IsValid || got.Sections[validation.SectionVariables].IsValid {
		t.Fatalf("expected invalid variables section: %+v", got)
	}
}

func TestDimension(t *testing.T) {
	srv, h := newTestServer(t)

	rec := do(t, srv, h, http.MethodPost, "/api/dimension", `{"loadTotal":1000,"coverage":"8x5","serviceLevel":"standard"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[pricing.Staffing](t, rec)
	if got.Tier1.Headcount != 8 || got.Tier2.Headcount != 3 {
		t.Fatalf("unexpected staffing: %+v", got)
	}

	bad := do(t, srv, h, http.MethodPost, "/api/dimension", `{"loadTotal":10,"coverage":"9x9","serviceLevel":"standard"}`)
	if bad.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown coverage status = %d", bad.Code)
	}
}

func TestTables_PutChangesCalculation(t *testing.T) {
	srv, h := newTestServer(t)

	before := decode[pricing.CalculationResult](t, do(t, srv, h, http.MethodPost, "/api/calculate", nocInput()))

	rec := do(t, srv, h, http.MethodPut, "/api/tables",
		`{"serviceLevelMultiplier":{"basic":0.7,"standard":1,"advanced":3,"premium":2}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put tables status = %d: %s", rec.Code, rec.Body.String())
	}
	tables := decode[pricing.Tables](t, do(t, srv, h, http.MethodGet, "/api/tables", nil))
	if tables.ServiceLevelMultiplier[pricing.ServiceLevelAdvanced] != 3 || len(tables.ToolCostFactors) != len(pricing.DefaultTables().ToolCostFactors) {
		t.Fatalf("unexpected tables after put: %+v", tables)
	}

	after := decode[pricing.CalculationResult](t, do(t, srv, h, http.MethodPost, "/api/calculate", nocInput()))
	if after.MonthlyCosts.Infrastructure <= before.MonthlyCosts.Infrastructure {
		t.Fatalf("infrastructure cost should grow with the multiplier: %v -> %v",
			before.MonthlyCosts.Infrastructure, after.MonthlyCosts.Infrastructure)
	}
}

func TestTables_PutReplacesSections(t *testing.T) {
	srv, h := newTestServer(t)

	rec := do(t, srv, h, http.MethodPut, "/api/tables", `{"toolCostFactors":{"inhouse":0.3}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put tables status = %d: %s", rec.Code, rec.Body.String())
	}
	tables := decode[pricing.Tables](t, do(t, srv, h, http.MethodGet, "/api/tables", nil))
	if len(tables.ToolCostFactors) != 1 || tables.ToolCostFactors["inhouse"] != 0.3 {
		t.Fatalf("tool factors not replaced: %+v", tables.ToolCostFactors)
	}

	bad := do(t, srv, h, http.MethodPut, "/api/tables", `{"tierSalary":{"1":-10}}`)
	if bad.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative salary status = %d", bad.Code)
	}
	if got := decode[errorResponse](t, bad); got.Error != "invalid_tables" {
		t.Fatalf("unexpected error: %+v", got)
	}
}

func TestProjects_Lifecycle(t *testing.T) {
	srv, h := newTestServer(t)

	created := do(t, srv, h, http.MethodPost, "/api/projects", nocInput())
	if created.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", created.Code, created.Body.String())
	}
	p := decode[projectResponse](t, created)
	if p.ID == "" || p.Result == nil || !p.Validation.IsValid {
		t.Fatalf("unexpected created project: %+v", p)
	}

	list := decode[[]store.ProjectSummary](t, do(t, srv, h, http.MethodGet, "/api/projects?q=metal", nil))
	if len(list) != 1 || list[0].ID != p.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	in := nocInput()
	in.Coverage = pricing.Coverage24x7
	updated := do(t, srv, h, http.MethodPut, "/api/projects/"+p.ID, in)
	if updated.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", updated.Code, updated.Body.String())
	}
	up := decode[projectResponse](t, updated)
	if up.Input.Coverage != pricing.Coverage24x7 || up.Result == nil || up.Result.Staffing.CoverageMultiplier != 4 {
		t.Fatalf("update did not recompute: %+v", up.Result)
	}

	recalc := do(t, srv, h, http.MethodPost, "/api/projects/"+p.ID+"/calculate", nil)
	if recalc.Code != http.StatusOK {
		t.Fatalf("recalculate status = %d", recalc.Code)
	}

	if rec := do(t, srv, h, http.MethodDelete, "/api/projects/"+p.ID, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := do(t, srv, h, http.MethodGet, "/api/projects/"+p.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
}

func TestProjects_InvalidInputIsStoredWithoutResult(t *testing.T) {
	srv, h := newTestServer(t)
	in := nocInput()
	in.Variables.RiskMarginPct = 150

	rec := do(t, srv, h, http.MethodPost, "/api/projects", in)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	p := decode[projectResponse](t, rec)
	if p.Result != nil || p.CalculationError == nil || p.CalculationError.Code != pricing.CodeInvalidPercent {
		t.Fatalf("expected stored draft with calculation error: %+v", p)
	}

	report := do(t, srv, h, http.MethodGet, "/api/projects/"+p.ID+"/report.pdf", nil)
	if report.Code != http.StatusConflict {
		t.Fatalf("report on uncalculated project status = %d", report.Code)
	}
}

func TestProjects_Reports(t *testing.T) {
	srv, h := newTestServer(t)
	p := decode[projectResponse](t, do(t, srv, h, http.MethodPost, "/api/projects", nocInput()))

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"pdf", "application/pdf", "%PDF-"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "PK"},
		{"txt", "text/plain; charset=utf-8", "NOC Indústria"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, srv, h, http.MethodGet, "/api/projects/"+p.ID+"/report."+tt.format, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Fatalf("content type = %q", got)
			}
			if !strings.HasPrefix(rec.Body.String(), tt.prefix) {
				t.Fatalf("body does not start with %q", tt.prefix)
			}
		})
	}

	if rec := do(t, srv, h, http.MethodGet, "/api/projects/"+p.ID+"/report.doc", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown format status = %d", rec.Code)
	}
	if rec := do(t, srv, h, http.MethodGet, "/api/projects/missing/report.pdf", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown project status = %d", rec.Code)
	}
}
