package integration

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iwvelando/scenario-engine/internal/cache"
	"github.com/iwvelando/scenario-engine/internal/config"
	"github.com/iwvelando/scenario-engine/internal/scenario"
	"github.com/iwvelando/scenario-engine/internal/server"
	"github.com/iwvelando/scenario-engine/pkg/finance"
	"github.com/iwvelando/scenario-engine/pkg/mathutil"
	"github.com/iwvelando/scenario-engine/pkg/output"
	"github.com/iwvelando/scenario-engine/pkg/testutil"
	"go.uber.org/zap"
)

const testConfig = "../test_config.yaml"

func runTestConfig(t *testing.T) (*config.Configuration, []scenario.Report) {
	t.Helper()

	conf, err := config.LoadConfiguration(testConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	reports, err := scenario.Run(zap.NewNop(), *conf)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return conf, reports
}

// TestMainIntegrationBaseline runs the configuration through the same steps as
// the command line tool and checks the headline figures.
func TestMainIntegrationBaseline(t *testing.T) {
	conf, reports := runTestConfig(t)

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "vacant lot") {
		t.Errorf("expected a single warning about the vacant lot, got %v", warnings)
	}

	expectedScenarios := []string{"steady duplex", "corner retail", "vacant lot"}
	if len(reports) != len(expectedScenarios) {
		t.Fatalf("expected %d reports, got %d", len(expectedScenarios), len(reports))
	}
	for i, name := range expectedScenarios {
		if reports[i].Name != name {
			t.Errorf("report %d = %q, expected %q", i, reports[i].Name, name)
		}
	}
	if testutil.FindReport(reports, "mothballed warehouse") != nil {
		t.Error("inactive scenario should not be evaluated")
	}

	tests := []struct {
		name       string
		npv        float64
		irr        float64
		irrDefined bool
		irrReason  string
	}{
		{name: "steady duplex", npv: 0, irr: 0, irrDefined: true},
		{name: "corner retail", npv: 4868.52, irr: 0.233752, irrDefined: true},
		{name: "vacant lot", npv: -67729.75, irrReason: finance.ReasonNoInflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := testutil.FindReport(reports, tt.name)
			if report == nil {
				t.Fatalf("missing report %q", tt.name)
			}
			if mathutil.Round(report.Projection.NPV) != tt.npv {
				t.Errorf("NPV = %v, expected %v", report.Projection.NPV, tt.npv)
			}
			if report.IRR.Rate.Defined != tt.irrDefined {
				t.Fatalf("IRR = %+v, expected defined=%v", report.IRR.Rate, tt.irrDefined)
			}
			if tt.irrDefined && !mathutil.WithinTolerance(report.IRR.Rate.Value, tt.irr, 1e-4) {
				t.Errorf("IRR = %v, expected about %v", report.IRR.Rate.Value, tt.irr)
			}
			if !tt.irrDefined && report.IRR.Rate.Reason != tt.irrReason {
				t.Errorf("IRR reason = %q, expected %q", report.IRR.Rate.Reason, tt.irrReason)
			}
		})
	}
}

func TestRehabAndSensitivity(t *testing.T) {
	_, reports := runTestConfig(t)

	retail := testutil.FindReport(reports, "corner retail")
	if retail == nil || retail.Rehab == nil {
		t.Fatal("expected a rehab result for corner retail")
	}
	if retail.Rehab.Horizon != 10 || retail.Rehab.PaybackPeriod.Value != 3 {
		t.Errorf("unexpected rehab result %+v", retail.Rehab)
	}
	if retail.Rehab.NPV == nil || mathutil.Round(*retail.Rehab.NPV) != 31445.67 {
		t.Errorf("rehab NPV = %v, expected 31445.67", retail.Rehab.NPV)
	}

	duplex := testutil.FindReport(reports, "steady duplex")
	if duplex.Rehab != nil {
		t.Error("steady duplex has no rehab section")
	}
	grid := duplex.Sensitivity
	if len(grid.Grid) != 5 || len(grid.Grid[0]) != 3 {
		t.Fatalf("expected the default 5x3 grid, got %dx%d", len(grid.Grid), len(grid.Grid[0]))
	}
	for _, row := range grid.Grid[:2] {
		for _, cell := range row {
			if cell.Defined || cell.Reason != finance.ReasonRateOutOfRange {
				t.Errorf("negative rates should be out of range, got %+v", cell)
			}
		}
	}
	if center := grid.Grid[2][1]; !center.Defined || center.Value != duplex.Projection.NPV {
		t.Errorf("center cell %+v should equal the projection NPV %v", center, duplex.Projection.NPV)
	}
}

func TestCSVOutputFormat(t *testing.T) {
	_, reports := runTestConfig(t)

	var buf bytes.Buffer
	if err := output.CsvFormat(&buf, reports); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("generated CSV does not parse: %v", err)
	}
	if len(records) != 1+5+3+4 {
		t.Fatalf("expected header plus 12 rows, got %d records", len(records))
	}

	first := records[6]
	expected := []string{"corner retail", "1", "13000.00", "3000.00", "10000.00", "9090.91", "-10909.09", "4868.52"}
	for i, want := range expected {
		if first[i] != want {
			t.Errorf("column %s = %q, expected %q", records[0][i], first[i], want)
		}
	}
	if !strings.HasPrefix(first[8], "0.2337") {
		t.Errorf("irr column = %q, expected 0.2337...", first[8])
	}

	for _, record := range records[9:] {
		if record[0] != "vacant lot" || record[8] != "" {
			t.Errorf("vacant lot rows should have an empty irr, got %v", record)
		}
	}
}

func TestPrettyOutputFormat(t *testing.T) {
	_, reports := runTestConfig(t)

	var buf bytes.Buffer
	output.PrettyFormat(&buf, reports)
	out := buf.String()

	expected := []string{
		"--- Results for scenario steady duplex ---",
		"--- Results for scenario corner retail ---",
		"NPV (flat escalation): $4,868.52",
		"Rehab: payback 3.00 years, annual ROI 33.33%, 10-year ROI 233.33%, NPV $31,445.67",
		"NPV (compound escalation): -$67,729.75",
		"IRR: n/a (no-inflow) after 0 iterations",
		"-2.00% | n/a (rate-out-of-range)",
	}
	for _, want := range expected {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output missing %q", want)
		}
	}
	if strings.Contains(out, "mothballed warehouse") {
		t.Error("pretty output includes an inactive scenario")
	}
}

func TestHTTPEndToEnd(t *testing.T) {
	results := cache.NewMemoryCache()
	service := scenario.NewService(zap.NewNop(), nil, scenario.Options{Cache: results})
	srv := httptest.NewServer(server.NewHandler(zap.NewNop(), service, 0, "test"))
	defer srv.Close()

	body := `{"years":3,"discountRate":0.1,"initialInvestment":20000,"income":{"base":13000},"expenses":{"base":3000},"escalation":"flat"}`

	var projections []finance.Projection
	for i := 0; i < 2; i++ {
		resp, err := http.Post(srv.URL+"/api/v1/cashflow", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST /api/v1/cashflow: %v", err)
		}
		var envelope struct {
			Data finance.Projection `json:"data"`
		}
		err = json.NewDecoder(resp.Body).Decode(&envelope)
		_ = resp.Body.Close()
		if err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}
		projections = append(projections, envelope.Data)
	}

	if mathutil.Round(projections[0].NPV) != 4868.52 {
		t.Errorf("NPV = %v, expected 4868.52", projections[0].NPV)
	}
	if projections[1].NPV != projections[0].NPV {
		t.Errorf("cached response NPV %v differs from %v", projections[1].NPV, projections[0].NPV)
	}
	if results.Len() != 1 {
		t.Errorf("expected one cached projection, got %d", results.Len())
	}
}
