// Package output provides utilities for formatting and displaying scenario reports.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/scenario-engine/internal/scenario"
	"github.com/iwvelando/scenario-engine/pkg/format"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, reports []scenario.Report) {
	for i, report := range reports {
		fmt.Fprintf(w, "--- Results for scenario %s ---\n", report.Name)
		fmt.Fprintf(w, "Year | Income | Expenses | Net | Discounted | Cumulative\n")
		fmt.Fprintf(w, "____ | ______ | ________ | ___ | __________ | __________\n")
		for _, row := range report.Projection.Rows {
			fmt.Fprintf(w, "%4d | %s | %s | %s | %s | %s\n", row.Year,
				format.Currency(row.Income), format.Currency(row.Expenses), format.Currency(row.Net),
				format.Currency(row.Discounted), format.Currency(row.Cumulative))
		}

		fmt.Fprintf(w, "NPV (%s escalation): %s\n", report.Projection.Escalation, format.Currency(report.Projection.NPV))
		fmt.Fprintf(w, "IRR: %s after %d iterations\n",
			format.Outcome(report.IRR.Rate, format.Percent), report.IRR.Iterations)

		writeSensitivity(w, report)

		if rehab := report.Rehab; rehab != nil {
			years := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + " years" }
			fmt.Fprintf(w, "Rehab: payback %s, annual ROI %s, %d-year ROI %s",
				format.Outcome(rehab.PaybackPeriod, years),
				format.Outcome(rehab.AnnualROI, format.Percent),
				rehab.Horizon,
				format.Outcome(rehab.HorizonROI, format.Percent))
			if rehab.NPV != nil {
				fmt.Fprintf(w, ", NPV %s", format.Currency(*rehab.NPV))
			}
			fmt.Fprintf(w, "\n")
		}

		if i < len(reports)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

func writeSensitivity(w io.Writer, report scenario.Report) {
	grid := report.Sensitivity
	if len(grid.Grid) == 0 {
		return
	}

	headers := make([]string, len(grid.CashflowMultipliers))
	for j, m := range grid.CashflowMultipliers {
		headers[j] = strconv.FormatFloat(m, 'f', 2, 64) + "x"
	}
	fmt.Fprintf(w, "Sensitivity (rate offset x cash-flow multiplier)\n")
	fmt.Fprintf(w, "Offset | %s\n", strings.Join(headers, " | "))
	for i, offset := range grid.RateOffsets {
		cells := make([]string, len(grid.Grid[i]))
		for j, cell := range grid.Grid[i] {
			cells[j] = format.Outcome(cell, format.Currency)
		}
		fmt.Fprintf(w, "%+.2f%% | %s\n", offset*100, strings.Join(cells, " | "))
	}
}

// CsvFormat writes one row per scenario year in comma-separated value format.
func CsvFormat(w io.Writer, reports []scenario.Report) error {
	out := csv.NewWriter(w)
	header := []string{"scenario", "year", "income", "expenses", "net", "discounted", "cumulative", "npv", "irr"}
	if err := out.Write(header); err != nil {
		return err
	}

	for _, report := range reports {
		npv := strconv.FormatFloat(report.Projection.NPV, 'f', 2, 64)
		irr := ""
		if report.IRR.Rate.Defined {
			irr = strconv.FormatFloat(report.IRR.Rate.Value, 'f', 6, 64)
		}
		for _, row := range report.Projection.Rows {
			record := []string{
				report.Name,
				strconv.Itoa(row.Year),
				strconv.FormatFloat(row.Income, 'f', 2, 64),
				strconv.FormatFloat(row.Expenses, 'f', 2, 64),
				strconv.FormatFloat(row.Net, 'f', 2, 64),
				strconv.FormatFloat(row.Discounted, 'f', 2, 64),
				strconv.FormatFloat(row.Cumulative, 'f', 2, 64),
				npv,
				irr,
			}
			if err := out.Write(record); err != nil {
				return err
			}
		}
	}

	out.Flush()
	return out.Error()
}
