// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/scenario-engine/internal/scenario"
)

// FindReport finds a report by scenario name in the results slice.
// Returns a pointer to the report if found, nil otherwise.
func FindReport(reports []scenario.Report, name string) *scenario.Report {
	for i := range reports {
		if reports[i].Name == name {
			return &reports[i]
		}
	}
	return nil
}
