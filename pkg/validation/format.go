// Package validation provides input validation utilities and the InvalidInput
// error kind shared by the engine, the CLI and the HTTP service.
package validation

import (
	"github.com/iwvelando/scenario-engine/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return Invalid("output.format", "expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}
