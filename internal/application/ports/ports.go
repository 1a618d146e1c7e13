// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"io"

	"github.com/reglet-dev/sst/internal/application/dto"
)

// ReportFormatter formats a sandbox report.
type ReportFormatter interface {
	Format(report *dto.SandboxReport) error
}

// FormatterFactory creates formatters by name.
type FormatterFactory interface {
	Create(format string, writer io.Writer) (ReportFormatter, error)
	SupportedFormats() []string
}
