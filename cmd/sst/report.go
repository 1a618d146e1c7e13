package main

import (
	"os"

	"github.com/reglet-dev/sst/internal/application/dto"
	"github.com/reglet-dev/sst/internal/infrastructure/output"
)

// writeReport renders report in the --format chosen by the user.
func (a *app) writeReport(report *dto.SandboxReport) error {
	formatter, err := output.NewFormatterFactory().Create(a.format, a.stdout)
	if err != nil {
		return err
	}
	if table, ok := formatter.(*output.TableFormatter); ok {
		table.EnableColor = isTerminal(a.stdout)
	}
	return formatter.Format(report)
}

func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
