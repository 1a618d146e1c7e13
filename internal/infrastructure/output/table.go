package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/reglet-dev/sst/internal/application/dto"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// TableFormatter formats reports as human-readable text.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter. Color is off until the
// caller enables it.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

// Format writes the report as a table.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) Format(report *dto.SandboxReport) error {
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 60), colorGray))
	fmt.Fprintf(f.writer, "Landlock ABI: %s\n", f.colorize(fmt.Sprintf("v%d", report.ABI), colorBold))
	if report.Newer {
		fmt.Fprintf(f.writer, "  %s\n", f.colorize(fmt.Sprintf("newer than v%d, the newest known version", report.NewestKnownABI), colorYellow))
	}
	fmt.Fprintf(f.writer, "Kernel: %s\n", report.Kernel)
	if report.Stage != "" {
		fmt.Fprintf(f.writer, "Stage: %s\n", report.Stage)
	}
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 60), colorGray))

	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Filesystem rights:\t%s\n", joinOrNone(report.HandledFilesystem))
	fmt.Fprintf(tw, "Network rights:\t%s\n", joinOrNone(report.HandledNetwork))
	fmt.Fprintf(tw, "Restrict flags:\t%s\n", joinOrNone(report.RestrictFlags))
	if err := tw.Flush(); err != nil {
		return err
	}

	if report.Rules != nil {
		f.formatRules(report.Rules)
	}

	if len(report.Command) > 0 {
		fmt.Fprintln(f.writer)
		fmt.Fprintf(f.writer, "Command: %s (%s)\n", f.colorize(strings.Join(report.Command, " "), colorGreen), report.CommandPath)
	}
	return nil
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatRules(rules []dto.RuleReport) {
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer, f.colorize("Rules:", colorBold))
	if len(rules) == 0 {
		fmt.Fprintln(f.writer, "  (none: everything handled is denied)")
		return
	}

	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	for _, r := range rules {
		fmt.Fprintf(tw, "  %s\t%s\n", f.colorize(r.Subject, colorCyan), joinOrNone(r.Granted))
	}
	_ = tw.Flush()
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
