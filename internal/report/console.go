package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/digehode/wcag-zoo-runner/internal/model"
	"github.com/fatih/color"
)

// displayOrder is the order categories print in for one page.
var displayOrder = []string{
	model.CategorySuccess,
	model.CategoryFailures,
	model.CategoryWarnings,
	model.CategorySkipped,
}

// totalsOrder is the order categories appear in the closing summary,
// most severe first.
var totalsOrder = []string{
	model.CategoryFailures,
	model.CategoryWarnings,
	model.CategorySkipped,
	model.CategorySuccess,
}

// categoryHeaders maps each category to its console banner.
var categoryHeaders = map[string]string{
	model.CategorySuccess:  "✓ SUCCESSES",
	model.CategoryFailures: "✗ FAILURES",
	model.CategoryWarnings: "‼ WARNINGS",
	model.CategorySkipped:  "↷ SKIPPED",
}

// categoryColors maps each category to its banner colour.
var categoryColors = map[string]*color.Color{
	model.CategorySuccess:  color.New(color.FgGreen),
	model.CategoryFailures: color.New(color.FgRed),
	model.CategoryWarnings: color.New(color.FgHiRed),
	model.CategorySkipped:  color.New(color.FgBlue),
}

// categoryGates maps each category to the verbosity needed to show it.
// Failures print at every verbosity.
var categoryGates = map[string]model.Verbosity{
	model.CategoryFailures: model.VerbosityError,
	model.CategoryWarnings: model.VerbosityWarning,
	model.CategorySkipped:  model.VerbosityInfo,
	model.CategorySuccess:  model.VerbosityFull,
}

// ConsoleWriter streams human-readable results to a terminal.
//
// Design decision: findings print as tab-indented "key: value" blocks with
// a "----" rule after each one rather than as aligned tables because:
//  1. Blocks stay readable for long xpaths and messages that would wrap
//     badly in columns
//  2. Each field sits on its own line, so the output can be grepped
//  3. Streaming page by page needs no column-width bookkeeping across pages
type ConsoleWriter struct {
	baseWriter

	// verbosity gates which categories are shown.
	verbosity model.Verbosity
}

// ConsoleWriterOption configures a ConsoleWriter.
type ConsoleWriterOption func(*ConsoleWriter)

// WithConsoleVerbosity sets the category gating threshold.
func WithConsoleVerbosity(v model.Verbosity) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.verbosity = v
	}
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
// The default verbosity shows failures and warnings.
func NewConsoleWriter(output io.Writer, opts ...ConsoleWriterOption) *ConsoleWriter {
	w := &ConsoleWriter{
		baseWriter: newBaseWriter(output),
		verbosity:  model.VerbosityWarning,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the whole report: coverage gaps, every page in order, then
// the closing totals. A streaming caller uses WriteGaps, WritePage and
// WriteTotals directly instead.
func (w *ConsoleWriter) Write(report *model.AuditReport) (int, error) {
	var total int

	n, err := w.WriteGaps(report.Gaps)
	total += n
	if err != nil {
		return total, err
	}

	for _, page := range report.Pages {
		n, err := w.WritePage(page)
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = w.WriteTotals(report)
	return total + n, err
}

// WritePage outputs one page's result. The run command calls this from the
// batch callback so findings appear as each page completes.
func (w *ConsoleWriter) WritePage(result model.PageResult) (int, error) {
	var sb strings.Builder

	if result.Failed() {
		w.writePageError(&sb, result)
		return w.output.Write([]byte(sb.String()))
	}

	for _, category := range displayOrder {
		findings := result.Result[category]
		if len(findings) == 0 || w.verbosity < categoryGates[category] {
			continue
		}
		w.writeCategory(&sb, category, findings)
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteGaps outputs one warning line per route the URL plan does not cover.
// Nothing is written below the warning verbosity.
func (w *ConsoleWriter) WriteGaps(gaps []model.CoverageGap) (int, error) {
	if len(gaps) == 0 || w.verbosity < model.VerbosityWarning {
		return 0, nil
	}

	warn := categoryColors[model.CategoryWarnings]
	var sb strings.Builder
	for _, gap := range gaps {
		sb.WriteString(warn.Sprintf("Couldn't find a match for project URL '%s'", gap.Route))
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteTotals outputs the closing summary block. It is always written,
// whatever the verbosity, because it is the one-glance outcome of the run.
func (w *ConsoleWriter) WriteTotals(report *model.AuditReport) (int, error) {
	totals := report.Totals()

	var sb strings.Builder
	sb.WriteString("\nTOTALS\n")
	for _, category := range totalsOrder {
		label := categoryColors[category].Sprintf("%-12s", categoryHeaders[category])
		sb.WriteString(fmt.Sprintf("  %s %d\n", label, totals[category]))
	}

	line := fmt.Sprintf("  Pages: %d audited", len(report.Pages))
	if failed := len(report.FailedPages()); failed > 0 {
		line += fmt.Sprintf(", %d with errors", failed)
	}
	if report.Elapsed > 0 {
		line += fmt.Sprintf(" in %s", report.Elapsed.Round(time.Millisecond))
	}
	sb.WriteString(line)
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writePageError prints the error block for a page whose fetch or
// validation failed. Errors ignore the verbosity gate.
func (w *ConsoleWriter) writePageError(sb *strings.Builder, result model.PageResult) {
	sb.WriteString(categoryColors[model.CategoryFailures].Sprint("✗ ERROR"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("\turl: %s\n", result.URL))
	sb.WriteString(fmt.Sprintf("\terror: %s\n", result.Err))
	sb.WriteString("\t----\n")
}

// writeCategory prints the coloured banner for one category followed by
// its finding blocks.
func (w *ConsoleWriter) writeCategory(sb *strings.Builder, category string, findings []model.Finding) {
	sb.WriteString(categoryColors[category].Sprint(categoryHeaders[category]))
	sb.WriteString("\n")
	for _, finding := range findings {
		w.writeFinding(sb, finding)
	}
}

// writeFinding prints one finding as a tab-indented block closed by a rule.
// The shared fields print in a fixed order; extras follow sorted by key so
// the output is stable run to run.
func (w *ConsoleWriter) writeFinding(sb *strings.Builder, finding model.Finding) {
	sb.WriteString(fmt.Sprintf("\turl: %s\n", finding.URL))
	sb.WriteString(fmt.Sprintf("\tguideline: %s\n", finding.Guideline))
	sb.WriteString(fmt.Sprintf("\ttechnique: %s\n", finding.Technique))
	sb.WriteString(fmt.Sprintf("\txpath: %s\n", finding.XPath))
	sb.WriteString(fmt.Sprintf("\tclasses: %s\n", strings.Join(finding.Classes, ", ")))
	sb.WriteString(fmt.Sprintf("\tid: %s\n", finding.ID))
	if finding.Message != "" {
		sb.WriteString(fmt.Sprintf("\tmessage: %s\n", finding.Message))
	}

	keys := make([]string, 0, len(finding.Extra))
	for key := range finding.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("\t%s: %s\n", key, finding.Extra[key]))
	}

	sb.WriteString("\t----\n")
}
