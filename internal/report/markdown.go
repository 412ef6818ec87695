package report

import (
	"io"
	"strconv"
	"time"

	"github.com/digehode/wcag-zoo-runner/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// categorySymbols maps each category to the marker used in section
// headers and summary rows.
var categorySymbols = map[string]string{
	model.CategoryFailures: "✗",
	model.CategoryWarnings: "‼",
	model.CategorySkipped:  "↷",
	model.CategorySuccess:  "✓",
}

// categoryTitles holds display names that are not a plain title-casing of
// the bucket name.
var categoryTitles = map[string]string{
	model.CategorySuccess: "Successes",
}

// categoryTitle returns the human display name for a result bucket.
func categoryTitle(category string) string {
	if title, ok := categoryTitles[category]; ok {
		return title
	}
	return cases.Title(language.English).String(category)
}

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeGaps(md, report)
	w.writePages(md, report)
	w.writeFindings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AuditReport) {
	md.H1("WCAG Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target + "`"},
			{"Conformance Level", report.Level},
			{"Audit Date", report.DateStarted.Format("2006-01-02 15:04:05 MST")},
			{"Pages Audited", strconv.Itoa(len(report.Pages))},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.AuditReport) string {
	if failed := len(report.FailedPages()); failed > 0 {
		return "❌ " + strconv.Itoa(failed) + " page(s) errored"
	}
	return "✅ Complete"
}

// writeSummary writes the category summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Category Summary")
	md.PlainText("")

	totals := report.Totals()
	var total int
	for _, count := range totals {
		total += count
	}

	rows := make([][]string, 0, len(model.Categories)+1)
	for _, category := range model.Categories {
		rows = append(rows, []string{
			categorySymbols[category] + " " + categoryTitle(category),
			strconv.Itoa(totals[category]),
		})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(total) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if total > 0 {
		w.writePieChart(md, totals)
	}

	w.writeAlert(md, report, totals)
}

// writePieChart writes a mermaid pie chart of the category distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, totals map[string]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Category Distribution"),
		piechart.WithShowData(true),
	)

	for _, category := range model.Categories {
		if totals[category] > 0 {
			chart.LabelAndIntValue(categoryTitle(category), uint64(totals[category]))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the finding counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.AuditReport, totals map[string]int) {
	switch {
	case totals[model.CategoryFailures] > 0:
		md.Cautionf(
			"%d accessibility failure(s) detected. The audited pages do not meet WCAG level %s.",
			totals[model.CategoryFailures], report.Level,
		)
	case totals[model.CategoryWarnings] > 0:
		md.Warningf(
			"%d warning(s) need manual review before the pages can be considered conformant.",
			totals[model.CategoryWarnings],
		)
	case totals[model.CategorySuccess] > 0:
		md.Tip("All checks passed at WCAG level " + report.Level + ".")
	default:
		md.Note("No checks produced findings. Verify the audited pages contain content.")
	}
	md.PlainText("")
}

// writeGaps writes the coverage gap section.
func (w *MarkdownWriter) writeGaps(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Coverage Gaps")
	md.PlainText("")

	if len(report.Gaps) == 0 {
		md.PlainText("Every discovered route is covered by the URL plan.")
		md.PlainText("")
		return
	}

	md.Importantf("%d route(s) are not covered by the URL plan.", len(report.Gaps))
	md.PlainText("")

	routes := make([]string, len(report.Gaps))
	for i, gap := range report.Gaps {
		routes[i] = "`" + gap.Route + "`"
	}
	md.BulletList(routes...)
	md.PlainText("")
}

// writePages writes the per-page outcome table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Pages")
	md.PlainText("")

	if len(report.Pages) == 0 {
		md.PlainText("No pages were audited.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Pages))
	for i, page := range report.Pages {
		rows[i] = []string{
			truncateString(page.URL, 60),
			w.pageStatus(page),
			strconv.Itoa(len(page.Result[model.CategoryFailures])),
			strconv.Itoa(len(page.Result[model.CategoryWarnings])),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Failures", "Warnings"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, page := range report.FailedPages() {
		md.Details("Error: "+page.URL, page.Err)
	}
	md.PlainText("")
}

// pageStatus describes one page's outcome for the page table.
func (w *MarkdownWriter) pageStatus(page model.PageResult) string {
	switch {
	case page.Failed():
		return "error"
	case page.Skipped:
		return "skipped (not HTML)"
	default:
		return strconv.Itoa(page.StatusCode)
	}
}

// writeFindings writes all findings grouped by category.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Findings")
	md.PlainText("")

	totals := report.Totals()
	var total int
	for _, count := range totals {
		total += count
	}
	if total == 0 {
		md.PlainText("No findings recorded.")
		md.PlainText("")
		return
	}

	for _, category := range model.Categories {
		findings := findingsByCategory(report, category)
		if len(findings) == 0 {
			continue
		}

		md.PlainText("### " + categorySymbols[category] + " " + categoryTitle(category))
		md.PlainText("")
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	headers := []string{"URL", "Guideline", "Technique", "XPath", "Message"}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		rows[i] = []string{
			truncateString(f.URL, 40),
			truncateString(f.Guideline, 35),
			f.Technique,
			truncateString(f.XPath, 40),
			truncateString(f.Message, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wcag-zoo-runner](https://github.com/digehode/wcag-zoo-runner)*")
}

// findingsByCategory collects one category's findings across every page,
// preserving page order.
func findingsByCategory(report *model.AuditReport, category string) []model.Finding {
	var findings []model.Finding
	for _, page := range report.Pages {
		findings = append(findings, page.Result[category]...)
	}
	return findings
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
