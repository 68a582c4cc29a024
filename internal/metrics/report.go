// internal/metrics/report.go
package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// WriteTSV writes the metric report as the tab-separated table the site
// build consumes: header `Date <models...> # case`, one row per month,
// Overall last, scores with four decimals.
func WriteTSV(report Report, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating report file %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = '\t'

	header := append([]string{"Date"}, report.Models...)
	header = append(header, "# case")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing report header: %w", err)
	}

	for _, row := range report.Rows {
		record := make([]string, 0, len(report.Models)+2)
		record = append(record, row.Date)
		for _, model := range report.Models {
			record = append(record, fmt.Sprintf("%.4f", row.Scores[model]))
		}
		record = append(record, fmt.Sprintf("%d", row.CaseCount))
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing report row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing report: %w", err)
	}
	return nil
}

var (
	reportHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	reportCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	reportTotalStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// RenderTable renders the report for the terminal.
func RenderTable(report Report) string {
	widths := columnWidths(report)

	var lines []string
	header := make([]string, 0, len(report.Models)+2)
	header = append(header, pad("Date", widths[0]))
	for i, model := range report.Models {
		header = append(header, pad(model, widths[i+1]))
	}
	header = append(header, pad("# case", widths[len(widths)-1]))
	lines = append(lines, reportHeaderStyle.Render(strings.Join(header, "  ")))

	for _, row := range report.Rows {
		cells := make([]string, 0, len(report.Models)+2)
		cells = append(cells, pad(row.Date, widths[0]))
		for i, model := range report.Models {
			cells = append(cells, pad(fmt.Sprintf("%.4f", row.Scores[model]), widths[i+1]))
		}
		cells = append(cells, pad(fmt.Sprintf("%d", row.CaseCount), widths[len(widths)-1]))

		style := reportCellStyle
		if row.Date == OverallRow {
			style = reportTotalStyle
		}
		lines = append(lines, style.Render(strings.Join(cells, "  ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func columnWidths(report Report) []int {
	widths := make([]int, len(report.Models)+2)
	widths[0] = len("Date")
	for _, row := range report.Rows {
		if len(row.Date) > widths[0] {
			widths[0] = len(row.Date)
		}
	}
	for i, model := range report.Models {
		widths[i+1] = len(model)
		if widths[i+1] < 6 {
			widths[i+1] = 6
		}
	}
	widths[len(widths)-1] = len("# case")
	return widths
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
