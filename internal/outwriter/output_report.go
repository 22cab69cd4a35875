package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/internal/parquet"
	"github.com/huangsam/bundlescope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintReport outputs the full analysis report, dispatching based on the output format configured.
// CSV carries the package table only; the workbook carries every section.
func PrintReport(report *schema.AnalysisReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	result := report.Result
	v := view{
		data: report,
		tables: func() []tabular {
			return []tabular{
				packageTable(result.Packages, fmtFloat),
				summaryTable(report, fmtFloat),
				duplicateTable(result.Duplicates),
				moduleTable(result.ModuleList()),
				suggestionTable(report.Suggestions),
			}
		},
		parquet: func(w io.Writer) error {
			return parquet.WriteRows(w, parquet.ConvertPackages(result.Packages, result.Duplicates, report.AnalyzedAt))
		},
		text: func(w io.Writer) error {
			return writeReportText(w, report, cfg, fmtFloat, duration)
		},
	}
	if err := render(cfg, v); err != nil {
		return fmt.Errorf("error writing report output: %w", err)
	}
	return nil
}

func summaryTable(report *schema.AnalysisReport, fmtFloat func(float64) string) tabular {
	result := report.Result
	t := tabular{
		sheet:  "Summary",
		header: []string{"metric", "value"},
		rows: [][]string{
			{"bundle_path", report.BundlePath},
			{"analyzed_at", report.AnalyzedAt.Format(time.RFC3339)},
			{"total_size_bytes", strconv.FormatInt(result.TotalSize, 10)},
			{"module_count", strconv.Itoa(len(result.Modules))},
			{"segment_mode", string(result.SegmentMode)},
			{"used_position_map", strconv.FormatBool(result.UsedMap)},
		},
	}
	for _, cat := range schema.AllCategories {
		size := result.Categories.Total(cat)
		t.rows = append(t.rows,
			[]string{string(cat) + "_bytes", strconv.FormatInt(size, 10)},
			[]string{string(cat) + "_percentage", fmtFloat(schema.Percentage(size, result.TotalSize))},
		)
	}
	t.rows = append(t.rows, []string{"unused_dependencies", strings.Join(report.Unused, "|")})
	return t
}

// writeReportText renders every report section as text.
func writeReportText(w io.Writer, report *schema.AnalysisReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	result := report.Result
	sections := []struct {
		emoji, title string
		write        func() error
	}{
		{"📊", "Summary", func() error { return writeSummary(w, report, fmtFloat) }},
		{"📦", "Packages", func() error { return writePackageTable(w, result.Packages, cfg, fmtFloat) }},
		{"👯", "Duplicates", func() error { return writeDuplicateTable(w, result.Duplicates, cfg) }},
		{"🪦", "Unused dependencies", func() error { return writeUnused(w, report.Unused) }},
		{"💡", "Suggestions", func() error { return writeSuggestionTable(w, report.Suggestions, cfg) }},
	}
	for _, s := range sections {
		if err := writeSectionHeader(w, cfg, s.emoji, s.title); err != nil {
			return err
		}
		if err := s.write(); err != nil {
			return err
		}
	}
	if report.FromCache {
		if _, err := fmt.Fprintln(w, "Result served from cache."); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, duration)
}

func writeSectionHeader(w io.Writer, cfg *contract.Config, emoji, title string) error {
	if cfg.UseEmojis {
		title = emoji + " " + title
	}
	_, err := fmt.Fprintf(w, "\n%s\n", title)
	return err
}

func writeSummary(w io.Writer, report *schema.AnalysisReport, fmtFloat func(float64) string) error {
	result := report.Result
	if _, err := fmt.Fprintf(w, "Bundle: %s\nTotal: %s in %d modules (segmentation: %s, position map: %t)\n",
		report.BundlePath, formatBytes(result.TotalSize), len(result.Modules), result.SegmentMode, result.UsedMap); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Size", "Share %"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, cat := range schema.AllCategories {
		size := result.Categories.Total(cat)
		data = append(data, []string{
			contract.GetCategoryLabel(cat),
			formatBytes(size),
			fmtFloat(schema.Percentage(size, result.TotalSize)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeUnused(w io.Writer, unused []string) error {
	if len(unused) == 0 {
		_, err := fmt.Fprintln(w, "None detected (or no manifest given).")
		return err
	}
	for _, name := range unused {
		if _, err := fmt.Fprintf(w, "  - %s\n", name); err != nil {
			return err
		}
	}
	return nil
}
