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

// PrintPackages outputs package aggregates, dispatching based on the output format configured.
func PrintPackages(packages []schema.PackageAggregate, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	v := view{
		data: schema.EnrichPackages(packages),
		tables: func() []tabular {
			return []tabular{packageTable(packages, fmtFloat)}
		},
		parquet: func(w io.Writer) error {
			return parquet.WriteRows(w, parquet.ConvertPackages(packages, nil, time.Now().UTC()))
		},
		text: func(w io.Writer) error {
			if err := writePackageTable(w, packages, cfg, fmtFloat); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		},
	}
	if err := render(cfg, v); err != nil {
		return fmt.Errorf("error writing package output: %w", err)
	}
	return nil
}

// PrintDuplicates outputs duplicate package findings, dispatching based on the output format configured.
func PrintDuplicates(findings []schema.DuplicatePackageFinding, cfg *contract.Config, duration time.Duration) error {
	v := view{
		data: findings,
		tables: func() []tabular {
			return []tabular{duplicateTable(findings)}
		},
		text: func(w io.Writer) error {
			if err := writeDuplicateTable(w, findings, cfg); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		},
	}
	if err := render(cfg, v); err != nil {
		return fmt.Errorf("error writing duplicate output: %w", err)
	}
	return nil
}

func packageTable(packages []schema.PackageAggregate, fmtFloat func(float64) string) tabular {
	t := tabular{
		sheet:  "Packages",
		header: []string{"rank", "package", "size_bytes", "percentage", "label", "modules", "installed_version"},
		rows:   make([][]string, 0, len(packages)),
	}
	for i, p := range packages {
		t.rows = append(t.rows, []string{
			strconv.Itoa(i + 1),
			p.Name,
			strconv.FormatInt(p.TotalSizeBytes, 10),
			fmtFloat(p.PercentageOfBundle),
			schema.GetPlainLabel(p.PercentageOfBundle),
			strconv.Itoa(len(p.MemberModules)),
			p.InstalledVersion,
		})
	}
	return t
}

func duplicateTable(findings []schema.DuplicatePackageFinding) tabular {
	t := tabular{
		sheet:  "Duplicates",
		header: []string{"rank", "package", "copies", "total_size_bytes", "estimated_wasted_bytes", "install_locations"},
		rows:   make([][]string, 0, len(findings)),
	}
	for i, d := range findings {
		t.rows = append(t.rows, []string{
			strconv.Itoa(i + 1),
			d.Name,
			strconv.Itoa(len(d.InstallLocations)),
			strconv.FormatInt(d.TotalSizeBytes, 10),
			strconv.FormatFloat(d.EstimatedWastedBytes, 'f', 0, 64),
			strings.Join(d.InstallLocations, "|"),
		})
	}
	return t
}

// writePackageTable generates and writes the human-readable package table.
func writePackageTable(w io.Writer, packages []schema.PackageAggregate, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Package", "Size", "Share %", "Modules", "Version", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTablePathWidth(cfg, packageColumnsWidth)
	var data [][]string
	for i, p := range packages {
		version := p.InstalledVersion
		if version == "" {
			version = "-"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(p.Name, nameWidth),
			formatBytes(p.TotalSizeBytes),
			fmtFloat(p.PercentageOfBundle),
			strconv.Itoa(len(p.MemberModules)),
			version,
			contract.GetColorLabel(p.PercentageOfBundle),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d packages\n", len(packages))
	return err
}

// writeDuplicateTable generates and writes the human-readable duplicate table.
func writeDuplicateTable(w io.Writer, findings []schema.DuplicatePackageFinding, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Package", "Copies", "Size", "Waste", "Owners"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTablePathWidth(cfg, duplicateColumnsWidth)
	var data [][]string
	var waste float64
	for i, d := range findings {
		owners := make([]string, len(d.InstallLocations))
		for j, loc := range d.InstallLocations {
			owners[j] = schema.ShortLocation(loc)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(d.Name, nameWidth),
			strconv.Itoa(len(d.InstallLocations)),
			formatBytes(d.TotalSizeBytes),
			formatBytes(int64(d.EstimatedWastedBytes)),
			contract.TruncatePath(strings.Join(owners, ", "), nameWidth),
		})
		waste += d.EstimatedWastedBytes
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Found %d duplicated packages (estimated waste: %s)\n", len(findings), formatBytes(int64(waste)))
	return err
}
