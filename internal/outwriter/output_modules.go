package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/bundlescope/core/provenance"
	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/internal/parquet"
	"github.com/huangsam/bundlescope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintModules outputs a module listing, dispatching based on the output format configured.
func PrintModules(modules []schema.ModuleRecord, cfg *contract.Config, duration time.Duration) error {
	if err := render(cfg, moduleView(modules, cfg, duration)); err != nil {
		return fmt.Errorf("error writing module output: %w", err)
	}
	return nil
}

func moduleView(modules []schema.ModuleRecord, cfg *contract.Config, duration time.Duration) view {
	return view{
		data: schema.EnrichModules(modules, provenance.IsSynthetic),
		tables: func() []tabular {
			return []tabular{moduleTable(modules)}
		},
		parquet: func(w io.Writer) error {
			return parquet.WriteRows(w, parquet.ConvertModules(modules))
		},
		text: func(w io.Writer) error {
			return writeModuleTable(w, modules, cfg, duration)
		},
	}
}

func moduleTable(modules []schema.ModuleRecord) tabular {
	t := tabular{
		sheet:  "Modules",
		header: []string{"rank", "id", "chunk_index", "path", "size_bytes", "package", "category", "structural", "synthetic"},
		rows:   make([][]string, 0, len(modules)),
	}
	for i, m := range modules {
		t.rows = append(t.rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(m.ID),
			strconv.Itoa(m.ChunkIndex),
			m.Path,
			strconv.FormatInt(m.SizeBytes, 10),
			m.Package,
			string(m.Category),
			strconv.FormatBool(m.Structural),
			strconv.FormatBool(provenance.IsSynthetic(m.Path)),
		})
	}
	return t
}

// writeModuleTable generates and writes the human-readable module table.
func writeModuleTable(w io.Writer, modules []schema.ModuleRecord, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", "ID", "Size", "Category"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := GetMaxTablePathWidth(cfg, moduleColumnsWidth)
	var data [][]string
	var shown int64
	for i, m := range modules {
		path := m.Path
		if !m.Structural {
			path += " *"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(path, pathWidth),
			strconv.Itoa(m.ID),
			formatBytes(m.SizeBytes),
			contract.GetCategoryLabel(m.Category),
		})
		shown += m.SizeBytes
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d modules (%s). Paths marked * were recovered without a module head.\n", len(modules), formatBytes(shown)); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}
