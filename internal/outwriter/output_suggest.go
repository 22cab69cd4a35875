package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSuggestions outputs optimization suggestions, dispatching based on the output format configured.
func PrintSuggestions(suggestions []schema.Suggestion, cfg *contract.Config, duration time.Duration) error {
	v := view{
		data: suggestions,
		tables: func() []tabular {
			return []tabular{suggestionTable(suggestions)}
		},
		text: func(w io.Writer) error {
			if err := writeSuggestionTable(w, suggestions, cfg); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		},
	}
	if err := render(cfg, v); err != nil {
		return fmt.Errorf("error writing suggestion output: %w", err)
	}
	return nil
}

func suggestionTable(suggestions []schema.Suggestion) tabular {
	t := tabular{
		sheet:  "Suggestions",
		header: []string{"rank", "priority", "rule", "package", "title", "detail", "estimated_savings_bytes"},
		rows:   make([][]string, 0, len(suggestions)),
	}
	for i, s := range suggestions {
		t.rows = append(t.rows, []string{
			strconv.Itoa(i + 1),
			string(s.Priority),
			s.RuleID,
			s.Package,
			s.Title,
			s.Detail,
			strconv.FormatInt(s.EstimatedSavings, 10),
		})
	}
	return t
}

// writeSuggestionTable generates and writes the human-readable suggestion list.
func writeSuggestionTable(w io.Writer, suggestions []schema.Suggestion, cfg *contract.Config) error {
	if len(suggestions) == 0 {
		_, err := fmt.Fprintln(w, "No suggestions. The bundle looks lean.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Priority", "Suggestion", "Savings"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	titleWidth := GetMaxTablePathWidth(cfg, 30)
	var data [][]string
	var savings int64
	for _, s := range suggestions {
		saved := "-"
		if s.EstimatedSavings > 0 {
			saved = formatBytes(s.EstimatedSavings)
			savings += s.EstimatedSavings
		}
		data = append(data, []string{
			contract.GetPriorityLabel(s.Priority),
			contract.TruncatePath(s.Title, titleWidth),
			saved,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	for i, s := range suggestions {
		if _, err := fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, s.Title, s.Detail); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d suggestions, up to %s of potential savings\n", len(suggestions), formatBytes(savings))
	return err
}
