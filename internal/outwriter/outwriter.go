// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/bundlescope/internal/contract"
	"golang.org/x/term"
)

// Column budgets reserved next to the path column, including borders and padding.
const (
	moduleColumnsWidth    = 50 // Rank + ID + Size + Share + Category
	packageColumnsWidth   = 55 // Rank + Size + Share + Modules + Version + Label
	duplicateColumnsWidth = 45 // Rank + Copies + Size + Waste
)

// GetMaxTablePathWidth calculates the maximum width for paths and package names
// in table output based on terminal width and the other columns of the table.
func GetMaxTablePathWidth(cfg *contract.Config, fixedColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Calculate available space for path
	available := termWidth - fixedColumns - 10
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}

// writeFooter prints the timing line shared by every table view.
func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration) error {
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration.Round(time.Millisecond), cfg.CacheBackend)
	return err
}
