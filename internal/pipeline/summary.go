package pipeline

import (
	"fmt"
	"io"

	"github.com/thrushlang/thrushc-sub007/colors"
)

// PrintSummary writes one line per checked unit followed by the totals
func PrintSummary(w io.Writer, results []*Result) {
	fmt.Fprintln(w)
	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")
	colors.CYAN.Fprintln(w, "          CHECK SUMMARY")
	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")

	failed := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		bag := r.Diagnostics
		if r.CanGenerate() {
			colors.GREEN.Fprintf(w, " ✓ %s", r.FilePath)
		} else {
			failed++
			colors.RED.Fprintf(w, " ✗ %s", r.FilePath)
		}
		fmt.Fprintf(w, " (%d error(s), %d warning(s))\n", bag.ErrorCount()+bag.BugCount(), bag.WarningCount())
	}

	fmt.Fprintf(w, "\nUnits: %d, failed: %d\n", len(results), failed)
}
