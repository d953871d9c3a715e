package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Amr-9/KeyRescue/pkg/keys"
)

// FormatReport renders the saved report of a batch check. Only private
// keys are written; a target run only writes the keys that matched.
func FormatReport(results []keys.Result, stats keys.Stats,
	network keys.Network, target string, generated time.Time) string {

	var b strings.Builder
	b.WriteString("Recovered Bitcoin Keys\n")
	b.WriteString("======================\n\n")
	fmt.Fprintf(&b, "Network: %s\n", network)
	if target != "" {
		fmt.Fprintf(&b, "Target:  %s\n", target)
	}
	b.WriteString("\n")

	written := 0
	for _, r := range results {
		if !r.Type.IsPrivateKey() || (target != "" && !r.Matched) {
			continue
		}
		written++

		fmt.Fprintf(&b, "Candidate:   %s (line %d)\n", r.Candidate, r.Index+1)
		fmt.Fprintf(&b, "Type:        %s\n", r.Type)
		fmt.Fprintf(&b, "Private Key: %s\n\n", r.WIF)
	}
	if written == 0 {
		b.WriteString("No private key recovered.\n\n")
	}

	fmt.Fprintf(&b, "Statistics:\n  Time:    %s\n  Checked: %s\n  Valid:   %s\n\n",
		FormatDuration(time.Duration(stats.ElapsedSecs*float64(time.Second))),
		FormatNumber(stats.Checked), FormatNumber(stats.Valid))
	fmt.Fprintf(&b, "Generated: %s\n\n", generated.Format("2006-01-02 15:04:05"))
	b.WriteString("⚠️ WARNING: Keep these private keys secret and secure!\n")

	return b.String()
}

// SaveResults writes the report to path, readable by the owner only.
func SaveResults(path string, results []keys.Result, stats keys.Stats,
	network keys.Network, target string) error {

	content := FormatReport(results, stats, network, target, time.Now())
	return os.WriteFile(path, []byte(content), 0600)
}
