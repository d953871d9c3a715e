package ui

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Amr-9/KeyRescue/pkg/classifier"
	"github.com/Amr-9/KeyRescue/pkg/keys"
	"github.com/Amr-9/KeyRescue/pkg/progress"
	"github.com/Amr-9/KeyRescue/pkg/validator"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorPurple = "\033[35m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

const barWidth = 40

var spinners = []string{"◐", "◓", "◑", "◒"}

// PrintBanner shows the program name and version
func PrintBanner(version string) {
	fmt.Println()
	fmt.Printf("%s%s", ColorCyan, ColorBold)
	fmt.Println("  ╔══════════════════════════════════════════════════════╗")
	fmt.Printf("  ║  KeyRescue %s• Bitcoin key recovery v%-16s%s║\n",
		ColorDim, version, ColorReset+ColorCyan+ColorBold)
	fmt.Println("  ╚══════════════════════════════════════════════════════╝")
	fmt.Print(ColorReset)
	fmt.Println()
}

// PrintCheckInfo displays the batch check configuration
func PrintCheckInfo(file string, candidates int, target string,
	network keys.Network, workers int) {

	fmt.Printf("    %s🔍 CHECKING%s %s%s%s %s(%s candidates, %s, %d workers)%s\n",
		ColorGreen+ColorBold, ColorReset,
		ColorBold+ColorCyan, file, ColorReset,
		ColorDim, FormatNumber(uint64(candidates)), network, workers,
		ColorReset)

	if target != "" {
		fmt.Printf("    %s🎯 TARGET%s   %s\n", ColorPurple+ColorBold,
			ColorReset, target)
	}
	fmt.Println()
}

// ProgressBar renders percent as a bar of barWidth cells.
func ProgressBar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	switch {
	case filled < 0:
		filled = 0
	case filled > barWidth:
		filled = barWidth
	}

	return strings.Repeat("▓", filled) + strings.Repeat("░", barWidth-filled)
}

// ProgressLine renders one frame of the live progress display. The bar is
// only drawn once the run has made its progress visible.
func ProgressLine(state progress.State, stats keys.Stats, frame int) string {
	spinner := spinners[frame%len(spinners)]

	bar := strings.Repeat(" ", barWidth)
	percent := "    "
	if state.ProgressVisible {
		bar = ProgressBar(state.Percent)
		percent = fmt.Sprintf("%3.0f%%", state.Percent)
	}

	return fmt.Sprintf("\r    %s%s%s %s%s%s %s │ %s%s%s │ %s%s%s │ %s",
		ColorCyan, spinner, ColorReset,
		ColorDim, bar, ColorReset,
		percent,
		ColorGreen+ColorBold, FormatRate(stats.Rate), ColorReset,
		ColorYellow, FormatNumber(stats.Checked), ColorReset,
		FormatDuration(state.Elapsed))
}

// PrintProgress shows animated progress bar
func PrintProgress(state progress.State, stats keys.Stats, frame int) {
	fmt.Print(ProgressLine(state, stats, frame))
}

// FormatOutcome renders the verdict on a single input.
func FormatOutcome(input string, kind keys.KeyType,
	outcome validator.Outcome) string {

	if outcome.IsValid() {
		return fmt.Sprintf("%s✓%s %s %s%s%s (%s)", ColorGreen+ColorBold,
			ColorReset, input, ColorCyan, kind, ColorReset, outcome.Detail)
	}

	return fmt.Sprintf("%s✗%s %s %s%v%s", ColorRed+ColorBold, ColorReset,
		input, ColorYellow, outcome, ColorReset)
}

// PrintOutcome prints the verdict on a single input.
func PrintOutcome(input string, kind keys.KeyType, outcome validator.Outcome) {
	fmt.Println("    " + FormatOutcome(input, kind, outcome))
}

// FormatAccept renders the classification of a partial key.
func FormatAccept(partial string, accept classifier.Accept) string {
	if accept.Complete {
		return fmt.Sprintf("%s✓%s %s is complete; validate it directly",
			ColorGreen+ColorBold, ColorReset, partial)
	}

	format := "uncompressed"
	if accept.Compressed {
		format = "compressed"
	}

	positions := make([]string, len(accept.Positions))
	for i, pos := range accept.Positions {
		positions[i] = fmt.Sprintf("%d", pos)
	}

	space := new(big.Int).Exp(big.NewInt(58), big.NewInt(int64(accept.Missing)), nil)

	return fmt.Sprintf("%s✓%s %s %s%s%s key, %d missing at [%s], "+
		"%s permutations", ColorGreen+ColorBold, ColorReset, partial,
		ColorCyan, format, ColorReset, accept.Missing,
		strings.Join(positions, " "), progress.FormatBig(space))
}

// PrintSummary prints the final report of a batch check.
func PrintSummary(state progress.State, results []keys.Result) {
	fmt.Println()

	for _, line := range strings.Split(strings.TrimSpace(state.Message), "\n") {
		if line == "" {
			continue
		}
		fmt.Printf("    %s%s%s\n", ColorDim, line, ColorReset)
	}
	fmt.Println()

	for _, r := range results {
		marker := ColorCyan + "•"
		if r.Matched {
			marker = ColorGreen + ColorBold + "★"
		}
		fmt.Printf("    %s%s %5d  %-24s %s\n", marker, ColorReset, r.Index,
			r.Type, r.Candidate)
	}

	if state.Status == progress.FinishedSuccess {
		fmt.Printf("\n    %s%s✨ KEY FOUND ✨%s\n", ColorGreen, ColorBold,
			ColorReset)
		fmt.Printf("    %s%s⚠  KEEP YOUR PRIVATE KEY SECRET!%s\n",
			ColorRed, ColorBold, ColorReset)
		return
	}

	fmt.Printf("\n    %s✗ No key found%s\n", ColorYellow+ColorBold, ColorReset)
}

// ClearLine clears the current line
func ClearLine() {
	fmt.Print("\r" + strings.Repeat(" ", 94) + "\r")
}

// FormatRate formats a keys per second rate nicely
func FormatRate(rate float64) string {
	if rate >= 1000000 {
		return fmt.Sprintf("%.1fM/s", rate/1000000)
	}
	if rate >= 1000 {
		return fmt.Sprintf("%.1fK/s", rate/1000)
	}
	return fmt.Sprintf("%.0f/s", rate)
}

// FormatNumber adds commas to large numbers
func FormatNumber(n uint64) string {
	return progress.FormatBig(new(big.Int).SetUint64(n))
}

// FormatDuration formats duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}
