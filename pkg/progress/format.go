package progress

import (
	"fmt"
	"math/big"
	"time"
)

// FormatBig renders an arbitrary precision integer with thousands
// separators.
func FormatBig(n *big.Int) string {
	if n == nil {
		return "0"
	}

	s := n.String()
	neg := false
	if s[0] == '-' {
		neg, s = true, s[1:]
	}

	result := make([]byte, 0, len(s)+(len(s)-1)/3+1)
	if neg {
		result = append(result, '-')
	}
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, s[i])
	}
	return string(result)
}

// formatElapsed renders a duration as hh:mm:ss.mmm.
func formatElapsed(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := d.Milliseconds() % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
