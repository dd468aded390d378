package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var suffixes = []string{"", "K", "M", "B", "T", "P", "E"}

// exponentialFrom is where standard notation gives up on suffixes.
const exponentialFrom = 1e21

// FormatNumber renders a resource amount for display. Standard notation
// uses K/M/B/T/P/E suffixes and switches to exponential form at 1e21;
// scientific notation uses exponential form from 1000 up.
func FormatNumber(v float64, scientific bool) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case v < 0:
		return "-" + FormatNumber(-v, scientific)
	}

	if v < 1000 {
		return formatSmall(v)
	}
	if scientific || v >= exponentialFrom {
		return formatExp(v)
	}

	tier := int(math.Log10(v) / 3)
	scaled := v / math.Pow(1000, float64(tier))
	// 999.996K must print as 1.00M, not 1000.00K
	if math.Round(scaled*100)/100 >= 1000 {
		tier++
		scaled /= 1000
	}
	if tier >= len(suffixes) {
		return formatExp(v)
	}
	return strconv.FormatFloat(scaled, 'f', 2, 64) + suffixes[tier]
}

// FormatRate renders a per-second rate.
func FormatRate(v float64, scientific bool) string {
	return FormatNumber(v, scientific) + "/s"
}

func formatSmall(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

func formatExp(v float64) string {
	return fmt.Sprintf("%.2e", v)
}

// FormatDuration renders a millisecond count as whole seconds.
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := (ms + 999) / 1000
	if secs >= 60 {
		return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%ds", secs)
}
