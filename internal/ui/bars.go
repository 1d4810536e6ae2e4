package ui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	barRows     = 3
	minBarLevel = 0.04
)

var barBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// barHeight maps a bucket in [0,255] to a fraction of the bar cluster,
// never below a sliver so idle bars stay visible.
func barHeight(f float64) float64 {
	return max(minBarLevel, min(1, f/255))
}

// barBrightness maps a bucket in [0,255] to [0.1, 1].
func barBrightness(f float64) float64 {
	return 0.1 + 0.9*max(0, min(1, f/255))
}

// grayStyle picks a color on the 24-step grayscale ramp (232..255).
func grayStyle(brightness float64) lipgloss.Style {
	idx := 232 + int(math.Round(brightness*23))
	return lipgloss.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(idx)))
}

// renderBars draws one column per bucket, barRows tall, in eighth blocks.
func renderBars(levels []float64) string {
	eighths := make([]int, len(levels))
	styles := make([]lipgloss.Style, len(levels))
	for i, f := range levels {
		eighths[i] = max(1, int(math.Round(barHeight(f)*barRows*8)))
		styles[i] = grayStyle(barBrightness(f))
	}

	rows := make([]string, barRows)
	for r := range barRows {
		floor := (barRows - 1 - r) * 8
		var sb strings.Builder
		for i := range levels {
			cell := max(0, min(8, eighths[i]-floor))
			sb.WriteString(styles[i].Render(barBlocks[cell]))
			if i < len(levels)-1 {
				sb.WriteString(" ")
			}
		}
		rows[r] = sb.String()
	}
	return strings.Join(rows, "\n")
}
