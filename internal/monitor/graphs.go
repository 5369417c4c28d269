package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '⠀'

// graphHeight is the number of braille rows per chart.
const graphHeight = 4

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3}, // Row 0: dots 1 and 4
	{1, 4}, // Row 1: dots 2 and 5
	{2, 5}, // Row 2: dots 3 and 6
	{6, 7}, // Row 3: dots 7 and 8
}

// ColorFunc picks a color for a plotted value.
type ColorFunc func(value float64) lipgloss.Color

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// RenderBrailleGraph plots percentages (0-100) as a braille area chart.
// Each character holds two data points and four vertical levels per row.
// Data shorter than the graph is right-aligned so the newest bucket always
// sits at the right edge; longer data is downsampled preserving peaks.
// Each character column is colored by the largest value it holds.
func RenderBrailleGraph(data []float64, width, height int, color ColorFunc) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	if color == nil {
		color = MetricColor
	}

	totalDots := height * 4
	targetPoints := width * 2

	points := data
	if len(points) > targetPoints {
		points = resampleData(points, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	colMax := make([]float64, width)
	offset := targetPoints - len(points)

	for i, val := range points {
		if val < 0 {
			val = 0
		}
		if val > 100 {
			val = 100
		}
		dotHeight := clampInt(int(val/100*float64(totalDots)), totalDots)

		pos := i + offset
		charCol := pos / 2
		if charCol >= width {
			continue
		}
		if val > colMax[charCol] {
			colMax[charCol] = val
		}
		subCol := pos % 2

		// Fill dots from bottom up
		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - (dot / 4)
			subRow := 3 - (dot % 4)
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
	}

	lines := make([]string, 0, height)
	for _, row := range grid {
		var b strings.Builder
		for col, char := range row {
			style := lipgloss.NewStyle().Foreground(color(colMax[col])).Background(ColorSurfaceBg)
			b.WriteString(style.Render(string(char)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// resampleData resamples data to the target size.
// When downsampling, keeps the max within each bucket to preserve spikes.
// When upsampling, interpolates linearly.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}

// renderAxis lays out the first and last bucket labels under a graph.
func renderAxis(labels []string, width int) string {
	if len(labels) == 0 || width <= 0 {
		return ""
	}
	first, last := labels[0], labels[len(labels)-1]
	if len(labels) == 1 {
		return LabelStyle.Render(strings.Repeat(" ", max(0, width-lipgloss.Width(last))) + last)
	}
	gap := width - lipgloss.Width(first) - lipgloss.Width(last)
	if gap < 1 {
		return LabelStyle.Render(last)
	}
	return LabelStyle.Render(first + strings.Repeat(" ", gap) + last)
}

// renderGraphSection renders a bordered chart: header with the current value,
// braille rows, and an axis line.
func renderGraphSection(title, value string, values []float64, labels []string, width int, color ColorFunc) string {
	inner := width - 4
	if inner < 1 {
		inner = 1
	}

	var lines []string
	lines = append(lines, SectionHeader(title, value, width))

	if len(values) == 0 {
		lines = append(lines, SectionContentLine(LabelStyle.Render("Collecting data..."), width))
	} else {
		for _, row := range strings.Split(RenderBrailleGraph(values, inner, graphHeight, color), "\n") {
			lines = append(lines, SectionContentLine(row, width))
		}
		lines = append(lines, SectionContentLine(renderAxis(labels, inner), width))
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderGraphs renders the CPU and memory charts for the current range,
// side by side when there is room and stacked otherwise.
func (m Model) renderGraphs(width int) string {
	s := m.series
	badge := fmt.Sprintf("%s · %d pts", m.timeRange.Label(), s.Len())

	cpuValue, memValue := badge, badge
	if n := s.Len(); n > 0 {
		cpuValue = fmt.Sprintf("%.1f%% · %s", s.CPU[n-1].Percent, badge)
		memValue = fmt.Sprintf("%.1f%% · %s", s.Memory[n-1].Percent, badge)
	}

	cpuColor := func(v float64) lipgloss.Color {
		return MetricColorWithThresholds(v, m.thresholds.CPUWarning, m.thresholds.CPUCritical)
	}
	memColor := func(v float64) lipgloss.Color {
		if v >= CriticalThreshold {
			return ColorCritical
		}
		return ColorGraphMemory
	}

	if width >= BreakpointWide {
		half := width / 2
		return lipgloss.JoinHorizontal(lipgloss.Top,
			renderGraphSection("CPU", cpuValue, s.CPUValues(), s.Labels(), half, cpuColor),
			renderGraphSection("Memory", memValue, s.MemoryPercents(), s.Labels(), width-half, memColor),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderGraphSection("CPU", cpuValue, s.CPUValues(), s.Labels(), width, cpuColor),
		renderGraphSection("Memory", memValue, s.MemoryPercents(), s.Labels(), width, memColor),
	)
}
