package layout

import (
	"strings"

	"boxkit/pkg/host"
)

// WrapText breaks text into lines no wider than maxWidth using greedy word
// wrap: each space-delimited word is appended to the current line if the
// result fits, otherwise it starts a new line. A word wider than maxWidth
// gets a line of its own and is not broken. Newlines force a break.
func WrapText(f host.Font, text string, maxWidth float64) []string {
	if f == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if width, _ := f.MeasureLine(candidate); width <= maxWidth {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}

// TextSize returns the size of wrapped lines: the widest line and one line
// height per line.
func TextSize(f host.Font, lines []string) (width, height float64) {
	if f == nil {
		return 0, 0
	}
	for _, l := range lines {
		if w, _ := f.MeasureLine(l); w > width {
			width = w
		}
	}
	return width, float64(len(lines)) * f.LineHeight()
}
