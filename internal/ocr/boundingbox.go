package ocr

import (
	"strconv"
	"strings"
)

// FormatBoundingBox reshapes a flat polygon (alternating x/y coordinates)
// into "[x1, y1], [x2, y2], ...". An empty or odd-length polygon renders
// as the literal "N/A". The output is terminal text, never re-parsed.
func FormatBoundingBox(polygon []float64) string {
	if len(polygon) == 0 || len(polygon)%2 != 0 {
		return "N/A"
	}
	var b strings.Builder
	for i := 0; i+1 < len(polygon); i += 2 {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("[")
		b.WriteString(formatCoord(polygon[i]))
		b.WriteString(", ")
		b.WriteString(formatCoord(polygon[i+1]))
		b.WriteString("]")
	}
	return b.String()
}

// formatCoord prints whole coordinates without a decimal point so that
// pixel units read as integers while inch units keep their fraction.
func formatCoord(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
