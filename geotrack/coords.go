package geotrack

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var coordinatePairPattern = regexp.MustCompile(`^\s*[+-]?\d+(\.\d+)?\s*,\s*[+-]?\d+(\.\d+)?\s*$`)

// ParseCoordinatePair parses "<lat>, <lon>". Anything else, including values that do
// not parse to finite numbers, is rejected.
func ParseCoordinatePair(s string) (Point, bool) {
	if !coordinatePairPattern.MatchString(s) {
		return Point{}, false
	}

	latText, lonText, _ := strings.Cut(s, ",")

	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return Point{}, false
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return Point{}, false
	}

	p := Point{Lat: lat, Lon: lon}
	if !p.IsFinite() {
		return Point{}, false
	}

	return p, true
}

// FormatPoint renders a point with six decimal digits, e.g. "54.500000, 18.600000".
func FormatPoint(p Point) string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lon)
}
