package store

import (
	"strconv"
	"strings"
)

// atoi parses a sheet cell as an int, treating anything unparseable
// (blank cells, stray formatting) as zero.
func atoi(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// atof parses a sheet cell as a float, same tolerance as atoi.
func atof(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
