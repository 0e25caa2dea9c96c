package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseUptime returns the first token of /proc/uptime as seconds, or 0 and
// an error when it is not a non-negative number.
func ParseUptime(text string) (float64, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, &ParseError{Source: "uptime", Err: errors.New("empty")}
	}

	seconds, err := parseNonNegativeFloat(fields[0])
	if err != nil {
		return 0, &ParseError{Source: "uptime", Line: 1, Err: err}
	}
	return seconds, nil
}

func parseNonNegativeFloat(s string) (float64, error) {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "value %q", s)
	}
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Errorf("value %q out of range", s)
	}
	return value, nil
}
