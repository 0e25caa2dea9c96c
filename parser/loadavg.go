package parser

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/swoga/ddwrt-exporter/model"
)

// ParseLoadAverage reads the three averages from /proc/loadavg and ignores
// the process counts that follow. Missing or malformed averages stay 0.
func ParseLoadAverage(text string) (model.LoadAverage, error) {
	var load model.LoadAverage
	var result *multierror.Error

	fields := strings.Fields(text)
	targets := []*float64{&load.Load1, &load.Load5, &load.Load15}
	for i, target := range targets {
		if i >= len(fields) {
			result = multierror.Append(result, &ParseError{Source: "loadavg", Line: 1, Err: errors.Errorf("missing average %d", i+1)})
			continue
		}
		value, err := parseNonNegativeFloat(fields[i])
		if err != nil {
			result = multierror.Append(result, &ParseError{Source: "loadavg", Line: 1, Err: err})
			continue
		}
		*target = value
	}

	return load, result.ErrorOrNil()
}
