package parser

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/swoga/ddwrt-exporter/model"
)

// memCachedLabel also matches SwapCached and other *Cached rows; the last
// matching row wins.
const (
	memTotalLabel     = "MemTotal"
	memAvailableLabel = "MemAvailable"
	memCachedLabel    = "Cached"
)

// ParseMemoryInfo reads /proc/meminfo. Rows are matched by substring on the
// first token. Missing or malformed rows leave their field at 0; malformed
// rows are reported in the returned error alongside the partial result.
func ParseMemoryInfo(text string) (model.MemoryStats, error) {
	var stats model.MemoryStats
	var result *multierror.Error

	for i, line := range splitLines(text) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var field *uint64
		switch label := fields[0]; {
		case strings.Contains(label, memTotalLabel):
			field = &stats.TotalKB
		case strings.Contains(label, memAvailableLabel):
			field = &stats.AvailableKB
		case strings.Contains(label, memCachedLabel):
			field = &stats.CachedKB
		default:
			continue
		}

		value, err := parseKB(fields)
		if err != nil {
			result = multierror.Append(result, &ParseError{Source: "meminfo", Line: i + 1, Err: err})
		}
		*field = value
	}

	return stats, result.ErrorOrNil()
}

func parseKB(fields []string) (uint64, error) {
	if len(fields) < 2 {
		return 0, errors.Errorf("row %q has no value", fields[0])
	}
	value, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "row %q", fields[0])
	}
	return value, nil
}
