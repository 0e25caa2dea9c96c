package parser

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/swoga/ddwrt-exporter/model"
)

// ParseCPUSnapshot reads the aggregate cpu line, the first line of
// /proc/stat. The label is dropped and the counters keep kernel column order.
// Malformed counters are kept as 0 so column positions do not shift.
func ParseCPUSnapshot(text string) (model.CPUSnapshot, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, &ParseError{Source: "stat", Err: errors.New("empty")}
	}

	fields := strings.Fields(lines[0])
	if len(fields) < 2 {
		return nil, &ParseError{Source: "stat", Line: 1, Err: errors.New("no tick counters")}
	}

	var result *multierror.Error
	snapshot := make(model.CPUSnapshot, 0, len(fields)-1)
	for _, field := range fields[1:] {
		ticks, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			result = multierror.Append(result, &ParseError{Source: "stat", Line: 1, Err: errors.Wrapf(err, "counter %q", field)})
			ticks = 0
		}
		snapshot = append(snapshot, ticks)
	}

	return snapshot, result.ErrorOrNil()
}
