package parser

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/swoga/ddwrt-exporter/model"
)

// A line is the interface name plus 16 counters; only the first ten fields
// are required.
const (
	netDevHeaderLines = 2
	netDevMinFields   = 10
	netDevRxBytes     = 1
	netDevTxBytes     = 9
	loopbackInterface = "lo"
)

// ParseInterfaceCounters reads /proc/net/dev. The loopback interface is
// skipped. Any other line that does not carry the expected columns fails
// the whole call.
func ParseInterfaceCounters(text string) (model.InterfaceCounters, error) {
	counters := model.InterfaceCounters{}

	for i, line := range splitLines(text) {
		if i < netDevHeaderLines || strings.TrimSpace(line) == "" {
			continue
		}
		lineNo := i + 1

		name, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, &ParseError{Source: "net/dev", Line: lineNo, Err: errors.New("missing interface name separator")}
		}
		name = strings.TrimSpace(name)
		if name == loopbackInterface {
			continue
		}

		// fields[0] is the interface name
		fields := append([]string{name}, strings.Fields(rest)...)
		if len(fields) < netDevMinFields {
			return nil, &ParseError{Source: "net/dev", Line: lineNo, Err: errors.Errorf("interface %q has %d fields, need %d", name, len(fields), netDevMinFields)}
		}

		rx, err := strconv.ParseUint(fields[netDevRxBytes], 10, 64)
		if err != nil {
			return nil, &ParseError{Source: "net/dev", Line: lineNo, Err: errors.Wrapf(err, "interface %q rx bytes", name)}
		}
		tx, err := strconv.ParseUint(fields[netDevTxBytes], 10, 64)
		if err != nil {
			return nil, &ParseError{Source: "net/dev", Line: lineNo, Err: errors.Wrapf(err, "interface %q tx bytes", name)}
		}

		counters[name] = model.InterfaceCounter{RxBytes: rx, TxBytes: tx}
	}

	return counters, nil
}
