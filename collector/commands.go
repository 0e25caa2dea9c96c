package collector

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/swoga/ddwrt-exporter/model"
	"github.com/swoga/ddwrt-exporter/parser"
)

// Remote commands, one per status source. The parsers depend on their exact
// output format.
const (
	CommandMemInfo   = "cat /proc/meminfo"
	CommandUptime    = "cat /proc/uptime"
	CommandLoadAvg   = "cat /proc/loadavg"
	CommandStat      = "cat /proc/stat"
	CommandNetDev    = "cat /proc/net/dev"
	CommandTCP       = "cat /proc/net/tcp"
	CommandNeighbors = "arp -a"
)

// A step fetches one status source and stores what it parsed in facts.
// Returning an error aborts the cycle.
type step struct {
	command string
	apply   func(log zerolog.Logger, output string, facts *model.Facts) error
}

var steps = []step{
	{
		command: CommandMemInfo,
		apply: func(log zerolog.Logger, output string, facts *model.Facts) error {
			stats, err := parser.ParseMemoryInfo(output)
			warnParse(log, CommandMemInfo, err)
			facts.Memory = stats
			return nil
		},
	},
	{
		command: CommandUptime,
		apply: func(log zerolog.Logger, output string, facts *model.Facts) error {
			seconds, err := parser.ParseUptime(output)
			warnParse(log, CommandUptime, err)
			facts.Uptime = seconds
			return nil
		},
	},
	{
		command: CommandLoadAvg,
		apply: func(log zerolog.Logger, output string, facts *model.Facts) error {
			load, err := parser.ParseLoadAverage(output)
			warnParse(log, CommandLoadAvg, err)
			facts.Load = load
			return nil
		},
	},
	{
		command: CommandStat,
		apply: func(log zerolog.Logger, output string, facts *model.Facts) error {
			snapshot, err := parser.ParseCPUSnapshot(output)
			warnParse(log, CommandStat, err)
			usage, err := snapshot.UsagePercent()
			if err != nil {
				return errors.Wrap(err, "cpu usage")
			}
			facts.CPU = snapshot
			facts.CPUUsage = usage
			return nil
		},
	},
	{
		command: CommandNetDev,
		apply: func(_ zerolog.Logger, output string, facts *model.Facts) error {
			counters, err := parser.ParseInterfaceCounters(output)
			if err != nil {
				return err
			}
			facts.Interfaces = counters
			return nil
		},
	},
	{
		command: CommandTCP,
		apply: func(_ zerolog.Logger, output string, facts *model.Facts) error {
			facts.TCPConnections = parser.ParseTCPConnectionCount(output)
			return nil
		},
	},
	{
		command: CommandNeighbors,
		apply: func(_ zerolog.Logger, output string, facts *model.Facts) error {
			facts.Neighbors = parser.ParseNeighborTable(output)
			return nil
		},
	},
}

func warnParse(log zerolog.Logger, command string, err error) {
	if err != nil {
		log.Warn().Str("command", command).Err(err).Msg("malformed output, using defaults")
	}
}
