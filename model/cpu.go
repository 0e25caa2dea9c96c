package model

import "errors"

// idle ticks are the fourth column of the aggregate cpu line
const cpuIdleColumn = 3

// ErrNoTicks is returned when usage cannot be derived from a snapshot.
var ErrNoTicks = errors.New("cpu snapshot has no usable tick counters")

// CPUSnapshot is the aggregate tick counters of /proc/stat in kernel column
// order (user, nice, system, idle, iowait, ...).
type CPUSnapshot []uint64

func (s CPUSnapshot) Total() uint64 {
	var total uint64
	for _, ticks := range s {
		total += ticks
	}
	return total
}

func (s CPUSnapshot) Idle() (uint64, bool) {
	if len(s) <= cpuIdleColumn {
		return 0, false
	}
	return s[cpuIdleColumn], true
}

// UsagePercent returns 100 * (1 - idle/total) since boot.
func (s CPUSnapshot) UsagePercent() (float64, error) {
	idle, ok := s.Idle()
	if !ok {
		return 0, ErrNoTicks
	}
	total := s.Total()
	if total == 0 {
		return 0, ErrNoTicks
	}
	return 100 * (1 - float64(idle)/float64(total)), nil
}
