package model

// MemoryStats holds the /proc/meminfo rows the exporter tracks, in kB.
type MemoryStats struct {
	TotalKB     uint64
	AvailableKB uint64
	CachedKB    uint64
}

// UsedKB is TotalKB - AvailableKB. A missing MemTotal row yields a negative
// value, which is reported as-is.
func (m MemoryStats) UsedKB() int64 {
	return int64(m.TotalKB) - int64(m.AvailableKB)
}

type LoadAverage struct {
	Load1  float64
	Load5  float64
	Load15 float64
}
