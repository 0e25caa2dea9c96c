package model

// Facts is everything one collection cycle gathered from the target.
type Facts struct {
	Memory         MemoryStats
	Uptime         float64
	Load           LoadAverage
	CPU            CPUSnapshot
	CPUUsage       float64
	Interfaces     InterfaceCounters
	TCPConnections int
	Neighbors      NeighborTable
}
