package model

type InterfaceCounter struct {
	RxBytes uint64
	TxBytes uint64
}

// InterfaceCounters maps an interface name to its byte counters.
type InterfaceCounters map[string]InterfaceCounter

// NeighborTable is the raw output of the neighbor listing, one line per entry.
type NeighborTable []string

// ConnectedDevices counts every line, including any header the listing
// command prints.
func (n NeighborTable) ConnectedDevices() int {
	return len(n)
}
