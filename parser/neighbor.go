package parser

import "github.com/swoga/ddwrt-exporter/model"

// ParseNeighborTable returns every line of the neighbor listing unchanged.
// Header or summary lines are not filtered.
func ParseNeighborTable(text string) model.NeighborTable {
	return model.NeighborTable(splitLines(text))
}
