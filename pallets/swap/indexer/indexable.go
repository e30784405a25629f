// Package indexer provides fast, indexed access over a fetched slice of
// liquidity positions.
package indexer

import (
	swap "github.com/taoline/taocli-go/pallets/swap"
)

// Indexer builds an IndexedPositions from a raw slice of position records.
type Indexer struct{}

// New creates a new Indexer.
func New() *Indexer {
	return &Indexer{}
}

// Index creates an indexed position set from a raw slice of records.
func (i *Indexer) Index(positions []swap.PositionRecord) *IndexedPositions {
	return NewIndexedPositions(positions)
}

// IndexedPositions provides id and subnet lookups over an immutable snapshot
// of position records.
type IndexedPositions struct {
	byID     map[uint64]swap.PositionRecord
	byNetuid map[uint16][]swap.PositionRecord
	all      []swap.PositionRecord
}

// NewIndexedPositions indexes a slice of position records.
func NewIndexedPositions(positions []swap.PositionRecord) *IndexedPositions {
	byID := make(map[uint64]swap.PositionRecord, len(positions))
	byNetuid := make(map[uint16][]swap.PositionRecord)

	for _, p := range positions {
		byID[p.ID] = p
		byNetuid[p.Netuid] = append(byNetuid[p.Netuid], p)
	}

	return &IndexedPositions{
		byID:     byID,
		byNetuid: byNetuid,
		all:      positions,
	}
}

// GetByID retrieves a position by its unique ID.
func (ip *IndexedPositions) GetByID(id uint64) (swap.PositionRecord, bool) {
	p, ok := ip.byID[id]
	return p, ok
}

// GetByNetuid returns a defensive copy of the positions on one subnet.
func (ip *IndexedPositions) GetByNetuid(netuid uint16) []swap.PositionRecord {
	src := ip.byNetuid[netuid]
	out := make([]swap.PositionRecord, len(src))
	copy(out, src)
	return out
}

// All returns a defensive copy of the slice of all positions.
func (ip *IndexedPositions) All() []swap.PositionRecord {
	allCopy := make([]swap.PositionRecord, len(ip.all))
	copy(allCopy, ip.all)
	return allCopy
}

// Len returns the number of indexed positions.
func (ip *IndexedPositions) Len() int {
	return len(ip.all)
}
