// Package chain talks JSON-RPC to a node and assembles point-in-time pool
// snapshots for the calculators. All numeric decoding happens here, once,
// at the boundary; everything handed onward is typed.
package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	swap "github.com/taoline/taocli-go/pallets/swap"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// BlockHeader is the subset of a chain header the client needs.
type BlockHeader struct {
	Number     hexutil.Uint64 `json:"number"`
	Hash       common.Hash    `json:"hash"`
	ParentHash common.Hash    `json:"parentHash"`
	StateRoot  common.Hash    `json:"stateRoot"`
}

// PoolSnapshot bundles everything the calculators need about one subnet's
// pool at a single block: price state, global fee counters, the tick records
// referenced by the caller's positions, and the positions themselves.
//
// Chain state is never held as process-wide mutable state; each snapshot is
// an immutable value fetched fresh per invocation and passed into the pure
// functions explicitly.
type PoolSnapshot struct {
	Netuid    uint16
	Pool      swap.PoolState
	Ticks     map[int64]swap.TickRecord
	Positions []swap.PositionRecord

	FetchedAtUnixNs uint64
}

// TickAt returns the tick record for an index, if it was part of the fetch.
func (s *PoolSnapshot) TickAt(index int64) (swap.TickRecord, bool) {
	t, ok := s.Ticks[index]
	return t, ok
}
