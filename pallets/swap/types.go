// Package swap models the chain's swap pallet: one concentrated-liquidity
// pool per subnet between the network token (TAO) and the subnet token
// (alpha), plus the liquidity positions users hold in it.
package swap

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/taoline/taocli-go/fixed"
)

// Schema is the decode contract for swap pallet views served by the node.
const Schema = "taoline/swap/PoolView@v1"

// RaoPerTao is the number of base units (rao) in one display TAO.
const RaoPerTao = 1_000_000_000

// PoolState is a point-in-time view of one subnet's pool.
type PoolState struct {
	Netuid uint16 `json:"netuid"`

	// SqrtPrice is the square root of the current alpha price in TAO,
	// stored as Q64.64 for the numerical stability of in-range math.
	SqrtPrice fixed.U64F64 `json:"sqrtPrice"`

	// CurrentTick is the tick at or below the current price.
	CurrentTick int64 `json:"currentTick"`

	// Liquidity is the pool's active in-range liquidity.
	Liquidity *big.Int `json:"liquidity"`

	// FeeGlobalTao and FeeGlobalAlpha accumulate fees earned per unit of
	// liquidity since pool inception, in rao, monotone in block order.
	FeeGlobalTao   fixed.U64F64 `json:"feeGlobalTao"`
	FeeGlobalAlpha fixed.U64F64 `json:"feeGlobalAlpha"`
}

// CurrentPrice returns the pool price as an ordinary float.
func (p PoolState) CurrentPrice() float64 {
	s := p.SqrtPrice.Float64()
	return s * s
}

// TickRecord is the per-tick fee bookkeeping stored by the pallet: the
// cumulative fee growth on the far side of the tick from the pool's genesis
// price, per asset, updated whenever trading crosses the tick.
type TickRecord struct {
	Index        int64        `json:"index"`
	FeesOutTao   fixed.U64F64 `json:"feesOutTao"`
	FeesOutAlpha fixed.U64F64 `json:"feesOutAlpha"`
}

// PositionRecord is a liquidity position as stored on chain. Ownership by a
// (coldkey, hotkey, subnet) triple is enforced by the chain, not here.
type PositionRecord struct {
	ID      uint64 `json:"id"`
	Netuid  uint16 `json:"netuid"`
	TickLow int64  `json:"tickLow"`
	// TickHigh is exclusive of TickLow: TickLow < TickHigh always.
	TickHigh  int64    `json:"tickHigh"`
	Liquidity *big.Int `json:"liquidity"`

	// Fee-growth-inside snapshots recorded at the last mint or collect; the
	// baseline that future accruals are measured against.
	FeesTaoBaseline   fixed.U64F64 `json:"feesTaoBaseline"`
	FeesAlphaBaseline fixed.U64F64 `json:"feesAlphaBaseline"`
}

// TaoFromRao converts a base-unit amount to its display value.
func TaoFromRao(rao *big.Int) decimal.Decimal {
	if rao == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(rao, -9)
}
