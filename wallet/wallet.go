// Package wallet declares the boundary to key management and extrinsic
// submission. Key derivation, signing and transaction construction live in
// an external wallet implementation; this client only plans calls and hands
// the parameters across these interfaces.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Keypair identifies a chain account.
type Keypair interface {
	// SS58Address returns the account's SS58-encoded address.
	SS58Address() string
}

// Signer produces a signature over an opaque extrinsic payload.
type Signer interface {
	Sign(ctx context.Context, payload []byte) ([]byte, error)
}

// AddLiquidityParams are the call parameters for minting or topping up a
// position. Amounts are hard caps in rao; the chain derives the liquidity.
type AddLiquidityParams struct {
	Netuid   uint16
	Hotkey   string
	TickLow  int64
	TickHigh int64
	TaoMax   *big.Int
	AlphaMax *big.Int
}

// RemoveLiquidityParams withdraw some or all of a position's liquidity.
// Pending fees are paid out and the fee baseline resets as a side effect.
type RemoveLiquidityParams struct {
	Netuid     uint16
	Hotkey     string
	PositionID uint64
	Liquidity  *big.Int
}

// CollectFeesParams pay out a position's pending fees without touching its
// liquidity.
type CollectFeesParams struct {
	Netuid     uint16
	Hotkey     string
	PositionID uint64
}

// Submitter constructs, signs and submits extrinsics for the swap pallet.
type Submitter interface {
	AddLiquidity(ctx context.Context, keypair Keypair, params AddLiquidityParams) (common.Hash, error)
	RemoveLiquidity(ctx context.Context, keypair Keypair, params RemoveLiquidityParams) (common.Hash, error)
	CollectFees(ctx context.Context, keypair Keypair, params CollectFeesParams) (common.Hash, error)
}
