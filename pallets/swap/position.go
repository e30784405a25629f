package swap

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/taoline/taocli-go/fixed"
	"github.com/taoline/taocli-go/pallets/swap/calculator/feegrowth"
	"github.com/taoline/taocli-go/pallets/swap/calculator/liquiditymath"
	"github.com/taoline/taocli-go/pallets/swap/calculator/tickmath"
)

var (
	ErrInvalidTickRange = errors.New("position tick range is empty or inverted")
	ErrMissingLiquidity = errors.New("position has no liquidity value")
	ErrTickMismatch     = errors.New("tick record does not match position boundary")
)

// Position combines a stored range and liquidity with live pool state to
// report token decomposition and accrued fees. Every method is a pure
// function of its arguments plus the immutable stored fields; a Position is
// safe to share between goroutines.
type Position struct {
	record    PositionRecord
	priceLow  float64
	priceHigh float64
	liquidity float64
}

// NewPosition validates a chain record and precomputes its range prices.
func NewPosition(record PositionRecord) (*Position, error) {
	if record.Liquidity == nil || record.Liquidity.Sign() < 0 {
		return nil, ErrMissingLiquidity
	}
	if record.TickLow >= record.TickHigh {
		return nil, ErrInvalidTickRange
	}

	priceLow, err := tickmath.TickToPrice(record.TickLow)
	if err != nil {
		return nil, fmt.Errorf("position %d: low tick %d: %w", record.ID, record.TickLow, err)
	}
	priceHigh, err := tickmath.TickToPrice(record.TickHigh)
	if err != nil {
		return nil, fmt.Errorf("position %d: high tick %d: %w", record.ID, record.TickHigh, err)
	}

	liquidity, _ := new(big.Float).SetInt(record.Liquidity).Float64()

	return &Position{
		record:    record,
		priceLow:  priceLow,
		priceHigh: priceHigh,
		liquidity: liquidity,
	}, nil
}

func (p *Position) Record() PositionRecord { return p.record }
func (p *Position) PriceLow() float64      { return p.priceLow }
func (p *Position) PriceHigh() float64     { return p.priceHigh }

// TokenAmounts decomposes the position's liquidity into base-unit amounts at
// the given current price: all alpha below the range, all TAO above it, a
// mix inside.
func (p *Position) TokenAmounts(currentPrice float64) (alphaRao, taoRao *big.Int, err error) {
	alpha, tao, err := liquiditymath.AmountsForLiquidity(p.liquidity, p.priceLow, p.priceHigh, currentPrice)
	if err != nil {
		return nil, nil, err
	}
	return floorRao(alpha), floorRao(tao), nil
}

// Fees is the uncollected fee owed to a position, per asset, in rao. The
// Underflow flags mark a clamped negative delta, which indicates wrapped or
// inconsistent counters rather than a real zero.
type Fees struct {
	Tao   *big.Int
	Alpha *big.Int

	TaoUnderflow   bool
	AlphaUnderflow bool
}

// AccruedFees computes the fees earned since the position's baseline from the
// global counters and the tick records of its two boundaries. The TAO and
// alpha sides are independent computations over the same tick geometry.
func (p *Position) AccruedFees(currentTick int64, low, high TickRecord, globalTao, globalAlpha fixed.U64F64) (Fees, error) {
	if low.Index != p.record.TickLow || high.Index != p.record.TickHigh {
		return Fees{}, fmt.Errorf("%w: position %d has [%d, %d], got [%d, %d]",
			ErrTickMismatch, p.record.ID, p.record.TickLow, p.record.TickHigh, low.Index, high.Index)
	}

	liquidity := decimal.NewFromBigInt(p.record.Liquidity, 0)

	insideTao := feegrowth.Inside(
		currentTick, p.record.TickLow, p.record.TickHigh,
		low.FeesOutTao.Decimal(), high.FeesOutTao.Decimal(), globalTao.Decimal(),
	)
	insideAlpha := feegrowth.Inside(
		currentTick, p.record.TickLow, p.record.TickHigh,
		low.FeesOutAlpha.Decimal(), high.FeesOutAlpha.Decimal(), globalAlpha.Decimal(),
	)

	owedTao, taoUnderflow := feegrowth.Owed(liquidity, insideTao, p.record.FeesTaoBaseline.Decimal())
	owedAlpha, alphaUnderflow := feegrowth.Owed(liquidity, insideAlpha, p.record.FeesAlphaBaseline.Decimal())

	return Fees{
		Tao:            owedTao.BigInt(),
		Alpha:          owedAlpha.BigInt(),
		TaoUnderflow:   taoUnderflow,
		AlphaUnderflow: alphaUnderflow,
	}, nil
}

// floorRao truncates a float amount to whole base units.
func floorRao(v float64) *big.Int {
	out, _ := new(big.Float).SetFloat64(v).Int(nil)
	if out.Sign() < 0 {
		return big.NewInt(0)
	}
	return out
}
