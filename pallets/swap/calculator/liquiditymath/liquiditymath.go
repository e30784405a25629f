// Package liquiditymath derives the liquidity constant L of a price range
// from token deposits, and token amounts back from L.
//
// A position over [priceLow, priceHigh] sits in one of three regimes relative
// to the pool's current price: entirely below the range (all alpha), entirely
// above it (all TAO), or inside it (both assets). Each regime has its own
// closed form and they agree at the boundaries.
package liquiditymath

import (
	"errors"
	"math"
)

var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidRange      = errors.New("price range is empty or inverted")
	ErrNegativeLiquidity = errors.New("liquidity must not be negative")

	// ErrPriceOutsideRange is returned when an operation requires the current
	// price to be strictly inside the range.
	ErrPriceOutsideRange = errors.New("current price outside position range")
)

// MaxLiquidityResult reports the largest liquidity obtainable from two token
// balances over a range, and the amounts actually consumed at that liquidity.
type MaxLiquidityResult struct {
	Liquidity     float64
	TaoRequired   float64
	AlphaRequired float64
}

func checkRange(priceLow, priceHigh float64) error {
	if priceLow <= 0 || priceHigh <= 0 {
		return ErrInvalidPrice
	}
	if priceLow >= priceHigh {
		return ErrInvalidRange
	}
	return nil
}

// ForTao derives L from a TAO deposit. TAO only backs the range at prices at
// or above the current price, so a position entirely below its range cannot
// be funded from the TAO side.
func ForTao(taoAmount, priceLow, priceHigh, currentPrice float64) (float64, error) {
	if err := checkRange(priceLow, priceHigh); err != nil {
		return 0, err
	}
	if currentPrice <= 0 {
		return 0, ErrInvalidPrice
	}
	if taoAmount <= 0 {
		return 0, ErrInvalidAmount
	}
	if currentPrice <= priceLow {
		return 0, ErrPriceOutsideRange
	}

	sqrtLow := math.Sqrt(priceLow)
	var denom float64
	if currentPrice >= priceHigh {
		denom = math.Sqrt(priceHigh) - sqrtLow
	} else {
		denom = math.Sqrt(currentPrice) - sqrtLow
	}
	if denom <= 0 {
		return 0, ErrInvalidRange
	}
	return taoAmount / denom, nil
}

// ForAlpha derives L from an alpha deposit, the mirror of ForTao: alpha only
// backs the range at prices at or below the current price.
func ForAlpha(alphaAmount, priceLow, priceHigh, currentPrice float64) (float64, error) {
	if err := checkRange(priceLow, priceHigh); err != nil {
		return 0, err
	}
	if currentPrice <= 0 {
		return 0, ErrInvalidPrice
	}
	if alphaAmount <= 0 {
		return 0, ErrInvalidAmount
	}
	if currentPrice >= priceHigh {
		return 0, ErrPriceOutsideRange
	}

	invSqrtHigh := 1 / math.Sqrt(priceHigh)
	var denom float64
	if currentPrice <= priceLow {
		denom = 1/math.Sqrt(priceLow) - invSqrtHigh
	} else {
		denom = 1/math.Sqrt(currentPrice) - invSqrtHigh
	}
	if denom <= 0 {
		return 0, ErrInvalidRange
	}
	return alphaAmount / denom, nil
}

// ForAmounts derives L when both balances are hard caps. Below the range only
// the alpha deposit counts, above it only the TAO deposit; inside the range
// the achievable liquidity is the smaller of the two single-sided results.
func ForAmounts(taoAmount, alphaAmount, priceLow, priceHigh, currentPrice float64) (float64, error) {
	if err := checkRange(priceLow, priceHigh); err != nil {
		return 0, err
	}
	if currentPrice <= 0 {
		return 0, ErrInvalidPrice
	}

	switch {
	case currentPrice <= priceLow:
		return ForAlpha(alphaAmount, priceLow, priceHigh, currentPrice)
	case currentPrice >= priceHigh:
		return ForTao(taoAmount, priceLow, priceHigh, currentPrice)
	default:
		fromTao, err := ForTao(taoAmount, priceLow, priceHigh, currentPrice)
		if err != nil {
			return 0, err
		}
		fromAlpha, err := ForAlpha(alphaAmount, priceLow, priceHigh, currentPrice)
		if err != nil {
			return 0, err
		}
		return math.Min(fromTao, fromAlpha), nil
	}
}

// AmountsForLiquidity decomposes L into (alphaAmount, taoAmount) at the given
// current price, the inverse of the For* derivations.
func AmountsForLiquidity(liquidity, priceLow, priceHigh, currentPrice float64) (alphaAmount, taoAmount float64, err error) {
	if err := checkRange(priceLow, priceHigh); err != nil {
		return 0, 0, err
	}
	if currentPrice <= 0 {
		return 0, 0, ErrInvalidPrice
	}
	if liquidity < 0 {
		return 0, 0, ErrNegativeLiquidity
	}

	sqrtLow := math.Sqrt(priceLow)
	sqrtHigh := math.Sqrt(priceHigh)

	switch {
	case currentPrice <= priceLow:
		return liquidity * (1/sqrtLow - 1/sqrtHigh), 0, nil
	case currentPrice >= priceHigh:
		return 0, liquidity * (sqrtHigh - sqrtLow), nil
	default:
		sqrtCur := math.Sqrt(currentPrice)
		alphaAmount = liquidity * (1/sqrtCur - 1/sqrtHigh)
		taoAmount = liquidity * (sqrtCur - sqrtLow)
		return alphaAmount, taoAmount, nil
	}
}

// MaxLiquidity finds the largest L obtainable without exceeding either
// balance. It applies only when the current price is strictly inside the
// range; outside the range callers fund from a single side via ForTao or
// ForAlpha instead.
func MaxLiquidity(taoBalance, alphaBalance, priceLow, priceHigh, currentPrice float64) (MaxLiquidityResult, error) {
	if err := checkRange(priceLow, priceHigh); err != nil {
		return MaxLiquidityResult{}, err
	}
	if currentPrice <= priceLow || currentPrice >= priceHigh {
		return MaxLiquidityResult{}, ErrPriceOutsideRange
	}

	liquidity, err := ForAmounts(taoBalance, alphaBalance, priceLow, priceHigh, currentPrice)
	if err != nil {
		return MaxLiquidityResult{}, err
	}

	alphaReq, taoReq, err := AmountsForLiquidity(liquidity, priceLow, priceHigh, currentPrice)
	if err != nil {
		return MaxLiquidityResult{}, err
	}

	return MaxLiquidityResult{
		Liquidity:     liquidity,
		TaoRequired:   taoReq,
		AlphaRequired: alphaReq,
	}, nil
}
