package liquiditymath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForTao(t *testing.T) {
	t.Run("in range", func(t *testing.T) {
		// sqrt(2.25) = 1.5, sqrt(2.0) = 1.41421...
		liquidity, err := ForTao(10, 2.0, 4.0, 2.25)
		require.NoError(t, err)
		assert.InDelta(t, 10/(1.5-math.Sqrt2), liquidity, 1e-9)
	})

	t.Run("above range uses the full span", func(t *testing.T) {
		liquidity, err := ForTao(10, 2.0, 4.0, 5.0)
		require.NoError(t, err)
		assert.InDelta(t, 10/(2.0-math.Sqrt2), liquidity, 1e-9)
	})

	t.Run("below range cannot be funded from TAO", func(t *testing.T) {
		_, err := ForTao(10, 2.0, 4.0, 1.0)
		assert.ErrorIs(t, err, ErrPriceOutsideRange)
	})

	t.Run("rejects bad inputs", func(t *testing.T) {
		_, err := ForTao(0, 2.0, 4.0, 2.25)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		_, err = ForTao(10, 4.0, 2.0, 2.25)
		assert.ErrorIs(t, err, ErrInvalidRange)
		_, err = ForTao(10, -2.0, 4.0, 2.25)
		assert.ErrorIs(t, err, ErrInvalidPrice)
		_, err = ForTao(10, 2.0, 4.0, 0)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestForAlpha(t *testing.T) {
	t.Run("single sided below range", func(t *testing.T) {
		// 6 / (1/sqrt(2) - 1/sqrt(4)) ~= 28.97
		liquidity, err := ForAlpha(6, 2.0, 4.0, 1.0)
		require.NoError(t, err)
		assert.InDelta(t, 28.970562748477, liquidity, 1e-9)
	})

	t.Run("in range", func(t *testing.T) {
		liquidity, err := ForAlpha(10, 2.0, 4.0, 2.25)
		require.NoError(t, err)
		assert.InDelta(t, 10/(1/1.5-0.5), liquidity, 1e-9)
	})

	t.Run("above range cannot be funded from alpha", func(t *testing.T) {
		_, err := ForAlpha(10, 2.0, 4.0, 4.0)
		assert.ErrorIs(t, err, ErrPriceOutsideRange)
	})
}

func TestForAmounts(t *testing.T) {
	t.Run("inside takes the binding side", func(t *testing.T) {
		liquidity, err := ForAmounts(10, 10, 1.0, 4.0, 2.25)
		require.NoError(t, err)
		assert.InDelta(t, 20.0, liquidity, 1e-9) // TAO side binds: 10/(1.5-1) vs 10/(1/1.5-1/2)
	})

	t.Run("below range ignores the TAO balance", func(t *testing.T) {
		fromBoth, err := ForAmounts(1e18, 6, 2.0, 4.0, 1.0)
		require.NoError(t, err)
		fromAlpha, err := ForAlpha(6, 2.0, 4.0, 1.0)
		require.NoError(t, err)
		assert.Equal(t, fromAlpha, fromBoth)
	})

	t.Run("above range ignores the alpha balance", func(t *testing.T) {
		fromBoth, err := ForAmounts(10, 1e18, 2.0, 4.0, 5.0)
		require.NoError(t, err)
		fromTao, err := ForTao(10, 2.0, 4.0, 5.0)
		require.NoError(t, err)
		assert.Equal(t, fromTao, fromBoth)
	})
}

func TestAmountsForLiquidity(t *testing.T) {
	t.Run("below range is all alpha", func(t *testing.T) {
		alpha, tao, err := AmountsForLiquidity(100, 2.0, 4.0, 1.0)
		require.NoError(t, err)
		assert.Zero(t, tao)
		assert.InDelta(t, 100*(1/math.Sqrt2-0.5), alpha, 1e-9)
	})

	t.Run("above range is all TAO", func(t *testing.T) {
		alpha, tao, err := AmountsForLiquidity(100, 2.0, 4.0, 5.0)
		require.NoError(t, err)
		assert.Zero(t, alpha)
		assert.InDelta(t, 100*(2.0-math.Sqrt2), tao, 1e-9)
	})

	t.Run("inside splits both ways", func(t *testing.T) {
		alpha, tao, err := AmountsForLiquidity(100, 2.0, 4.0, 2.25)
		require.NoError(t, err)
		assert.InDelta(t, 100*(1/1.5-0.5), alpha, 1e-9)
		assert.InDelta(t, 100*(1.5-math.Sqrt2), tao, 1e-9)
	})

	t.Run("zero liquidity is zero amounts", func(t *testing.T) {
		alpha, tao, err := AmountsForLiquidity(0, 2.0, 4.0, 2.25)
		require.NoError(t, err)
		assert.Zero(t, alpha)
		assert.Zero(t, tao)
	})

	t.Run("negative liquidity is rejected", func(t *testing.T) {
		_, _, err := AmountsForLiquidity(-1, 2.0, 4.0, 2.25)
		assert.ErrorIs(t, err, ErrNegativeLiquidity)
	})
}

func TestMaxLiquidity(t *testing.T) {
	t.Run("known scenario", func(t *testing.T) {
		// price range [1, 4], current 2.25 (sqrt 1.5), both balances 10.
		// L_tao = 10/(1.5-1) = 20 binds against L_alpha = 10/((1/1.5)-(1/2)) = 60.
		result, err := MaxLiquidity(10, 10, 1.0, 4.0, 2.25)
		require.NoError(t, err)
		assert.InDelta(t, 20.0, result.Liquidity, 1e-9)
		assert.InDelta(t, 10.0, result.TaoRequired, 1e-9)
		assert.InDelta(t, 20*(1/1.5-0.5), result.AlphaRequired, 1e-9)
		assert.Less(t, result.AlphaRequired, 10.0)
	})

	t.Run("requires price strictly inside", func(t *testing.T) {
		_, err := MaxLiquidity(10, 10, 2.0, 4.0, 2.0)
		assert.ErrorIs(t, err, ErrPriceOutsideRange)
		_, err = MaxLiquidity(10, 10, 2.0, 4.0, 4.0)
		assert.ErrorIs(t, err, ErrPriceOutsideRange)
	})
}

// TestInvariants_BindingConstraint checks the solver never requires more than
// either balance, and that one side binds with equality.
func TestInvariants_BindingConstraint(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		priceLow := math.Exp(rng.Float64()*8 - 4)
		priceHigh := priceLow * (1.001 + rng.Float64()*4)
		current := priceLow + (priceHigh-priceLow)*(0.001+0.998*rng.Float64())
		taoBalance := 1 + rng.Float64()*1e9
		alphaBalance := 1 + rng.Float64()*1e9

		result, err := MaxLiquidity(taoBalance, alphaBalance, priceLow, priceHigh, current)
		require.NoError(t, err)

		const tolerance = 1e-9
		assert.LessOrEqual(t, result.TaoRequired, taoBalance*(1+tolerance))
		assert.LessOrEqual(t, result.AlphaRequired, alphaBalance*(1+tolerance))

		taoBinds := math.Abs(result.TaoRequired-taoBalance) <= taoBalance*tolerance
		alphaBinds := math.Abs(result.AlphaRequired-alphaBalance) <= alphaBalance*tolerance
		assert.True(t, taoBinds || alphaBinds,
			"neither side binds: tao %g/%g alpha %g/%g", result.TaoRequired, taoBalance, result.AlphaRequired, alphaBalance)
	}
}

// TestInvariants_Conservation derives L from a deposit, decomposes it back,
// and re-derives L from the result.
func TestInvariants_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 1000; i++ {
		priceLow := math.Exp(rng.Float64()*8 - 4)
		priceHigh := priceLow * (1.001 + rng.Float64()*4)
		current := priceLow + (priceHigh-priceLow)*(0.001+0.998*rng.Float64())
		taoAmount := 1 + rng.Float64()*1e9

		liquidity, err := ForTao(taoAmount, priceLow, priceHigh, current)
		require.NoError(t, err)

		_, taoBack, err := AmountsForLiquidity(liquidity, priceLow, priceHigh, current)
		require.NoError(t, err)
		assert.InEpsilon(t, taoAmount, taoBack, 1e-9)

		backAlpha, _, err := AmountsForLiquidity(liquidity, priceLow, priceHigh, current)
		require.NoError(t, err)
		if backAlpha > 0 {
			fromAlpha, err := ForAlpha(backAlpha, priceLow, priceHigh, current)
			require.NoError(t, err)
			assert.InEpsilon(t, liquidity, fromAlpha, 1e-9)
		}
	}
}

// TestInvariants_RegimeContinuity checks the decomposition is continuous as
// the current price crosses a range boundary.
func TestInvariants_RegimeContinuity(t *testing.T) {
	const (
		liquidity = 1e6
		priceLow  = 2.0
		priceHigh = 4.0
		delta     = 1e-9
	)

	t.Run("across the lower bound", func(t *testing.T) {
		alphaBelow, taoBelow, err := AmountsForLiquidity(liquidity, priceLow, priceHigh, priceLow-delta)
		require.NoError(t, err)
		alphaAbove, taoAbove, err := AmountsForLiquidity(liquidity, priceLow, priceHigh, priceLow+delta)
		require.NoError(t, err)

		assert.InDelta(t, alphaBelow, alphaAbove, liquidity*1e-6)
		assert.InDelta(t, taoBelow, taoAbove, liquidity*1e-6)
	})

	t.Run("across the upper bound", func(t *testing.T) {
		alphaBelow, taoBelow, err := AmountsForLiquidity(liquidity, priceLow, priceHigh, priceHigh-delta)
		require.NoError(t, err)
		alphaAbove, taoAbove, err := AmountsForLiquidity(liquidity, priceLow, priceHigh, priceHigh+delta)
		require.NoError(t, err)

		assert.InDelta(t, alphaBelow, alphaAbove, liquidity*1e-6)
		assert.InDelta(t, taoBelow, taoAbove, liquidity*1e-6)
	})
}
