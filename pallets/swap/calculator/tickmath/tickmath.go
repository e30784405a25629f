// Package tickmath converts between discrete tick indices and real prices.
// A tick t addresses the price 1.0001^t, one basis point per step.
package tickmath

import (
	"errors"
	"math"
)

const (
	// PriceStep is the price ratio between two adjacent ticks.
	PriceStep = 1.0001
)

var (
	// MIN_TICK is the minimum tick accepted by TickToPrice.
	MIN_TICK = int64(-887272)
	// MAX_TICK is the maximum tick accepted by TickToPrice.
	MAX_TICK = int64(887272)

	ErrTickOutOfBounds = errors.New("tick out of bounds")
	ErrInvalidPrice    = errors.New("price must be greater than zero")

	logStep = math.Log(PriceStep)
)

// TickToPrice calculates PriceStep^tick.
func TickToPrice(tick int64) (float64, error) {
	if tick < MIN_TICK || tick > MAX_TICK {
		return 0, ErrTickOutOfBounds
	}
	return math.Pow(PriceStep, float64(tick)), nil
}

// PriceToTick calculates the greatest tick t such that PriceStep^t <= price.
// The mapping is lossy toward the tick at or below the input: exact round
// trips hold only for prices that are themselves powers of PriceStep.
func PriceToTick(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, ErrInvalidPrice
	}

	tick := int64(math.Floor(math.Log(price) / logStep))

	// The log quotient can land one tick off in either direction; nudge the
	// candidate until the floor contract holds exactly.
	for i := 0; i < 2 && priceAt(tick+1) <= price; i++ {
		tick++
	}
	for i := 0; i < 2 && priceAt(tick) > price; i++ {
		tick--
	}

	if tick < MIN_TICK || tick > MAX_TICK {
		return 0, ErrTickOutOfBounds
	}
	return tick, nil
}

// priceAt is TickToPrice without the bounds check, for the correction loop.
func priceAt(tick int64) float64 {
	return math.Pow(PriceStep, float64(tick))
}
