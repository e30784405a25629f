// Package fixed implements the U64F64 fixed-point format the chain uses for
// sqrt prices and fee-growth counters: a u128 whose upper 64 bits are the
// integer part and whose lower 64 bits are the fraction.
package fixed

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	ErrOverflow = errors.New("value does not fit in 128 bits")
	ErrNegative = errors.New("value must not be negative")

	// maxU128 is 2^128 - 1, the largest representable bit pattern.
	maxU128 = uint256.MustFromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))

	// modU128 is 2^128, the modulus for wrapping counter arithmetic.
	modU128 = new(uint256.Int).AddUint64(new(uint256.Int).Set(maxU128), 1)

	two64Big = new(big.Int).Lsh(big.NewInt(1), 64)

	// scale is exactly 2^-64 as a decimal (5^64 * 10^-64), so converting the
	// raw bits to a decimal is a single exact multiplication.
	scale = decimal.NewFromBigInt(new(big.Int).Exp(big.NewInt(5), big.NewInt(64), nil), -64)
)

// U64F64 is an immutable Q64.64 value. The zero value is 0.0.
type U64F64 struct {
	bits uint256.Int
}

// FromBits interprets a raw u128 bit pattern as a U64F64.
func FromBits(bits *big.Int) (U64F64, error) {
	if bits.Sign() < 0 {
		return U64F64{}, ErrNegative
	}
	u, overflow := uint256.FromBig(bits)
	if overflow || u.Cmp(maxU128) > 0 {
		return U64F64{}, ErrOverflow
	}
	return U64F64{bits: *u}, nil
}

// FromHex parses a 0x-prefixed hex bit pattern, as served by the chain RPC.
func FromHex(s string) (U64F64, error) {
	bits, err := hexutil.DecodeBig(s)
	if err != nil {
		return U64F64{}, fmt.Errorf("fixed: decode %q: %w", s, err)
	}
	return FromBits(bits)
}

// FromFloat converts a non-negative float to the nearest representable value.
func FromFloat(v float64) (U64F64, error) {
	if v < 0 {
		return U64F64{}, ErrNegative
	}
	scaled, _ := new(big.Float).Mul(big.NewFloat(v), new(big.Float).SetInt(two64Big)).Int(nil)
	return FromBits(scaled)
}

// MustFromFloat is FromFloat for compile-time constants; it panics on error.
func MustFromFloat(v float64) U64F64 {
	f, err := FromFloat(v)
	if err != nil {
		panic(err)
	}
	return f
}

// Bits returns the raw u128 bit pattern.
func (f U64F64) Bits() *big.Int {
	return f.bits.ToBig()
}

// Float64 returns the value as a float64. Precision is limited to the 53-bit
// mantissa, which is sufficient for prices but not for fee counters; use
// Decimal for accounting.
func (f U64F64) Float64() float64 {
	v, _ := new(big.Float).Quo(
		new(big.Float).SetInt(f.bits.ToBig()),
		new(big.Float).SetInt(two64Big),
	).Float64()
	return v
}

// Decimal returns the exact decimal value.
func (f U64F64) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(f.bits.ToBig(), 0).Mul(scale)
}

// WrapSub returns f - g modulo 2^128. Fee-growth counters wrap on overflow,
// so deltas between two observations must be taken in modular arithmetic.
func (f U64F64) WrapSub(g U64F64) U64F64 {
	var out uint256.Int
	if f.bits.Cmp(&g.bits) >= 0 {
		out.Sub(&f.bits, &g.bits)
	} else {
		out.Sub(&f.bits, &g.bits)
		out.Mod(&out, modU128)
	}
	return U64F64{bits: out}
}

// IsZero reports whether the value is exactly zero.
func (f U64F64) IsZero() bool {
	return f.bits.IsZero()
}

// Cmp compares f and g, returning -1, 0 or 1.
func (f U64F64) Cmp(g U64F64) int {
	return f.bits.Cmp(&g.bits)
}

func (f U64F64) String() string {
	return f.Decimal().String()
}

// MarshalJSON encodes the raw bits as 0x-hex, matching the chain's wire form.
func (f U64F64) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hexutil.EncodeBig(f.bits.ToBig()) + `"`), nil
}

func (f *U64F64) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("fixed: expected hex string, got %s", data)
	}
	v, err := FromHex(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
