package core

// bignum.go isolates the two arbitrary-precision arithmetic helpers the
// spec calls for: the AMM's widened multiply-then-divide (proportionOf,
// §4.1) and the USD unit conversion (§4.2), which scales by an externally
// fed, unbounded exchange rate. Apart from amm.go's calcOut, which does its
// own uint256 multiply-divide, everything outside this file operates on
// plain uint64 — keeping the fiddly widening math in few places is easier
// to audit than spreading math/big and uint256 calls through the
// subsystems, and matches the original's own constants.rs convention of a
// single BASE_TOKEN_MANTISSA/EXCHANGE_RATE_MANTISSA pair.
//
// proportionOf uses holiman/uint256 (already part of this corpus's
// go-ethereum-adjacent dependency surface) for the 128-bit-safe widening
// multiply; the exchange rate itself uses math/big, since
// usd_exchange_rate has no fixed bit width.

import (
	"math/big"

	"github.com/holiman/uint256"
)

const (
	// BaseFactor (BASE_FACTOR) is the internal-unit scale for token amounts.
	BaseFactor = 1_000_000
	// BaseTokenMantissa and ExchangeRateMantissa together fix the USD
	// conversion scale M = 10^(BaseTokenMantissa+ExchangeRateMantissa).
	BaseTokenMantissa     = 6
	ExchangeRateMantissa  = 10
	feeBps                = 3_000 // FEE: 0.3% of BaseFactor
)

// conversionScale is 10^(BaseTokenMantissa+ExchangeRateMantissa).
func conversionScale() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(BaseTokenMantissa+ExchangeRateMantissa), nil)
}

// proportionOf returns floor(x*n/d), widened to 256 bits so that the
// intermediate product never truncates. Any result that does not fit back
// into a uint64 is a defect in a caller that failed to pre-bound its
// inputs via Uint, not a recoverable runtime condition, so it panics
// rather than returning an error (per the design notes on arithmetic
// widening).
func proportionOf(x, n, d uint64) uint64 {
	if d == 0 {
		panic("proportionOf: division by zero")
	}
	prod := new(uint256.Int).Mul(uint256.NewInt(x), uint256.NewInt(n))
	res := new(uint256.Int).Div(prod, uint256.NewInt(d))
	if !res.IsUint64() {
		panic("proportionOf: result overflows uint64")
	}
	return res.Uint64()
}

// amountToUnderlying converts an internal USD amount to its externally
// quoted underlying value: floor(usd_exchange_rate * amount / M).
func amountToUnderlying(rate *big.Int, amount uint64) uint64 {
	num := new(big.Int).Mul(rate, new(big.Int).SetUint64(amount))
	out := new(big.Int).Div(num, conversionScale())
	return out.Uint64()
}

// underlyingToAmount converts an externally quoted USD amount into its
// internal representation: floor(M * underlying / usd_exchange_rate).
// Fails if the rate is unset (zero), instead of the source's latent
// divide-by-zero panic.
func underlyingToAmount(rate *big.Int, underlying uint64) (uint64, error) {
	if rate.Sign() <= 0 {
		return 0, ErrUSDExchangeRateUnset
	}
	num := new(big.Int).Mul(conversionScale(), new(big.Int).SetUint64(underlying))
	out := new(big.Int).Div(num, rate)
	return out.Uint64(), nil
}
