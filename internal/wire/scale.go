package wire

// scale.go converts ERC-20 "transfer" values between their wire decimals
// (the token's own declared decimals, per TokenMetadataTable) and the
// ledger's fixed ELLIPTICOIN_DECIMALS (§6).

import (
	"math/big"

	"ledgerd/core"
)

// LedgerDecimals is BASE_FACTOR's digit count minus one: the ledger's
// internal fixed-point scale for every token amount. BASE_FACTOR = 10^6,
// so "1000000" has 7 digits and ELLIPTICOIN_DECIMALS = 6.
const LedgerDecimals = 6

func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ScaleDownToLedgerDecimals converts a wire-decimals ERC-20 value into the
// ledger's internal scale for token, looking up token's declared decimals
// in TokenMetadataTable. Unknown tokens are treated as already being at
// ledger decimals (scale factor of one).
func ScaleDownToLedgerDecimals(value *big.Int, token core.TokenID) *big.Int {
	meta, ok := core.TokenMetadataTable[token]
	if !ok || meta.Decimals <= LedgerDecimals {
		return new(big.Int).Set(value)
	}
	return new(big.Int).Div(value, pow10(meta.Decimals-LedgerDecimals))
}

// ScaleUpFromLedgerDecimals is the inverse of ScaleDownToLedgerDecimals,
// used when encoding an outbound transfer back onto the wire.
func ScaleUpFromLedgerDecimals(value *big.Int, token core.TokenID) *big.Int {
	meta, ok := core.TokenMetadataTable[token]
	if !ok || meta.Decimals <= LedgerDecimals {
		return new(big.Int).Set(value)
	}
	return new(big.Int).Mul(value, pow10(meta.Decimals-LedgerDecimals))
}
