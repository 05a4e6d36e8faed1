package core

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Address is a 20-byte account identifier, equal by its underlying bytes.
type Address [20]byte

// AddressZero is the sentinel zero-value address: the bridge's escrow
// account (BridgeEscrow), and the address returned alongside an error when
// signature recovery fails.
var AddressZero = Address{}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// FromCommon converts a go-ethereum common.Address, the type signature
// recovery hands back, into the core Address type.
func FromCommon(a common.Address) Address {
	var out Address
	copy(out[:], a.Bytes())
	return out
}

func (a Address) Common() common.Address {
	var out common.Address
	copy(out[:], a[:])
	return out
}

// Hash is a 32-byte cryptographic hash, used for peer-chain transaction
// hashes attached to completed withdrawals.
type Hash [32]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// TokenID identifies a token by the address of its peer-chain contract.
// USD (the numeraire) is a TokenID like any other.
type TokenID = Address

// Uint restricts an amount to the range a signed 64-bit wire value can
// represent without loss: [0, 2^63-1]. It exists so that every amount
// crossing the wire boundary (§6) is checked once, at the edge, rather than
// trusted implicitly throughout the economic paths.
type Uint struct {
	v uint64
}

const maxUint63 = uint64(1)<<63 - 1

// NewUint validates v fits in a non-negative int64 and wraps it.
func NewUint(v uint64) (Uint, error) {
	if v > maxUint63 {
		return Uint{}, fmt.Errorf("%d is greater than the max uint %d", v, maxUint63)
	}
	return Uint{v: v}, nil
}

// UintFromWireInt64 reinterprets a signed wire "int64" as a non-negative
// u64, per §6's "Signed-wire int64 values are reinterpreted as non-negative
// u64" rule.
func UintFromWireInt64(v int64) (Uint, error) {
	if v < 0 {
		return Uint{}, fmt.Errorf("negative wire amount: %d", v)
	}
	return NewUint(uint64(v))
}

func (u Uint) Uint64() uint64 { return u.v }
func (u Uint) AsInt64() int64 { return int64(u.v) }
