// Package wire implements the external interfaces the dispatcher consumes
// and produces (§4.6, §6): raw-transaction decoding, EIP-155 signature
// recovery, and the Solidity-selector action codec. It is kept separate
// from core so the dispatcher's Run method never needs to know about RLP
// or ABI framing -- grounded on the teacher's core/ledger.go use of
// go-ethereum's rlp package for its own block encoding.
package wire

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"ledgerd/core"
)

// RawTransaction is the nine-field RLP array a signed transaction arrives
// as on the wire: (nonce, gas_price, gas_limit, to, value, data, v, r, s).
// gas_price is always empty in this chain; it is retained as a field only
// so the array shape matches the classic Ethereum encoding bit-for-bit.
type RawTransaction struct {
	Nonce    uint64
	GasPrice []byte
	GasLimit uint64
	To       [20]byte
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
}

// DecodeRawTransaction RLP-decodes the nine-field array.
func DecodeRawTransaction(raw []byte) (*RawTransaction, error) {
	var tx RawTransaction
	if err := rlp.DecodeBytes(raw, &tx); err != nil {
		return nil, core.ErrDecode
	}
	return &tx, nil
}

// signingFields is the EIP-155 signing digest's field set: the same nine
// fields with v replaced by the chain id and r/s zeroed out.
type signingFields struct {
	Nonce    uint64
	GasPrice []byte
	GasLimit uint64
	To       [20]byte
	Value    *big.Int
	Data     []byte
	ChainID  *big.Int
	Zero1    uint
	Zero2    uint
}

// SigningDigest returns the Keccak256 hash EIP-155 signs over: the
// transaction's fields RLP-encoded with v replaced by chainID and r, s
// empty.
func (tx *RawTransaction) SigningDigest(chainID *big.Int) ([]byte, error) {
	enc, err := rlp.EncodeToBytes(signingFields{
		Nonce:    tx.Nonce,
		GasPrice: tx.GasPrice,
		GasLimit: tx.GasLimit,
		To:       tx.To,
		Value:    tx.Value,
		Data:     tx.Data,
		ChainID:  chainID,
	})
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(enc), nil
}

// RecoverSender reconstructs the 65-byte {R||S||V} signature from the
// transaction's v/r/s fields and recovers the sending address from the
// EIP-155 signing digest. v is expected in its EIP-155 form
// (chainID*2+35 or +36); it is normalized back to a single recovery byte
// before calling into go-ethereum's secp256k1 recovery.
func RecoverSender(tx *RawTransaction, chainID *big.Int) (core.Address, error) {
	digest, err := tx.SigningDigest(chainID)
	if err != nil {
		return core.AddressZero, core.ErrInvalidSender
	}

	recID := new(big.Int).Sub(tx.V, new(big.Int).Mul(chainID, big.NewInt(2)))
	recID.Sub(recID, big.NewInt(35))
	if recID.Sign() < 0 || recID.Cmp(big.NewInt(1)) > 0 {
		return core.AddressZero, core.ErrInvalidSender
	}

	sig := make([]byte, 65)
	tx.R.FillBytes(sig[:32])
	tx.S.FillBytes(sig[32:64])
	sig[64] = byte(recID.Uint64())

	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return core.AddressZero, core.ErrInvalidSender
	}
	return core.FromCommon(crypto.PubkeyToAddress(*pub)), nil
}
