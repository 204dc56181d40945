// crypto.go - Commitment scheme for the private token protocol.
//
// Implements MiMC-based address derivation, note commitments, and nullifiers.
// All three derivations are deterministic, pure functions over 32-byte inputs;
// input validation (hex decoding, length checks) happens at the edges, before
// any derivation runs.

package token

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	mimcNative "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// maxUint128 bounds note balances: 2^128 - 1.
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// hash32 absorbs each 32-byte input into a MiMC sponge over the BN254 scalar
// field and returns the 32-byte digest. Inputs are reduced into the field
// before absorption, so the function is total over arbitrary 32-byte values.
func hash32(inputs ...[32]byte) [32]byte {
	h := mimcNative.NewMiMC()
	for _, in := range inputs {
		var e fr.Element
		e.SetBigInt(new(big.Int).SetBytes(in[:]))
		b := e.Bytes()
		h.Write(b[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// GenerateSecret returns a fresh random 32-byte spending secret.
func GenerateSecret() [32]byte {
	var secret [32]byte
	rand.Read(secret[:])
	return secret
}

// DeriveAddress derives the public address from a spending secret.
// Deterministic and one-way: the address reveals nothing about the secret.
func DeriveAddress(secret [32]byte) [32]byte {
	return hash32(secret)
}

// ComputeCommitment computes the binding, hiding commitment to a note:
// H(address, balance, nonce). The balance must be a valid UInt128; callers
// validate with ValidAmount before invoking.
func ComputeCommitment(address [32]byte, balance *big.Int, nonce uint64) [32]byte {
	return hash32(address, U128ToBytes32(balance), U64ToBytes32(nonce))
}

// ComputeNullifier computes the one-way spend tag for a note: H(secret, nonce).
// Only the secret holder can derive it, and without the secret it cannot be
// linked back to the note's commitment.
func ComputeNullifier(secret [32]byte, nonce uint64) [32]byte {
	return hash32(secret, U64ToBytes32(nonce))
}

// ValidAmount reports whether a balance is a well-formed UInt128.
func ValidAmount(a *big.Int) bool {
	return a != nil && a.Sign() >= 0 && a.Cmp(maxUint128) <= 0
}

// ParseAmount parses a decimal token amount and range-checks it to UInt128.
func ParseAmount(s string) (*big.Int, error) {
	a, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &InvalidInputError{Msg: "invalid amount: " + s}
	}
	if !ValidAmount(a) {
		return nil, &InvalidInputError{Msg: "amount out of range: " + s}
	}
	return a, nil
}

// U128ToBytes32 serializes a UInt128 balance as 32 bytes, big-endian,
// left-zero-padded.
func U128ToBytes32(v *big.Int) [32]byte {
	var out [32]byte
	v.FillBytes(out[:])
	return out
}

// U64ToBytes32 serializes a nonce as 32 bytes, big-endian, left-zero-padded.
func U64ToBytes32(v uint64) [32]byte {
	var out [32]byte
	binary.BigEndian.PutUint64(out[24:], v)
	return out
}

// EncodeBytes32 renders a 32-byte value as a 0x-prefixed hex string.
func EncodeBytes32(b [32]byte) string {
	return "0x" + hex.EncodeToString(b[:])
}

// DecodeBytes32 parses a 0x-prefixed hex string into a 32-byte value.
// This is the well-formedness gate for all external 32-byte inputs: malformed
// hex or a wrong length fails here with InvalidInputError, before any
// derivation runs.
func DecodeBytes32(s string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimPrefix(s, "0x")
	if len(trimmed) != 64 {
		return out, &InvalidInputError{Msg: "expected 32-byte hex value, got " + s}
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, &InvalidInputError{Msg: "invalid hex value " + s + ": " + err.Error()}
	}
	copy(out[:], raw)
	return out, nil
}
