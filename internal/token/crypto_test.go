package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddressDeterministic(t *testing.T) {
	secret := GenerateSecret()
	assert.Equal(t, DeriveAddress(secret), DeriveAddress(secret))

	other := GenerateSecret()
	assert.NotEqual(t, DeriveAddress(secret), DeriveAddress(other))
}

func TestDeriveAddressInjective(t *testing.T) {
	seen := make(map[[32]byte]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		address := DeriveAddress(GenerateSecret())
		_, dup := seen[address]
		require.False(t, dup, "address collision after %d secrets", i)
		seen[address] = struct{}{}
	}
}

func TestCommitmentDeterministic(t *testing.T) {
	address := DeriveAddress(GenerateSecret())
	balance := big.NewInt(100)

	first := ComputeCommitment(address, balance, 1)
	second := ComputeCommitment(address, balance, 1)
	assert.Equal(t, first, second)

	assert.NotEqual(t, first, ComputeCommitment(address, balance, 2))
	assert.NotEqual(t, first, ComputeCommitment(address, big.NewInt(101), 1))
}

func TestCommitmentCollisionResistance(t *testing.T) {
	seen := make(map[[32]byte]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		address := GenerateSecret()
		raw := GenerateSecret()
		balance := new(big.Int).SetBytes(raw[16:])
		nonce := uint64(i)
		cm := ComputeCommitment(address, balance, nonce)
		_, dup := seen[cm]
		require.False(t, dup, "commitment collision after %d triples", i)
		seen[cm] = struct{}{}
	}
}

func TestNullifierDeterministic(t *testing.T) {
	secret := GenerateSecret()
	assert.Equal(t, ComputeNullifier(secret, 7), ComputeNullifier(secret, 7))
	assert.NotEqual(t, ComputeNullifier(secret, 7), ComputeNullifier(secret, 8))

	// The nullifier must not equal the commitment of the note it spends.
	address := DeriveAddress(secret)
	assert.NotEqual(t, ComputeNullifier(secret, 7), ComputeCommitment(address, big.NewInt(1), 7))
}

func TestFixedWidthEncoding(t *testing.T) {
	amount := big.NewInt(0x0102)
	b := U128ToBytes32(amount)
	assert.Equal(t, byte(0x01), b[30])
	assert.Equal(t, byte(0x02), b[31])
	for i := 0; i < 30; i++ {
		assert.Zero(t, b[i])
	}

	n := U64ToBytes32(0xdeadbeef)
	assert.Equal(t, byte(0xde), n[28])
	assert.Equal(t, byte(0xef), n[31])
	for i := 0; i < 28; i++ {
		assert.Zero(t, n[i])
	}
}

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(big.NewInt(0)))
	assert.True(t, ValidAmount(maxUint128))
	assert.False(t, ValidAmount(nil))
	assert.False(t, ValidAmount(big.NewInt(-1)))
	assert.False(t, ValidAmount(new(big.Int).Add(maxUint128, big.NewInt(1))))
}

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("340282366920938463463374607431768211455") // 2^128 - 1
	require.NoError(t, err)
	assert.Equal(t, maxUint128, a)

	_, err = ParseAmount("340282366920938463463374607431768211456") // 2^128
	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)

	_, err = ParseAmount("not-a-number")
	assert.ErrorAs(t, err, &invalid)
}

func TestHexRoundTrip(t *testing.T) {
	value := GenerateSecret()
	encoded := EncodeBytes32(value)
	assert.Len(t, encoded, 66)
	assert.Equal(t, "0x", encoded[:2])

	decoded, err := DecodeBytes32(encoded)
	require.NoError(t, err)
	assert.Equal(t, value, decoded)

	// The prefix is optional on input.
	decoded, err = DecodeBytes32(encoded[2:])
	require.NoError(t, err)
	assert.Equal(t, value, decoded)
}

func TestDecodeBytes32Rejects(t *testing.T) {
	var invalid *InvalidInputError
	_, err := DecodeBytes32("0x1234")
	assert.ErrorAs(t, err, &invalid)

	_, err = DecodeBytes32("0x" + string(make([]byte, 64)))
	assert.ErrorAs(t, err, &invalid)

	_, err = DecodeBytes32("")
	assert.ErrorAs(t, err, &invalid)
}
