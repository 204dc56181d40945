// note.go - Note and account types for the private token protocol.
//
// A Note is a unit of spendable value bound to an address, analogous to an
// unspent transaction output. Its commitment binds (address, balance, nonce);
// recomputing the commitment from the stored fields is the tamper check.

package token

import "math/big"

// Account pairs a public address with the spending secret it derives from:
// address = H(secret). One secret may own many notes.
type Account struct {
	Address [32]byte
	Secret  [32]byte
}

// Note is a commitment the owner can spend. The owning secret is known
// locally only if the account was created or imported here; a received
// note's secret may be absent.
type Note struct {
	Commitment [32]byte
	Address    [32]byte
	Balance    *big.Int
	Nonce      uint64
	Spent      bool
}

// NewNote builds an unspent note for the given address, balance, and nonce,
// committing to the triple. The balance must already be a valid UInt128.
func NewNote(address [32]byte, balance *big.Int, nonce uint64) *Note {
	return &Note{
		Commitment: ComputeCommitment(address, balance, nonce),
		Address:    address,
		Balance:    new(big.Int).Set(balance),
		Nonce:      nonce,
	}
}

// Verify recomputes the commitment from the note's fields and reports whether
// it matches the stored commitment hash.
func (n *Note) Verify() bool {
	return n.Commitment == ComputeCommitment(n.Address, n.Balance, n.Nonce)
}

// Clone returns a deep copy so callers cannot mutate store-owned notes.
func (n *Note) Clone() *Note {
	c := *n
	c.Balance = new(big.Int).Set(n.Balance)
	return &c
}
