// errors.go - Typed errors for the private token core.
//
// All core operations return one of these; none panic on malformed external
// input. Local errors are recoverable and carry enough context (have/need,
// missing key) for the caller to act. Collaborator faults from the prover and
// chain packages are surfaced unchanged.

package token

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrCommitmentNotFound is returned when a commitment is absent from the store.
var ErrCommitmentNotFound = errors.New("commitment not found")

// ErrAccountNotFound is returned when no secret is known for an address.
var ErrAccountNotFound = errors.New("account not found")

// InsufficientBalanceError is returned when no single unspent note covers a
// requested transfer amount. Have is the largest single unspent note balance
// for the address (zero when there are none); the store is left untouched.
type InsufficientBalanceError struct {
	Have *big.Int
	Need *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %s, need %s", e.Have, e.Need)
}

// InvalidInputError flags malformed external input (bad hex, wrong byte
// length, out-of-range amount). It is raised before any derivation runs.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Msg
}

// StateError wraps a persistence-layer fault. The in-memory store remains
// consistent with the last durable write, so the failed operation is safe to
// retry.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state %s: %v", e.Op, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
