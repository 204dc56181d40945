// Package chain defines the on-chain ledger collaborator: the contract that
// globally enforces commitment existence and nullifier uniqueness.
//
// The ledger is a capability interface with two implementations selected by
// configuration: an in-memory double for tests and offline runs, and a
// go-ethereum client for the deployed private token contract. The local note
// store's spent flags are a cache of what this ledger holds; reconciliation
// reads flow through HasCommitment and IsNullifierUsed.
package chain

import (
	"context"

	"privatetoken/internal/prover"
)

// TxID identifies a submitted transaction on the underlying chain.
type TxID string

// Ledger is the on-chain enforcement surface consumed by the transaction
// builder.
type Ledger interface {
	// Submit publishes a proof with its public inputs. A proof with a single
	// public input is a mint ([commitment]); one with three is a transfer
	// ([nullifier, senderOutput, recipientOutput]).
	Submit(ctx context.Context, proof *prover.Proof) (TxID, error)
	HasCommitment(ctx context.Context, commitment [32]byte) (bool, error)
	IsNullifierUsed(ctx context.Context, nullifier [32]byte) (bool, error)
	CommitmentCount(ctx context.Context) (uint64, error)
}

// SubmissionError wraps a chain submission or query failure. The local store
// has not been mutated when Submit returns one; a failure after local
// mutation is what Reconcile exists to detect.
type SubmissionError struct {
	Op  string
	Err error
}

func (e *SubmissionError) Error() string {
	return "chain submission failed (" + e.Op + "): " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
