// memory.go - In-memory ledger double.
//
// Deterministic and inspectable: commitments and nullifiers accumulate in
// append-only sets, duplicate nullifiers are rejected the way the contract
// would reject a double spend, and transaction ids are content hashes so
// repeated submissions are directly comparable in tests.

package chain

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"privatetoken/internal/prover"
)

// ErrNullifierUsed is returned when a transfer reuses a nullifier.
var ErrNullifierUsed = errors.New("nullifier already used")

// MemoryLedger is the in-process test double for the on-chain contract.
type MemoryLedger struct {
	mu          sync.Mutex
	commitments map[[32]byte]struct{}
	nullifiers  map[[32]byte]struct{}
	count       uint64
}

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		commitments: make(map[[32]byte]struct{}),
		nullifiers:  make(map[[32]byte]struct{}),
	}
}

// Submit applies a mint or transfer to the in-memory sets, enforcing
// nullifier uniqueness.
func (l *MemoryLedger) Submit(ctx context.Context, proof *prover.Proof) (TxID, error) {
	if err := ctx.Err(); err != nil {
		return "", &SubmissionError{Op: "submit", Err: err}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	switch len(proof.PublicInputs) {
	case 1:
		l.addCommitment(proof.PublicInputs[0])
	case 3:
		nullifier := proof.PublicInputs[0]
		if _, used := l.nullifiers[nullifier]; used {
			return "", &SubmissionError{Op: "transfer", Err: ErrNullifierUsed}
		}
		l.nullifiers[nullifier] = struct{}{}
		l.addCommitment(proof.PublicInputs[1])
		l.addCommitment(proof.PublicInputs[2])
	default:
		return "", &SubmissionError{Op: "submit", Err: errors.New("unexpected public input count")}
	}

	return txID(proof), nil
}

// addCommitment records a commitment, skipping the zero value used when a
// transfer produces no change output.
func (l *MemoryLedger) addCommitment(c [32]byte) {
	if c == ([32]byte{}) {
		return
	}
	if _, ok := l.commitments[c]; !ok {
		l.commitments[c] = struct{}{}
		l.count++
	}
}

// HasCommitment reports whether a commitment has been published.
func (l *MemoryLedger) HasCommitment(ctx context.Context, commitment [32]byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.commitments[commitment]
	return ok, nil
}

// IsNullifierUsed reports whether a nullifier has been revealed.
func (l *MemoryLedger) IsNullifierUsed(ctx context.Context, nullifier [32]byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.nullifiers[nullifier]
	return ok, nil
}

// CommitmentCount returns the number of distinct published commitments.
func (l *MemoryLedger) CommitmentCount(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count, nil
}

// txID derives a deterministic transaction id from the proof contents.
func txID(proof *prover.Proof) TxID {
	data := make([]byte, 0, len(proof.Proof)+32*len(proof.PublicInputs))
	data = append(data, proof.Proof...)
	for _, in := range proof.PublicInputs {
		data = append(data, in[:]...)
	}
	return TxID(common.BytesToHash(crypto.Keccak256(data)).Hex())
}
