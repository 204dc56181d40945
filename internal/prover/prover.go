// Package prover defines the zero-knowledge proof collaborator consumed by
// the transaction builder.
//
// The actual proving backend lives outside this repository; this package
// specifies the witness shapes and the Prover interface, plus two
// implementations: a deterministic development prover for tests and offline
// runs, and an HTTP client for an external proving service.
package prover

import "context"

// Proof is an opaque proof blob together with the ordered 32-byte public
// input field elements the verifier contract consumes.
//
// Public input order is fixed: a mint proof carries [commitment]; a transfer
// proof carries [nullifier, senderOutput, recipientOutput], with a zero
// senderOutput when the transfer leaves no change.
type Proof struct {
	Proof        []byte
	PublicInputs [][32]byte
}

// MintWitness is the witness for a mint: a fresh note with no consumed input.
type MintWitness struct {
	Address    [32]byte
	Amount     [32]byte
	Nonce      [32]byte
	Commitment [32]byte
}

// TransferWitness is the witness for a single-input transfer. Secret,
// InputAmount, and InputNonce are private; the nullifier and output
// commitments become public inputs.
type TransferWitness struct {
	Secret          [32]byte
	InputCommitment [32]byte
	InputAmount     [32]byte
	InputNonce      [32]byte
	Amount          [32]byte
	Nullifier       [32]byte
	SenderOutput    [32]byte
	RecipientOutput [32]byte
}

// Prover generates proofs for note state transitions.
type Prover interface {
	ProveMint(ctx context.Context, w MintWitness) (*Proof, error)
	ProveTransfer(ctx context.Context, w TransferWitness) (*Proof, error)
}

// ProofGenerationError wraps a proving failure. The builder surfaces it
// unchanged; no local state has been mutated when it is returned.
type ProofGenerationError struct {
	Op  string
	Err error
}

func (e *ProofGenerationError) Error() string {
	return "proof generation failed (" + e.Op + "): " + e.Err.Error()
}

func (e *ProofGenerationError) Unwrap() error {
	return e.Err
}
