// dev.go - Deterministic development prover.
//
// Produces a stable pseudo-proof from a MiMC transcript of the witness so
// that tests and offline demo runs get reproducible, inspectable blobs. It
// performs no actual zero-knowledge proving and must never be selected
// against a real chain.

package prover

import (
	"context"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	mimcNative "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// DevProver is the deterministic test double for the proving backend.
type DevProver struct{}

// NewDevProver returns a development prover.
func NewDevProver() *DevProver {
	return &DevProver{}
}

// ProveMint returns a transcript pseudo-proof with [commitment] as the
// public inputs.
func (p *DevProver) ProveMint(ctx context.Context, w MintWitness) (*Proof, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProofGenerationError{Op: "mint", Err: err}
	}
	blob := transcript(tag("ptoken/mint"), w.Address, w.Amount, w.Nonce, w.Commitment)
	return &Proof{
		Proof:        blob,
		PublicInputs: [][32]byte{w.Commitment},
	}, nil
}

// ProveTransfer returns a transcript pseudo-proof with
// [nullifier, senderOutput, recipientOutput] as the public inputs.
func (p *DevProver) ProveTransfer(ctx context.Context, w TransferWitness) (*Proof, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProofGenerationError{Op: "transfer", Err: err}
	}
	blob := transcript(tag("ptoken/transfer"),
		w.Secret, w.InputCommitment, w.InputAmount, w.InputNonce,
		w.Amount, w.Nullifier, w.SenderOutput, w.RecipientOutput)
	return &Proof{
		Proof:        blob,
		PublicInputs: [][32]byte{w.Nullifier, w.SenderOutput, w.RecipientOutput},
	}, nil
}

// transcript absorbs the inputs into a MiMC sponge over the BN254 scalar
// field, reducing each 32-byte value into the field first.
func transcript(inputs ...[32]byte) []byte {
	h := mimcNative.NewMiMC()
	for _, in := range inputs {
		var e fr.Element
		e.SetBigInt(new(big.Int).SetBytes(in[:]))
		b := e.Bytes()
		h.Write(b[:])
	}
	return h.Sum(nil)
}

// tag builds a domain separation label as a 32-byte value.
func tag(label string) [32]byte {
	var out [32]byte
	copy(out[:], label)
	return out
}
