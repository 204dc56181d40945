package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privatetoken/internal/prover"
)

func mintProof(commitment [32]byte) *prover.Proof {
	return &prover.Proof{Proof: []byte("mint"), PublicInputs: [][32]byte{commitment}}
}

func transferProof(nullifier, senderOut, recipientOut [32]byte) *prover.Proof {
	return &prover.Proof{Proof: []byte("transfer"), PublicInputs: [][32]byte{nullifier, senderOut, recipientOut}}
}

func bytes32(b byte) [32]byte {
	var out [32]byte
	out[31] = b
	return out
}

func TestMemoryLedgerMint(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	txid, err := l.Submit(ctx, mintProof(bytes32(1)))
	require.NoError(t, err)
	assert.NotEmpty(t, txid)

	has, err := l.HasCommitment(ctx, bytes32(1))
	require.NoError(t, err)
	assert.True(t, has)

	has, err = l.HasCommitment(ctx, bytes32(2))
	require.NoError(t, err)
	assert.False(t, has)

	count, err := l.CommitmentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestMemoryLedgerRejectsDuplicateNullifier(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	_, err := l.Submit(ctx, transferProof(bytes32(9), bytes32(1), bytes32(2)))
	require.NoError(t, err)

	used, err := l.IsNullifierUsed(ctx, bytes32(9))
	require.NoError(t, err)
	assert.True(t, used)

	_, err = l.Submit(ctx, transferProof(bytes32(9), bytes32(3), bytes32(4)))
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.ErrorIs(t, err, ErrNullifierUsed)
}

func TestMemoryLedgerSkipsZeroChangeOutput(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	// A transfer with no change carries a zero sender output.
	_, err := l.Submit(ctx, transferProof(bytes32(9), [32]byte{}, bytes32(2)))
	require.NoError(t, err)

	count, err := l.CommitmentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	has, err := l.HasCommitment(ctx, [32]byte{})
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMemoryLedgerRejectsUnexpectedInputCount(t *testing.T) {
	l := NewMemoryLedger()
	_, err := l.Submit(context.Background(), &prover.Proof{Proof: []byte("x"), PublicInputs: [][32]byte{bytes32(1), bytes32(2)}})
	var subErr *SubmissionError
	assert.ErrorAs(t, err, &subErr)
}

func TestMemoryLedgerTxIDDeterministic(t *testing.T) {
	a := NewMemoryLedger()
	b := NewMemoryLedger()
	ctx := context.Background()

	first, err := a.Submit(ctx, mintProof(bytes32(1)))
	require.NoError(t, err)
	second, err := b.Submit(ctx, mintProof(bytes32(1)))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := b.Submit(ctx, mintProof(bytes32(2)))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}
