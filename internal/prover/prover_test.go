package prover

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill32(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func TestDevProverDeterministic(t *testing.T) {
	p := NewDevProver()
	ctx := context.Background()

	w := MintWitness{Address: fill32(1), Amount: fill32(2), Nonce: fill32(3), Commitment: fill32(4)}
	first, err := p.ProveMint(ctx, w)
	require.NoError(t, err)
	second, err := p.ProveMint(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	w.Nonce = fill32(5)
	third, err := p.ProveMint(ctx, w)
	require.NoError(t, err)
	assert.NotEqual(t, first.Proof, third.Proof)
}

func TestDevProverPublicInputOrder(t *testing.T) {
	p := NewDevProver()
	ctx := context.Background()

	mint, err := p.ProveMint(ctx, MintWitness{Commitment: fill32(4)})
	require.NoError(t, err)
	require.Len(t, mint.PublicInputs, 1)
	assert.Equal(t, fill32(4), mint.PublicInputs[0])

	transfer, err := p.ProveTransfer(ctx, TransferWitness{
		Nullifier:       fill32(7),
		SenderOutput:    fill32(8),
		RecipientOutput: fill32(9),
	})
	require.NoError(t, err)
	require.Len(t, transfer.PublicInputs, 3)
	assert.Equal(t, fill32(7), transfer.PublicInputs[0])
	assert.Equal(t, fill32(8), transfer.PublicInputs[1])
	assert.Equal(t, fill32(9), transfer.PublicInputs[2])
}

func TestDevProverCancelledContext(t *testing.T) {
	p := NewDevProver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProveMint(ctx, MintWitness{})
	var pgErr *ProofGenerationError
	assert.ErrorAs(t, err, &pgErr)
}

func TestServiceProverMint(t *testing.T) {
	var gotPath string
	var gotBody mintRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(proofResponse{
			Proof:        "0xdeadbeef",
			PublicInputs: []string{hex32(fill32(4))},
		})
	}))
	defer srv.Close()

	p := NewServiceProver(srv.URL)
	proof, err := p.ProveMint(context.Background(), MintWitness{
		Address: fill32(1), Amount: fill32(2), Nonce: fill32(3), Commitment: fill32(4),
	})
	require.NoError(t, err)

	assert.Equal(t, "/prove/mint", gotPath)
	assert.Equal(t, hex32(fill32(4)), gotBody.Commitment)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, proof.Proof)
	require.Len(t, proof.PublicInputs, 1)
	assert.Equal(t, fill32(4), proof.PublicInputs[0])
}

func TestServiceProverErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "witness does not satisfy the circuit", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	p := NewServiceProver(srv.URL)
	_, err := p.ProveTransfer(context.Background(), TransferWitness{})
	var pgErr *ProofGenerationError
	require.ErrorAs(t, err, &pgErr)
	assert.Contains(t, err.Error(), "witness does not satisfy")
}

func TestServiceProverRejectsBadPublicInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(proofResponse{Proof: "0x00", PublicInputs: []string{"0x1234"}})
	}))
	defer srv.Close()

	p := NewServiceProver(srv.URL)
	_, err := p.ProveMint(context.Background(), MintWitness{})
	var pgErr *ProofGenerationError
	require.ErrorAs(t, err, &pgErr)
	assert.Contains(t, err.Error(), "32 bytes")
}
