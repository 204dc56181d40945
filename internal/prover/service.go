// service.go - HTTP client for an external proving service.
//
// The real proving backend (circuit compilation, witness execution, proof
// generation) runs as a separate service; this client posts witnesses as JSON
// and receives the proof blob plus ordered public inputs.

package prover

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ServiceProver generates proofs by calling an external proving service over
// HTTP.
type ServiceProver struct {
	baseURL string
	client  *http.Client
}

// NewServiceProver returns a client for the proving service at baseURL.
// Proof generation can take minutes for large circuits, hence the generous
// timeout; callers can cancel earlier through the context.
func NewServiceProver(baseURL string) *ServiceProver {
	return &ServiceProver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

type mintRequest struct {
	Address    string `json:"address"`
	Amount     string `json:"amount"`
	Nonce      string `json:"nonce"`
	Commitment string `json:"commitment"`
}

type transferRequest struct {
	Secret          string `json:"secret"`
	InputCommitment string `json:"input_commitment"`
	InputAmount     string `json:"input_amount"`
	InputNonce      string `json:"input_nonce"`
	Amount          string `json:"amount"`
	Nullifier       string `json:"nullifier"`
	SenderOutput    string `json:"sender_output"`
	RecipientOutput string `json:"recipient_output"`
}

type proofResponse struct {
	Proof        string   `json:"proof"`
	PublicInputs []string `json:"public_inputs"`
}

// ProveMint requests a mint proof from the service.
func (p *ServiceProver) ProveMint(ctx context.Context, w MintWitness) (*Proof, error) {
	req := mintRequest{
		Address:    hex32(w.Address),
		Amount:     hex32(w.Amount),
		Nonce:      hex32(w.Nonce),
		Commitment: hex32(w.Commitment),
	}
	proof, err := p.post(ctx, "/prove/mint", req)
	if err != nil {
		return nil, &ProofGenerationError{Op: "mint", Err: err}
	}
	return proof, nil
}

// ProveTransfer requests a transfer proof from the service.
func (p *ServiceProver) ProveTransfer(ctx context.Context, w TransferWitness) (*Proof, error) {
	req := transferRequest{
		Secret:          hex32(w.Secret),
		InputCommitment: hex32(w.InputCommitment),
		InputAmount:     hex32(w.InputAmount),
		InputNonce:      hex32(w.InputNonce),
		Amount:          hex32(w.Amount),
		Nullifier:       hex32(w.Nullifier),
		SenderOutput:    hex32(w.SenderOutput),
		RecipientOutput: hex32(w.RecipientOutput),
	}
	proof, err := p.post(ctx, "/prove/transfer", req)
	if err != nil {
		return nil, &ProofGenerationError{Op: "transfer", Err: err}
	}
	return proof, nil
}

// post sends the witness and decodes the proof response.
func (p *ServiceProver) post(ctx context.Context, path string, body any) (*Proof, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("proving service returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var decoded proofResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding proving service response: %w", err)
	}

	blob, err := decodeHex(decoded.Proof)
	if err != nil {
		return nil, fmt.Errorf("decoding proof blob: %w", err)
	}
	inputs := make([][32]byte, 0, len(decoded.PublicInputs))
	for _, in := range decoded.PublicInputs {
		raw, err := decodeHex(in)
		if err != nil {
			return nil, fmt.Errorf("decoding public input: %w", err)
		}
		if len(raw) != 32 {
			return nil, fmt.Errorf("public input must be 32 bytes, got %d", len(raw))
		}
		var fixed [32]byte
		copy(fixed[:], raw)
		inputs = append(inputs, fixed)
	}
	return &Proof{Proof: blob, PublicInputs: inputs}, nil
}

func hex32(b [32]byte) string {
	return "0x" + hex.EncodeToString(b[:])
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
