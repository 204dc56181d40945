// eth.go - Contract client for the deployed private token contract.
//
// Thin wrapper over go-ethereum: packs calls against the contract ABI, signs
// legacy transactions with the configured key, and reads the commitment and
// nullifier views. Chain-side verification logic stays in the contract.

package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"privatetoken/internal/prover"
)

// privateTokenABI covers the contract surface the client consumes.
const privateTokenABI = `[
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"proof","type":"bytes"},{"name":"publicInputs","type":"bytes32[]"}],"outputs":[]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"proof","type":"bytes"},{"name":"publicInputs","type":"bytes32[]"}],"outputs":[]},
  {"type":"function","name":"hasCommitment","stateMutability":"view","inputs":[{"name":"commitment","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"isNullifierUsed","stateMutability":"view","inputs":[{"name":"nullifier","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getCommitmentCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

// Config holds the connection parameters for the contract client.
type Config struct {
	RPCURL          string
	ContractAddress string
	PrivateKey      string
	ChainID         uint64
}

// ConfigFromEnv reads the contract configuration from the environment:
// SEPOLIA_RPC_URL, CONTRACT_ADDRESS, PRIVATE_KEY, and optionally CHAIN_ID
// (defaults to Sepolia).
func ConfigFromEnv() (Config, error) {
	cfg := Config{ChainID: 11155111}
	cfg.RPCURL = os.Getenv("SEPOLIA_RPC_URL")
	if cfg.RPCURL == "" {
		return cfg, fmt.Errorf("SEPOLIA_RPC_URL not set")
	}
	cfg.ContractAddress = os.Getenv("CONTRACT_ADDRESS")
	if cfg.ContractAddress == "" {
		return cfg, fmt.Errorf("CONTRACT_ADDRESS not set")
	}
	cfg.PrivateKey = os.Getenv("PRIVATE_KEY")
	if cfg.PrivateKey == "" {
		return cfg, fmt.Errorf("PRIVATE_KEY not set")
	}
	if raw := os.Getenv("CHAIN_ID"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid CHAIN_ID %q: %w", raw, err)
		}
		cfg.ChainID = id
	}
	return cfg, nil
}

// ContractClient talks to the deployed private token contract.
type ContractClient struct {
	client   *ethclient.Client
	abi      abi.ABI
	contract common.Address
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
}

// DialContract connects to the RPC endpoint and prepares the signing key.
func DialContract(ctx context.Context, cfg Config) (*ContractClient, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(privateTokenABI))
	if err != nil {
		return nil, fmt.Errorf("parsing contract ABI: %w", err)
	}
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", cfg.RPCURL, err)
	}
	return &ContractClient{
		client:   client,
		abi:      parsed,
		contract: common.HexToAddress(cfg.ContractAddress),
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		chainID:  new(big.Int).SetUint64(cfg.ChainID),
	}, nil
}

// Close releases the RPC connection.
func (c *ContractClient) Close() {
	c.client.Close()
}

// Submit sends a mint or transfer transaction, dispatching on the public
// input count, and returns the transaction hash.
func (c *ContractClient) Submit(ctx context.Context, proof *prover.Proof) (TxID, error) {
	var method string
	switch len(proof.PublicInputs) {
	case 1:
		method = "mint"
	case 3:
		method = "transfer"
	default:
		return "", &SubmissionError{Op: "submit", Err: fmt.Errorf("unexpected public input count %d", len(proof.PublicInputs))}
	}

	inputs := make([][32]byte, len(proof.PublicInputs))
	copy(inputs, proof.PublicInputs)
	data, err := c.abi.Pack(method, proof.Proof, inputs)
	if err != nil {
		return "", &SubmissionError{Op: method, Err: err}
	}

	nonce, err := c.client.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", &SubmissionError{Op: method, Err: err}
	}
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", &SubmissionError{Op: method, Err: err}
	}
	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From: c.from,
		To:   &c.contract,
		Data: data,
	})
	if err != nil {
		return "", &SubmissionError{Op: method, Err: err}
	}

	tx := types.NewTransaction(nonce, c.contract, new(big.Int), gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return "", &SubmissionError{Op: method, Err: err}
	}
	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return "", &SubmissionError{Op: method, Err: err}
	}
	return TxID(signed.Hash().Hex()), nil
}

// HasCommitment queries the contract's commitment set.
func (c *ContractClient) HasCommitment(ctx context.Context, commitment [32]byte) (bool, error) {
	return c.viewBool(ctx, "hasCommitment", commitment)
}

// IsNullifierUsed queries the contract's nullifier set.
func (c *ContractClient) IsNullifierUsed(ctx context.Context, nullifier [32]byte) (bool, error) {
	return c.viewBool(ctx, "isNullifierUsed", nullifier)
}

// CommitmentCount returns the contract's total commitment count.
func (c *ContractClient) CommitmentCount(ctx context.Context) (uint64, error) {
	out, err := c.call(ctx, "getCommitmentCount")
	if err != nil {
		return 0, err
	}
	count, ok := out[0].(*big.Int)
	if !ok || !count.IsUint64() {
		return 0, &SubmissionError{Op: "getCommitmentCount", Err: fmt.Errorf("unexpected result %v", out)}
	}
	return count.Uint64(), nil
}

func (c *ContractClient) viewBool(ctx context.Context, method string, arg [32]byte) (bool, error) {
	out, err := c.call(ctx, method, arg)
	if err != nil {
		return false, err
	}
	flag, ok := out[0].(bool)
	if !ok {
		return false, &SubmissionError{Op: method, Err: fmt.Errorf("unexpected result %v", out)}
	}
	return flag, nil
}

func (c *ContractClient) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, &SubmissionError{Op: method, Err: err}
	}
	raw, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, &SubmissionError{Op: method, Err: err}
	}
	out, err := c.abi.Unpack(method, raw)
	if err != nil || len(out) == 0 {
		return nil, &SubmissionError{Op: method, Err: fmt.Errorf("unpacking result: %v", err)}
	}
	return out, nil
}
