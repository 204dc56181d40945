// tx.go - Transaction builder: mint and transfer state transitions.
//
// The builder orchestrates the note lifecycle against the prover and chain
// collaborators. Ordering contract: proof generation happens before the
// nullifier is used for submission, and on-chain submission happens before
// the local store is mutated. The local spent flag is a cache of what the
// chain holds; Reconcile detects divergence after a failure between
// submission and local commit.

package token

import (
	"context"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"privatetoken/internal/chain"
	"privatetoken/internal/prover"
)

// Builder drives mint and transfer transitions over a note store.
type Builder struct {
	store  *Store
	prover prover.Prover
	chain  chain.Ledger
	log    zerolog.Logger
}

// NewBuilder wires a builder over its collaborators.
func NewBuilder(store *Store, p prover.Prover, l chain.Ledger, log zerolog.Logger) *Builder {
	return &Builder{store: store, prover: p, chain: l, log: log}
}

// MintResult reports a completed mint.
type MintResult struct {
	Note *Note
	TxID chain.TxID
}

// TransferResult reports a completed transfer: the consumed note, its
// nullifier, the optional change note, and the recipient note.
type TransferResult struct {
	Spent     *Note
	Nullifier [32]byte
	Change    *Note
	Recipient *Note
	TxID      chain.TxID
}

// Discrepancy is a divergence between the local store and the chain found by
// Reconcile.
type Discrepancy struct {
	Commitment [32]byte
	Kind       DiscrepancyKind
}

// DiscrepancyKind classifies a reconciliation finding.
type DiscrepancyKind string

const (
	// SpentOnChain: the note's nullifier is used on-chain but the note is
	// still unspent locally (a submission succeeded without a local commit).
	SpentOnChain DiscrepancyKind = "spent-on-chain"
	// MissingOnChain: the note is known locally but its commitment was never
	// published.
	MissingOnChain DiscrepancyKind = "missing-on-chain"
)

// CreateAccount generates a fresh secret, derives its address, and persists
// the account.
func (b *Builder) CreateAccount() (Account, error) {
	secret := GenerateSecret()
	return b.ImportAccount(secret)
}

// ImportAccount registers an externally held secret, making notes addressed
// to H(secret) spendable from this store.
func (b *Builder) ImportAccount(secret [32]byte) (Account, error) {
	account := Account{Address: DeriveAddress(secret), Secret: secret}
	if err := b.store.AddAccount(account); err != nil {
		return Account{}, err
	}
	b.log.Info().Str("address", EncodeBytes32(account.Address)).Msg("account registered")
	return account, nil
}

// Mint creates a new unspent note with no consumed input: prove, submit,
// then persist. Nonce uniqueness per address is the caller's responsibility;
// reusing a nonce for the same address produces a colliding note.
func (b *Builder) Mint(ctx context.Context, address [32]byte, amount *big.Int, nonce uint64) (*MintResult, error) {
	if !ValidAmount(amount) {
		return nil, &InvalidInputError{Msg: "mint amount out of range"}
	}

	note := NewNote(address, amount, nonce)
	proof, err := b.prover.ProveMint(ctx, prover.MintWitness{
		Address:    address,
		Amount:     U128ToBytes32(amount),
		Nonce:      U64ToBytes32(nonce),
		Commitment: note.Commitment,
	})
	if err != nil {
		return nil, err
	}
	txid, err := b.chain.Submit(ctx, proof)
	if err != nil {
		return nil, err
	}
	if err := b.store.AddNote(note); err != nil {
		// The commitment is already on chain. Log every field needed to
		// rebuild the note so the owner can re-register it once the state
		// file is writable again, instead of minting a duplicate.
		b.log.Error().
			Str("address", EncodeBytes32(address)).
			Str("commitment", EncodeBytes32(note.Commitment)).
			Str("amount", amount.String()).
			Uint64("nonce", nonce).
			Str("tx", string(txid)).
			Err(err).
			Msg("minted note is on chain but was not saved locally")
		return nil, err
	}

	b.log.Info().
		Str("address", EncodeBytes32(address)).
		Str("commitment", EncodeBytes32(note.Commitment)).
		Str("amount", amount.String()).
		Uint64("nonce", nonce).
		Str("tx", string(txid)).
		Msg("minted note")
	return &MintResult{Note: note, TxID: txid}, nil
}

// Transfer consumes one of the sender's notes and produces a recipient note
// plus an optional change note, conserving balance exactly:
// spent = change + transferred.
//
// The nullifier is derived here and nowhere else, at the moment spend is
// attempted. Any failure before the final atomic commit, in proving,
// submission, or persistence, leaves the store exactly as it was: the
// selected note stays unspent and no output notes appear.
func (b *Builder) Transfer(ctx context.Context, secret [32]byte, from, to [32]byte, amount *big.Int) (*TransferResult, error) {
	if !ValidAmount(amount) {
		return nil, &InvalidInputError{Msg: "transfer amount out of range"}
	}
	if DeriveAddress(secret) != from {
		return nil, &InvalidInputError{Msg: "secret does not derive the sender address"}
	}

	note := b.store.FindSpendable(from, amount)
	if note == nil {
		return nil, &InsufficientBalanceError{Have: b.store.largestUnspent(from), Need: new(big.Int).Set(amount)}
	}

	nullifier := ComputeNullifier(secret, note.Nonce)

	changeBalance := new(big.Int).Sub(note.Balance, amount)
	var change *Note
	var senderOutput [32]byte
	if changeBalance.Sign() > 0 {
		change = NewNote(from, changeBalance, note.Nonce+1)
		senderOutput = change.Commitment
	}
	recipient := NewNote(to, amount, 0)

	proof, err := b.prover.ProveTransfer(ctx, prover.TransferWitness{
		Secret:          secret,
		InputCommitment: note.Commitment,
		InputAmount:     U128ToBytes32(note.Balance),
		InputNonce:      U64ToBytes32(note.Nonce),
		Amount:          U128ToBytes32(amount),
		Nullifier:       nullifier,
		SenderOutput:    senderOutput,
		RecipientOutput: recipient.Commitment,
	})
	if err != nil {
		return nil, err
	}
	txid, err := b.chain.Submit(ctx, proof)
	if err != nil {
		return nil, err
	}

	outputs := []*Note{recipient}
	if change != nil {
		outputs = append(outputs, change)
	}
	if err := b.store.applyTransfer(note.Commitment, outputs...); err != nil {
		return nil, err
	}

	event := b.log.Info().
		Str("from", EncodeBytes32(from)).
		Str("to", EncodeBytes32(to)).
		Str("amount", amount.String()).
		Str("nullifier", EncodeBytes32(nullifier)).
		Str("recipient_note", EncodeBytes32(recipient.Commitment)).
		Str("tx", string(txid))
	if change != nil {
		event = event.Str("change_note", EncodeBytes32(change.Commitment))
	}
	event.Msg("transferred")

	spent := note.Clone()
	spent.Spent = true
	return &TransferResult{
		Spent:     spent,
		Nullifier: nullifier,
		Change:    change,
		Recipient: recipient,
		TxID:      txid,
	}, nil
}

// Balance returns the spendable balance for an address.
func (b *Builder) Balance(address [32]byte) *big.Int {
	return b.store.Balance(address)
}

// UnspentNotes returns the unspent notes for an address in ascending nonce
// order.
func (b *Builder) UnspentNotes(address [32]byte) []*Note {
	return b.store.UnspentNotes(address)
}

// Lookup returns the note stored under a commitment.
func (b *Builder) Lookup(commitment [32]byte) (*Note, error) {
	return b.store.Note(commitment)
}

// ExportSecret returns the spending secret for a locally known account.
func (b *Builder) ExportSecret(address [32]byte) ([32]byte, error) {
	return b.store.Secret(address)
}

// Accounts lists locally known accounts with their balances.
func (b *Builder) Accounts() []AccountBalance {
	return b.store.Accounts()
}

// Reconcile compares the local view of an address against the chain. For
// every note it checks the commitment exists on-chain, and, when the owning
// secret is known locally, whether the nullifier has been used while the
// note is still unspent locally. With repair set, such notes are marked
// spent so the local cache converges on the chain.
func (b *Builder) Reconcile(ctx context.Context, address [32]byte, repair bool) ([]Discrepancy, error) {
	secret, secretErr := b.store.Secret(address)
	var found []Discrepancy
	for _, note := range b.store.notesFor(address) {
		has, err := b.chain.HasCommitment(ctx, note.Commitment)
		if err != nil {
			return found, err
		}
		if !has {
			found = append(found, Discrepancy{Commitment: note.Commitment, Kind: MissingOnChain})
		}

		if secretErr != nil || note.Spent {
			continue
		}
		used, err := b.chain.IsNullifierUsed(ctx, ComputeNullifier(secret, note.Nonce))
		if err != nil {
			return found, err
		}
		if used {
			found = append(found, Discrepancy{Commitment: note.Commitment, Kind: SpentOnChain})
			if repair {
				if err := b.store.MarkSpent(note.Commitment); err != nil {
					return found, err
				}
				b.log.Warn().
					Str("commitment", EncodeBytes32(note.Commitment)).
					Msg("note was spent on-chain; marked spent locally")
			}
		}
	}
	if len(found) > 0 && !repair {
		b.log.Warn().Int("discrepancies", len(found)).Msg("local store diverges from chain")
	}
	return found, nil
}

// String renders a discrepancy for logs and CLI output.
func (d Discrepancy) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, EncodeBytes32(d.Commitment))
}
