// store.go - Durable note store and first-fit note selection.
//
// The store is the local wallet view: every known commitment with its note
// record, plus the secrets of locally created or imported accounts. It is a
// plain value owned by the caller; there is no process-wide singleton.
//
// Persistence is a single JSON document. All 32-byte fields, including
// balances and nonces widened from narrower integers, serialize as
// 0x-prefixed hex, big-endian, left-zero-padded to 32 bytes. Every mutating
// operation persists before returning success, using write-to-temp plus
// atomic rename so a crash mid-write leaves the previous durable state
// intact.
//
// NOTE: the store assumes a single local wallet process; it is not safe for
// concurrent writers.

package token

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
)

// noteRecord is the persisted form of a Note.
type noteRecord struct {
	Commitment string `json:"commitment"`
	Address    string `json:"address"`
	Balance    string `json:"balance"`
	Nonce      string `json:"nonce"`
	Spent      bool   `json:"spent"`
}

// stateDocument is the single persisted document: commitments to note
// records, and addresses to owner secrets.
type stateDocument struct {
	Commitments map[string]noteRecord `json:"commitments"`
	Accounts    map[string]string     `json:"accounts"`
}

// AccountBalance pairs an address with its spendable balance.
type AccountBalance struct {
	Address [32]byte
	Balance *big.Int
}

// Store holds the local wallet state and its backing file.
type Store struct {
	path        string
	commitments map[string]*Note
	accounts    map[string][32]byte
}

// OpenStore opens the state file at path, creating an empty store if the file
// does not exist. Every loaded note has its commitment recomputed from its
// fields; a mismatch means the file was tampered with or corrupted and the
// load fails.
func OpenStore(path string) (*Store, error) {
	s := &Store{
		path:        path,
		commitments: make(map[string]*Note),
		accounts:    make(map[string][32]byte),
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// AddAccount registers an address-to-secret mapping and persists.
func (s *Store) AddAccount(account Account) error {
	key := EncodeBytes32(account.Address)
	prev, existed := s.accounts[key]
	s.accounts[key] = account.Secret
	if err := s.persist(); err != nil {
		if existed {
			s.accounts[key] = prev
		} else {
			delete(s.accounts, key)
		}
		return err
	}
	return nil
}

// Secret returns the spending secret for an address, or ErrAccountNotFound
// if the account was never created or imported locally.
func (s *Store) Secret(address [32]byte) ([32]byte, error) {
	secret, ok := s.accounts[EncodeBytes32(address)]
	if !ok {
		return [32]byte{}, ErrAccountNotFound
	}
	return secret, nil
}

// AddNote registers a note under its commitment and persists.
func (s *Store) AddNote(n *Note) error {
	if !ValidAmount(n.Balance) {
		return &InvalidInputError{Msg: "note balance out of range"}
	}
	if !n.Verify() {
		return &InvalidInputError{Msg: "note commitment does not match its fields"}
	}
	key := EncodeBytes32(n.Commitment)
	prev, existed := s.commitments[key]
	s.commitments[key] = n.Clone()
	if err := s.persist(); err != nil {
		if existed {
			s.commitments[key] = prev
		} else {
			delete(s.commitments, key)
		}
		return err
	}
	return nil
}

// Note returns the note stored under a commitment, or ErrCommitmentNotFound.
func (s *Store) Note(commitment [32]byte) (*Note, error) {
	n, ok := s.commitments[EncodeBytes32(commitment)]
	if !ok {
		return nil, ErrCommitmentNotFound
	}
	return n.Clone(), nil
}

// UnspentNotes returns the unspent notes belonging to an address, in
// ascending nonce order so that selection is reproducible.
func (s *Store) UnspentNotes(address [32]byte) []*Note {
	var notes []*Note
	for _, n := range s.commitments {
		if n.Address == address && !n.Spent {
			notes = append(notes, n.Clone())
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Nonce < notes[j].Nonce })
	return notes
}

// notesFor returns every note (spent and unspent) belonging to an address,
// in ascending nonce order.
func (s *Store) notesFor(address [32]byte) []*Note {
	var notes []*Note
	for _, n := range s.commitments {
		if n.Address == address {
			notes = append(notes, n.Clone())
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Nonce < notes[j].Nonce })
	return notes
}

// MarkSpent flips a note's spent flag to true and persists. Marking an
// already-spent note succeeds again; only an unknown commitment is an error.
func (s *Store) MarkSpent(commitment [32]byte) error {
	key := EncodeBytes32(commitment)
	n, ok := s.commitments[key]
	if !ok {
		return ErrCommitmentNotFound
	}
	was := n.Spent
	n.Spent = true
	if err := s.persist(); err != nil {
		n.Spent = was
		return err
	}
	return nil
}

// Balance sums the unspent note balances for an address.
func (s *Store) Balance(address [32]byte) *big.Int {
	total := new(big.Int)
	for _, n := range s.commitments {
		if n.Address == address && !n.Spent {
			total.Add(total, n.Balance)
		}
	}
	return total
}

// FindSpendable returns the first unspent note (ascending nonce) whose
// balance covers the requested amount, or nil when no single note does.
// Notes are never combined to cover an amount.
func (s *Store) FindSpendable(address [32]byte, amount *big.Int) *Note {
	for _, n := range s.UnspentNotes(address) {
		if n.Balance.Cmp(amount) >= 0 {
			return n
		}
	}
	return nil
}

// largestUnspent returns the largest single unspent note balance for an
// address, zero when there are none. This is the "have" figure reported with
// InsufficientBalanceError: the most a single-note transfer could move.
func (s *Store) largestUnspent(address [32]byte) *big.Int {
	max := new(big.Int)
	for _, n := range s.commitments {
		if n.Address == address && !n.Spent && n.Balance.Cmp(max) > 0 {
			max.Set(n.Balance)
		}
	}
	return max
}

// Accounts lists every locally known account with its balance, sorted by
// address for stable output.
func (s *Store) Accounts() []AccountBalance {
	keys := make([]string, 0, len(s.accounts))
	for key := range s.accounts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]AccountBalance, 0, len(keys))
	for _, key := range keys {
		address, err := DecodeBytes32(key)
		if err != nil {
			continue
		}
		out = append(out, AccountBalance{Address: address, Balance: s.Balance(address)})
	}
	return out
}

// applyTransfer marks the spent note and registers the output notes as one
// batch with a single persist, so a transfer either commits completely or
// leaves the store exactly as it was.
func (s *Store) applyTransfer(spent [32]byte, outputs ...*Note) error {
	spentKey := EncodeBytes32(spent)
	old, ok := s.commitments[spentKey]
	if !ok {
		return ErrCommitmentNotFound
	}
	for _, n := range outputs {
		if !n.Verify() {
			return &InvalidInputError{Msg: "output note commitment does not match its fields"}
		}
	}

	wasSpent := old.Spent
	replaced := make(map[string]*Note)
	old.Spent = true
	for _, n := range outputs {
		key := EncodeBytes32(n.Commitment)
		// A recipient note always carries nonce 0, so an equal-amount
		// transfer to the same address reproduces an existing commitment.
		// A spent note under that key stays spent.
		if prev, ok := s.commitments[key]; ok && prev.Spent {
			continue
		}
		replaced[key] = s.commitments[key]
		s.commitments[key] = n.Clone()
	}
	if err := s.persist(); err != nil {
		old.Spent = wasSpent
		for key, prev := range replaced {
			if prev == nil {
				delete(s.commitments, key)
			} else {
				s.commitments[key] = prev
			}
		}
		return err
	}
	return nil
}

// persist writes the full document to a temporary file in the state
// directory, syncs it, and atomically renames it over the state file.
func (s *Store) persist() error {
	doc := stateDocument{
		Commitments: make(map[string]noteRecord, len(s.commitments)),
		Accounts:    make(map[string]string, len(s.accounts)),
	}
	for key, n := range s.commitments {
		doc.Commitments[key] = noteRecord{
			Commitment: EncodeBytes32(n.Commitment),
			Address:    EncodeBytes32(n.Address),
			Balance:    EncodeBytes32(U128ToBytes32(n.Balance)),
			Nonce:      EncodeBytes32(U64ToBytes32(n.Nonce)),
			Spent:      n.Spent,
		}
	}
	for key, secret := range s.accounts {
		doc.Accounts[key] = EncodeBytes32(secret)
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return &StateError{Op: "encode", Err: err}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return &StateError{Op: "write", Err: err}
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StateError{Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StateError{Op: "sync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &StateError{Op: "close", Err: err}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return &StateError{Op: "install", Err: err}
	}
	return nil
}

// load reads and validates the state file.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return &StateError{Op: "read", Err: err}
	}
	var doc stateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return &StateError{Op: "decode", Err: err}
	}

	for key, rec := range doc.Commitments {
		n, err := decodeNoteRecord(key, rec)
		if err != nil {
			return err
		}
		s.commitments[key] = n
	}
	for key, secretHex := range doc.Accounts {
		address, err := DecodeBytes32(key)
		if err != nil {
			return &StateError{Op: "decode", Err: err}
		}
		secret, err := DecodeBytes32(secretHex)
		if err != nil {
			return &StateError{Op: "decode", Err: err}
		}
		if DeriveAddress(secret) != address {
			return &StateError{Op: "verify", Err: fmt.Errorf("secret for %s does not derive its address", key)}
		}
		s.accounts[key] = secret
	}
	return nil
}

// decodeNoteRecord rebuilds a Note from its persisted record, recomputing
// the commitment from the stored fields for tamper detection.
func decodeNoteRecord(key string, rec noteRecord) (*Note, error) {
	commitment, err := DecodeBytes32(rec.Commitment)
	if err != nil {
		return nil, &StateError{Op: "decode", Err: err}
	}
	if key != rec.Commitment {
		return nil, &StateError{Op: "verify", Err: fmt.Errorf("record %s stored under key %s", rec.Commitment, key)}
	}
	address, err := DecodeBytes32(rec.Address)
	if err != nil {
		return nil, &StateError{Op: "decode", Err: err}
	}
	balanceBytes, err := DecodeBytes32(rec.Balance)
	if err != nil {
		return nil, &StateError{Op: "decode", Err: err}
	}
	balance := new(big.Int).SetBytes(balanceBytes[:])
	nonceBytes, err := DecodeBytes32(rec.Nonce)
	if err != nil {
		return nil, &StateError{Op: "decode", Err: err}
	}
	nonceInt := new(big.Int).SetBytes(nonceBytes[:])
	if !ValidAmount(balance) || nonceInt.BitLen() > 64 {
		return nil, &StateError{Op: "verify", Err: fmt.Errorf("note %s has out-of-range fields", key)}
	}

	n := &Note{
		Commitment: commitment,
		Address:    address,
		Balance:    balance,
		Nonce:      nonceInt.Uint64(),
		Spent:      rec.Spent,
	}
	if !n.Verify() {
		return nil, &StateError{Op: "verify", Err: fmt.Errorf("note %s does not match its commitment: state file corrupted", key)}
	}
	return n, nil
}
