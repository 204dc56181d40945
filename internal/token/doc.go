// Package token implements a privacy-preserving note ledger.
//
// Overview:
//   - Value is held as commitments to (address, balance, nonce) triples,
//     spendable only by the holder of the secret the address derives from
//   - Spending a note reveals a one-way nullifier derived from (secret, nonce),
//     which prevents the same note from being spent twice without revealing
//     which note was spent
//   - The Store keeps the local wallet view (notes and account secrets) in a
//     single JSON document, installed atomically on every mutation
//   - The Builder orchestrates mint and transfer state transitions against the
//     prover and chain collaborators
//
// Security model:
//   - Commitments, addresses, and nullifiers use the MiMC hash over the BN254
//     scalar field; all randomness comes from crypto/rand
//   - Proof generation and on-chain enforcement are collaborators behind the
//     prover.Prover and chain.Ledger interfaces; this package only maintains
//     the local invariants (balance conservation, spend-once, append-only)
//
// WARNING: account secrets are persisted in plaintext next to public note
// data. That is acceptable for development and testing only; production
// deployments must delegate key custody to an external vault or HSM.
package token
