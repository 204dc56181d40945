// query.go - Read-only commands: balance, note lookup, reconciliation.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"privatetoken/internal/token"
)

var (
	balanceAddress   string
	showCommitment   string
	reconcileAddress string
	reconcileRepair  bool
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Check balance for an address",
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := token.DecodeBytes32(balanceAddress)
		if err != nil {
			return err
		}
		builder, cleanup, err := newBuilder(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		unspent := builder.UnspentNotes(address)
		fmt.Printf("Address: %s\n", token.EncodeBytes32(address))
		fmt.Printf("Balance: %s tokens\n", builder.Balance(address))
		fmt.Printf("Unspent notes: %d\n", len(unspent))
		return nil
	},
}

var showCommitmentCmd = &cobra.Command{
	Use:   "show-commitment",
	Short: "Show note details for a commitment",
	RunE: func(cmd *cobra.Command, args []string) error {
		commitment, err := token.DecodeBytes32(showCommitment)
		if err != nil {
			return err
		}
		builder, cleanup, err := newBuilder(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		note, err := builder.Lookup(commitment)
		if err != nil {
			return err
		}
		fmt.Println("Note details:")
		fmt.Printf("  Commitment: %s\n", token.EncodeBytes32(note.Commitment))
		fmt.Printf("  Address:    %s\n", token.EncodeBytes32(note.Address))
		fmt.Printf("  Balance:    %s\n", note.Balance)
		fmt.Printf("  Nonce:      %d\n", note.Nonce)
		fmt.Printf("  Spent:      %t\n", note.Spent)
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare local notes against the chain",
	Long: `Check every local note for an address against the chain: a note whose
nullifier is used on-chain while still unspent locally means a submission
succeeded without a local commit. With --repair such notes are marked spent
so the local view converges on the chain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := token.DecodeBytes32(reconcileAddress)
		if err != nil {
			return err
		}
		builder, cleanup, err := newBuilder(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		found, err := builder.Reconcile(cmd.Context(), address, reconcileRepair)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Println("Local store matches the chain.")
			return nil
		}
		fmt.Printf("%d discrepancies:\n", len(found))
		for _, d := range found {
			fmt.Printf("  %s\n", d)
		}
		if reconcileRepair {
			fmt.Println("Repairs applied where possible.")
		}
		return nil
	},
}

func init() {
	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "account address (hex)")
	balanceCmd.MarkFlagRequired("address")
	showCommitmentCmd.Flags().StringVar(&showCommitment, "commitment", "", "commitment hash (hex)")
	showCommitmentCmd.MarkFlagRequired("commitment")
	reconcileCmd.Flags().StringVar(&reconcileAddress, "address", "", "account address (hex)")
	reconcileCmd.Flags().BoolVar(&reconcileRepair, "repair", false, "mark chain-spent notes as spent locally")
	reconcileCmd.MarkFlagRequired("address")
}
