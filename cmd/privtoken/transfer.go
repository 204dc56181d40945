// transfer.go - Transfer command: consume one note, produce recipient and
// change notes.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"privatetoken/internal/token"
)

var (
	transferFromSecret string
	transferToAddress  string
	transferAmount     string
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer tokens privately",
	Long: `Spend one of the sender's notes: the note is nullified, the recipient
receives a new note for the amount, and any remainder comes back as a change
note. A single note must cover the full amount; notes are never combined.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := token.DecodeBytes32(transferFromSecret)
		if err != nil {
			return err
		}
		to, err := token.DecodeBytes32(transferToAddress)
		if err != nil {
			return err
		}
		amount, err := token.ParseAmount(transferAmount)
		if err != nil {
			return err
		}

		builder, cleanup, err := newBuilder(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		from := token.DeriveAddress(secret)
		result, err := builder.Transfer(cmd.Context(), secret, from, to, amount)
		if err != nil {
			return err
		}

		fmt.Printf("Transferred %s tokens\n", amount)
		fmt.Printf("  From:      %s\n", token.EncodeBytes32(from))
		fmt.Printf("  To:        %s\n", token.EncodeBytes32(to))
		fmt.Printf("  Nullifier: %s\n", token.EncodeBytes32(result.Nullifier))
		fmt.Printf("  Recipient note: %s\n", token.EncodeBytes32(result.Recipient.Commitment))
		if result.Change != nil {
			fmt.Printf("  Change note:    %s (%s tokens)\n",
				token.EncodeBytes32(result.Change.Commitment), result.Change.Balance)
		}
		fmt.Printf("  Tx: %s\n", result.TxID)
		fmt.Println()
		fmt.Println("The recipient must import their secret to spend the received note.")
		return nil
	},
}

func init() {
	transferCmd.Flags().StringVar(&transferFromSecret, "from-secret", "", "sender secret (hex)")
	transferCmd.Flags().StringVar(&transferToAddress, "to-address", "", "recipient address (hex)")
	transferCmd.Flags().StringVar(&transferAmount, "amount", "", "amount to transfer")
	transferCmd.MarkFlagRequired("from-secret")
	transferCmd.MarkFlagRequired("to-address")
	transferCmd.MarkFlagRequired("amount")
}
