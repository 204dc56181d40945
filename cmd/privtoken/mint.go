// mint.go - Mint command: create a new note with no consumed input.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"privatetoken/internal/token"
)

var (
	mintSecret string
	mintAmount string
	mintNonce  uint64
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint tokens to the address derived from a secret",
	Long: `Mint a new note for the holder of the given secret. The nonce must be
unique per address; when omitted it defaults to the current unix timestamp.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := token.DecodeBytes32(mintSecret)
		if err != nil {
			return err
		}
		amount, err := token.ParseAmount(mintAmount)
		if err != nil {
			return err
		}
		nonce := mintNonce
		if !cmd.Flags().Changed("nonce") {
			nonce = uint64(time.Now().Unix())
		}

		builder, cleanup, err := newBuilder(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		// Keep the minting account importable from this state file.
		account, err := builder.ImportAccount(secret)
		if err != nil {
			return err
		}
		result, err := builder.Mint(cmd.Context(), account.Address, amount, nonce)
		if err != nil {
			return err
		}

		fmt.Printf("Minted %s tokens\n", amount)
		fmt.Printf("  Address:    %s\n", token.EncodeBytes32(account.Address))
		fmt.Printf("  Commitment: %s\n", token.EncodeBytes32(result.Note.Commitment))
		fmt.Printf("  Tx:         %s\n", result.TxID)
		return nil
	},
}

func init() {
	mintCmd.Flags().StringVar(&mintSecret, "secret", "", "recipient secret (hex)")
	mintCmd.Flags().StringVar(&mintAmount, "amount", "", "amount to mint")
	mintCmd.Flags().Uint64Var(&mintNonce, "nonce", 0, "note nonce (default: unix timestamp)")
	mintCmd.MarkFlagRequired("secret")
	mintCmd.MarkFlagRequired("amount")
}
