// account.go - Account management commands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"privatetoken/internal/token"
)

var (
	importSecret  string
	exportAddress string
)

var newAccountCmd = &cobra.Command{
	Use:   "new-account",
	Short: "Generate a new account (secret key)",
	RunE: func(cmd *cobra.Command, args []string) error {
		builder, cleanup, err := newBuilder(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		account, err := builder.CreateAccount()
		if err != nil {
			return err
		}
		fmt.Println("New account created")
		fmt.Printf("  Address: %s\n", token.EncodeBytes32(account.Address))
		fmt.Printf("  Secret:  %s\n", token.EncodeBytes32(account.Secret))
		fmt.Println()
		fmt.Println("Save the secret securely: anyone holding it can spend these tokens.")
		return nil
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List all accounts and balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		builder, cleanup, err := newBuilder(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		accounts := builder.Accounts()
		if len(accounts) == 0 {
			fmt.Println("No accounts found. Create one with: privtoken new-account")
			return nil
		}
		for _, a := range accounts {
			fmt.Printf("Address: %s\n", token.EncodeBytes32(a.Address))
			fmt.Printf("Balance: %s tokens\n\n", a.Balance)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an account secret",
	Long: `Import an externally held secret. Notes addressed to the derived
address, such as received transfers, become spendable from this state file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := token.DecodeBytes32(importSecret)
		if err != nil {
			return err
		}
		builder, cleanup, err := newBuilder(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		account, err := builder.ImportAccount(secret)
		if err != nil {
			return err
		}
		fmt.Printf("Imported account %s\n", token.EncodeBytes32(account.Address))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an account's secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := token.DecodeBytes32(exportAddress)
		if err != nil {
			return err
		}
		builder, cleanup, err := newBuilder(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		secret, err := builder.ExportSecret(address)
		if err != nil {
			return err
		}
		fmt.Printf("Address: %s\n", token.EncodeBytes32(address))
		fmt.Printf("Secret:  %s\n", token.EncodeBytes32(secret))
		fmt.Println()
		fmt.Println("Keep this information secure.")
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSecret, "secret", "", "account secret (hex)")
	importCmd.MarkFlagRequired("secret")
	exportCmd.Flags().StringVar(&exportAddress, "address", "", "account address (hex)")
	exportCmd.MarkFlagRequired("address")
}
