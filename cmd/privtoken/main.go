// main.go - Command-line client for the privacy-preserving token ledger.
//
// Value lives in note commitments; spending reveals one-way nullifiers. The
// proof backend and the chain are collaborators selected by configuration:
// the dev prover and in-memory ledger for local runs, the proving service
// and deployed contract for real submissions.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"privatetoken/internal/chain"
	"privatetoken/internal/prover"
	"privatetoken/internal/token"
)

var (
	flagConfig    string
	flagStateFile string
	flagBackend   string
	flagProver    string
	flagProverURL string
	flagLogLevel  string

	cfg    *Config
	logger zerolog.Logger
)

var rootCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:   "privtoken",
		Short: "Privacy-preserving token client",
		Long: `privtoken manages private token notes: spendable value held as
cryptographic commitments bound to owner secrets and consumed via one-way
nullifiers.

Accounts, notes, and spent flags live in a local state file. Proof generation
and on-chain enforcement are selected with --prover and --backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = LoadConfig(flagConfig)
			if err != nil {
				return err
			}
			applyFlagOverrides()
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger = newLogger(cfg.LogLevel)
			return nil
		},
	}
}

// applyFlagOverrides lets explicit flags win over the config file.
func applyFlagOverrides() {
	flags := rootCmd.PersistentFlags()
	if flags.Changed("state-file") {
		cfg.StateFile = flagStateFile
	}
	if flags.Changed("backend") {
		cfg.Backend = flagBackend
	}
	if flags.Changed("prover") {
		cfg.Prover = flagProver
	}
	if flags.Changed("prover-url") {
		cfg.ProverURL = flagProverURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}

// newBuilder wires the store, prover, and chain per the active config.
// The returned cleanup releases the chain connection when one was dialed.
func newBuilder(cmd *cobra.Command) (*token.Builder, func(), error) {
	store, err := token.OpenStore(cfg.StateFile)
	if err != nil {
		return nil, nil, err
	}

	var p prover.Prover
	switch cfg.Prover {
	case "service":
		p = prover.NewServiceProver(cfg.ProverURL)
	default:
		p = prover.NewDevProver()
	}

	cleanup := func() {}
	var ledger chain.Ledger
	switch cfg.Backend {
	case "contract":
		chainCfg, err := chain.ConfigFromEnv()
		if err != nil {
			return nil, nil, err
		}
		client, err := chain.DialContract(cmd.Context(), chainCfg)
		if err != nil {
			return nil, nil, err
		}
		ledger = client
		cleanup = client.Close
	default:
		ledger = chain.NewMemoryLedger()
	}

	return token.NewBuilder(store, p, ledger, logger), cleanup, nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&flagStateFile, "state-file", "private_state.json", "path to local state file")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "memory", "chain backend (memory|contract)")
	rootCmd.PersistentFlags().StringVar(&flagProver, "prover", "dev", "proof backend (dev|service)")
	rootCmd.PersistentFlags().StringVar(&flagProverURL, "prover-url", "http://localhost:8090", "proving service base URL")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(
		newAccountCmd,
		accountsCmd,
		importCmd,
		exportCmd,
		balanceCmd,
		mintCmd,
		transferCmd,
		showCommitmentCmd,
		reconcileCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
