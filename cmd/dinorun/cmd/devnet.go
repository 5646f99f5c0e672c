package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"dinorun/x/arcade/simulation"
)

const (
	flagPlayers  = "players"
	flagSeed     = "seed"
	flagOps      = "ops"
	flagAccounts = "accounts"
	flagVerbose  = "verbose"
)

func devnetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devnet",
		Short: "Manage the local devnet ledger",
	}
	cmd.AddCommand(
		devnetSeedCmd(),
		devnetSimulateCmd(),
		devnetExportCmd(),
		devnetImportCmd(),
		devnetAccountCmd(),
	)
	return cmd
}

func devnetSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a randomized ledger of players, scores and names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := mustApp(cmd)
			if err != nil {
				return err
			}
			players, _ := cmd.Flags().GetInt(flagPlayers)
			seed, _ := cmd.Flags().GetInt64(flagSeed)

			bz, err := a.ArcadeModule.GenerateGenesisState(rand.New(rand.NewSource(seed)), players)
			if err != nil {
				return err
			}
			if err := a.ArcadeModule.InitGenesis(bz); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d players\n", players)
			return err
		},
	}
	cmd.Flags().Int(flagPlayers, 20, "number of random players")
	cmd.Flags().Int64(flagSeed, 1, "random seed")
	return cmd
}

func devnetSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run random pay, score and name calls against the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := mustApp(cmd)
			if err != nil {
				return err
			}
			ops, _ := cmd.Flags().GetInt(flagOps)
			accounts, _ := cmd.Flags().GetInt(flagAccounts)
			seed, _ := cmd.Flags().GetInt64(flagSeed)
			verbose, _ := cmd.Flags().GetBool(flagVerbose)

			r := rand.New(rand.NewSource(seed))
			msgs, err := a.ArcadeModule.Simulate(r, simulation.RandomAccounts(r, accounts), ops)
			if err != nil {
				return err
			}

			counts := make(map[string]int)
			skipped := 0
			for _, msg := range msgs {
				if !msg.OK {
					skipped++
					continue
				}
				counts[msg.Name]++
			}
			out := struct {
				Operations int                       `json:"operations"`
				Executed   map[string]int            `json:"executed"`
				Skipped    int                       `json:"skipped"`
				Messages   []simulation.OperationMsg `json:"messages,omitempty"`
			}{Operations: len(msgs), Executed: counts, Skipped: skipped}
			if verbose {
				out.Messages = msgs
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().Int(flagOps, 200, "number of operations")
	cmd.Flags().Int(flagAccounts, 10, "number of random accounts")
	cmd.Flags().Int64(flagSeed, 1, "random seed")
	cmd.Flags().Bool(flagVerbose, false, "print every operation")
	return cmd
}

func devnetExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the ledger as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := mustApp(cmd)
			if err != nil {
				return err
			}
			bz, err := a.ArcadeModule.ExportGenesis()
			if err != nil {
				return err
			}
			var v any
			if err := json.Unmarshal(bz, &v); err != nil {
				return err
			}
			return printJSON(cmd, v)
		},
	}
}

func devnetImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [genesis-file]",
		Short: "Load a genesis JSON file into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := mustApp(cmd)
			if err != nil {
				return err
			}
			bz, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := a.ArcadeModule.ValidateGenesis(bz); err != nil {
				return err
			}
			return a.ArcadeModule.InitGenesis(bz)
		},
	}
}

func devnetAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the devnet wallet account and its unredeemed rounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := mustApp(cmd)
			if err != nil {
				return err
			}
			acct, err := a.Wallet.Account(cmd.Context())
			if err != nil {
				return err
			}
			credits, err := a.ArcadeKeeper.GetPlayerCredits(a.Config().Wallet.Address)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"connected": acct.Connected,
				"address":   a.Config().Wallet.Address,
				"chain_id":  a.Config().Wallet.ChainID,
				"credits":   credits,
			})
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
