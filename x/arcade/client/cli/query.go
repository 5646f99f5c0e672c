package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dinorun/x/arcade/types"
)

const FlagLimit = "limit"

// GetQueryCmd returns the cli query commands for this module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the " + types.GameName + " ledger",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       validateCmd,
	}

	cmd.AddCommand(
		CmdQueryParams(),
		CmdQueryLeaderboard(),
		CmdQueryPersonalBest(),
		CmdResolveName(),
	)
	return cmd
}

func CmdQueryParams() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Shows the game parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}
			params, err := clientCtx.Keeper.GetParams()
			if err != nil {
				return err
			}
			return printJSON(cmd, params)
		},
	}
}

type leaderboardLine struct {
	Rank   int           `json:"rank"`
	Player types.Address `json:"player"`
	Label  string        `json:"label"`
	Score  uint64        `json:"score"`
}

func CmdQueryLeaderboard() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Shows the reconciled global top 10 with resolved names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}
			limit, err := cmd.Flags().GetInt(FlagLimit)
			if err != nil {
				return err
			}

			rows, err := clientCtx.Keeper.Leaderboard()
			if err != nil {
				return err
			}
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}

			lines := make([]leaderboardLine, 0, len(rows))
			for i, row := range rows {
				lines = append(lines, leaderboardLine{
					Rank:   i + 1,
					Player: row.Player,
					Label:  clientCtx.Resolver.Resolve(cmd.Context(), row.Player),
					Score:  row.Score,
				})
			}
			return printJSON(cmd, lines)
		},
	}
	cmd.Flags().Int(FlagLimit, types.GlobalTopSize, "maximum number of rows")
	return cmd
}

func CmdQueryPersonalBest() *cobra.Command {
	return &cobra.Command{
		Use:   "personal-best [address]",
		Short: "Shows the top three scores of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}
			player, err := types.ParseAddress(args[0])
			if err != nil {
				return err
			}
			pb, err := clientCtx.Keeper.PersonalBest(player)
			if err != nil {
				return err
			}
			return printJSON(cmd, pb)
		},
	}
}

func CmdResolveName() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-name [address]",
		Short: "Resolves the display label of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}
			player, err := types.ParseAddress(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), clientCtx.Resolver.Resolve(cmd.Context(), player))
			return err
		},
	}
}
