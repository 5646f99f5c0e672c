package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dinorun/x/arcade/payment"
	"dinorun/x/arcade/types"
)

// GetTxCmd returns the transaction commands for this module
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("%s transactions subcommands", types.GameName),
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       validateCmd,
	}

	cmd.AddCommand(
		CmdPay(),
		CmdSubmitScore(),
		CmdRegisterName(),
	)
	return cmd
}

func CmdPay() *cobra.Command {
	return &cobra.Command{
		Use:   "pay",
		Short: "Pay for one round and wait for confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}
			gate := payment.NewGate(clientCtx.Wallet, clientCtx.Params, clientCtx.Logger, nil)
			bundle, err := gate.Initiate(cmd.Context())
			if err != nil {
				return err
			}
			if err := gate.Poll(cmd.Context(), bundle); err != nil {
				return err
			}

			acct, err := clientCtx.Wallet.Account(cmd.Context())
			if err != nil {
				return err
			}
			credits, err := clientCtx.Keeper.GetPlayerCredits(acct.Address)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"bundle_id": bundle.ID,
				"fee":       clientCtx.Params.Fee.String(),
				"credits":   credits,
			})
		},
	}
}

func CmdSubmitScore() *cobra.Command {
	return &cobra.Command{
		Use:   "submit-score [score]",
		Short: "Submit the score of a paid round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}
			score, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[0], err)
			}
			if err := clientCtx.Wallet.SubmitScore(cmd.Context(), score); err != nil {
				return err
			}

			acct, err := clientCtx.Wallet.Account(cmd.Context())
			if err != nil {
				return err
			}
			pb, err := clientCtx.Keeper.PersonalBest(acct.Address)
			if err != nil {
				return err
			}
			return printJSON(cmd, pb)
		},
	}
}

func CmdRegisterName() *cobra.Command {
	return &cobra.Command{
		Use:   "register-name [name]",
		Short: "Register the reverse name of the wallet address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := GetClientContext(cmd)
			if err != nil {
				return err
			}
			acct, err := clientCtx.Wallet.Account(cmd.Context())
			if err != nil {
				return err
			}
			if !acct.Connected {
				return types.ErrNotConnected
			}
			_, err = keeperMsgServer(clientCtx).RegisterName(types.MsgRegisterName{Creator: acct.Address, Name: args[0]})
			return err
		},
	}
}
