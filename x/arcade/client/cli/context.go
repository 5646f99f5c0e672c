package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"dinorun/x/arcade/devnet"
	"dinorun/x/arcade/keeper"
	"dinorun/x/arcade/names"
	"dinorun/x/arcade/types"
)

// ClientContext carries what arcade commands run against.
type ClientContext struct {
	Keeper   keeper.Keeper
	Wallet   *devnet.Wallet
	Resolver *names.Resolver
	Params   types.Params
	Logger   log.Logger
}

type clientContextKey struct{}

// WithClientContext returns a copy of ctx carrying clientCtx.
func WithClientContext(ctx context.Context, clientCtx ClientContext) context.Context {
	return context.WithValue(ctx, clientContextKey{}, clientCtx)
}

// SetCmdClientContext stores clientCtx in the command's context.
func SetCmdClientContext(cmd *cobra.Command, clientCtx ClientContext) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(WithClientContext(ctx, clientCtx))
}

// GetClientContext returns the ClientContext set by the root command.
func GetClientContext(cmd *cobra.Command) (ClientContext, error) {
	if ctx := cmd.Context(); ctx != nil {
		if clientCtx, ok := ctx.Value(clientContextKey{}).(ClientContext); ok {
			return clientCtx, nil
		}
	}
	return ClientContext{}, errors.New("client context not set")
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

func keeperMsgServer(clientCtx ClientContext) keeper.MsgServer {
	return keeper.NewMsgServerImpl(clientCtx.Keeper)
}

// validateCmd returns an error for an unknown subcommand and prints help
// otherwise.
func validateCmd(cmd *cobra.Command, args []string) error {
	var unknown []string
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return cmd.Help()
		}
		unknown = append(unknown, arg)
	}
	if len(unknown) > 0 {
		msg := fmt.Sprintf("unknown command %q for %q", unknown[0], cmd.CommandPath())
		if suggestions := cmd.SuggestionsFor(unknown[0]); len(suggestions) > 0 {
			msg += fmt.Sprintf("\n\nDid you mean this?\n\t%s", suggestions[0])
		}
		return errors.New(msg)
	}
	return cmd.Help()
}
