package arcade

import (
	"github.com/spf13/cobra"

	"dinorun/x/arcade/client/cli"
)

// GetTxCmd returns the root tx command of the module.
func (AppModule) GetTxCmd() *cobra.Command { return cli.GetTxCmd() }

// GetQueryCmd returns the root query command of the module.
func (AppModule) GetQueryCmd() *cobra.Command { return cli.GetQueryCmd() }
