package cmd

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"dinorun/app"
	"dinorun/x/arcade/client/cli"
	arcade "dinorun/x/arcade/module"
)

const (
	envPrefix = "DINORUN"

	flagHome      = "home"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagDBBackend = "db-backend"

	// skipAppAnnotation marks commands that run without building the App.
	skipAppAnnotation = "skip-app"
)

type appKey struct{}

// NewRootCmd creates a new root command for dinorun.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	defaults := app.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:           app.Name,
		Short:         "Dino Run pay-to-play arcade client and devnet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initViper(v, cmd.Flags()); err != nil {
				return err
			}
			if skipApp(cmd) {
				return nil
			}

			cfg, err := app.ConfigFromOptions(v)
			if err != nil {
				return err
			}
			a, err := app.New(app.NewLogger(cmd.ErrOrStderr(), cfg), cfg)
			if err != nil {
				return err
			}
			setApp(cmd, a)
			cli.SetCmdClientContext(cmd, a.ClientContext())
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a, ok := getApp(cmd); ok {
				return a.Close()
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String(flagHome, defaults.Home, "directory for config and data")
	pf.String(flagLogLevel, defaults.LogLevel, "log level (trace|debug|info|warn|error|disabled)")
	pf.String(flagLogFormat, defaults.LogFormat, "log format (plain|json)")
	pf.String(flagDBBackend, defaults.DBBackend, "ledger database backend (goleveldb|memdb)")

	var module arcade.AppModule
	rootCmd.AddCommand(
		configCmd(v),
		queryCommand(module.GetQueryCmd()),
		txCommand(module.GetTxCmd()),
		serveCmd(),
		playCmd(),
		devnetCmd(),
	)
	return rootCmd
}

// initViper layers flags over environment over app.toml.
func initViper(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(configFile(v.GetString(flagHome)))
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func configFile(home string) string {
	return filepath.Join(home, "config", "app.toml")
}

func skipApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[skipAppAnnotation]; ok {
			return true
		}
	}
	return false
}

func queryCommand(moduleCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "Querying subcommands",
	}
	cmd.AddCommand(moduleCmd)
	return cmd
}

func txCommand(moduleCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Transactions subcommands",
	}
	cmd.AddCommand(moduleCmd)
	return cmd
}

func setApp(cmd *cobra.Command, a *app.App) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appKey{}, a))
}

func getApp(cmd *cobra.Command) (*app.App, bool) {
	if cmd.Context() == nil {
		return nil, false
	}
	a, ok := cmd.Context().Value(appKey{}).(*app.App)
	return a, ok
}

func mustApp(cmd *cobra.Command) (*app.App, error) {
	a, ok := getApp(cmd)
	if !ok {
		return nil, errors.New("app not initialized")
	}
	return a, nil
}
