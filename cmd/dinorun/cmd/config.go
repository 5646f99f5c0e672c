package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dinorun/app"
)

const flagForce = "force"

// appConfigTemplate renders app.toml. Keys match the mapstructure tags of
// app.Config.
const appConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

###############################################################################
###                           Base Configuration                            ###
###############################################################################

# Log level: trace, debug, info, warn, error or disabled.
log-level = "{{ .LogLevel }}"

# Log format: plain or json.
log-format = "{{ .LogFormat }}"

# Ledger database backend: goleveldb or memdb.
db-backend = "{{ .DBBackend }}"

###############################################################################
###                              Game Contract                              ###
###############################################################################

[game]

# The only network payments and ledger calls are valid on.
chain-id = {{ .Game.ChainID }}

# Exact pay-to-play transfer.
fee = "{{ .Game.Fee }}"

# Game contract receiving payToPlay and submitScore.
contract = "{{ .Game.Contract }}"

# ERC-8021 attribution codes appended to payment calls.
builder-codes = [{{ range $i, $c := .Game.BuilderCodes }}{{ if $i }}, {{ end }}"{{ $c }}"{{ end }}]

# Bundle status poll period.
poll-interval = "{{ .Game.PollInterval }}"

# Settle time before the ledger is read again after a submission.
refresh-delay = "{{ .Game.RefreshDelay }}"

# Give up polling after this many checks. 0 polls until confirmed.
max-poll-attempts = {{ .Game.MaxPollAttempts }}

###############################################################################
###                            Name Resolution                              ###
###############################################################################

[neynar]

base-url = "{{ .Neynar.BaseURL }}"

# Leave empty to disable Farcaster username lookups.
api-key = "{{ .Neynar.APIKey }}"

requests-per-second = {{ .Neynar.RequestsPerSecond }}

timeout = "{{ .Neynar.Timeout }}"

[redis]

# Cache resolved names in redis when set. The in-memory cache is used otherwise.
addr = "{{ .Redis.Addr }}"
password = "{{ .Redis.Password }}"
db = {{ .Redis.DB }}
prefix = "{{ .Redis.Prefix }}"

###############################################################################
###                                HTTP API                                 ###
###############################################################################

[api]

address = "{{ .API.Address }}"

# Per client rate limit. 0 disables limiting.
requests-per-second = {{ .API.RequestsPerSecond }}
burst = {{ .API.Burst }}

# Resolve names through a remote dinorun API instead of calling Neynar.
resolve-names-url = "{{ .API.ResolveNamesURL }}"

###############################################################################
###                                 Devnet                                  ###
###############################################################################

[wallet]

address = "{{ .Wallet.Address }}"
chain-id = {{ .Wallet.ChainID }}
confirmations = {{ .Wallet.Confirmations }}
auto-connect = {{ .Wallet.AutoConnect }}

[engine]

tick = "{{ .Engine.Tick }}"
width = {{ .Engine.Width }}
seed = {{ .Engine.Seed }}
auto-jump = {{ .Engine.AutoJump }}
miss-rate = {{ .Engine.MissRate }}
`

var configTemplate = template.Must(template.New("app.toml").Parse(appConfigTemplate))

// writeConfigFile renders cfg to path.
func writeConfigFile(path string, cfg app.Config) error {
	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

func configCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage app.toml",
		Annotations: map[string]string{skipAppAnnotation: ""},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default app.toml to the home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := v.GetString(flagHome)
			path := configFile(home)
			force, _ := cmd.Flags().GetBool(flagForce)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --%s to overwrite", path, flagForce)
			}

			cfg := app.DefaultConfig()
			cfg.Home = home
			if err := writeConfigFile(path, cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	initCmd.Flags().Bool(flagForce, false, "overwrite an existing app.toml")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.ConfigFromOptions(v)
			if err != nil {
				return err
			}
			if cfg.Neynar.APIKey != "" {
				cfg.Neynar.APIKey = strings.Repeat("*", 8)
			}
			if cfg.Redis.Password != "" {
				cfg.Redis.Password = strings.Repeat("*", 8)
			}
			bz, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
