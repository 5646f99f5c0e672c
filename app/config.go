package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"dinorun/x/arcade/devnet"
	"dinorun/x/arcade/names"
	"dinorun/x/arcade/types"
)

const (
	DBBackendGoLevelDB = "goleveldb"
	DBBackendMemDB     = "memdb"

	LogFormatPlain = "plain"
	LogFormatJSON  = "json"
)

// AppOptions is the key/value view of configuration, satisfied by viper.
type AppOptions interface {
	Get(string) interface{}
}

// Config is the application configuration read from app.toml, the
// environment and flags.
type Config struct {
	Home      string `mapstructure:"home"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	DBBackend string `mapstructure:"db-backend"`

	Game   GameConfig          `mapstructure:"game"`
	Neynar names.NeynarConfig  `mapstructure:"neynar"`
	Redis  RedisConfig         `mapstructure:"redis"`
	API    APIConfig           `mapstructure:"api"`
	Wallet devnet.WalletConfig `mapstructure:"wallet"`
	Engine devnet.EngineConfig `mapstructure:"engine"`
}

// GameConfig holds the game contract parameters.
type GameConfig struct {
	ChainID         uint64        `mapstructure:"chain-id"`
	Fee             string        `mapstructure:"fee"`
	Contract        string        `mapstructure:"contract"`
	BuilderCodes    []string      `mapstructure:"builder-codes"`
	PollInterval    time.Duration `mapstructure:"poll-interval"`
	RefreshDelay    time.Duration `mapstructure:"refresh-delay"`
	MaxPollAttempts uint32        `mapstructure:"max-poll-attempts"`
}

// RedisConfig enables the redis backed name cache when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// APIConfig configures the HTTP API served by `dinorun serve`.
type APIConfig struct {
	Address           string  `mapstructure:"address"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
	Burst             int     `mapstructure:"burst"`
	// ResolveNamesURL makes clients resolve names through a remote
	// resolve-names endpoint instead of calling Neynar directly.
	ResolveNamesURL string `mapstructure:"resolve-names-url"`
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	params := types.DefaultParams()
	return Config{
		Home:      DefaultNodeHome,
		LogLevel:  zerolog.InfoLevel.String(),
		LogFormat: LogFormatPlain,
		DBBackend: DBBackendGoLevelDB,
		Game: GameConfig{
			ChainID:         params.ChainID,
			Fee:             params.Fee.String(),
			Contract:        params.Contract.String(),
			BuilderCodes:    params.BuilderCodes,
			PollInterval:    params.PollInterval,
			RefreshDelay:    params.RefreshDelay,
			MaxPollAttempts: params.MaxPollAttempts,
		},
		Neynar: names.DefaultNeynarConfig(),
		Redis:  RedisConfig{Prefix: Name + ":names:"},
		API: APIConfig{
			Address:           "127.0.0.1:8080",
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Wallet: devnet.WalletConfig{
			Address:       "0x000000000000000000000000000000000000d1e0",
			ChainID:       params.ChainID,
			Confirmations: devnet.DefaultConfirmations,
			AutoConnect:   true,
		},
		Engine: devnet.DefaultEngineConfig(),
	}
}

// ConfigFromOptions reads a Config from opts, keeping defaults for unset keys.
func ConfigFromOptions(opts AppOptions) (Config, error) {
	cfg := DefaultConfig()

	setString(opts, "home", &cfg.Home)
	setString(opts, "log-level", &cfg.LogLevel)
	setString(opts, "log-format", &cfg.LogFormat)
	setString(opts, "db-backend", &cfg.DBBackend)

	if v := opts.Get("game.chain-id"); v != nil {
		chainID, err := cast.ToUint64E(v)
		if err != nil {
			return Config{}, fmt.Errorf("game.chain-id: %w", err)
		}
		cfg.Game.ChainID = chainID
	}
	setString(opts, "game.fee", &cfg.Game.Fee)
	setString(opts, "game.contract", &cfg.Game.Contract)
	if v := opts.Get("game.builder-codes"); v != nil {
		cfg.Game.BuilderCodes = splitList(cast.ToStringSlice(v))
	}
	if err := setDuration(opts, "game.poll-interval", &cfg.Game.PollInterval); err != nil {
		return Config{}, err
	}
	if err := setDuration(opts, "game.refresh-delay", &cfg.Game.RefreshDelay); err != nil {
		return Config{}, err
	}
	if v := opts.Get("game.max-poll-attempts"); v != nil {
		n, err := cast.ToUint32E(v)
		if err != nil {
			return Config{}, fmt.Errorf("game.max-poll-attempts: %w", err)
		}
		cfg.Game.MaxPollAttempts = n
	}

	setString(opts, "neynar.base-url", &cfg.Neynar.BaseURL)
	setString(opts, "neynar.api-key", &cfg.Neynar.APIKey)
	if v := opts.Get("neynar.requests-per-second"); v != nil {
		cfg.Neynar.RequestsPerSecond = cast.ToFloat64(v)
	}
	if err := setDuration(opts, "neynar.timeout", &cfg.Neynar.Timeout); err != nil {
		return Config{}, err
	}

	setString(opts, "redis.addr", &cfg.Redis.Addr)
	setString(opts, "redis.password", &cfg.Redis.Password)
	if v := opts.Get("redis.db"); v != nil {
		cfg.Redis.DB = cast.ToInt(v)
	}
	setString(opts, "redis.prefix", &cfg.Redis.Prefix)

	setString(opts, "api.address", &cfg.API.Address)
	if v := opts.Get("api.requests-per-second"); v != nil {
		cfg.API.RequestsPerSecond = cast.ToFloat64(v)
	}
	if v := opts.Get("api.burst"); v != nil {
		cfg.API.Burst = cast.ToInt(v)
	}
	setString(opts, "api.resolve-names-url", &cfg.API.ResolveNamesURL)

	if v := opts.Get("wallet.address"); v != nil {
		cfg.Wallet.Address = types.Address(cast.ToString(v))
	}
	if v := opts.Get("wallet.chain-id"); v != nil {
		cfg.Wallet.ChainID = cast.ToUint64(v)
	}
	if v := opts.Get("wallet.confirmations"); v != nil {
		cfg.Wallet.Confirmations = cast.ToUint32(v)
	}
	if v := opts.Get("wallet.auto-connect"); v != nil {
		cfg.Wallet.AutoConnect = cast.ToBool(v)
	}

	if err := setDuration(opts, "engine.tick", &cfg.Engine.Tick); err != nil {
		return Config{}, err
	}
	if v := opts.Get("engine.width"); v != nil {
		cfg.Engine.Width = cast.ToInt(v)
	}
	if v := opts.Get("engine.seed"); v != nil {
		cfg.Engine.Seed = cast.ToInt64(v)
	}
	if v := opts.Get("engine.auto-jump"); v != nil {
		cfg.Engine.AutoJump = cast.ToBool(v)
	}
	if v := opts.Get("engine.miss-rate"); v != nil {
		cfg.Engine.MissRate = cast.ToFloat64(v)
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Home == "" && c.DBBackend != DBBackendMemDB {
		return fmt.Errorf("home directory is required for the %s backend", c.DBBackend)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level: %w", err)
	}
	if c.LogFormat != LogFormatPlain && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("unsupported log-format %q", c.LogFormat)
	}
	switch c.DBBackend {
	case DBBackendGoLevelDB, DBBackendMemDB:
	default:
		return fmt.Errorf("unsupported db-backend %q", c.DBBackend)
	}
	if _, err := c.Params(); err != nil {
		return err
	}
	if c.API.RequestsPerSecond < 0 || c.API.Burst < 0 {
		return fmt.Errorf("api rate limit cannot be negative")
	}
	if c.Engine.MissRate < 0 || c.Engine.MissRate > 1 {
		return fmt.Errorf("engine.miss-rate must be within [0, 1]")
	}
	return nil
}

// Params converts the game section to validated module params.
func (c Config) Params() (types.Params, error) {
	fee, err := sdk.ParseCoinNormalized(c.Game.Fee)
	if err != nil {
		return types.Params{}, fmt.Errorf("invalid game.fee: %w", err)
	}
	params := types.Params{
		ChainID:         c.Game.ChainID,
		Fee:             fee,
		Contract:        types.Address(c.Game.Contract),
		BuilderCodes:    c.Game.BuilderCodes,
		PollInterval:    c.Game.PollInterval,
		RefreshDelay:    c.Game.RefreshDelay,
		MaxPollAttempts: c.Game.MaxPollAttempts,
	}
	if err := params.Validate(); err != nil {
		return types.Params{}, fmt.Errorf("invalid game config: %w", err)
	}
	return params, nil
}

// DataDir is where the devnet ledger is stored.
func (c Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}

// ZerologLevel returns the parsed log level, info when unparsable.
func (c Config) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func setString(opts AppOptions, key string, dst *string) {
	if v := opts.Get(key); v != nil {
		*dst = cast.ToString(v)
	}
}

func setDuration(opts AppOptions, key string, dst *time.Duration) error {
	v := opts.Get(key)
	if v == nil {
		return nil
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// splitList accepts both list values and a single comma separated string.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
