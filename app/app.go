package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/go-redis/redis/v8"

	"dinorun/x/arcade/client/cli"
	"dinorun/x/arcade/devnet"
	arcadekeeper "dinorun/x/arcade/keeper"
	arcade "dinorun/x/arcade/module"
	"dinorun/x/arcade/names"
	"dinorun/x/arcade/session"
	"dinorun/x/arcade/telemetry"
	"dinorun/x/arcade/types"
)

const (
	// Name is the name of the application.
	Name = "dinorun"
	// ledgerDBName is the database file holding the devnet ledger.
	ledgerDBName = "ledger"
)

// DefaultNodeHome default home directory for the application.
var DefaultNodeHome string

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	DefaultNodeHome = filepath.Join(home, "."+Name)
}

// App wires the arcade module, its devnet collaborators and the name
// resolution stack.
type App struct {
	cfg    Config
	params types.Params
	logger log.Logger
	db     dbm.DB
	redis  *redis.Client

	ArcadeKeeper arcadekeeper.Keeper
	ArcadeModule arcade.AppModule
	Wallet       *devnet.Wallet
	Resolver     *names.Resolver
	NameHandler  *names.Handler
	Metrics      *telemetry.Metrics
}

// New returns an initialized App. The caller must Close it.
func New(logger log.Logger, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		params:  params,
		logger:  logger,
		db:      db,
		Metrics: telemetry.NewMetrics(),
	}

	app.ArcadeKeeper = arcadekeeper.NewKeeper(db, logger)
	if err := app.ArcadeKeeper.SetParams(params); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set arcade params: %w", err)
	}
	app.ArcadeModule = arcade.NewAppModule(app.ArcadeKeeper)
	app.Wallet = devnet.NewWallet(app.ArcadeKeeper, cfg.Wallet, logger)

	neynar := names.NewNeynarClient(cfg.Neynar)
	var identity types.IdentityLookup = neynar
	if cfg.API.ResolveNamesURL != "" {
		identity = names.NewAPIClient(cfg.API.ResolveNamesURL, cfg.Neynar.Timeout)
	}
	app.Resolver = names.NewResolver(identity, app.Wallet, logger, app.Metrics)

	var cache names.Cache = names.NewMemoryCache(names.DefaultMemoryCacheSize, names.CacheTTL)
	if cfg.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = names.NewRedisCache(app.redis, cfg.Redis.Prefix)
	}
	app.NameHandler = names.NewHandler(neynar, cache, logger, app.Metrics)

	return app, nil
}

// NewLogger returns the application logger writing to w.
func NewLogger(w io.Writer, cfg Config) log.Logger {
	opts := []log.Option{log.LevelOption(cfg.ZerologLevel())}
	if cfg.LogFormat == LogFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...)
}

func openDB(cfg Config) (dbm.DB, error) {
	if cfg.DBBackend == DBBackendMemDB {
		return dbm.NewMemDB(), nil
	}
	dir := cfg.DataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := dbm.NewDB(ledgerDBName, dbm.BackendType(cfg.DBBackend), dir)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	return db, nil
}

// Logger returns the application logger.
func (app *App) Logger() log.Logger { return app.logger }

// Params returns the game parameters the app was built with.
func (app *App) Params() types.Params { return app.params }

// Config returns the application configuration.
func (app *App) Config() Config { return app.cfg }

// NewController returns a session controller playing on the devnet wallet
// with the given engine.
func (app *App) NewController(engine types.Engine) *session.Controller {
	return session.NewController(app.params, app.Wallet, app.Wallet, engine, app.logger, app.Metrics)
}

// ClientContext returns the context arcade commands run against.
func (app *App) ClientContext() cli.ClientContext {
	return cli.ClientContext{
		Keeper:   app.ArcadeKeeper,
		Wallet:   app.Wallet,
		Resolver: app.Resolver,
		Params:   app.params,
		Logger:   app.logger,
	}
}

// Ping checks the optional redis backend.
func (app *App) Ping(ctx context.Context) error {
	if app.redis == nil {
		return nil
	}
	return app.redis.Ping(ctx).Err()
}

// Close releases the database and redis connections.
func (app *App) Close() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	errs = append(errs, app.db.Close())
	return errors.Join(errs...)
}
