package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/simapp"
	"github.com/provlabs/sharevault/types"
)

const (
	FlagHome      = "home"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
)

type configKey struct{}

// NewRootCmd returns the root command of the single-node host.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "simd",
		Short:        "Single-node host for the sharevault module",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromFlags(cmd, os.Getenv)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().String(FlagHome, "", fmt.Sprintf("home directory (default %s, or $%sHOME)", simapp.DefaultNodeHome, EnvPrefix))
	rootCmd.PersistentFlags().String(FlagLogLevel, "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String(FlagLogFormat, "", "log format (plain, json)")

	rootCmd.AddCommand(
		InitCmd(),
		txCommand(),
		queryCommand(),
		ReplayCmd(),
		SimulateCmd(),
	)

	return rootCmd
}

// configFromFlags resolves the home directory, loads its config and applies flag overrides.
func configFromFlags(cmd *cobra.Command, getenv func(string) string) (Config, error) {
	home, _ := cmd.Flags().GetString(FlagHome)
	if home == "" {
		home = getenv(EnvPrefix + "HOME")
	}
	if home == "" {
		home = simapp.DefaultNodeHome
	}

	cfg, err := LoadConfig(home, getenv)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed(FlagLogLevel) {
		cfg.LogLevel, _ = cmd.Flags().GetString(FlagLogLevel)
	}
	if cmd.Flags().Changed(FlagLogFormat) {
		cfg.LogFormat, _ = cmd.Flags().GetString(FlagLogFormat)
	}
	return cfg, cfg.Validate()
}

func configFromContext(ctx context.Context) (Config, error) {
	cfg, ok := ctx.Value(configKey{}).(Config)
	if !ok {
		return Config{}, errors.New("config not loaded")
	}
	return cfg, nil
}

// openApp opens the application database in the configured home and
// initializes the chain on first use.
func openApp(cmd *cobra.Command) (*simapp.SimApp, error) {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	authority, err := cfg.AuthorityAddress()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := dbm.NewDB("application", dbm.GoLevelDBBackend, cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	app, err := simapp.NewSimApp(logger, db, simapp.WithAuthority(authority), simapp.WithChainID(cfg.ChainID))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	genesis := types.DefaultGenesisState()
	genesis.Params.AssetDenom = cfg.AssetDenom
	bz, err := json.Marshal(genesis)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to encode genesis: %w", err)
	}
	appGenesis := app.DefaultGenesis()
	appGenesis[types.ModuleName] = bz
	if err := app.InitChain(appGenesis); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to init chain: %w", err)
	}
	return app, nil
}

// runBlock runs fn in a new block, commits the block when fn and the end
// blocker succeed, and prints fn's result as JSON.
func runBlock(cmd *cobra.Command, fn func(app *simapp.SimApp, ctx sdk.Context) (any, error)) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()

	ctx := app.NewContext(false)
	out, err := fn(app, ctx)
	if err != nil {
		app.Discard()
		return err
	}
	if err := app.EndBlock(ctx); err != nil {
		app.Discard()
		return fmt.Errorf("end block failed: %w", err)
	}
	commit := app.Commit()
	app.Logger().Debug("block committed", "height", commit.Version, "app_hash", fmt.Sprintf("%X", commit.Hash))

	return printJSON(cmd.OutOrStdout(), out)
}

// runQuery runs fn against the committed state and prints its result as JSON.
func runQuery(cmd *cobra.Command, fn func(app *simapp.SimApp, ctx sdk.Context) (any, error)) error {
	app, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close()
	}()

	ctx := app.NewContext(true)
	defer app.Discard()

	out, err := fn(app, ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func printJSON(w io.Writer, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bz))
	return err
}

// InitCmd writes a config file to the home directory and initializes the chain.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write config.yaml and initialize the application database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			if _, err := os.Stat(filepath.Join(cfg.Home, ConfigFileName)); err == nil && !overwrite {
				return fmt.Errorf("%s already exists in %s; use --overwrite to replace it", ConfigFileName, cfg.Home)
			}
			path, err := WriteConfig(cfg)
			if err != nil {
				return err
			}

			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			height := app.LastBlockHeight()
			if err := app.Close(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"config": path, "height": height})
		},
	}
	cmd.Flags().Bool("overwrite", false, "replace an existing config.yaml")
	return cmd
}
