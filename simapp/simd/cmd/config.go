package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/provlabs/sharevault/simapp"
	"github.com/provlabs/sharevault/types"
)

const (
	// ConfigFileName is the name of the config file inside the home directory.
	ConfigFileName = "config.yaml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SHAREVAULT_"

	LogFormatPlain = "plain"
	LogFormatJSON  = "json"
)

// Config is the host configuration read from config.yaml and the environment.
type Config struct {
	Home       string `yaml:"-"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	AssetDenom string `yaml:"asset_denom"`
	// Authority is the bech32 address allowed to configure vaults. Empty means the gov module address.
	Authority string `yaml:"authority,omitempty"`
	ChainID   string `yaml:"chain_id"`
}

// DefaultConfig returns the config used when no file or override is present.
func DefaultConfig() Config {
	return Config{
		Home:       simapp.DefaultNodeHome,
		LogLevel:   zerolog.InfoLevel.String(),
		LogFormat:  LogFormatPlain,
		AssetDenom: types.DefaultAssetDenom,
		ChainID:    simapp.DefaultChainID,
	}
}

// LoadConfig reads config.yaml from home when it exists, then applies the
// SHAREVAULT_* environment overrides read through getenv.
func LoadConfig(home string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Home = home

	bz, err := os.ReadFile(filepath.Join(home, ConfigFileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(bz, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return cfg, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
	}

	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := getenv(EnvPrefix + "ASSET_DENOM"); v != "" {
		cfg.AssetDenom = v
	}
	if v := getenv(EnvPrefix + "AUTHORITY"); v != "" {
		cfg.Authority = v
	}
	if v := getenv(EnvPrefix + "CHAIN_ID"); v != "" {
		cfg.ChainID = v
	}

	return cfg, nil
}

// Validate checks every config field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Home) == "" {
		return errors.New("home directory cannot be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.LogFormat != LogFormatPlain && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log format %q: must be %q or %q", c.LogFormat, LogFormatPlain, LogFormatJSON)
	}
	if err := sdk.ValidateDenom(c.AssetDenom); err != nil {
		return fmt.Errorf("invalid asset denom: %w", err)
	}
	if _, err := c.AuthorityAddress(); err != nil {
		return err
	}
	if strings.TrimSpace(c.ChainID) == "" {
		return errors.New("chain id cannot be empty")
	}
	return nil
}

// AuthorityAddress returns the configured authority, or the gov module address.
func (c Config) AuthorityAddress() (sdk.AccAddress, error) {
	if c.Authority == "" {
		return authtypes.NewModuleAddress(types.GovModuleName), nil
	}
	addr, err := sdk.AccAddressFromBech32(c.Authority)
	if err != nil {
		return nil, fmt.Errorf("invalid authority address: %w", err)
	}
	return addr, nil
}

// Logger builds the host logger writing to w.
func (c Config) Logger(w io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	opts := []log.Option{log.LevelOption(level)}
	if c.LogFormat == LogFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...), nil
}

// DataDir is the directory holding the application database.
func (c Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}

// WriteConfig writes cfg to config.yaml in its home directory.
func WriteConfig(cfg Config) (string, error) {
	if err := os.MkdirAll(cfg.Home, 0o755); err != nil {
		return "", fmt.Errorf("failed to create home directory: %w", err)
	}
	bz, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	path := filepath.Join(cfg.Home, ConfigFileName)
	if err := os.WriteFile(path, bz, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
