package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "REBASEPOOL"
	configFileName = "rebasepool"
	configFileType = "toml"

	flagHome      = "home"
	flagDBBackend = "db-backend"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagChainID   = "chain-id"
)

// DefaultNodeHome is the default home directory for rebasepoold.
var DefaultNodeHome = func() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".rebasepool"
	}
	return filepath.Join(userHome, ".rebasepool")
}()

// AppConfig is the operator configuration read from
// <home>/config/rebasepool.toml, REBASEPOOL_* env vars and flags.
type AppConfig struct {
	Home      string `mapstructure:"home"`
	DBBackend string `mapstructure:"db-backend"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	ChainID   string `mapstructure:"chain-id"`
}

// DefaultAppConfig returns the defaults written by `init`.
func DefaultAppConfig(home string) AppConfig {
	return AppConfig{
		Home:      home,
		DBBackend: string(dbm.GoLevelDBBackend),
		LogLevel:  "info",
		LogFormat: "plain",
		ChainID:   "rebasepool-local-1",
	}
}

// ValidateBasic checks the operator configuration.
func (c AppConfig) ValidateBasic() error {
	if strings.TrimSpace(c.Home) == "" {
		return fmt.Errorf("home cannot be empty")
	}

	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("db-backend must be one of %s, %s", dbm.GoLevelDBBackend, dbm.MemDBBackend)
	}

	if _, err := log.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level: %w", err)
	}

	switch c.LogFormat {
	case "plain", "json":
	default:
		return fmt.Errorf("log-format must be one of plain, json")
	}

	if strings.TrimSpace(c.ChainID) == "" {
		return fmt.Errorf("chain-id cannot be empty")
	}

	return nil
}

// DataDir is where the pool database lives.
func (c AppConfig) DataDir() string {
	return filepath.Join(c.Home, "data")
}

// ConfigPath is the location of the TOML config file.
func (c AppConfig) ConfigPath() string {
	return filepath.Join(c.Home, "config", configFileName+"."+configFileType)
}

// Logger builds the process logger for the configuration.
func (c AppConfig) Logger() (log.Logger, error) {
	filter, err := log.ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []log.Option{log.FilterOption(filter)}
	if c.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(os.Stderr, opts...), nil
}

func newViper(home string) *viper.Viper {
	v := viper.New()
	defaults := DefaultAppConfig(home)
	v.SetDefault(flagHome, defaults.Home)
	v.SetDefault(flagDBBackend, defaults.DBBackend)
	v.SetDefault(flagLogLevel, defaults.LogLevel)
	v.SetDefault(flagLogFormat, defaults.LogFormat)
	v.SetDefault(flagChainID, defaults.ChainID)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(filepath.Join(home, "config"))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// loadAppConfig merges defaults, config file, environment and flags, in
// increasing order of precedence.
func loadAppConfig(cmd *cobra.Command) (AppConfig, error) {
	home, err := cmd.Flags().GetString(flagHome)
	if err != nil {
		return AppConfig{}, err
	}
	if envHome := os.Getenv(envPrefix + "_HOME"); envHome != "" && !cmd.Flags().Changed(flagHome) {
		home = envHome
	}

	v := newViper(home)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return AppConfig{}, err
	}

	cfg := AppConfig{
		Home:      home,
		DBBackend: cast.ToString(v.Get(flagDBBackend)),
		LogLevel:  cast.ToString(v.Get(flagLogLevel)),
		LogFormat: cast.ToString(v.Get(flagLogFormat)),
		ChainID:   cast.ToString(v.Get(flagChainID)),
	}
	if err := cfg.ValidateBasic(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// writeDefaultConfig writes the config file unless one already exists.
func writeDefaultConfig(cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(cfg.ConfigPath()), 0o755); err != nil {
		return err
	}
	v := newViper(cfg.Home)
	v.Set(flagDBBackend, cfg.DBBackend)
	v.Set(flagLogLevel, cfg.LogLevel)
	v.Set(flagLogFormat, cfg.LogFormat)
	v.Set(flagChainID, cfg.ChainID)
	if err := v.SafeWriteConfigAs(cfg.ConfigPath()); err != nil {
		var exists viper.ConfigFileAlreadyExistsError
		if errors.As(err, &exists) {
			return nil
		}
		return err
	}
	return nil
}
