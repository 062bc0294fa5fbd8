package server

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody/errors"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// HomeKey is the directory holding the tendermint config and the
	// application database.
	HomeKey = "home"
	// BindKey is the address the ABCI server listens on.
	BindKey = "bind"
	// LogLevelKey is one of debug, info, error or none.
	LogLevelKey = "log_level"
	// DebugKey returns unredacted errors in ABCI responses.
	DebugKey = "debug"
	// MetricsKey is the address serving prometheus metrics. Empty disables
	// the metrics endpoint.
	MetricsKey = "metrics"
	// MemDBKey keeps the state in memory only.
	MemDBKey = "memdb"
	// CacheSizeKey is the number of iavl nodes kept in memory.
	CacheSizeKey = "cache_size"

	envPrefix = "custody"
)

// Config is the runtime configuration of a daemon.
type Config struct {
	Home      string
	Bind      string
	LogLevel  string
	Debug     bool
	Metrics   string
	MemDB     bool
	CacheSize int
}

// NewViper returns a viper instance with all defaults set for the named
// daemon. Environment variables are looked up with the CUSTODY_ prefix.
func NewViper(name string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(HomeKey, filepath.Join(os.ExpandEnv("$HOME"), "."+name))
	v.SetDefault(BindKey, "tcp://localhost:26658")
	v.SetDefault(LogLevelKey, "info")
	v.SetDefault(DebugKey, false)
	v.SetDefault(MetricsKey, "")
	v.SetDefault(MemDBKey, false)
	v.SetDefault(CacheSizeKey, 10000)
	return v
}

// LoadConfig reads the optional <home>/config/<name>.toml file and returns
// the merged configuration.
func LoadConfig(v *viper.Viper, name string) (Config, error) {
	home := v.GetString(HomeKey)
	path := filepath.Join(home, "config", name+".toml")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(errors.ErrInput, "cannot read %s: %s", path, err)
		}
	}

	c := Config{
		Home:      v.GetString(HomeKey),
		Bind:      v.GetString(BindKey),
		LogLevel:  strings.ToLower(v.GetString(LogLevelKey)),
		Debug:     v.GetBool(DebugKey),
		Metrics:   v.GetString(MetricsKey),
		MemDB:     v.GetBool(MemDBKey),
		CacheSize: v.GetInt(CacheSizeKey),
	}
	if c.Bind == "" {
		return c, errors.Wrap(errors.ErrInput, "bind address required")
	}
	if c.CacheSize <= 0 {
		return c, errors.Wrapf(errors.ErrInput, "cache size must be positive, got %d", c.CacheSize)
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return c, errors.Wrap(errors.ErrInput, err.Error())
	}
	return c, nil
}

// NewLogger returns a tendermint logger writing to w that drops entries
// below the given level.
func NewLogger(w io.Writer, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w))
	return log.NewFilter(logger, opt), nil
}
