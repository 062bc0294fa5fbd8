package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags. An empty home
// selects an in memory database.
type AppGenerator func(home string, cacheSize int, logger log.Logger, reg prometheus.Registerer, debug bool) (abci.Application, error)

// StartCmd initializes the application, and serves it over ABCI until a
// termination signal is received.
func StartCmd(gen AppGenerator, name string, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "start",
		Short:        "Run the abci server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := LoadConfig(v, name)
			if err != nil {
				return err
			}
			logger, err := NewLogger(cmd.OutOrStdout(), conf.LogLevel)
			if err != nil {
				return err
			}
			logger = logger.With("module", name)

			stop, err := Start(gen, conf, logger)
			if err != nil {
				return err
			}
			waitForSignal(logger)
			return stop()
		},
	}

	fs := cmd.Flags()
	fs.String(BindKey, v.GetString(BindKey), "address server listens on")
	fs.String(LogLevelKey, v.GetString(LogLevelKey), "log level: debug, info, error or none")
	fs.Bool(DebugKey, false, "call stack returned on error")
	fs.String(MetricsKey, "", "address serving prometheus /metrics, disabled when empty")
	fs.Bool(MemDBKey, false, "keep the state in memory only")
	fs.Int(CacheSizeKey, v.GetInt(CacheSizeKey), "number of iavl nodes cached in memory")
	if err := v.BindPFlags(fs); err != nil {
		panic(err)
	}
	return cmd
}

// Start builds the application and starts serving it. The returned function
// stops all started servers.
func Start(gen AppGenerator, conf Config, logger log.Logger) (func() error, error) {
	home := conf.Home
	if conf.MemDB {
		home = ""
	}

	reg := prometheus.NewRegistry()
	app, err := gen(home, conf.CacheSize, logger, reg, conf.Debug)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create application")
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "cannot start abci server: %s", err)
	}

	var metrics *http.Server
	if conf.Metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metrics = &http.Server{Addr: conf.Metrics, Handler: mux}
		go func() {
			logger.Info("Serving metrics", "addr", conf.Metrics)
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
	}

	stop := func() error {
		if metrics != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metrics.Shutdown(ctx); err != nil {
				logger.Error("Cannot stop metrics server", "err", err)
			}
		}
		if err := svr.Stop(); err != nil {
			return errors.Wrapf(errors.ErrNetwork, "cannot stop abci server: %s", err)
		}
		return nil
	}
	return stop, nil
}

func waitForSignal(logger log.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	logger.Info("Stopping ABCI app", "signal", sig.String())
}
