// Command dashboard serves the reactive chart dashboard.
//
// Usage:
//
//	dashboard -config configs/dashboard.yaml
//
// Without -config the defaults are used: the random walk source and a
// listener on :5006.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	dashboard "github.com/superKazi/awal-lazard"
	"github.com/superKazi/awal-lazard/internal/logging"
	"github.com/superKazi/awal-lazard/internal/natsutil"
	"github.com/superKazi/awal-lazard/internal/snapshot"
	"github.com/superKazi/awal-lazard/source"
	"github.com/superKazi/awal-lazard/types"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg := dashboard.DefaultConfig()
	if configPath != "" {
		loaded, err := dashboard.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := logging.NewSlogFromConfig(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("invalid log settings: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []dashboard.Option{dashboard.WithLogger(logger)}

	if needsNATS(&cfg) {
		nc, ns, err := connectNATS(&cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			nc.Close()
			if ns != nil {
				ns.Shutdown()
			}
		}()

		natsOpts := []source.NATSOption{
			source.WithSubject(cfg.Source.Subject),
			source.WithTimeout(cfg.Source.Timeout),
			source.WithLogger(logger),
		}

		if cfg.Source.Serve {
			responder := source.NewResponder(nc, dashboard.NewRandomWalkSource(cfg.Source), natsOpts...)
			if err := responder.Start(ctx); err != nil {
				return fmt.Errorf("failed to start generator responder: %w", err)
			}
			defer responder.Stop()
			logger.Info("generator responder started", "subject", cfg.Source.Subject)
		}

		if cfg.Source.Kind == dashboard.SourceNATS {
			opts = append(opts, dashboard.WithDataSource(source.NewNATS(nc, natsOpts...)))
		}

		if cfg.Snapshot.Enabled {
			js, err := jetstream.New(nc)
			if err != nil {
				return fmt.Errorf("failed to create JetStream context: %w", err)
			}

			setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			kv, err := snapshot.EnsureBucket(setupCtx, js, cfg.Snapshot.Bucket, cfg.Snapshot.TTL)
			cancel()
			if err != nil {
				return err
			}
			opts = append(opts, dashboard.WithKeyValue(kv))
		}
	}

	app, err := dashboard.NewApp(&cfg, opts...)
	if err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	logger.Info("dashboard ready", "addr", app.Addr())

	<-ctx.Done()
	logger.Info("shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil && !errors.Is(err, dashboard.ErrNotStarted) {
		return err
	}

	return nil
}

func needsNATS(cfg *dashboard.Config) bool {
	return cfg.Source.Kind == dashboard.SourceNATS || cfg.Source.Serve || cfg.Snapshot.Enabled
}

// connectNATS connects to the configured server, starting an embedded one
// first when requested. The returned server is nil unless embedded.
func connectNATS(cfg *dashboard.Config, logger types.Logger) (*nats.Conn, *server.Server, error) {
	url := cfg.NATS.URL

	var ns *server.Server
	if cfg.NATS.Embedded {
		var err error
		ns, err = natsutil.StartEmbedded(natsutil.EmbeddedOptions{
			Port:     cfg.NATS.Port,
			StoreDir: cfg.NATS.StoreDir,
			NoLog:    true,
		})
		if err != nil {
			return nil, nil, err
		}
		url = ns.ClientURL()
		logger.Info("embedded NATS server started", "url", url)
	}

	nc, err := nats.Connect(url,
		nats.Name("dashboard"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		if ns != nil {
			ns.Shutdown()
		}

		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return nc, ns, nil
}
