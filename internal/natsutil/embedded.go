package natsutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// EmbeddedOptions configures an in-process NATS server.
type EmbeddedOptions struct {
	Host         string        // Listen host (default: 127.0.0.1)
	Port         int           // Listen port, -1 picks a random free port (default: -1)
	StoreDir     string        // JetStream storage directory; empty keeps JetStream in a temp dir
	NoLog        bool          // Suppress server logs
	ReadyTimeout time.Duration // Wait for the server to accept clients (default: 5s)
}

// StartEmbedded starts an in-process NATS server with JetStream enabled.
//
// The caller owns the returned server and must call Shutdown.
//
// Parameters:
//   - opts: Server options
//
// Returns:
//   - *server.Server: Running server; ClientURL() gives the connect URL
//   - error: Creation error or readiness timeout
func StartEmbedded(opts EmbeddedOptions) (*server.Server, error) {
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.Port == 0 {
		opts.Port = -1
	}
	if opts.ReadyTimeout == 0 {
		opts.ReadyTimeout = 5 * time.Second
	}

	ns, err := server.NewServer(&server.Options{
		Host:      opts.Host,
		Port:      opts.Port,
		JetStream: true,
		StoreDir:  opts.StoreDir,
		NoLog:     opts.NoLog,
		NoSigs:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(opts.ReadyTimeout) {
		ns.Shutdown()
		return nil, errors.New("embedded NATS server not ready within timeout")
	}

	return ns, nil
}
