package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/superKazi/awal-lazard/types"
)

// ErrResponderStarted is returned when Start is called on a running responder.
var ErrResponderStarted = errors.New("responder already started")

// Responder answers generate requests using a local data source.
type Responder struct {
	nc     *nats.Conn
	source types.DataSource
	opts   natsOptions

	mu     sync.Mutex
	sub    *nats.Subscription
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewResponder creates a responder serving src.
//
// Parameters:
//   - nc: Connected NATS client
//   - src: Data source that performs the generation
//   - opts: Optional configuration (WithSubject, WithQueueGroup, WithLogger)
//
// Returns:
//   - *Responder: Responder ready to start
func NewResponder(nc *nats.Conn, src types.DataSource, opts ...NATSOption) *Responder {
	return &Responder{nc: nc, source: src, opts: newNATSOptions(opts)}
}

// Start subscribes to the request subject.
//
// Requests are handled concurrently; each runs with a context derived from
// ctx, so cancelling ctx aborts pending generations.
func (r *Responder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub != nil {
		return ErrResponderStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	sub, err := r.nc.QueueSubscribe(r.opts.subject, r.opts.queueGroup, func(msg *nats.Msg) {
		r.wg.Go(func() {
			r.handle(ctx, msg)
		})
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to subscribe to %q: %w", r.opts.subject, err)
	}

	r.sub = sub
	r.cancel = cancel
	r.opts.logger.Info("data generator responder started", "subject", r.opts.subject, "queue", r.opts.queueGroup)

	return nil
}

// Stop unsubscribes and waits for in-flight requests. Safe to call multiple times.
func (r *Responder) Stop() {
	r.mu.Lock()
	sub, cancel := r.sub, r.cancel
	r.sub, r.cancel = nil, nil
	r.mu.Unlock()

	if sub == nil {
		return
	}

	if err := sub.Unsubscribe(); err != nil {
		r.opts.logger.Warn("failed to unsubscribe responder", "subject", r.opts.subject, "error", err)
	}
	cancel()
	r.wg.Wait()
}

func (r *Responder) handle(ctx context.Context, msg *nats.Msg) {
	var resp GenerateResponse

	var req GenerateRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		resp.Error = fmt.Sprintf("invalid request: %v", err)
	} else if ds, err := r.source.Generate(ctx, req.SampleCount); err != nil {
		resp.Error = err.Error()
	} else {
		resp.Dataset = ds
	}

	if resp.Error != "" {
		r.opts.logger.Warn("generate request failed", "subject", msg.Subject, "error", resp.Error)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		r.opts.logger.Error("failed to encode reply", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		r.opts.logger.Warn("failed to send reply", "error", err)
	}
}
