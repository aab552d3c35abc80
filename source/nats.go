package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/superKazi/awal-lazard/internal/logging"
	"github.com/superKazi/awal-lazard/types"
)

// Defaults for the NATS request/reply transport.
const (
	DefaultSubject    = "dashboard.series.generate"
	DefaultTimeout    = 10 * time.Second
	DefaultQueueGroup = "dashboard-generators"
)

// GenerateRequest is the payload of a generate request.
type GenerateRequest struct {
	SampleCount int `json:"sampleCount"`
}

// GenerateResponse is the payload of a generate reply.
//
// Exactly one of Dataset and Error is set.
type GenerateResponse struct {
	Dataset *types.Dataset `json:"dataset,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type natsOptions struct {
	subject    string
	timeout    time.Duration
	queueGroup string
	logger     types.Logger
}

// NATSOption configures the NATS client and Responder.
type NATSOption func(*natsOptions)

func newNATSOptions(opts []NATSOption) natsOptions {
	o := natsOptions{
		subject:    DefaultSubject,
		timeout:    DefaultTimeout,
		queueGroup: DefaultQueueGroup,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithSubject sets the request subject (default: "dashboard.series.generate").
func WithSubject(subject string) NATSOption {
	return func(o *natsOptions) {
		o.subject = subject
	}
}

// WithTimeout bounds a request when the caller's context has no deadline
// (default: 10s). Only used by the client.
func WithTimeout(d time.Duration) NATSOption {
	return func(o *natsOptions) {
		o.timeout = d
	}
}

// WithQueueGroup sets the responder queue group so several generators can
// share the load (default: "dashboard-generators").
func WithQueueGroup(group string) NATSOption {
	return func(o *natsOptions) {
		o.queueGroup = group
	}
}

// WithLogger sets the logger.
func WithLogger(logger types.Logger) NATSOption {
	return func(o *natsOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NATS is a data source that requests datasets from a remote generator.
type NATS struct {
	nc   *nats.Conn
	opts natsOptions
}

var _ types.DataSource = (*NATS)(nil)

// NewNATS creates a request/reply data source.
//
// Parameters:
//   - nc: Connected NATS client
//   - opts: Optional configuration (WithSubject, WithTimeout, WithLogger)
//
// Returns:
//   - *NATS: Initialized source
func NewNATS(nc *nats.Conn, opts ...NATSOption) *NATS {
	return &NATS{nc: nc, opts: newNATSOptions(opts)}
}

// Subject returns the request subject.
func (n *NATS) Subject() string {
	return n.opts.subject
}

// Generate requests sampleCount points from the remote generator.
//
// Returns:
//   - *types.Dataset: Dataset decoded from the reply
//   - error: ErrNoGenerator, ErrRemoteGenerator, transport or decoding errors
func (n *NATS) Generate(ctx context.Context, sampleCount int) (*types.Dataset, error) {
	if sampleCount <= 0 {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidSampleCount, sampleCount)
	}

	if _, ok := ctx.Deadline(); !ok && n.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.opts.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(GenerateRequest{SampleCount: sampleCount})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	msg, err := n.nc.RequestWithContext(ctx, n.opts.subject, payload)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			return nil, fmt.Errorf("%w: subject %q", ErrNoGenerator, n.opts.subject)
		}

		return nil, fmt.Errorf("generate request failed: %w", err)
	}

	var resp GenerateResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemoteGenerator, resp.Error)
	}
	if resp.Dataset == nil {
		return nil, fmt.Errorf("%w: empty reply", ErrRemoteGenerator)
	}

	return resp.Dataset, nil
}
