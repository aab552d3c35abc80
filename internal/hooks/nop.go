package hooks

import (
	"context"

	"github.com/superKazi/awal-lazard/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, bool) error             = (*NopHooks)(nil).OnBusyChanged
	_ func(context.Context, *types.ChartSpec) error = (*NopHooks)(nil).OnChartChanged
	_ func(context.Context, error) error            = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - *types.Hooks: Hooks with no-op implementations
func NewNop() *types.Hooks {
	h := &NopHooks{}
	return &types.Hooks{
		OnBusyChanged:  h.OnBusyChanged,
		OnChartChanged: h.OnChartChanged,
		OnError:        h.OnError,
	}
}

// Fill returns a copy of hooks with every nil callback replaced by a no-op.
//
// A nil hooks value yields NewNop().
func Fill(hooks *types.Hooks) *types.Hooks {
	nop := NewNop()
	if hooks == nil {
		return nop
	}

	out := *hooks
	if out.OnBusyChanged == nil {
		out.OnBusyChanged = nop.OnBusyChanged
	}
	if out.OnChartChanged == nil {
		out.OnChartChanged = nop.OnChartChanged
	}
	if out.OnError == nil {
		out.OnError = nop.OnError
	}

	return &out
}

// OnBusyChanged is a no-op implementation.
func (h *NopHooks) OnBusyChanged(ctx context.Context, busy bool) error {
	return nil
}

// OnChartChanged is a no-op implementation.
func (h *NopHooks) OnChartChanged(ctx context.Context, spec *types.ChartSpec) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
