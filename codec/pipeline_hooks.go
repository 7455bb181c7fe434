package codec

import (
	"context"
)

// PipelineHooks are the callbacks a host installs into its codec context
// to route decoding through the hardware context. They depend on the
// codec context, so they are restored in Close, before anything else is
// torn down.
type PipelineHooks interface {
	Restore(ctx context.Context) error
}

type PipelineHooksFunc func(ctx context.Context) error

func (fn PipelineHooksFunc) Restore(ctx context.Context) error {
	return fn(ctx)
}
