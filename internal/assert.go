// Package internal holds small helpers shared by the hwdecoder packages.
package internal

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
)

// Assertf panics (through the logger, so the message is flushed first)
// if the condition does not hold.
func Assertf(
	ctx context.Context,
	mustBeTrue bool,
	format string,
	args ...any,
) {
	if mustBeTrue {
		return
	}

	msg := fmt.Sprintf(format, args...)
	belt.Flush(ctx)
	logger.Panicf(ctx, "assertion failed: %s", msg)
	// in case the logger in ctx does not panic
	panic("assertion failed: " + msg)
}
