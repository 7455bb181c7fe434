// closer.go defines the Closer and Releaser interfaces.

package types

import (
	"context"
)

type Closer interface {
	Close(context.Context) error
}

// Releaser is implemented by owners of platform resources that must be
// given back exactly once.
type Releaser interface {
	Release(context.Context) error
}
