package copyengine

import (
	"fmt"
)

// ErrCopyCacheUnavailable means the aligned-copy optimization cannot be
// used; it is informational, copies still work.
type ErrCopyCacheUnavailable struct {
	Width  int
	Reason string
}

func (e ErrCopyCacheUnavailable) Error() string {
	return fmt.Sprintf("the copy cache is unavailable for width %d: %s", e.Width, e.Reason)
}
