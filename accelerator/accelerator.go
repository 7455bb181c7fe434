// Package accelerator describes the contract of a platform hardware video
// decoder: a session is requested for a fixed picture size and codestream
// format, and every decoded picture is handed out as an opaque, ref-counted
// image buffer.
package accelerator

import (
	"context"
)

type Accelerator interface {
	// CreateDecoder requests a decoder session for cfg.Width x cfg.Height.
	// The returned handle is nil iff the status is not StatusOK.
	CreateDecoder(
		ctx context.Context,
		cfg *SessionConfig,
		extraData []byte,
	) (DecoderHandle, Status)
}

type DecoderHandle interface {
	Destroy(ctx context.Context) Status
}

// ImageBuffer is a platform-owned decoded picture.
//
// Plane addresses may be read only between LockBaseAddress and
// UnlockBaseAddress. Release must be called exactly once.
type ImageBuffer interface {
	DataSize() int
	PixelFormatType() PixelFormatType
	LockBaseAddress() error
	UnlockBaseAddress() error
	PlaneCount() int

	// BaseAddressOfPlane returns the memory of the plane starting at its
	// first byte; the slice covers at least BytesPerRowOfPlane*planeHeight bytes.
	BaseAddressOfPlane(plane int) []byte
	BytesPerRowOfPlane(plane int) int
	Release()
}

// SessionConfig is the hardware context handed to the upstream decode engine.
type SessionConfig struct {
	Decoder         DecoderHandle
	Width           int
	Height          int
	Format          CodestreamTag
	PixelFormatType PixelFormatType
}

func (cfg *SessionConfig) Reset() {
	*cfg = SessionConfig{}
}
