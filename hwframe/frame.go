// Package hwframe wraps the opaque image buffer of one decoded picture.
package hwframe

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwdecoder/accelerator"
	"github.com/xaionaro-go/hwdecoder/internal"
	"github.com/xaionaro-go/hwdecoder/logger"
	"github.com/xaionaro-go/hwdecoder/types"
)

// Plane describes one plane of a locked image buffer.
type Plane struct {
	Data   []byte
	Stride int
	Height int
}

// Size returns the amount of bytes the plane occupies (padding included).
func (p Plane) Size() int {
	return p.Stride * p.Height
}

// Frame owns an accelerator.ImageBuffer until Release is called.
// It is not safe for concurrent use.
type Frame struct {
	buffer accelerator.ImageBuffer
}

var _ types.Releaser = (*Frame)(nil)

func New(
	ctx context.Context,
	buffer accelerator.ImageBuffer,
) *Frame {
	f := &Frame{buffer: buffer}
	if buffer != nil {
		internal.SetFinalizer(f, func(f *Frame) {
			if f.buffer != nil {
				logger.Errorf(ctx, "an image buffer was leaked (never released): %v", f.buffer)
			}
		})
	}
	return f
}

func (f *Frame) String() string {
	return fmt.Sprintf("HardwareFrame(%v)", f.buffer)
}

// Buffer returns the underlying buffer, or nil if it is released.
func (f *Frame) Buffer() accelerator.ImageBuffer {
	return f.buffer
}

// Planes locks the buffer, reads the plane descriptors and unlocks the buffer.
// The returned plane memory stays valid until Release.
func (f *Frame) Planes(
	ctx context.Context,
	pixelFormatType accelerator.PixelFormatType,
	height int,
) (_pixFmt types.PixelFormat, _ret []Plane, _err error) {
	logger.Tracef(ctx, "Planes(ctx, %s, %d)", pixelFormatType, height)
	defer func() {
		logger.Tracef(ctx, "/Planes(ctx, %s, %d): %s %d %v", pixelFormatType, height, _pixFmt, len(_ret), _err)
	}()

	if f.buffer == nil || f.buffer.DataSize() <= 0 {
		return types.PixelFormatUnknown, nil, ErrEmptyBuffer{}
	}

	pixFmt := PixelFormatFromType(pixelFormatType)
	if pixFmt == types.PixelFormatUnknown {
		return types.PixelFormatUnknown, nil, ErrUnsupportedFormat{PixelFormatType: pixelFormatType}
	}

	if err := f.buffer.LockBaseAddress(); err != nil {
		return types.PixelFormatUnknown, nil, fmt.Errorf("unable to lock the image buffer: %w", err)
	}
	planes := make([]Plane, pixFmt.PlaneCount())
	var readErr error
	for idx := range planes {
		p := Plane{
			Data:   f.buffer.BaseAddressOfPlane(idx),
			Stride: f.buffer.BytesPerRowOfPlane(idx),
			Height: pixFmt.PlaneHeight(idx, height),
		}
		if len(p.Data) < p.Size() {
			readErr = fmt.Errorf("plane %d is too small: %d < %d*%d", idx, len(p.Data), p.Stride, p.Height)
			break
		}
		p.Data = p.Data[:p.Size():p.Size()]
		planes[idx] = p
	}
	if err := f.buffer.UnlockBaseAddress(); err != nil {
		logger.Errorf(ctx, "unable to unlock the image buffer: %v", err)
	}
	if readErr != nil {
		return types.PixelFormatUnknown, nil, readErr
	}
	return pixFmt, planes, nil
}

// Release gives the buffer back to the platform. Only the first call
// has an effect; the following ones return ErrAlreadyReleased.
func (f *Frame) Release(ctx context.Context) error {
	buf := f.buffer
	if buf == nil {
		return ErrAlreadyReleased{}
	}
	f.buffer = nil
	internal.UnsetFinalizer(f)
	logger.Tracef(ctx, "releasing %v", buf)
	buf.Release()
	return nil
}

func (f *Frame) IsReleased() bool {
	return f.buffer == nil
}
