// Package frame defines the decoded video frame handed to the rest of the pipeline.
package frame

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/hwdecoder/types"
)

// Video is a decoded picture on the host side.
//
// It either references memory owned by someone else (a zero-copy frame,
// which keeps the owner alive until Release) or owns a copy of the data.
type Video struct {
	Width       int
	Height      int
	PixelFormat types.PixelFormat
	Planes      [][]byte
	Strides     []int

	buffer []byte
	owner  types.Releaser
}

var _ types.Releaser = (*Video)(nil)

// NewReferenced builds a zero-copy frame over the given planes. The owner
// of the planes is released by Video.Release.
func NewReferenced(
	width, height int,
	pixFmt types.PixelFormat,
	planes [][]byte,
	strides []int,
	owner types.Releaser,
) *Video {
	return &Video{
		Width:       width,
		Height:      height,
		PixelFormat: pixFmt,
		Planes:      planes,
		Strides:     strides,
		owner:       owner,
	}
}

// NewOwned builds a frame over planes which are all windows of buffer.
func NewOwned(
	width, height int,
	pixFmt types.PixelFormat,
	buffer []byte,
	planes [][]byte,
	strides []int,
) *Video {
	return &Video{
		Width:       width,
		Height:      height,
		PixelFormat: pixFmt,
		Planes:      planes,
		Strides:     strides,
		buffer:      buffer,
	}
}

func (f *Video) String() string {
	if f == nil {
		return "Video(nil)"
	}
	return fmt.Sprintf("Video(%dx%d %s, zero-copy:%t)", f.Width, f.Height, f.PixelFormat, f.IsZeroCopy())
}

func (f *Video) IsZeroCopy() bool {
	return f.owner != nil
}

func (f *Video) IsValid() bool {
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return false
	}
	planeCount := f.PixelFormat.PlaneCount()
	return planeCount > 0 && len(f.Planes) == planeCount && len(f.Strides) == planeCount
}

// Buffer returns the backing allocation of a copied frame (nil for zero-copy frames).
func (f *Video) Buffer() []byte {
	return f.buffer
}

// Release drops the reference to the memory the frame points to. For
// zero-copy frames this gives the decoded picture back to its owner.
func (f *Video) Release(ctx context.Context) error {
	owner := f.owner
	f.owner = nil
	f.Planes = nil
	f.buffer = nil
	if owner == nil {
		return nil
	}
	return owner.Release(ctx)
}

// PackedSize returns the size of the picture without row padding.
func (f *Video) PackedSize() int {
	var size int
	for idx := range f.Planes {
		size += f.PixelFormat.PlaneLineSize(idx, f.Width) * f.PixelFormat.PlaneHeight(idx, f.Height)
	}
	return size
}

// AppendPacked appends the picture without row padding to dst, plane after plane.
func (f *Video) AppendPacked(dst []byte) ([]byte, error) {
	if !f.IsValid() {
		return dst, fmt.Errorf("the frame is not valid: %s", f)
	}
	for idx, plane := range f.Planes {
		lineSize := f.PixelFormat.PlaneLineSize(idx, f.Width)
		stride := f.Strides[idx]
		if stride < lineSize {
			return dst, fmt.Errorf("plane %d: stride %d is less than the line size %d", idx, stride, lineSize)
		}
		for y := 0; y < f.PixelFormat.PlaneHeight(idx, f.Height); y++ {
			dst = append(dst, plane[y*stride:y*stride+lineSize]...)
		}
	}
	return dst, nil
}

// ToAstiav copies the picture into a frame from Pool; the caller is
// expected to return it via Pool.Put.
func (f *Video) ToAstiav() (_ret *astiav.Frame, _err error) {
	packed, err := f.AppendPacked(make([]byte, 0, f.PackedSize()))
	if err != nil {
		return nil, err
	}

	dst := Pool.Get()
	defer func() {
		if _err != nil {
			Pool.Put(dst)
		}
	}()
	dst.SetWidth(f.Width)
	dst.SetHeight(f.Height)
	dst.SetPixelFormat(f.PixelFormat.Astiav())
	if err := dst.AllocBuffer(0); err != nil {
		return nil, fmt.Errorf("unable to allocate frame buffer: %w", err)
	}
	if err := dst.Data().SetBytes(packed, 1); err != nil {
		return nil, fmt.Errorf("unable to set frame data from buffer: %w", err)
	}
	return dst, nil
}
