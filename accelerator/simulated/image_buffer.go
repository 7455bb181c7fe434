package simulated

import (
	"fmt"

	"github.com/xaionaro-go/hwdecoder/accelerator"
	"go.uber.org/atomic"
)

type ImageBuffer struct {
	device          *Device
	pixelFormatType accelerator.PixelFormatType
	planes          [][]byte
	strides         []int

	refCount  atomic.Int64
	lockDepth atomic.Int64

	LockCount   atomic.Int64
	UnlockCount atomic.Int64
}

var _ accelerator.ImageBuffer = (*ImageBuffer)(nil)

// NewImageBuffer allocates a buffer with reference count 1.
//
// Tags the device cannot decode into are laid out as a single
// 4-bytes-per-pixel plane.
func (d *Device) NewImageBuffer(
	pixelFormatType accelerator.PixelFormatType,
	width, height int,
) *ImageBuffer {
	buf := &ImageBuffer{
		device:          d,
		pixelFormatType: pixelFormatType,
	}
	addPlane := func(lineSize, rows int) {
		stride := d.alignStride(lineSize)
		buf.strides = append(buf.strides, stride)
		buf.planes = append(buf.planes, make([]byte, stride*rows))
	}
	switch pixelFormatType {
	case accelerator.PixelFormatType420YpCbCr8Planar:
		chromaWidth, chromaHeight := (width+1)/2, (height+1)/2
		addPlane(width, height)
		addPlane(chromaWidth, chromaHeight)
		addPlane(chromaWidth, chromaHeight)
	case accelerator.PixelFormatType422YpCbCr8:
		addPlane(width*2, height)
	default:
		addPlane(width*4, height)
	}
	d.track(buf)
	return buf
}

// NewEmptyImageBuffer allocates a buffer (with reference count 1) which carries no picture data.
func (d *Device) NewEmptyImageBuffer(
	pixelFormatType accelerator.PixelFormatType,
) *ImageBuffer {
	buf := &ImageBuffer{
		device:          d,
		pixelFormatType: pixelFormatType,
	}
	d.track(buf)
	return buf
}

func (d *Device) track(buf *ImageBuffer) {
	buf.refCount.Store(1)
	d.BuffersAllocated.Inc()
	d.BuffersOutstanding.Inc()
}

func (buf *ImageBuffer) fill(seed byte) {
	for planeIdx, plane := range buf.planes {
		v := seed + byte(planeIdx*31)
		for i := range plane {
			plane[i] = v
			v += 7
		}
	}
}

func (buf *ImageBuffer) String() string {
	return fmt.Sprintf("ImageBuffer(%s, planes:%d, refs:%d)", buf.pixelFormatType, len(buf.planes), buf.refCount.Load())
}

func (buf *ImageBuffer) DataSize() int {
	var size int
	for _, plane := range buf.planes {
		size += len(plane)
	}
	return size
}

func (buf *ImageBuffer) PixelFormatType() accelerator.PixelFormatType {
	return buf.pixelFormatType
}

func (buf *ImageBuffer) LockBaseAddress() error {
	if buf.refCount.Load() <= 0 {
		return fmt.Errorf("the buffer is already released")
	}
	buf.lockDepth.Inc()
	buf.LockCount.Inc()
	return nil
}

func (buf *ImageBuffer) UnlockBaseAddress() error {
	if buf.lockDepth.Dec() < 0 {
		buf.lockDepth.Inc()
		return fmt.Errorf("the buffer is not locked")
	}
	buf.UnlockCount.Inc()
	return nil
}

func (buf *ImageBuffer) IsLocked() bool {
	return buf.lockDepth.Load() > 0
}

func (buf *ImageBuffer) PlaneCount() int {
	return len(buf.planes)
}

// BaseAddressOfPlane returns nil if the buffer is not locked or the plane does not exist.
func (buf *ImageBuffer) BaseAddressOfPlane(plane int) []byte {
	if !buf.IsLocked() || plane < 0 || plane >= len(buf.planes) {
		return nil
	}
	return buf.planes[plane]
}

func (buf *ImageBuffer) BytesPerRowOfPlane(plane int) int {
	if plane < 0 || plane >= len(buf.strides) {
		return 0
	}
	return buf.strides[plane]
}

// Plane gives access to the plane memory regardless of the lock; it is meant for verification.
func (buf *ImageBuffer) Plane(plane int) []byte {
	return buf.planes[plane]
}

func (buf *ImageBuffer) RefCount() int64 {
	return buf.refCount.Load()
}

func (buf *ImageBuffer) Retain() {
	buf.refCount.Inc()
}

func (buf *ImageBuffer) Release() {
	switch n := buf.refCount.Dec(); {
	case n == 0:
		buf.device.BuffersOutstanding.Dec()
	case n < 0:
		buf.refCount.Inc()
		buf.device.DoubleReleases.Inc()
	}
}
