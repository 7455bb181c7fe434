// Package copyengine copies decoded planes out of memory which is slow to
// read directly (write-combined or uncached hardware surfaces) into
// host-owned, 16-byte aligned buffers.
//
// Rows are pulled in batches into a small aligned bounce cache and then
// written to the destination, which keeps the reads sequential and the
// destination writes aligned. The result is always byte-identical to a
// plain row-by-row copy.
package copyengine

const (
	// Alignment is the guaranteed alignment of buffers returned by AllocAligned.
	Alignment = 16

	cacheLineSize = 64
	minCacheSize  = 4096
)

// Engine is not safe for concurrent use.
type Engine struct {
	// CPUSupportsStreamingLoads overrides the CPU feature detection if set.
	CPUSupportsStreamingLoads func() bool

	width int
	cache []byte
}

func NewEngine() *Engine {
	return &Engine{}
}

// InitCache prepares the bounce cache for pictures of the given width.
// A failure only means the accelerated path is unavailable: CopyPlane
// still works, with a plain copy.
func (e *Engine) InitCache(width int) error {
	e.CleanCache()
	if width <= 0 {
		return ErrCopyCacheUnavailable{Width: width, Reason: "the width is not positive"}
	}
	supported := streamingLoadsSupported
	if e.CPUSupportsStreamingLoads != nil {
		supported = e.CPUSupportsStreamingLoads
	}
	if !supported() {
		return ErrCopyCacheUnavailable{Width: width, Reason: "the CPU does not support streaming loads"}
	}

	size := alignUp(width, cacheLineSize)
	if size < minCacheSize {
		size = minCacheSize
	}
	e.cache = AllocAligned(size)
	e.width = width
	return nil
}

// CleanCache drops the per-width state; it is safe to call at any time.
func (e *Engine) CleanCache() {
	e.cache = nil
	e.width = 0
}

func (e *Engine) IsReady() bool {
	return e.cache != nil
}

// Width returns the width the cache was initialized for (zero if not ready).
func (e *Engine) Width() int {
	return e.width
}

// CopyPlane copies `height` rows from src (rows are srcStride bytes apart)
// to dst (rows are dstStride bytes apart). Every row carries
// min(srcStride, dstStride) bytes.
func (e *Engine) CopyPlane(
	src, dst []byte,
	srcStride, height, dstStride int,
) {
	if height <= 0 || srcStride <= 0 || dstStride <= 0 {
		return
	}
	rowLen := min(srcStride, dstStride)

	if !e.IsReady() {
		copyRows(src, dst, srcStride, dstStride, rowLen, 0, height)
		return
	}

	pitch := alignUp(rowLen, Alignment)
	rowsPerBatch := len(e.cache) / pitch
	if rowsPerBatch == 0 {
		copyRows(src, dst, srcStride, dstStride, rowLen, 0, height)
		return
	}

	for y := 0; y < height; y += rowsPerBatch {
		batch := min(rowsPerBatch, height-y)
		for r := 0; r < batch; r++ {
			srcOffset := (y + r) * srcStride
			copy(e.cache[r*pitch:r*pitch+rowLen], src[srcOffset:srcOffset+rowLen])
		}
		for r := 0; r < batch; r++ {
			dstOffset := (y + r) * dstStride
			copy(dst[dstOffset:dstOffset+rowLen], e.cache[r*pitch:r*pitch+rowLen])
		}
	}
}

func copyRows(
	src, dst []byte,
	srcStride, dstStride, rowLen int,
	fromRow, toRow int,
) {
	if srcStride == dstStride && srcStride == rowLen {
		begin, end := fromRow*rowLen, toRow*rowLen
		copy(dst[begin:end], src[begin:end])
		return
	}
	for y := fromRow; y < toRow; y++ {
		srcOffset, dstOffset := y*srcStride, y*dstStride
		copy(dst[dstOffset:dstOffset+rowLen], src[srcOffset:srcOffset+rowLen])
	}
}

func alignUp(v, alignment int) int {
	return (v + alignment - 1) / alignment * alignment
}
