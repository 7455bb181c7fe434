package codec

import (
	"context"
	"errors"

	"github.com/xaionaro-go/hwdecoder/accelerator"
	"github.com/xaionaro-go/hwdecoder/copyengine"
	"github.com/xaionaro-go/hwdecoder/frame"
	"github.com/xaionaro-go/hwdecoder/hwframe"
	"github.com/xaionaro-go/hwdecoder/logger"
)

// PlaneCopier is implemented by *copyengine.Engine.
type PlaneCopier interface {
	IsReady() bool
	CopyPlane(src, dst []byte, srcStride, height, dstStride int)
}

var _ PlaneCopier = (*copyengine.Engine)(nil)

// FrameExtractor turns hardware frames into frame.Video-s.
type FrameExtractor struct {
	Copier PlaneCopier
}

// ExtractFrame consumes hwFrame: on every path its buffer is released
// exactly once, either before returning or (zero-copy) when the returned
// frame is released.
//
// If optimizedCopy is requested and the copy cache is ready the picture is
// copied into a 16-byte aligned buffer; otherwise the returned frame
// references the hardware buffer.
//
// An error means only this picture is unusable; the caller should skip it.
func (e *FrameExtractor) ExtractFrame(
	ctx context.Context,
	hwFrame *hwframe.Frame,
	width, height int,
	pixelFormatType accelerator.PixelFormatType,
	optimizedCopy bool,
) (_ret *frame.Video, _err error) {
	logger.Tracef(ctx, "ExtractFrame(ctx, %v, %dx%d, %s, %t)", hwFrame, width, height, pixelFormatType, optimizedCopy)
	defer func() {
		logger.Tracef(ctx, "/ExtractFrame(ctx, %v, %dx%d, %s, %t): %v %v", hwFrame, width, height, pixelFormatType, optimizedCopy, _ret, _err)
	}()

	pixFmt, planes, err := hwFrame.Planes(ctx, pixelFormatType, height)
	if err != nil {
		e.release(ctx, hwFrame)
		switch {
		case errors.As(err, &hwframe.ErrEmptyBuffer{}):
			logger.Debugf(ctx, "empty frame buffer")
		case errors.As(err, &hwframe.ErrUnsupportedFormat{}):
			logger.Warnf(ctx, "%v", err)
		default:
			logger.Errorf(ctx, "unable to get the planes of the frame: %v", err)
		}
		return nil, err
	}

	strides := make([]int, len(planes))
	for idx, plane := range planes {
		strides[idx] = plane.Stride
	}

	if !optimizedCopy || e.Copier == nil || !e.Copier.IsReady() {
		data := make([][]byte, len(planes))
		for idx, plane := range planes {
			data[idx] = plane.Data
		}
		return frame.NewReferenced(width, height, pixFmt, data, strides, hwFrame), nil
	}

	var size int
	for _, plane := range planes {
		size += copyengine.AlignSize(plane.Size())
	}
	buf := copyengine.AllocAligned(size)
	data := make([][]byte, len(planes))
	var offset int
	for idx, plane := range planes {
		dst := buf[offset : offset+plane.Size()]
		e.Copier.CopyPlane(plane.Data, dst, plane.Stride, plane.Height, plane.Stride)
		data[idx] = dst
		offset += copyengine.AlignSize(plane.Size())
	}
	e.release(ctx, hwFrame)
	return frame.NewOwned(width, height, pixFmt, buf, data, strides), nil
}

func (e *FrameExtractor) release(
	ctx context.Context,
	hwFrame *hwframe.Frame,
) {
	if err := hwFrame.Release(ctx); err != nil && !errors.As(err, &hwframe.ErrAlreadyReleased{}) {
		logger.Errorf(ctx, "unable to release the hardware frame: %v", err)
	}
}
