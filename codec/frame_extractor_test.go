package codec

import (
	"context"
	"fmt"
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwdecoder/accelerator"
	"github.com/xaionaro-go/hwdecoder/accelerator/simulated"
	"github.com/xaionaro-go/hwdecoder/copyengine"
	"github.com/xaionaro-go/hwdecoder/hwframe"
	"github.com/xaionaro-go/hwdecoder/types"
)

type countingCopier struct {
	Ready          bool
	CopyPlaneCount int
}

func (c *countingCopier) IsReady() bool {
	return c.Ready
}

func (c *countingCopier) CopyPlane(src, dst []byte, srcStride, height, dstStride int) {
	c.CopyPlaneCount++
	for y := 0; y < height; y++ {
		copy(dst[y*dstStride:y*dstStride+srcStride], src[y*srcStride:(y+1)*srcStride])
	}
}

func TestExtractFrameEmptyBuffer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dev := simulated.NewDevice()
	copier := &countingCopier{Ready: true}
	e := FrameExtractor{Copier: copier}

	buf := dev.NewEmptyImageBuffer(accelerator.PixelFormatType420YpCbCr8Planar)
	f, err := e.ExtractFrame(ctx, hwframe.New(ctx, buf), 64, 64, accelerator.PixelFormatType420YpCbCr8Planar, true)
	require.Nil(t, f)
	require.ErrorAs(t, err, &hwframe.ErrEmptyBuffer{})
	require.Zero(t, copier.CopyPlaneCount)
	require.Zero(t, buf.RefCount())
	require.Zero(t, dev.BuffersOutstanding.Load())

	f, err = e.ExtractFrame(ctx, hwframe.New(ctx, nil), 64, 64, accelerator.PixelFormatType420YpCbCr8Planar, true)
	require.Nil(t, f)
	require.ErrorAs(t, err, &hwframe.ErrEmptyBuffer{})
	require.Zero(t, copier.CopyPlaneCount)
}

func TestExtractFrameUnsupportedFormat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dev := simulated.NewDevice()

	for _, pixelFormatType := range []accelerator.PixelFormatType{
		accelerator.PixelFormatType32BGRA,
		accelerator.PixelFormatType420YpCbCr8BiPlanar,
		accelerator.PixelFormatTypeUndefined,
	} {
		for _, optimizedCopy := range []bool{false, true} {
			copier := &countingCopier{Ready: true}
			e := FrameExtractor{Copier: copier}
			buf := dev.NewImageBuffer(pixelFormatType, 32, 32)

			f, err := e.ExtractFrame(ctx, hwframe.New(ctx, buf), 32, 32, pixelFormatType, optimizedCopy)
			require.Nil(t, f)
			var errUnsupported hwframe.ErrUnsupportedFormat
			require.ErrorAs(t, err, &errUnsupported)
			require.Equal(t, pixelFormatType, errUnsupported.PixelFormatType)
			require.Zero(t, buf.RefCount(), "the buffer must be released before returning")
			require.Zero(t, copier.CopyPlaneCount)
		}
	}
	require.Zero(t, dev.BuffersOutstanding.Load())
	require.Zero(t, dev.DoubleReleases.Load())
}

func TestExtractFrameCacheNotReadyFallsBackToZeroCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dev := simulated.NewDevice()
	copier := &countingCopier{Ready: false}
	e := FrameExtractor{Copier: copier}

	buf := dev.NewImageBuffer(accelerator.PixelFormatType422YpCbCr8, 64, 48)
	f, err := e.ExtractFrame(ctx, hwframe.New(ctx, buf), 64, 48, accelerator.PixelFormatType422YpCbCr8, true)
	require.NoError(t, err)
	require.True(t, f.IsZeroCopy())
	require.Equal(t, types.PixelFormatUYVY, f.PixelFormat)
	require.Zero(t, copier.CopyPlaneCount)
	require.Equal(t, int64(1), buf.RefCount())

	require.NoError(t, f.Release(ctx))
	require.Zero(t, buf.RefCount())
}

func TestNoBufferLeaks(t *testing.T) {
	t.Parallel()

	const cycles = 1000
	for _, optimizedCopy := range []bool{false, true} {
		for _, pixelFormatType := range []accelerator.PixelFormatType{
			accelerator.PixelFormatType420YpCbCr8Planar,
			accelerator.PixelFormatType422YpCbCr8,
		} {
			optimizedCopy, pixelFormatType := optimizedCopy, pixelFormatType
			t.Run(fmt.Sprintf("optimized:%t/%s", optimizedCopy, pixelFormatType), func(t *testing.T) {
				t.Parallel()
				ctx := context.Background()
				dev := simulated.NewDevice()
				c := newTestHardwareContext(ctx, dev, Options{
					OptimizedCopy:   optimizedCopy,
					PixelFormatType: pixelFormatType,
				})
				cp := newCodecParams(t, astiav.CodecIDH264)
				require.NoError(t, c.Open(ctx, cp, nil))

				for i := 0; i < cycles; i++ {
					// an occasional resolution change, to also cover re-configuration
					width, height := 64, 48
					if (i/100)%2 == 1 {
						width, height = 48, 32
					}
					cfg, _, err := c.Configure(ctx, cp, width, height)
					require.NoError(t, err)

					buf, err := cfg.Decoder.(*simulated.Decoder).Decode(ctx, []byte{byte(i)})
					require.NoError(t, err)

					f, err := c.Frame(ctx, buf)
					require.NoError(t, err)
					require.True(t, f.IsValid())
					require.Equal(t, !optimizedCopy, f.IsZeroCopy())
					require.NoError(t, f.Release(ctx))
				}
				require.NoError(t, c.Close(ctx))

				require.Equal(t, int64(cycles), dev.BuffersAllocated.Load())
				require.Zero(t, dev.BuffersOutstanding.Load())
				require.Zero(t, dev.DoubleReleases.Load())
				require.Equal(t, dev.CreateCount.Load(), dev.DestroyCount.Load())
				require.Equal(t, int64(10), dev.CreateCount.Load())
			})
		}
	}
}

func TestEndToEndZeroCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dev := simulated.NewDevice()
	c := newTestHardwareContext(ctx, dev, Options{OptimizedCopy: false})
	cp := newCodecParams(t, astiav.CodecIDH264)
	require.NoError(t, c.Open(ctx, cp, nil))

	cfg, pixFmt, err := c.Configure(ctx, cp, 1920, 1080)
	require.NoError(t, err)
	require.Equal(t, HardwarePixelFormat, pixFmt)

	buf, err := cfg.Decoder.(*simulated.Decoder).Decode(ctx, []byte("idr"))
	require.NoError(t, err)

	f, err := c.Frame(ctx, buf)
	require.NoError(t, err)
	require.True(t, f.IsZeroCopy())
	require.Equal(t, 1920, f.Width)
	require.Equal(t, 1080, f.Height)
	require.Equal(t, types.PixelFormatYUV420P, f.PixelFormat)
	require.Len(t, f.Planes, 3)
	for idx := range f.Planes {
		require.Same(t, &buf.Plane(idx)[0], &f.Planes[idx][0], "plane %d", idx)
		require.Equal(t, buf.BytesPerRowOfPlane(idx), f.Strides[idx])
	}
	require.False(t, buf.IsLocked())
	require.Equal(t, int64(1), buf.RefCount(), "the frame keeps the buffer alive")

	require.NoError(t, f.Release(ctx))
	require.Zero(t, buf.RefCount())
	require.Zero(t, dev.BuffersOutstanding.Load())
	require.NoError(t, f.Release(ctx))
	require.Zero(t, dev.DoubleReleases.Load())

	require.NoError(t, c.Close(ctx))
}

func TestEndToEndOptimizedCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dev := simulated.NewDevice()
	c := newTestHardwareContext(ctx, dev, Options{OptimizedCopy: true})
	cp := newCodecParams(t, astiav.CodecIDH264)
	require.NoError(t, c.Open(ctx, cp, nil))

	cfg, _, err := c.Configure(ctx, cp, 1920, 1080)
	require.NoError(t, err)
	require.True(t, c.CopyEngine().IsReady())

	buf, err := cfg.Decoder.(*simulated.Decoder).Decode(ctx, []byte("idr"))
	require.NoError(t, err)
	var want [][]byte
	for idx := 0; idx < buf.PlaneCount(); idx++ {
		want = append(want, append([]byte(nil), buf.Plane(idx)...))
	}

	f, err := c.Frame(ctx, buf)
	require.NoError(t, err)
	require.False(t, f.IsZeroCopy())
	require.Zero(t, buf.RefCount(), "the source buffer is released right after the copy")
	require.Len(t, f.Planes, 3)
	for idx, plane := range f.Planes {
		require.True(t, copyengine.IsAligned(plane), "plane %d", idx)
		require.Equal(t, want[idx], plane, "plane %d", idx)
		require.Equal(t, buf.BytesPerRowOfPlane(idx), f.Strides[idx])
	}

	require.NoError(t, f.Release(ctx))
	require.Zero(t, dev.DoubleReleases.Load())
	require.NoError(t, c.Close(ctx))
	require.False(t, c.CopyEngine().IsReady())
}
