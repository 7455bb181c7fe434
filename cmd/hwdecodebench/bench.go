package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/hwdecoder/accelerator/simulated"
	"github.com/xaionaro-go/hwdecoder/codec"
	"github.com/xaionaro-go/hwdecoder/frame"
	"github.com/xaionaro-go/hwdecoder/logger"
	"github.com/xaionaro-go/hwdecoder/types"
)

type Stats struct {
	Frames          uint64
	ZeroCopyFrames  uint64
	Reconfigures    uint64
	BytesDelivered  uint64
	Elapsed         time.Duration
	BuffersLeft     int64
	DoubleReleases  int64
	DecodersCreated int64
}

func (s Stats) String() string {
	var perSecond uint64
	if s.Elapsed > 0 {
		perSecond = uint64(float64(s.BytesDelivered) / s.Elapsed.Seconds())
	}
	return fmt.Sprintf(
		"frames:%d (zero-copy:%d) reconfigures:%d decoders:%d delivered:%s in %s (%s/s) buffers-left:%d double-releases:%d",
		s.Frames, s.ZeroCopyFrames, s.Reconfigures, s.DecodersCreated,
		humanize.Bytes(s.BytesDelivered), s.Elapsed, humanize.Bytes(perSecond),
		s.BuffersLeft, s.DoubleReleases,
	)
}

func runBenchmark(
	ctx context.Context,
	deviceType types.HardwareDeviceType,
	cfg Config,
) (_ret Stats, _err error) {
	logger.Debugf(ctx, "runBenchmark: %s %s", deviceType, cfg.Resolution)
	defer func() { logger.Debugf(ctx, "/runBenchmark: %v", _err) }()

	device := simulated.NewDevice()
	closer := astikit.NewCloser()
	defer func() {
		if err := closer.Close(); err != nil {
			_err = errors.Join(_err, fmt.Errorf("unable to close: %w", err))
		}
		_ret.BuffersLeft = device.BuffersOutstanding.Load()
		_ret.DoubleReleases = device.DoubleReleases.Load()
		_ret.DecodersCreated = device.CreateCount.Load()
	}()

	hwCtx, err := codec.NewHardwareContextByType(ctx, deviceType, device, cfg.Decoder)
	if err != nil {
		return Stats{}, err
	}

	codecParams := astiav.AllocCodecParameters()
	closer.Add(codecParams.Free)
	codecParams.SetCodecID(astiav.CodecIDH264)
	codecParams.SetWidth(int(cfg.Resolution.Width))
	codecParams.SetHeight(int(cfg.Resolution.Height))

	if err := hwCtx.Open(ctx, codecParams, nil); err != nil {
		return Stats{}, fmt.Errorf("unable to open the hardware context: %w", err)
	}
	closer.Add(func() {
		if err := hwCtx.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close the hardware context: %v", err)
		}
	})

	var stats Stats
	startedAt := time.Now()
	resolution := cfg.Resolution
	payload := make([]byte, 64)
	for idx := 0; idx < cfg.Frames; idx++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if cfg.ResizeEvery > 0 && idx > 0 && idx%cfg.ResizeEvery == 0 {
			resolution = alternateResolution(cfg.Resolution, resolution)
		}

		prev := hwCtx.Resolution()
		session, _, err := hwCtx.Configure(ctx, codecParams, int(resolution.Width), int(resolution.Height))
		if err != nil {
			return stats, fmt.Errorf("unable to configure the hardware context for %s: %w", resolution, err)
		}
		if prev != resolution {
			stats.Reconfigures++
		}

		decoder, ok := session.Decoder.(*simulated.Decoder)
		if !ok {
			return stats, fmt.Errorf("unexpected decoder type %T", session.Decoder)
		}
		payload[0] = byte(idx)
		buf, err := decoder.Decode(ctx, payload)
		if err != nil {
			return stats, fmt.Errorf("unable to decode picture #%d: %w", idx, err)
		}

		f, err := hwCtx.Frame(ctx, buf)
		if err != nil {
			return stats, fmt.Errorf("unable to extract picture #%d: %w", idx, err)
		}
		n, err := consumeFrame(ctx, f, cfg.ToAstiav)
		if err != nil {
			return stats, errors.Join(fmt.Errorf("unable to consume picture #%d: %w", idx, err), f.Release(ctx))
		}
		stats.Frames++
		stats.BytesDelivered += uint64(n)
		if f.IsZeroCopy() {
			stats.ZeroCopyFrames++
		}
		if err := f.Release(ctx); err != nil {
			return stats, fmt.Errorf("unable to release picture #%d: %w", idx, err)
		}
	}
	stats.Elapsed = time.Since(startedAt)
	return stats, nil
}

func consumeFrame(
	ctx context.Context,
	f *frame.Video,
	toAstiav bool,
) (int, error) {
	if !toAstiav {
		return f.PackedSize(), nil
	}
	af, err := f.ToAstiav()
	if err != nil {
		return 0, err
	}
	defer frame.Pool.Put(af)
	logger.Tracef(ctx, "converted to %dx%d %s", af.Width(), af.Height(), af.PixelFormat())
	return f.PackedSize(), nil
}

// alternateResolution switches between the configured size and the same
// size shrunk by a quarter (rounded to even numbers).
func alternateResolution(base, cur types.Resolution) types.Resolution {
	if cur != base {
		return base
	}
	return types.Resolution{
		Width:  max(base.Width*3/4&^1, 2),
		Height: max(base.Height*3/4&^1, 2),
	}
}
