// Package simulated implements accelerator.Accelerator in-process.
//
// It behaves like a platform decoder as far as the contract goes: the device
// is exclusive (one live decoder at a time), sessions are bound to a picture
// size, and decoded pictures are ref-counted buffers which must be locked to
// read plane addresses. It is used to exercise the hardware context without
// the hardware, and it counts everything so leaks and double releases can
// be asserted.
package simulated

import (
	"context"

	"github.com/xaionaro-go/hwdecoder/accelerator"
	"github.com/xaionaro-go/hwdecoder/logger"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

const (
	defaultStrideAlignment = 64
)

type Device struct {
	locker xsync.Mutex
	active *Decoder

	// Disabled makes every CreateDecoder fail with StatusHardwareNotSupported.
	Disabled bool

	// FailNextCreate, if not StatusOK, is returned (once) by the next CreateDecoder.
	FailNextCreate accelerator.Status

	StrideAlignment int

	CreateCount  atomic.Int64
	DestroyCount atomic.Int64

	BuffersAllocated   atomic.Int64
	BuffersOutstanding atomic.Int64
	DoubleReleases     atomic.Int64
}

var _ accelerator.Accelerator = (*Device)(nil)

func NewDevice() *Device {
	return &Device{
		StrideAlignment: defaultStrideAlignment,
	}
}

func (d *Device) String() string {
	return "simulated"
}

func (d *Device) CreateDecoder(
	ctx context.Context,
	cfg *accelerator.SessionConfig,
	extraData []byte,
) (accelerator.DecoderHandle, accelerator.Status) {
	return xsync.DoA3R2(ctx, &d.locker, d.createDecoderLocked, ctx, cfg, extraData)
}

func (d *Device) createDecoderLocked(
	ctx context.Context,
	cfg *accelerator.SessionConfig,
	extraData []byte,
) (_ret accelerator.DecoderHandle, _status accelerator.Status) {
	logger.Tracef(ctx, "createDecoderLocked: %dx%d %s %s", cfg.Width, cfg.Height, cfg.Format, cfg.PixelFormatType)
	defer func() { logger.Tracef(ctx, "/createDecoderLocked: %s", _status) }()

	if status := d.FailNextCreate; status != accelerator.StatusOK {
		d.FailNextCreate = accelerator.StatusOK
		return nil, status
	}
	if d.Disabled {
		return nil, accelerator.StatusHardwareNotSupported
	}
	if d.active != nil {
		return nil, accelerator.StatusDecoderFailed
	}
	if cfg.Format != accelerator.CodestreamTagAVC1 || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, accelerator.StatusConfigurationError
	}
	switch cfg.PixelFormatType {
	case accelerator.PixelFormatType420YpCbCr8Planar, accelerator.PixelFormatType422YpCbCr8:
	default:
		return nil, accelerator.StatusFormatNotSupported
	}

	dec := &Decoder{
		device:    d,
		config:    *cfg,
		extraData: append([]byte(nil), extraData...),
	}
	dec.config.Decoder = nil
	d.active = dec
	d.CreateCount.Inc()
	return dec, accelerator.StatusOK
}

func (d *Device) destroyDecoder(
	ctx context.Context,
	dec *Decoder,
) accelerator.Status {
	var status accelerator.Status
	d.locker.Do(ctx, func() {
		if dec.destroyed {
			logger.Errorf(ctx, "the decoder is already destroyed")
			status = accelerator.StatusDecoderFailed
			return
		}
		dec.destroyed = true
		if d.active == dec {
			d.active = nil
		}
		d.DestroyCount.Inc()
	})
	return status
}

// HasActiveDecoder reports if some client currently holds the device.
func (d *Device) HasActiveDecoder(ctx context.Context) bool {
	return xsync.DoR1(ctx, &d.locker, func() bool {
		return d.active != nil
	})
}

func (d *Device) alignStride(v int) int {
	a := d.StrideAlignment
	if a <= 1 {
		return v
	}
	return (v + a - 1) / a * a
}
