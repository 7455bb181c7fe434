package codec

import (
	"context"

	"github.com/asticode/go-astiav"
	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/hwdecoder/accelerator"
	"github.com/xaionaro-go/hwdecoder/internal"
	"github.com/xaionaro-go/hwdecoder/logger"
)

// Configure returns the hardware context for pictures of the given size,
// creating (or re-creating, if the size changed) the decoder session.
//
// On ErrConfigRejected the caller is expected to stop using hardware
// acceleration for this stream.
func (c *HardwareContext) Configure(
	ctx context.Context,
	codecParams *astiav.CodecParameters,
	width, height int,
) (*accelerator.SessionConfig, astiav.PixelFormat, error) {
	if c.session.Decoder != nil && c.session.Width == width && c.session.Height == height {
		return &c.session, HardwarePixelFormat, nil
	}
	return c.reconfigure(ctx, codecParams, width, height)
}

func (c *HardwareContext) reconfigure(
	ctx context.Context,
	codecParams *astiav.CodecParameters,
	width, height int,
) (_ret *accelerator.SessionConfig, _pixFmt astiav.PixelFormat, _err error) {
	logger.Tracef(ctx, "reconfigure(ctx, %dx%d)", width, height)
	defer func() { logger.Tracef(ctx, "/reconfigure(ctx, %dx%d): %v", width, height, _err) }()

	if c.session.Decoder != nil {
		logger.Debugf(ctx, "the resolution changed %dx%d -> %dx%d, re-creating the hardware decoder", c.session.Width, c.session.Height, width, height)
		if err := c.destroyDecoder(ctx); err != nil {
			logger.Errorf(ctx, "%v", err)
		}
		if c.Options.OptimizedCopy {
			c.copyEngine.CleanCache()
		}
	} else {
		c.session.Reset()
		c.session.Format = accelerator.CodestreamTagAVC1
		c.session.PixelFormatType = c.Options.PixelFormatType
	}
	c.session.Width = width
	c.session.Height = height

	var extraData []byte
	if codecParams != nil {
		extraData = codecParams.ExtraData()
	}
	logger.Tracef(ctx, "session config: %s", spew.Sdump(c.session))
	decoder, status := c.accelerator.CreateDecoder(ctx, &c.session, extraData)
	if status != accelerator.StatusOK {
		logger.Warnf(ctx, "failed to create decoder (%s): %s", status, status.Description())
		return nil, astiav.PixelFormatNone, ErrConfigRejected{Status: status}
	}
	internal.Assertf(ctx, decoder != nil, "the decoder handle is nil on success (%dx%d)", width, height)
	c.session.Decoder = decoder
	logger.Debugf(ctx, "hardware decoder created: %dx%d", width, height)

	if c.Options.OptimizedCopy {
		if err := c.copyEngine.InitCache(width); err != nil {
			logger.Warnf(ctx, "the optimized copy is disabled for this session: %v", err)
		}
	}
	return &c.session, HardwarePixelFormat, nil
}
