package codec

import (
	"context"
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt"
	"github.com/xaionaro-go/hwdecoder/accelerator"
	"github.com/xaionaro-go/hwdecoder/copyengine"
	"github.com/xaionaro-go/hwdecoder/frame"
	"github.com/xaionaro-go/hwdecoder/hwframe"
	"github.com/xaionaro-go/hwdecoder/logger"
	"github.com/xaionaro-go/hwdecoder/types"
)

const (
	// HardwarePixelFormat is the pixel format the decode engine is told to
	// expect: the pictures stay in opaque hardware buffers.
	HardwarePixelFormat = astiav.PixelFormatVideotoolbox

	minExtraDataSize = 7
)

type State int

const (
	StateUninitialized = State(iota)
	StateConfigured
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfigured:
		return "configured"
	}
	return fmt.Sprintf("unknown_%d", int(s))
}

var _ types.Closer = (*HardwareContext)(nil)

// HardwareContext owns a hardware decoder session on behalf of a decode engine.
//
// It is driven from a single goroutine (the decode loop) and does no
// locking of its own. Close must be called explicitly: nothing is torn
// down by the garbage collector.
type HardwareContext struct {
	Options Options

	accelerator accelerator.Accelerator
	session     accelerator.SessionConfig
	copyEngine  *copyengine.Engine
	extractor   FrameExtractor
	hooks       PipelineHooks
}

func NewHardwareContext(
	ctx context.Context,
	acc accelerator.Accelerator,
	opts Options,
) *HardwareContext {
	if opts.PixelFormatType == accelerator.PixelFormatTypeUndefined {
		opts.PixelFormatType = DefaultOptions().PixelFormatType
	}
	copyEngine := copyengine.NewEngine()
	return &HardwareContext{
		Options:     opts,
		accelerator: acc,
		copyEngine:  copyEngine,
		extractor:   FrameExtractor{Copier: copyEngine},
	}
}

func (c *HardwareContext) String() string {
	return "VideoToolbox"
}

func (c *HardwareContext) Description() string {
	return "Video Decode Acceleration"
}

func (c *HardwareContext) State() State {
	if c.session.Decoder == nil {
		return StateUninitialized
	}
	return StateConfigured
}

// Resolution returns the size the current session was created for
// (zero if there is no session).
func (c *HardwareContext) Resolution() types.Resolution {
	if c.session.Decoder == nil {
		return types.Resolution{}
	}
	return types.Resolution{
		Width:  uint32(c.session.Width),
		Height: uint32(c.session.Height),
	}
}

func (c *HardwareContext) CopyEngine() *copyengine.Engine {
	return c.copyEngine
}

// Open checks the stream could be decoded by the hardware at all and
// remembers the hooks to restore on Close.
func (c *HardwareContext) Open(
	ctx context.Context,
	codecParams *astiav.CodecParameters,
	hooks PipelineHooks,
) (_err error) {
	logger.Debugf(ctx, "Open")
	defer func() { logger.Debugf(ctx, "/Open: %v", _err) }()

	if codecParams == nil {
		return ErrUnsupportedCodec{CodecID: astiav.CodecIDNone}
	}
	if codecID := codecParams.CodecID(); codecID != astiav.CodecIDH264 {
		logger.Warnf(ctx, "input codec (%s) isn't H264, canceling hardware decoding", codecID)
		return ErrUnsupportedCodec{CodecID: codecID}
	}
	if len(codecParams.ExtraData()) < minExtraDataSize {
		logger.Debugf(ctx, "the extradata is missing or too short (%d bytes), relying on in-band parameter sets", len(codecParams.ExtraData()))
	}
	c.hooks = hooks
	return nil
}

// Close restores the pipeline hooks, destroys the decoder session and
// drops the copy cache, in this order. The context may be configured
// again afterwards, which creates a new session.
func (c *HardwareContext) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()

	var errs []error
	if hooks := c.hooks; hooks != nil {
		c.hooks = nil
		if err := hooks.Restore(ctx); err != nil {
			errs = append(errs, fmt.Errorf("unable to restore the pipeline hooks: %w", err))
		}
	}

	logger.Debugf(ctx, "destroying the hardware decoder")
	if err := c.destroyDecoder(ctx); err != nil {
		errs = append(errs, err)
	}
	if c.Options.OptimizedCopy {
		c.copyEngine.CleanCache()
	}
	c.session.Reset()
	return errors.Join(errs...)
}

func (c *HardwareContext) destroyDecoder(ctx context.Context) error {
	decoder := c.session.Decoder
	if decoder == nil {
		return nil
	}
	c.session.Decoder = nil
	if status := decoder.Destroy(belt.WithField(ctx, "resolution", fmt.Sprintf("%dx%d", c.session.Width, c.session.Height))); status != accelerator.StatusOK {
		return fmt.Errorf("unable to destroy the hardware decoder (%s): %s", status, status.Description())
	}
	return nil
}

// GetBuffer acknowledges a buffer request of the decode engine; the
// platform allocates the picture memory itself.
func (c *HardwareContext) GetBuffer(ctx context.Context) error {
	return nil
}

// ReleaseBuffer gives a picture the decode engine is done with back to the platform.
func (c *HardwareContext) ReleaseBuffer(
	ctx context.Context,
	buf accelerator.ImageBuffer,
) {
	if buf == nil {
		return
	}
	logger.Debugf(ctx, "release buffer")
	buf.Release()
}

// Frame converts a decoded picture into a frame for the rest of the pipeline.
// The buffer is owned by the call from now on: it is released either
// immediately or (for zero-copy frames) by frame.Video.Release.
func (c *HardwareContext) Frame(
	ctx context.Context,
	buf accelerator.ImageBuffer,
) (*frame.Video, error) {
	return c.extractor.ExtractFrame(
		ctx,
		hwframe.New(ctx, buf),
		c.session.Width, c.session.Height,
		c.session.PixelFormatType,
		c.Options.OptimizedCopy,
	)
}
