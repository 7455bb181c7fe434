package codec

import (
	"github.com/xaionaro-go/hwdecoder/accelerator"
)

type Options struct {
	// OptimizedCopy makes the decoded pictures be copied into aligned host
	// memory (if the copy cache could be initialized), instead of
	// referencing the hardware buffers directly.
	//
	// It is a clear win on some GPUs (those which expose decoded surfaces
	// as write-combined memory) and a loss on others, so it is opt-in.
	OptimizedCopy bool `yaml:"optimized_copy"`

	// PixelFormatType is the pixel format the hardware is asked to decode into.
	PixelFormatType accelerator.PixelFormatType `yaml:"pixel_format_type"`
}

func DefaultOptions() Options {
	return Options{
		OptimizedCopy:   false,
		PixelFormatType: accelerator.PixelFormatType420YpCbCr8Planar,
	}
}
