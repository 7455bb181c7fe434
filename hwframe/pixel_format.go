package hwframe

import (
	"github.com/xaionaro-go/hwdecoder/accelerator"
	"github.com/xaionaro-go/hwdecoder/types"
)

// PixelFormatFromType maps a platform pixel format tag to the host-side
// format a picture is exposed as; it returns types.PixelFormatUnknown for
// everything but planar 4:2:0 and packed 4:2:2.
func PixelFormatFromType(t accelerator.PixelFormatType) types.PixelFormat {
	switch t {
	case accelerator.PixelFormatType420YpCbCr8Planar:
		return types.PixelFormatYUV420P
	case accelerator.PixelFormatType422YpCbCr8:
		return types.PixelFormatUYVY
	}
	return types.PixelFormatUnknown
}
