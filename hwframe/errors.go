package hwframe

import (
	"fmt"

	"github.com/xaionaro-go/hwdecoder/accelerator"
)

type ErrEmptyBuffer struct{}

func (ErrEmptyBuffer) Error() string {
	return "the image buffer is empty"
}

type ErrUnsupportedFormat struct {
	PixelFormatType accelerator.PixelFormatType
}

func (e ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported pixel format type: %s", e.PixelFormatType)
}

type ErrAlreadyReleased struct{}

func (ErrAlreadyReleased) Error() string {
	return "the image buffer is already released"
}
