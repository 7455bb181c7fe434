package codec

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/hwdecoder/accelerator"
)

// ErrConfigRejected means the hardware refused to create a decoder session;
// the stream should be decoded without hardware acceleration.
type ErrConfigRejected struct {
	Status accelerator.Status
}

func (e ErrConfigRejected) Error() string {
	return fmt.Sprintf("unable to create the hardware decoder (%s): %s", e.Status, e.Status.Description())
}

type ErrUnsupportedCodec struct {
	CodecID astiav.CodecID
}

func (e ErrUnsupportedCodec) Error() string {
	return fmt.Sprintf("codec %s is not supported, only %s is", e.CodecID, astiav.CodecIDH264)
}

type ErrNotImplemented struct {
	Err error
}

func (e ErrNotImplemented) Error() string {
	return fmt.Sprintf("not implemented: %v", e.Err)
}

func (e ErrNotImplemented) Unwrap() error {
	return e.Err
}
