package simulated

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwdecoder/accelerator"
)

type Decoder struct {
	device     *Device
	config     accelerator.SessionConfig
	extraData  []byte
	destroyed  bool
	frameCount uint64
}

var _ accelerator.DecoderHandle = (*Decoder)(nil)

func (dec *Decoder) Destroy(ctx context.Context) accelerator.Status {
	return dec.device.destroyDecoder(ctx, dec)
}

func (dec *Decoder) Width() int {
	return dec.config.Width
}

func (dec *Decoder) Height() int {
	return dec.config.Height
}

func (dec *Decoder) ExtraData() []byte {
	return dec.extraData
}

// Decode "decodes" a compressed picture: it returns a new buffer of the
// session's size and pixel format filled with a pattern that depends on the
// payload and on the picture number.
func (dec *Decoder) Decode(
	ctx context.Context,
	payload []byte,
) (*ImageBuffer, error) {
	if dec.destroyed {
		return nil, fmt.Errorf("the decoder is destroyed")
	}
	dec.frameCount++
	seed := byte(dec.frameCount)
	for _, b := range payload {
		seed ^= b
	}
	buf := dec.device.NewImageBuffer(dec.config.PixelFormatType, dec.config.Width, dec.config.Height)
	buf.fill(seed)
	return buf, nil
}
