package accelerator

import (
	"fmt"
)

// Status is the result code of a hardware decoder call.
type Status int32

const (
	StatusOK                   = Status(0)
	StatusHardwareNotSupported = Status(-12470)
	StatusFormatNotSupported   = Status(-12471)
	StatusConfigurationError   = Status(-12472)
	StatusDecoderFailed        = Status(-12473)
)

const statusDescriptionDefault = "hardware decode session rejected"

var statusDescriptions = map[Status]string{
	StatusHardwareNotSupported: "hardware doesn't support accelerated decoding",
	StatusFormatNotSupported:   "hardware doesn't support requested output format",
	StatusConfigurationError:   "invalid configuration provided to the decoder creation request",
	StatusDecoderFailed: "generic error returned by the decoder layer; the cause can range from" +
		" the decoder finding errors in the bitstream to another application" +
		" using the hardware decoder at the moment (only one application can use it at a given time)",
}

// Description returns a human readable cause of the status.
func (s Status) Description() string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return statusDescriptionDefault
}

func (s Status) String() string {
	if s == StatusOK {
		return "OK"
	}
	return fmt.Sprintf("%d", int32(s))
}
