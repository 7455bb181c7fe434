package accelerator

import (
	"fmt"
)

type CodestreamTag uint32

const (
	CodestreamTagAVC1 = CodestreamTag('a'<<24 | 'v'<<16 | 'c'<<8 | '1')
)

func (t CodestreamTag) String() string {
	return fourCCString(uint32(t))
}

type PixelFormatType uint32

const (
	PixelFormatTypeUndefined          = PixelFormatType(0)
	PixelFormatType420YpCbCr8Planar   = PixelFormatType('y'<<24 | '4'<<16 | '2'<<8 | '0')
	PixelFormatType422YpCbCr8         = PixelFormatType('2'<<24 | 'v'<<16 | 'u'<<8 | 'y')
	PixelFormatType32BGRA             = PixelFormatType('B'<<24 | 'G'<<16 | 'R'<<8 | 'A')
	PixelFormatType420YpCbCr8BiPlanar = PixelFormatType('4'<<24 | '2'<<16 | '0'<<8 | 'v')
)

func (t PixelFormatType) String() string {
	return fourCCString(uint32(t))
}

func PixelFormatTypeFromString(s string) (PixelFormatType, error) {
	if len(s) != 4 {
		return PixelFormatTypeUndefined, fmt.Errorf("a four character code is expected, got '%s'", s)
	}
	return PixelFormatType(uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3])), nil
}

func fourCCString(v uint32) string {
	b := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("%#x", v)
		}
	}
	return string(b[:])
}

func (t PixelFormatType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PixelFormatType) UnmarshalText(b []byte) error {
	v, err := PixelFormatTypeFromString(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
