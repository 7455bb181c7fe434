// pixel_format.go defines the host-side pixel formats a decoded picture can be exposed as.

package types

import (
	"github.com/asticode/go-astiav"
)

type PixelFormat string

func (pf PixelFormat) String() string {
	return string(pf)
}

const (
	PixelFormatUnknown PixelFormat = "unknown"

	// PixelFormatYUV420P is planar 4:2:0: a full-size luma plane followed by
	// two chroma planes of half width and half height.
	PixelFormatYUV420P PixelFormat = "yuv420p"

	// PixelFormatUYVY is packed 4:2:2 in a single plane (U0 Y0 V0 Y1).
	PixelFormatUYVY PixelFormat = "uyvy"
)

func (pf PixelFormat) PlaneCount() int {
	switch pf {
	case PixelFormatYUV420P:
		return 3
	case PixelFormatUYVY:
		return 1
	}
	return 0
}

// ChromaHeight returns the height of a chroma plane for a picture of the given luma height.
func (pf PixelFormat) ChromaHeight(height int) int {
	switch pf {
	case PixelFormatYUV420P:
		return (height + 1) >> 1
	}
	return height
}

// PlaneHeight returns the amount of rows in the given plane.
func (pf PixelFormat) PlaneHeight(plane, height int) int {
	if plane == 0 {
		return height
	}
	return pf.ChromaHeight(height)
}

// PlaneLineSize returns the amount of meaningful (non-padding) bytes in a row of the given plane.
func (pf PixelFormat) PlaneLineSize(plane, width int) int {
	switch pf {
	case PixelFormatYUV420P:
		if plane == 0 {
			return width
		}
		return (width + 1) >> 1
	case PixelFormatUYVY:
		return width * 2
	}
	return 0
}

func (pf PixelFormat) Astiav() astiav.PixelFormat {
	switch pf {
	case PixelFormatYUV420P:
		return astiav.PixelFormatYuv420P
	case PixelFormatUYVY:
		return astiav.PixelFormatUyvy422
	}
	return astiav.PixelFormatNone
}
