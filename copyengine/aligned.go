package copyengine

import (
	"unsafe"
)

// AllocAligned returns a zeroed slice of the given size whose first byte is
// Alignment-aligned. It allocates Alignment-1 bytes of slack to get there.
func AllocAligned(size int) []byte {
	if size < 0 {
		size = 0
	}
	buf := make([]byte, size+Alignment-1)
	offset := AlignmentOffset(buf)
	return buf[offset : offset+size : offset+size]
}

// AlignmentOffset returns how many bytes to skip from the beginning of buf
// to reach an Alignment-aligned address.
func AlignmentOffset(buf []byte) int {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	return int((Alignment - addr&(Alignment-1)) & (Alignment - 1))
}

// IsAligned reports whether the first byte of buf is Alignment-aligned.
func IsAligned(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	return uintptr(unsafe.Pointer(&buf[0]))&(Alignment-1) == 0
}

// AlignSize rounds size up to a multiple of Alignment.
func AlignSize(size int) int {
	return alignUp(size, Alignment)
}
