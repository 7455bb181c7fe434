package copyengine

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

func streamingLoadsSupported() bool {
	switch runtime.GOARCH {
	case "amd64", "386":
		return cpu.X86.HasSSE41
	case "arm64":
		return cpu.ARM64.HasASIMD
	}
	return false
}
