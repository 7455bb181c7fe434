// registry.go maps hardware device types to the constructors of their hardware contexts.

package codec

import (
	"context"
	"fmt"
	"sort"

	"github.com/xaionaro-go/hwdecoder/accelerator"
	"github.com/xaionaro-go/hwdecoder/types"
)

type HardwareContextConstructor func(
	ctx context.Context,
	acc accelerator.Accelerator,
	opts Options,
) *HardwareContext

var hardwareContextConstructors = map[types.HardwareDeviceType]HardwareContextConstructor{
	types.HardwareDeviceTypeVideoToolbox: NewHardwareContext,
}

// NewHardwareContextByType returns ErrNotImplemented for device types
// without a registered hardware context.
func NewHardwareContextByType(
	ctx context.Context,
	deviceType types.HardwareDeviceType,
	acc accelerator.Accelerator,
	opts Options,
) (*HardwareContext, error) {
	constructor, ok := hardwareContextConstructors[deviceType]
	if !ok {
		return nil, ErrNotImplemented{Err: fmt.Errorf("hardware decoding using '%s'", deviceType)}
	}
	return constructor(ctx, acc, opts), nil
}

func RegisteredHardwareDeviceTypes() []types.HardwareDeviceType {
	result := make([]types.HardwareDeviceType, 0, len(hardwareContextConstructors))
	for deviceType := range hardwareContextConstructors {
		result = append(result, deviceType)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
