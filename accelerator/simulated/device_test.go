package simulated

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwdecoder/accelerator"
)

func newSessionConfig(width, height int) *accelerator.SessionConfig {
	return &accelerator.SessionConfig{
		Width:           width,
		Height:          height,
		Format:          accelerator.CodestreamTagAVC1,
		PixelFormatType: accelerator.PixelFormatType420YpCbCr8Planar,
	}
}

func TestDeviceIsExclusive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dev := NewDevice()

	dec0, status := dev.CreateDecoder(ctx, newSessionConfig(64, 64), nil)
	require.Equal(t, accelerator.StatusOK, status)
	require.NotNil(t, dec0)
	require.True(t, dev.HasActiveDecoder(ctx))

	dec1, status := dev.CreateDecoder(ctx, newSessionConfig(64, 64), nil)
	require.Equal(t, accelerator.StatusDecoderFailed, status)
	require.Nil(t, dec1)

	require.Equal(t, accelerator.StatusOK, dec0.Destroy(ctx))
	require.False(t, dev.HasActiveDecoder(ctx))
	require.Equal(t, accelerator.StatusDecoderFailed, dec0.Destroy(ctx))

	dec1, status = dev.CreateDecoder(ctx, newSessionConfig(64, 64), nil)
	require.Equal(t, accelerator.StatusOK, status)
	require.Equal(t, accelerator.StatusOK, dec1.Destroy(ctx))

	require.Equal(t, int64(2), dev.CreateCount.Load())
	require.Equal(t, int64(2), dev.DestroyCount.Load())
}

func TestDeviceRejects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name   string
		dev    func() *Device
		cfg    *accelerator.SessionConfig
		status accelerator.Status
	}{
		{
			name:   "disabled",
			dev:    func() *Device { d := NewDevice(); d.Disabled = true; return d },
			cfg:    newSessionConfig(64, 64),
			status: accelerator.StatusHardwareNotSupported,
		},
		{
			name:   "injected",
			dev:    func() *Device { d := NewDevice(); d.FailNextCreate = -1; return d },
			cfg:    newSessionConfig(64, 64),
			status: -1,
		},
		{
			name:   "zero_size",
			dev:    NewDevice,
			cfg:    newSessionConfig(0, 64),
			status: accelerator.StatusConfigurationError,
		},
		{
			name: "wrong_codestream",
			dev:  NewDevice,
			cfg: func() *accelerator.SessionConfig {
				cfg := newSessionConfig(64, 64)
				cfg.Format = 0
				return cfg
			}(),
			status: accelerator.StatusConfigurationError,
		},
		{
			name: "wrong_pixel_format",
			dev:  NewDevice,
			cfg: func() *accelerator.SessionConfig {
				cfg := newSessionConfig(64, 64)
				cfg.PixelFormatType = accelerator.PixelFormatType32BGRA
				return cfg
			}(),
			status: accelerator.StatusFormatNotSupported,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dev := tt.dev()
			dec, status := dev.CreateDecoder(ctx, tt.cfg, nil)
			require.Equal(t, tt.status, status)
			require.Nil(t, dec)
			require.Zero(t, dev.CreateCount.Load())
		})
	}
}

func TestImageBufferRefCounting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dev := NewDevice()

	handle, status := dev.CreateDecoder(ctx, newSessionConfig(33, 17), []byte{1, 2, 3})
	require.Equal(t, accelerator.StatusOK, status)
	dec := handle.(*Decoder)
	require.Equal(t, []byte{1, 2, 3}, dec.ExtraData())

	buf, err := dec.Decode(ctx, []byte("payload"))
	require.NoError(t, err)
	require.Equal(t, 3, buf.PlaneCount())
	require.Equal(t, 64*17+64*9*2, buf.DataSize())
	require.Nil(t, buf.BaseAddressOfPlane(0), "plane addresses must not be readable without the lock")

	require.NoError(t, buf.LockBaseAddress())
	require.NotNil(t, buf.BaseAddressOfPlane(0))
	require.NoError(t, buf.UnlockBaseAddress())
	require.Error(t, buf.UnlockBaseAddress())

	buf.Retain()
	require.Equal(t, int64(2), buf.RefCount())
	buf.Release()
	require.Equal(t, int64(1), dev.BuffersOutstanding.Load())
	buf.Release()
	require.Zero(t, dev.BuffersOutstanding.Load())
	buf.Release()
	require.Equal(t, int64(1), dev.DoubleReleases.Load())
	require.Error(t, buf.LockBaseAddress())

	require.Equal(t, accelerator.StatusOK, dec.Destroy(ctx))
	_, err = dec.Decode(ctx, nil)
	require.Error(t, err)
}
