package logger

import (
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
)

func TestLevelAstiavRoundTrip(t *testing.T) {
	for _, level := range []Level{LevelError, LevelWarning, LevelInfo, LevelDebug, LevelTrace} {
		require.Equal(t, level, LevelFromAstiav(LevelToAstiav(level)), level.String())
	}
	require.Equal(t, astiav.LogLevelQuiet, LevelToAstiav(0))
}
