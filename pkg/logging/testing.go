package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

// CaptureForTest makes the default logger write JSON lines at trace level
// to the returned buffer until the test ends.
func CaptureForTest(t testing.TB) *bytes.Buffer {
	t.Helper()

	original := defaultLogger
	oldLevel := zerolog.GlobalLevel()

	buf := &bytes.Buffer{}
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	SetDefault(zerolog.New(buf).Level(zerolog.TraceLevel))

	t.Cleanup(func() {
		zerolog.SetGlobalLevel(oldLevel)
		SetDefault(original)
	})
	return buf
}
