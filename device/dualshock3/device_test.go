package dualshock3_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/GuillaumeMCK/dualshock3/device/dualshock3"
	"github.com/GuillaumeMCK/dualshock3/gadget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReportDispatch(t *testing.T) {
	dev := dualshock3.New(testLogger())

	in, err := dev.GetReport(dualshock3.ReportTypeInput, 0x01)
	require.NoError(t, err)
	assert.Len(t, in, dualshock3.InputReportSize)

	feat, err := dev.GetReport(dualshock3.ReportTypeFeature, 0xF2)
	require.NoError(t, err)
	assert.Len(t, feat, dualshock3.FeatureReportSize)

	out := make([]byte, dualshock3.OutputReportSize)
	out[9] = 0x02
	require.NoError(t, dev.SetReport(dualshock3.ReportTypeOutput, 0x01, out))
	assert.Equal(t, out, dev.OutputBytes())

	_, err = dev.GetReport(dualshock3.ReportTypeOutput, 0x01)
	var unsupported *dualshock3.UnsupportedReportError
	assert.ErrorAs(t, err, &unsupported)

	err = dev.SetReport(dualshock3.ReportTypeInput, 0x01, in[:48])
	assert.ErrorAs(t, err, &unsupported)
}

func TestInputSamplerGating(t *testing.T) {
	dev := dualshock3.New(testLogger())
	mock := gadget.NewMock()
	require.NoError(t, mock.Bind(t.Context()))

	dev.Attach(mock)
	defer dev.Release()

	// Streaming is enabled at power-on but no client is connected yet.
	select {
	case frame := <-mock.InFrames():
		t.Fatalf("unexpected frame without client: %x", frame)
	case <-time.After(50 * time.Millisecond):
	}

	dev.SetClientConnected(true)
	select {
	case frame := <-mock.InFrames():
		assert.Len(t, frame, dualshock3.InputReportSize)
		assert.EqualValues(t, 0x01, frame[0])
	case <-time.After(200 * time.Millisecond):
		t.Fatal("no frame despite client and streaming enabled")
	}

	// Host disables streaming through 0xF4.
	require.NoError(t, dev.SetReport(dualshock3.ReportTypeFeature, 0xF4, []byte{0x42, 0x01}))
	// Let an in-flight tick land before draining.
	time.Sleep(20 * time.Millisecond)
	drainFrames(mock)
	select {
	case frame := <-mock.InFrames():
		t.Fatalf("unexpected frame while streaming disabled: %x", frame)
	case <-time.After(50 * time.Millisecond):
	}

	// Re-enable: the next tick samples again.
	require.NoError(t, dev.SetReport(dualshock3.ReportTypeFeature, 0xF4, []byte{0x42, 0x02}))
	select {
	case frame := <-mock.InFrames():
		assert.Len(t, frame, dualshock3.InputReportSize)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("no frame after re-enabling streaming")
	}
}

func TestOutputPump(t *testing.T) {
	dev := dualshock3.New(testLogger())
	mock := gadget.NewMock()
	require.NoError(t, mock.Bind(t.Context()))

	dev.Attach(mock)
	defer dev.Release()

	report := make([]byte, dualshock3.OutputReportSize)
	report[1], report[2] = 0x50, 0xFF
	report[9] = 0x02
	require.NoError(t, mock.HostWriteOut(append([]byte{0x01}, report...)))

	assert.Eventually(t, func() bool {
		got := dev.OutputBytes()
		return got[1] == 0x50 && got[9] == 0x02
	}, time.Second, 5*time.Millisecond)

	// Malformed transfers are dropped without touching state.
	require.NoError(t, mock.HostWriteOut([]byte{0x7E, 0x01, 0x02}))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, report, dev.OutputBytes())
}

func TestReleaseIsIdempotent(t *testing.T) {
	dev := dualshock3.New(testLogger())
	mock := gadget.NewMock()
	require.NoError(t, mock.Bind(t.Context()))

	dev.Attach(mock)
	dev.Release()
	dev.Release()
}

func drainFrames(mock *gadget.Mock) {
	for {
		select {
		case <-mock.InFrames():
		default:
			return
		}
	}
}
