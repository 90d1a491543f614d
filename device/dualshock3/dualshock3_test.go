package dualshock3_test

import (
	"testing"

	"github.com/GuillaumeMCK/dualshock3/device/dualshock3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultReport() []byte {
	b := make([]byte, dualshock3.InputReportSize)
	b[0] = 0x01
	b[6], b[7], b[8], b[9] = 0x7F, 0x7F, 0x7F, 0x7F
	b[31] = 0x05
	b[41], b[42] = 0x01, 0xFF
	b[43], b[44] = 0x01, 0xFF
	b[45], b[46] = 0x01, 0xFF
	return b
}

func TestInputReportDefaults(t *testing.T) {
	r := dualshock3.NewInputReport()
	assert.Equal(t, defaultReport(), r.Bytes())
}

func TestInputReportButtons(t *testing.T) {
	type testCase struct {
		name           string
		press          func(*dualshock3.InputReport)
		expectedReport []byte
	}

	cases := []testCase{
		{
			name:  "start",
			press: func(r *dualshock3.InputReport) { r.Set(dualshock3.ButtonStart, true) },
			expectedReport: func() []byte {
				b := defaultReport()
				b[2] = 0x08
				return b
			}(),
		},
		{
			name:  "cross full pressure",
			press: func(r *dualshock3.InputReport) { r.Set(dualshock3.ButtonCross, true) },
			expectedReport: func() []byte {
				b := defaultReport()
				b[3] = 0x40
				b[24] = 0xFF
				return b
			}(),
		},
		{
			name:  "l2 half pressure",
			press: func(r *dualshock3.InputReport) { r.SetPressure(dualshock3.ButtonL2, true, 0x80) },
			expectedReport: func() []byte {
				b := defaultReport()
				b[3] = 0x01
				b[18] = 0x80
				return b
			}(),
		},
		{
			name:  "ps",
			press: func(r *dualshock3.InputReport) { r.Set(dualshock3.ButtonPS, true) },
			expectedReport: func() []byte {
				b := defaultReport()
				b[4] = 0x01
				return b
			}(),
		},
		{
			name: "dpad up with left stick",
			press: func(r *dualshock3.InputReport) {
				r.Set(dualshock3.ButtonUp, true)
				r.SetLeftStick(0, 255)
			},
			expectedReport: func() []byte {
				b := defaultReport()
				b[2] = 0x10
				b[14] = 0xFF
				b[6], b[7] = 0x00, 0xFF
				return b
			}(),
		},
		{
			name: "press then release clears pressure",
			press: func(r *dualshock3.InputReport) {
				r.Set(dualshock3.ButtonSquare, true)
				r.Set(dualshock3.ButtonSquare, false)
			},
			expectedReport: defaultReport(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := dualshock3.NewInputReport()
			tc.press(r)
			assert.Equal(t, tc.expectedReport, r.Bytes())
		})
	}
}

func TestInputReportAllButtonBits(t *testing.T) {
	for b := dualshock3.ButtonSelect; b <= dualshock3.ButtonPS; b++ {
		r := dualshock3.NewInputReport()
		r.Set(b, true)

		bits := r.Bytes()[2:5]
		for i := 0; i < 17; i++ {
			got := bits[i/8]&(1<<(uint(i)%8)) != 0
			assert.Equal(t, i == int(b), got, "button %s bit %d", b, i)
		}

		if b.HasPressure() {
			assert.EqualValues(t, 0xFF, r.Bytes()[10+int(b)], "pressure for %s", b)
		}

		r.Set(b, false)
		assert.Equal(t, defaultReport(), r.Bytes(), "release of %s", b)
	}
}

func TestInputReportSticksClamp(t *testing.T) {
	r := dualshock3.NewInputReport()
	r.SetLeftStick(-42, 300)
	r.SetRightStick(128, 64)
	b := r.Bytes()
	assert.Equal(t, []byte{0x00, 0xFF, 0x80, 0x40}, b[6:10])
}

func TestInputReportApply(t *testing.T) {
	r := dualshock3.NewInputReport()
	frame := make([]byte, 48)
	for i := range frame {
		frame[i] = byte(i + 1)
	}
	frame[0] = 0x01
	r.Apply(frame)

	got := r.Bytes()
	require.Equal(t, frame, got[:48])
	// The trailing byte is outside the wire frame and stays untouched.
	assert.EqualValues(t, 0x00, got[48])
}
