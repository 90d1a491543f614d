package dualshock3_test

import (
	"testing"

	"github.com/GuillaumeMCK/dualshock3/device/dualshock3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputReportAccessors(t *testing.T) {
	data := make([]byte, dualshock3.OutputReportSize)
	data[1] = 0xFE // right duration
	data[2] = 0x40 // right power
	data[3] = 0x10 // left duration
	data[4] = 0x00 // left power: inactive despite duration
	data[9] = 0x1E // leds 1-4 on

	r := dualshock3.NewOutputReport()
	require.NoError(t, r.Update(data))

	assert.EqualValues(t, 0xFE, r.RumbleRightDuration())
	assert.EqualValues(t, 0x40, r.RumbleRightPower())
	assert.EqualValues(t, 0x10, r.RumbleLeftDuration())
	assert.EqualValues(t, 0x00, r.RumbleLeftPower())
	assert.True(t, r.RightMotorActive())
	assert.False(t, r.LeftMotorActive())

	assert.EqualValues(t, 0x0F, r.LedMask())
	assert.Equal(t, [4]bool{true, true, true, true}, r.LedStates())
}

func TestOutputReportLedMaskIgnoresHighBits(t *testing.T) {
	data := make([]byte, dualshock3.OutputReportSize)
	data[9] = 0xE2 // only led 1 within the mask window
	r := dualshock3.NewOutputReport()
	require.NoError(t, r.Update(data))
	assert.EqualValues(t, 0x01, r.LedMask())
	assert.Equal(t, [4]bool{true, false, false, false}, r.LedStates())
}

func TestOutputReportRejectsBadLength(t *testing.T) {
	r := dualshock3.NewOutputReport()
	good := make([]byte, dualshock3.OutputReportSize)
	good[1] = 0x77
	require.NoError(t, r.Update(good))

	for _, n := range []int{0, 1, 47, 49, 64} {
		err := r.Update(make([]byte, n))
		assert.ErrorIs(t, err, dualshock3.ErrInvalidLength, "length %d", n)
	}
	// Rejected updates keep the previous state.
	assert.Equal(t, good, r.Bytes())
}
