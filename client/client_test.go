package client_test

import (
	"net"
	"testing"
	"time"

	"github.com/GuillaumeMCK/dualshock3/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeClient(t *testing.T) (*client.Client, net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	cl := client.NewFromConn(a)
	t.Cleanup(func() {
		_ = cl.Close()
		_ = b.Close()
	})
	return cl, b
}

func TestSendInputValidation(t *testing.T) {
	cl, _ := pipeClient(t)

	err := cl.SendInput(make([]byte, 20))
	assert.Error(t, err, "short frame")

	bad := make([]byte, 48)
	bad[0] = 0x02
	err = cl.SendInput(bad)
	assert.Error(t, err, "wrong opcode")
}

func TestSendInputWritesFrameVerbatim(t *testing.T) {
	cl, peer := pipeClient(t)

	frame := make([]byte, 48)
	frame[0] = 0x01
	frame[47] = 0x7A

	got := make([]byte, 48)
	done := make(chan error, 1)
	go func() {
		_, err := peer.Read(got)
		done <- err
	}()

	require.NoError(t, cl.SendInput(frame))
	require.NoError(t, <-done)
	assert.Equal(t, frame, got)
}

func TestShutdownOpcode(t *testing.T) {
	cl, peer := pipeClient(t)

	got := make([]byte, 8)
	done := make(chan int, 1)
	go func() {
		n, _ := peer.Read(got)
		done <- n
	}()

	require.NoError(t, cl.Shutdown())
	n := <-done
	require.Equal(t, 1, n)
	assert.EqualValues(t, 0xFF, got[0])
}

func TestNextOutputReassemblesSplitFrames(t *testing.T) {
	cl, peer := pipeClient(t)

	frame := make([]byte, 48)
	for i := range frame {
		frame[i] = byte(0x80 + i)
	}

	go func() {
		// One mirror frame delivered in three TCP segments.
		_, _ = peer.Write(frame[:10])
		_, _ = peer.Write(frame[10:30])
		_, _ = peer.Write(frame[30:])
	}()

	require.NoError(t, cl.SetReadDeadline(time.Now().Add(time.Second)))
	got, err := cl.NextOutput()
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}

func TestNextOutputSplitsCoalescedFrames(t *testing.T) {
	cl, peer := pipeClient(t)

	first := make([]byte, 48)
	second := make([]byte, 48)
	for i := range first {
		first[i] = 0x11
		second[i] = 0x22
	}

	go func() {
		buf := append(append([]byte(nil), first...), second...)
		_, _ = peer.Write(buf)
	}()

	require.NoError(t, cl.SetReadDeadline(time.Now().Add(time.Second)))
	got, err := cl.NextOutput()
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = cl.NextOutput()
	require.NoError(t, err)
	assert.Equal(t, second, got)
}
