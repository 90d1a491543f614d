package bridge

import (
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sessionRecorder struct {
	mu       sync.Mutex
	inputs   [][]byte
	shutdown int
	closed   int
}

func (r *sessionRecorder) onInput(frame []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = append(r.inputs, frame)
}

func (r *sessionRecorder) onShutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdown++
}

func (r *sessionRecorder) onClosed(*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
}

func (r *sessionRecorder) snapshot() (inputs [][]byte, shutdown, closed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]byte(nil), r.inputs...), r.shutdown, r.closed
}

func startSession(t *testing.T) (net.Conn, *Session, *sessionRecorder) {
	t.Helper()
	client, server := net.Pipe()
	rec := &sessionRecorder{}
	sess := newSession(server, testLogger(), 50*time.Millisecond,
		rec.onInput, rec.onShutdown, rec.onClosed)
	go sess.readLoop()
	t.Cleanup(func() {
		sess.Release()
		_ = client.Close()
	})
	return client, sess, rec
}

func inputFrame(fill byte) []byte {
	frame := make([]byte, 48)
	frame[0] = OpInput
	for i := 1; i < len(frame); i++ {
		frame[i] = fill
	}
	return frame
}

func TestSessionDeliversInputFrames(t *testing.T) {
	client, _, rec := startSession(t)

	frame := inputFrame(0x5A)
	_, err := client.Write(frame)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		inputs, _, _ := rec.snapshot()
		return len(inputs) == 1
	}, time.Second, 5*time.Millisecond)

	inputs, shutdown, _ := rec.snapshot()
	assert.Equal(t, frame, inputs[0])
	assert.Zero(t, shutdown)
}

func TestSessionDropsMalformedChunks(t *testing.T) {
	client, _, rec := startSession(t)

	// Over-length chunk.
	_, err := client.Write(make([]byte, 64))
	require.NoError(t, err)
	// Unknown opcode.
	_, err = client.Write([]byte{0x7E, 0x01, 0x02})
	require.NoError(t, err)
	// Input opcode with a short frame.
	_, err = client.Write(inputFrame(0x01)[:20])
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	inputs, shutdown, _ := rec.snapshot()
	assert.Empty(t, inputs)
	assert.Zero(t, shutdown)
}

func TestSessionShutdownOpcode(t *testing.T) {
	client, _, rec := startSession(t)

	_, err := client.Write([]byte{OpShutdown, 0xDE, 0xAD})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, shutdown, _ := rec.snapshot()
		return shutdown == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSessionSendOutput(t *testing.T) {
	client, sess, _ := startSession(t)

	payload := make([]byte, 48)
	payload[9] = 0x02

	got := make([]byte, 48)
	done := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(client, got)
		done <- err
	}()

	assert.True(t, sess.SendOutput(payload))
	require.NoError(t, <-done)
	assert.Equal(t, payload, got)

	assert.False(t, sess.SendOutput(payload[:10]), "short payload")
}

func TestSessionReleaseSemantics(t *testing.T) {
	_, sess, rec := startSession(t)

	assert.True(t, sess.Release())
	assert.False(t, sess.Release(), "second release is a no-op")
	assert.False(t, sess.SendOutput(make([]byte, 48)), "send after release")

	assert.Eventually(t, func() bool {
		_, _, closed := rec.snapshot()
		return closed >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestSessionNotifiesOnPeerClose(t *testing.T) {
	client, _, rec := startSession(t)
	require.NoError(t, client.Close())

	assert.Eventually(t, func() bool {
		_, _, closed := rec.snapshot()
		return closed == 1
	}, time.Second, 5*time.Millisecond)
}
