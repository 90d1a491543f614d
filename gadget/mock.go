package gadget

import (
	"context"
	"io"
	"sync"
)

// Mock is an in-memory Gadget for tests: WriteIn frames land on a buffered
// channel, ReadOut is fed by HostWriteOut, and Bind configures immediately.
type Mock struct {
	mu    sync.Mutex
	bound bool

	configured chan struct{}
	confOnce   sync.Once

	in chan []byte

	outR *io.PipeReader
	outW *io.PipeWriter

	closed    chan struct{}
	closeOnce sync.Once
}

func NewMock() *Mock {
	r, w := io.Pipe()
	return &Mock{
		configured: make(chan struct{}),
		in:         make(chan []byte, 64),
		outR:       r,
		outW:       w,
		closed:     make(chan struct{}),
	}
}

func (m *Mock) Bind(context.Context) error {
	m.mu.Lock()
	m.bound = true
	m.mu.Unlock()
	m.confOnce.Do(func() { close(m.configured) })
	return nil
}

func (m *Mock) Unbind() error {
	m.closeOnce.Do(func() {
		close(m.closed)
		_ = m.outW.Close()
		_ = m.outR.Close()
	})
	return nil
}

func (m *Mock) AwaitConfigured(ctx context.Context) error {
	select {
	case <-m.configured:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mock) WriteIn(p []byte) (int, error) {
	select {
	case <-m.closed:
		return 0, io.ErrClosedPipe
	default:
	}
	frame := make([]byte, len(p))
	copy(frame, p)
	select {
	case m.in <- frame:
	default:
		// Slow consumer; interrupt endpoints drop, they do not queue.
	}
	return len(p), nil
}

func (m *Mock) ReadOut(p []byte) (int, error) {
	return m.outR.Read(p)
}

// InFrames exposes the frames written to the IN endpoint.
func (m *Mock) InFrames() <-chan []byte { return m.in }

// HostWriteOut plays the USB host pushing an interrupt OUT transfer.
func (m *Mock) HostWriteOut(p []byte) error {
	_, err := m.outW.Write(p)
	return err
}
