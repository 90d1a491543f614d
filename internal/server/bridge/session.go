package bridge

import (
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/GuillaumeMCK/dualshock3/device/dualshock3"
)

// Wire opcodes, client to server. The input opcode doubles as the DS3 report
// ID: the full 48-byte frame, opcode included, is copied into the input
// report verbatim.
const (
	OpInput    = 0x01
	OpShutdown = 0xFF
)

const maxChunk = 48

// Session owns one client socket. Frames are decoded per read chunk: empty
// or over-length chunks are dropped, a 0xFF prefix requests shutdown, and a
// 0x01 prefix with exactly 48 bytes carries an input report. Anything else
// is dropped silently.
type Session struct {
	conn   net.Conn
	remote string
	logger *slog.Logger

	writeTimeout time.Duration

	onInput    func([]byte)
	onShutdown func()
	onClosed   func(*Session, error)

	mu       sync.Mutex
	released bool
}

func newSession(conn net.Conn, logger *slog.Logger, writeTimeout time.Duration,
	onInput func([]byte), onShutdown func(), onClosed func(*Session, error)) *Session {
	return &Session{
		conn:         conn,
		remote:       conn.RemoteAddr().String(),
		logger:       logger,
		writeTimeout: writeTimeout,
		onInput:      onInput,
		onShutdown:   onShutdown,
		onClosed:     onClosed,
	}
}

func (s *Session) Remote() string { return s.remote }

func (s *Session) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := s.conn.Read(buf)
		if err != nil {
			released := s.Release()
			if released {
				s.logger.Info("session closed", "remote", s.remote, "error", err)
			}
			s.onClosed(s, err)
			return
		}
		chunk := buf[:n]
		switch {
		case n == 0 || n > maxChunk:
			// Oversized single reads are dropped rather than reassembled.
		case chunk[0] == OpShutdown:
			s.logger.Info("shutdown requested", "remote", s.remote)
			s.onShutdown()
		case chunk[0] == OpInput && n == dualshock3.OutputReportSize:
			frame := make([]byte, n)
			copy(frame, chunk)
			s.onInput(frame)
		default:
			// Unknown opcode or truncated input frame.
		}
	}
}

// SendOutput writes one 48-byte output mirror frame. Returns false if the
// session is released, the payload is malformed, or the write fails.
func (s *Session) SendOutput(payload []byte) bool {
	if len(payload) != dualshock3.OutputReportSize {
		return false
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return false
	}
	conn := s.conn
	s.mu.Unlock()

	frame := make([]byte, dualshock3.OutputReportSize)
	copy(frame, payload)
	_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if _, err := conn.Write(frame); err != nil {
		if s.Release() {
			s.logger.Warn("session write failed", "remote", s.remote, "error", err)
		}
		s.onClosed(s, err)
		return false
	}
	return true
}

// Release closes the socket. Returns true on the first call; a session never
// reopens.
func (s *Session) Release() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return false
	}
	s.released = true
	_ = s.conn.Close()
	return true
}
