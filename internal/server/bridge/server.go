package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/GuillaumeMCK/dualshock3/device/dualshock3"
	"github.com/GuillaumeMCK/dualshock3/gadget"
	"github.com/GuillaumeMCK/dualshock3/internal/log"
)

// ErrBind wraps listener, gadget or configuration failures during Start.
// These are fatal: everything already acquired is released before Start
// returns.
var ErrBind = errors.New("bridge bind failure")

// Server ties the emulated controller to a single remote TCP client. It owns
// the listener, the gadget, the controller and the current session; all of
// them are released together, on every exit path.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	rawLogger log.RawLogger

	dev *dualshock3.DualShock3
	g   gadget.Gadget

	ln   net.Listener
	port int

	mu      sync.Mutex
	session *Session

	releaseOnce sync.Once
	stop        chan struct{}
	done        chan struct{}
	wg          sync.WaitGroup
}

func New(cfg Config, dev *dualshock3.DualShock3, g gadget.Gadget, logger *slog.Logger, rawLogger log.RawLogger) *Server {
	return &Server{
		cfg:       cfg,
		logger:    logger,
		rawLogger: rawLogger,
		dev:       dev,
		g:         g,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start acquires every resource in order: listener, gadget, configured
// state, controller attach, process file. On any failure the already
// acquired resources are released and the error propagates wrapped in
// ErrBind.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp4", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: listen %s: %v", ErrBind, s.cfg.Addr, err)
	}
	s.ln = ln
	s.port = ln.Addr().(*net.TCPAddr).Port

	if err := s.g.Bind(ctx); err != nil {
		_ = ln.Close()
		return fmt.Errorf("%w: gadget bind: %v", ErrBind, err)
	}
	if err := s.g.AwaitConfigured(ctx); err != nil {
		_ = s.g.Unbind()
		_ = ln.Close()
		return fmt.Errorf("%w: %v", ErrBind, err)
	}

	s.dev.Attach(s.g)

	if err := WriteProcessFile(s.cfg, os.Getpid(), s.port); err != nil {
		s.dev.Release()
		_ = s.g.Unbind()
		_ = ln.Close()
		return fmt.Errorf("%w: publish process file: %v", ErrBind, err)
	}

	s.logger.Info("bridge listening", "addr", ln.Addr().String(), "pid", os.Getpid())

	s.wg.Add(2)
	go s.acceptLoop()
	go s.sampleOutput()
	return nil
}

// Port returns the bound listener port.
func (s *Server) Port() int { return s.port }

// Done is closed once the bridge has fully released, including after a
// client shutdown opcode.
func (s *Server) Done() <-chan struct{} { return s.done }

// Release tears everything down: output sampler, session, listener,
// controller samplers and gadget, then removes the process file. Idempotent;
// returns only after all of them have finished.
func (s *Server) Release() {
	s.releaseOnce.Do(func() {
		close(s.stop)

		s.mu.Lock()
		sess := s.session
		s.session = nil
		s.mu.Unlock()
		if sess != nil {
			sess.Release()
		}

		if s.ln != nil {
			_ = s.ln.Close()
		}
		s.wg.Wait()

		// Unbind first: closing the endpoints unblocks the controller's
		// output pump so its release can complete.
		if err := s.g.Unbind(); err != nil {
			s.logger.Warn("gadget unbind failed", "error", err)
		}
		s.dev.Release()
		RemoveProcessFile(s.cfg)
		s.logger.Info("bridge released")
		close(s.done)
	})
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}
		s.attach(conn)
	}
}

func (s *Server) attach(conn net.Conn) {
	s.mu.Lock()
	if s.session != nil {
		s.mu.Unlock()
		s.logger.Warn("rejecting extra connection", "remote", conn.RemoteAddr().String())
		_ = conn.Close()
		return
	}
	if s.rawLogger != nil {
		conn = &logConn{Conn: conn, raw: s.rawLogger}
	}
	sess := newSession(conn, s.logger, s.cfg.WriteTimeout,
		s.dev.ApplyInput,
		s.requestShutdown,
		s.sessionClosed,
	)
	s.session = sess
	s.mu.Unlock()

	s.dev.SetClientConnected(true)
	s.logger.Info("client connected", "remote", sess.Remote())
	go sess.readLoop()
}

func (s *Server) requestShutdown() {
	go s.Release()
}

func (s *Server) sessionClosed(sess *Session, err error) {
	s.mu.Lock()
	if s.session == sess {
		s.session = nil
		s.dev.SetClientConnected(false)
	}
	s.mu.Unlock()
	if err != nil && !isClientDisconnect(err) {
		s.logger.Error("session error", "remote", sess.Remote(), "error", err)
	}
}

func (s *Server) currentSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// sampleOutput mirrors the output report to the client at a fixed cadence,
// unconditionally: the client sees a steady stream of the latest host state,
// with no diffing and no queue of historical frames.
func (s *Server) sampleOutput() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.SamplerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
		sess := s.currentSession()
		if sess == nil {
			continue
		}
		sess.SendOutput(s.dev.OutputBytes())
	}
}

// isClientDisconnect tests whether an error represents a normal client
// disconnect rather than a fault worth an error-level log.
func isClientDisconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "connection reset by peer") || strings.Contains(e, "broken pipe")
}

// logConn taps session traffic into the raw wire logger.
type logConn struct {
	net.Conn
	raw log.RawLogger
}

func (lc *logConn) Read(p []byte) (int, error) {
	n, err := lc.Conn.Read(p)
	if n > 0 {
		lc.raw.Log(true, p[:n])
	}
	return n, err
}

func (lc *logConn) Write(p []byte) (int, error) {
	n, err := lc.Conn.Write(p)
	if n > 0 {
		lc.raw.Log(false, p[:n])
	}
	return n, err
}
