package mosaic

import (
	"fmt"
	"net"
	"sync"

	"github.com/mosaic-network/mosaic-server/internal/transport"
)

// Server accepts connections on a single listener and drives each one
// through the Mosaic protocol until it closes or the server shuts down.
//
// Shutdown is a single-assignment signal, not a context: TriggerShutDown
// may be called exactly once (further calls are no-ops) and
// WaitForShutDown blocks until that happens, mirroring the original
// crate's trigger_shut_down/wait_for_shut_down pair rather than Go's
// usual context.Context cancellation, so callers get the same
// fire-once-wait-many semantics regardless of how many goroutines are
// waiting.
type Server struct {
	cfg ServerConfig

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	exitCode     int
}

// NewServer constructs a Server from cfg without binding a listener yet.
func NewServer(cfg ServerConfig) *Server {
	return &Server{cfg: cfg, shutdownCh: make(chan struct{})}
}

// Run binds the configured address and accepts connections until
// TriggerShutDown is called or the listener fails. Each accepted
// connection is driven by driveConnection on its own goroutine.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return NewError(KindTransport, fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr, err))
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		<-s.shutdownCh
		ln.Close()
	}()

	for {
		raw, err := ln.Accept()
		if err != nil {
			select {
			case <-s.shutdownCh:
				s.wg.Wait()
				return nil
			default:
				return NewError(KindTransport, err)
			}
		}
		tc := transport.NewTCP(raw)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.driveConnection(tc)
		}()
	}
}

// Addr returns the listener's bound address, or nil if Run hasn't
// started listening yet. Useful for tests and for logging the actual
// port when ListenAddr used an ephemeral ":0" port.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// TriggerShutDown requests that Run stop accepting new connections and
// wait for in-flight ones to finish; it is safe to call more than once
// and from any goroutine, but only the first call's exitCode sticks.
func (s *Server) TriggerShutDown(exitCode int) {
	s.shutdownOnce.Do(func() {
		s.exitCode = exitCode
		close(s.shutdownCh)
	})
}

// IsShuttingDown reports whether TriggerShutDown has been called.
func (s *Server) IsShuttingDown() bool {
	select {
	case <-s.shutdownCh:
		return true
	default:
		return false
	}
}

// WaitForShutDown blocks until TriggerShutDown has been called and all
// connections spawned by Run have returned, then reports the exit code
// TriggerShutDown was given.
func (s *Server) WaitForShutDown() int {
	<-s.shutdownCh
	s.wg.Wait()
	return s.exitCode
}
