package server

import (
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ghsync/internal/discovery"
	"github.com/muurk/ghsync/internal/github"
	"github.com/muurk/ghsync/internal/logging"
	"github.com/muurk/ghsync/internal/protocol"
	"github.com/muurk/ghsync/internal/service"
	"github.com/muurk/ghsync/internal/store"
)

// acceptWait bounds each blocking Accept so the loop can notice a shutdown
// request without being woken by a connection.
const acceptWait = time.Second

// Config carries everything the server needs to listen and serve sessions.
type Config struct {
	Host      string
	Port      int
	Framing   protocol.Framing
	DBPath    string
	GitHubAPI string
	MDNS      bool
}

// Server accepts TCP connections and runs one Session goroutine per client.
type Server struct {
	config    Config
	collab    Collaborator
	openStore func() (*store.Store, error)
	registry  *ConnectionRegistry

	mu       sync.Mutex
	addr     string
	shutdown chan struct{}
	stopOnce sync.Once
}

// New builds a Server wired to the real GitHub API and the SQLite store at
// cfg.DBPath. The store is opened once up front so schema problems surface
// at startup instead of on the first connection.
func New(cfg Config) (*Server, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("preparing store: %w", err)
	}
	if err := st.Close(); err != nil {
		return nil, fmt.Errorf("preparing store: %w", err)
	}

	svc := service.New(github.NewClient(cfg.GitHubAPI))
	return &Server{
		config:    cfg,
		collab:    svc,
		openStore: func() (*store.Store, error) { return store.Open(cfg.DBPath) },
		registry:  &ConnectionRegistry{},
		shutdown:  make(chan struct{}),
	}, nil
}

// Addr returns the bound listen address, or "" before ListenAndServe binds.
// With Port 0 this is how tests learn the assigned port.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Registry exposes the live-session counter.
func (s *Server) Registry() *ConnectionRegistry {
	return s.registry
}

// ListenAndServe binds the listen socket and accepts connections until Stop
// is called. In-flight sessions are not drained on shutdown: their
// goroutines keep running until their clients disconnect, matching the
// process-exit semantics of a foreground server.
func (s *Server) ListenAndServe() error {
	// net.Listen sets SO_REUSEADDR on the socket, so a restart does not
	// trip over the previous process's TIME_WAIT entries.
	ln, err := net.Listen("tcp", net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port)))
	if err != nil {
		return fmt.Errorf("listening on %s:%d: %w", s.config.Host, s.config.Port, err)
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		_ = ln.Close()
		return fmt.Errorf("unexpected listener type %T", ln)
	}
	defer func() { _ = tcpLn.Close() }()

	s.mu.Lock()
	s.addr = tcpLn.Addr().String()
	s.mu.Unlock()

	logging.Info("Server listening",
		zap.String("addr", s.addr),
		zap.String("framing", string(s.config.Framing)),
		zap.String("db", s.config.DBPath),
	)

	if s.config.MDNS {
		announcer, err := discovery.Advertise("ghsync", tcpLn.Addr().(*net.TCPAddr).Port, "framing="+string(s.config.Framing))
		if err != nil {
			// Discovery is best effort; the server is still reachable by address.
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			defer announcer.Shutdown()
		}
	}

	for {
		select {
		case <-s.shutdown:
			logging.Info("Server stopping",
				zap.Int("active_sessions", s.registry.Count()),
			)
			return nil
		default:
		}

		if err := tcpLn.SetDeadline(time.Now().Add(acceptWait)); err != nil {
			return fmt.Errorf("setting accept deadline: %w", err)
		}

		conn, err := tcpLn.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-s.shutdown:
				return nil
			default:
			}
			logging.Warn("accepting connection", zap.Error(err))
			continue
		}

		sess := newSession(conn, s.config.Framing, s.collab, s.openStore, s.registry)
		go sess.run()
	}
}

// Stop asks the accept loop to finish. Safe to call more than once and from
// any goroutine; ListenAndServe returns within one accept wait.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.shutdown) })
}
