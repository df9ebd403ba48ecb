package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/ghsync/internal/logging"
	"github.com/muurk/ghsync/internal/protocol"
	"github.com/muurk/ghsync/internal/report"
	"github.com/muurk/ghsync/internal/service"
	"github.com/muurk/ghsync/internal/store"
)

// Collaborator is the slice of the service layer a session drives. It exists
// so session tests can swap in a fake without a GitHub client behind it.
type Collaborator interface {
	UserStatus(st *store.Store, login string) (*service.Status, error)
	SetCurrentUser(ctx context.Context, st *store.Store, login string) error
	SyncRepos(ctx context.Context, st *store.Store, login string) (int, error)
	SyncFollowers(ctx context.Context, st *store.Store, login string) (int, error)
	ShowRepos(st *store.Store, login string) ([]store.RepoRow, error)
	ShowFollowers(st *store.Store, login string) ([]store.FollowerRow, error)
}

// Session owns one client connection end to end: the login phase, the
// command loop, and the per-session store handle. Sessions never share
// mutable state with each other; the registry is the only cross-session
// touchpoint.
type Session struct {
	conn       net.Conn
	remoteAddr string
	framing    protocol.Framing
	framer     *protocol.Framer
	collab     Collaborator
	openStore  func() (*store.Store, error)
	registry   *ConnectionRegistry

	login  string
	status *service.Status
	st     *store.Store
}

func newSession(conn net.Conn, framing protocol.Framing, collab Collaborator, openStore func() (*store.Store, error), registry *ConnectionRegistry) *Session {
	addr := "unknown"
	if ra := conn.RemoteAddr(); ra != nil {
		addr = ra.String()
	}
	return &Session{
		conn:       conn,
		remoteAddr: addr,
		framing:    framing,
		framer:     protocol.NewFramer(conn, framing),
		collab:     collab,
		openStore:  openStore,
		registry:   registry,
	}
}

// run services the connection until the client terminates or disconnects.
// It is the goroutine body spawned per accepted connection.
func (s *Session) run() {
	logging.LogConnection(s.remoteAddr, "accepted")
	logging.LogActiveSessions(s.registry.Inc())

	defer func() {
		if s.st != nil {
			if err := s.st.Close(); err != nil {
				logging.Warn("closing session store", zap.Error(err))
			}
		}
		_ = s.conn.Close()
		logging.LogConnection(s.remoteAddr, "closed")
		logging.LogActiveSessions(s.registry.Dec())
	}()

	st, err := s.openStore()
	if err != nil {
		logging.Error("opening session store", zap.Error(err))
		s.send("Internal error: storage unavailable.\n")
		return
	}
	s.st = st

	if !s.loginLoop() {
		return
	}

	s.send(report.StatusBlock(s.status) + protocol.Prompt)
	s.commandLoop()
}

// send writes one framed message. Write errors end the session indirectly:
// the next read fails, so here they are only logged.
func (s *Session) send(msg string) {
	if err := protocol.WriteMessage(s.conn, s.framing, msg); err != nil {
		logging.Warn("writing to client",
			zap.Error(err),
		)
	}
}

// ensureStore verifies the session's store handle still responds and reopens
// it if not. Commands call this first so a dropped database file or closed
// handle degrades to a reported error instead of a dead session.
func (s *Session) ensureStore() error {
	if s.st != nil && s.st.Alive() {
		return nil
	}
	if s.st != nil {
		_ = s.st.Close()
		s.st = nil
	}
	st, err := s.openStore()
	if err != nil {
		return fmt.Errorf("reopening store: %w", err)
	}
	s.st = st
	return nil
}

// loginLoop runs the pre-command phase: read candidate logins until one
// validates. Failures answer with the ERROR_LOGIN tag and loop; there is no
// retry limit. Returns false when the session should end without entering
// the command phase.
func (s *Session) loginLoop() bool {
	for {
		msg, err := s.framer.Next()
		if err != nil {
			if msg != "" {
				// A final partial message before EOF is still a candidate.
				if s.tryLogin(strings.TrimSpace(msg)) {
					return true
				}
			}
			if !errors.Is(err, io.EOF) {
				logging.Warn("reading login", zap.Error(err))
			}
			logging.LogLogin(s.remoteAddr, "", "disconnected before login")
			return false
		}

		candidate := strings.TrimSpace(msg)
		if candidate == "" {
			s.send(protocol.ErrorLoginTag + " Empty login.\nTry another login.\n")
			continue
		}
		if protocol.IsTerminate(candidate) {
			s.send(protocol.TerminateKeyword)
			logging.LogLogin(s.remoteAddr, "", "terminated before login")
			return false
		}
		if s.tryLogin(candidate) {
			return true
		}
	}
}

// tryLogin validates one candidate login, answering ERROR_LOGIN on failure.
func (s *Session) tryLogin(candidate string) bool {
	status, err := s.collab.UserStatus(s.st, candidate)
	if err != nil {
		logging.Error("looking up login", zap.Error(err))
		s.send(fmt.Sprintf("%s Could not look up %q: %v\nTry another login.\n", protocol.ErrorLoginTag, candidate, err))
		return false
	}

	if !status.Exists {
		if err := s.collab.SetCurrentUser(context.Background(), s.st, candidate); err != nil {
			logging.LogLogin(s.remoteAddr, candidate, "rejected")
			s.send(fmt.Sprintf("%s Could not validate or create user %q: %v\nTry another login.\n", protocol.ErrorLoginTag, candidate, err))
			return false
		}
		status, err = s.collab.UserStatus(s.st, candidate)
		if err != nil {
			logging.Error("looking up login after create", zap.Error(err))
			s.send(fmt.Sprintf("%s Could not look up %q: %v\nTry another login.\n", protocol.ErrorLoginTag, candidate, err))
			return false
		}
	}

	s.login = candidate
	s.status = status
	logging.LogLogin(s.remoteAddr, candidate, "accepted")
	return true
}

// commandLoop reads and dispatches commands until terminate or disconnect.
func (s *Session) commandLoop() {
	for {
		msg, err := s.framer.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logging.Warn("reading command", zap.Error(err))
			}
			return
		}

		command := strings.TrimSpace(msg)
		logging.LogCommand(s.remoteAddr, s.login, command)

		if protocol.IsTerminate(command) {
			s.send(protocol.TerminateKeyword)
			return
		}

		s.send(dispatch(s, command) + protocol.Prompt)
	}
}

// refreshStatus replaces the cached status snapshot after a sync. A failed
// refresh keeps the stale snapshot; the sync itself already succeeded.
func (s *Session) refreshStatus() {
	status, err := s.collab.UserStatus(s.st, s.login)
	if err != nil {
		logging.Warn("refreshing user status", zap.Error(err))
		return
	}
	s.status = status
}
