package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/muurk/ghsync/internal/protocol"
	"github.com/muurk/ghsync/internal/service"
	"github.com/muurk/ghsync/internal/store"
)

// fakeCollab is an in-memory Collaborator: "github" is a login->name map,
// "created" mimics the tracked rows the store would hold.
type fakeCollab struct {
	mu      sync.Mutex
	github  map[string]string
	created map[string]bool

	repoRows     []store.RepoRow
	followerRows []store.FollowerRow

	syncRepoErr error

	syncRepoCalls, syncFollowerCalls int
	showRepoCalls                    int
}

func newFakeCollab() *fakeCollab {
	return &fakeCollab{
		github:  map[string]string{"alice": "Alice"},
		created: map[string]bool{},
	}
}

func (f *fakeCollab) UserStatus(_ *store.Store, login string) (*service.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.created[login] {
		return &service.Status{}, nil
	}
	return &service.Status{
		Exists:         true,
		Login:          login,
		Name:           f.github[login],
		ReposCount:     len(f.repoRows),
		FollowersCount: len(f.followerRows),
	}, nil
}

func (f *fakeCollab) SetCurrentUser(_ context.Context, _ *store.Store, login string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.github[login]; !ok {
		return fmt.Errorf("could not validate user %q on GitHub: not found", login)
	}
	f.created[login] = true
	return nil
}

func (f *fakeCollab) SyncRepos(_ context.Context, _ *store.Store, login string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncRepoCalls++
	if f.syncRepoErr != nil {
		return 0, f.syncRepoErr
	}
	return len(f.repoRows), nil
}

func (f *fakeCollab) SyncFollowers(_ context.Context, _ *store.Store, login string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncFollowerCalls++
	return len(f.followerRows), nil
}

func (f *fakeCollab) ShowRepos(_ *store.Store, login string) ([]store.RepoRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showRepoCalls++
	return f.repoRows, nil
}

func (f *fakeCollab) ShowFollowers(_ *store.Store, login string) ([]store.FollowerRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.followerRows, nil
}

func (f *fakeCollab) repoSyncs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.syncRepoCalls
}

// startSession wires a Session over one end of a net.Pipe and returns the
// client end. net.Pipe is synchronous, so tests must read each response
// before sending the next message.
func startSession(t *testing.T, collab Collaborator, registry *ConnectionRegistry) (net.Conn, *protocol.Framer, chan struct{}) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "session.db")
	openStore := func() (*store.Store, error) { return store.Open(dbPath) }

	clientConn, serverConn := net.Pipe()
	sess := newSession(serverConn, protocol.FramingMarker, collab, openStore, registry)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.run()
	}()

	t.Cleanup(func() {
		_ = clientConn.Close()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("session goroutine did not finish")
		}
	})

	return clientConn, protocol.NewFramer(clientConn, protocol.FramingMarker), done
}

func sendLine(t *testing.T, conn net.Conn, msg string) {
	t.Helper()
	if err := protocol.WriteMessage(conn, protocol.FramingMarker, msg); err != nil {
		t.Fatalf("WriteMessage(%q): %v", msg, err)
	}
}

func recv(t *testing.T, framer *protocol.Framer) string {
	t.Helper()
	msg, err := framer.Next()
	if err != nil {
		t.Fatalf("Next(): %v", err)
	}
	return msg
}

func login(t *testing.T, conn net.Conn, framer *protocol.Framer, name string) string {
	t.Helper()
	sendLine(t, conn, name)
	return recv(t, framer)
}

func TestSessionLoginShowsStatusBlock(t *testing.T) {
	conn, framer, _ := startSession(t, newFakeCollab(), &ConnectionRegistry{})

	resp := login(t, conn, framer, "alice")
	for _, want := range []string{"User: alice - Alice", "Repos stored: 0", "/help", "Enter a new command"} {
		if !strings.Contains(resp, want) {
			t.Errorf("login response missing %q in:\n%s", want, resp)
		}
	}
}

func TestSessionLoginRetriesUntilValid(t *testing.T) {
	conn, framer, _ := startSession(t, newFakeCollab(), &ConnectionRegistry{})

	for _, bad := range []string{"ghost", "nobody", "still-wrong"} {
		resp := login(t, conn, framer, bad)
		if !strings.HasPrefix(resp, protocol.ErrorLoginTag) {
			t.Fatalf("login %q: want %s prefix, got:\n%s", bad, protocol.ErrorLoginTag, resp)
		}
		if !strings.Contains(resp, "Try another login.") {
			t.Errorf("login %q: response should invite a retry:\n%s", bad, resp)
		}
	}

	resp := login(t, conn, framer, "alice")
	if !strings.Contains(resp, "User: alice") {
		t.Errorf("valid login after retries should succeed:\n%s", resp)
	}
}

func TestSessionTerminateDuringLogin(t *testing.T) {
	registry := &ConnectionRegistry{}
	conn, framer, done := startSession(t, newFakeCollab(), registry)

	// Case folded: "BYE" terminates too.
	resp := login(t, conn, framer, "BYE")
	if resp != protocol.TerminateKeyword {
		t.Errorf("terminate ack = %q, want %q", resp, protocol.TerminateKeyword)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after terminate")
	}
	if got := registry.Count(); got != 0 {
		t.Errorf("registry count after terminate = %d, want 0", got)
	}
}

func TestSessionTerminateDuringCommands(t *testing.T) {
	conn, framer, done := startSession(t, newFakeCollab(), &ConnectionRegistry{})

	login(t, conn, framer, "alice")
	sendLine(t, conn, "bye")

	resp := recv(t, framer)
	if resp != protocol.TerminateKeyword {
		t.Errorf("terminate ack = %q, want %q", resp, protocol.TerminateKeyword)
	}
	if strings.Contains(resp, "Enter a new command") {
		t.Errorf("terminate ack must not carry the prompt: %q", resp)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after terminate")
	}
}

func TestSessionUnknownCommand(t *testing.T) {
	conn, framer, _ := startSession(t, newFakeCollab(), &ConnectionRegistry{})
	login(t, conn, framer, "alice")

	sendLine(t, conn, "/definitely_not_a_command")
	resp := recv(t, framer)
	if !strings.Contains(resp, "Command not recognized.") {
		t.Errorf("unknown command response:\n%s", resp)
	}
	if !strings.Contains(resp, "Enter a new command") {
		t.Errorf("session should stay open with a prompt:\n%s", resp)
	}
}

func TestSessionCommandMatchIsExact(t *testing.T) {
	conn, framer, _ := startSession(t, newFakeCollab(), &ConnectionRegistry{})
	login(t, conn, framer, "alice")

	// Commands are not case folded; only the terminate keyword is.
	sendLine(t, conn, "/Repos")
	resp := recv(t, framer)
	if !strings.Contains(resp, "Command not recognized.") {
		t.Errorf("/Repos should not dispatch:\n%s", resp)
	}
}

func TestSessionHelpAndAlias(t *testing.T) {
	conn, framer, _ := startSession(t, newFakeCollab(), &ConnectionRegistry{})
	login(t, conn, framer, "alice")

	for _, cmd := range []string{"/help", "help"} {
		sendLine(t, conn, cmd)
		resp := recv(t, framer)
		if !strings.Contains(resp, "Available commands:") {
			t.Errorf("%s response missing help:\n%s", cmd, resp)
		}
	}
}

func TestSessionSyncReposReportsCount(t *testing.T) {
	collab := newFakeCollab()
	collab.repoRows = []store.RepoRow{
		{Name: "widgets", Language: "Go", Stars: 7},
		{Name: "docs", Stars: 1},
	}
	conn, framer, _ := startSession(t, collab, &ConnectionRegistry{})
	login(t, conn, framer, "alice")

	sendLine(t, conn, "/repos")
	resp := recv(t, framer)
	for _, want := range []string{
		"[Repos stored for alice]",
		"Repos synced from GitHub in this operation: 2",
		"widgets",
		"docs",
	} {
		if !strings.Contains(resp, want) {
			t.Errorf("/repos response missing %q in:\n%s", want, resp)
		}
	}
}

func TestSessionLocalCommandsNeverSync(t *testing.T) {
	collab := newFakeCollab()
	collab.repoRows = []store.RepoRow{{Name: "widgets", Stars: 1}}
	conn, framer, _ := startSession(t, collab, &ConnectionRegistry{})
	login(t, conn, framer, "alice")

	sendLine(t, conn, "/repos_local")
	resp := recv(t, framer)
	if !strings.Contains(resp, "widgets") {
		t.Errorf("/repos_local missing stored rows:\n%s", resp)
	}
	if strings.Contains(resp, "in this operation") {
		t.Errorf("/repos_local must not report a synced count:\n%s", resp)
	}

	sendLine(t, conn, "/followers_local")
	resp = recv(t, framer)
	if !strings.Contains(resp, "No followers stored.") {
		t.Errorf("/followers_local response:\n%s", resp)
	}

	if got := collab.repoSyncs(); got != 0 {
		t.Errorf("local commands triggered %d syncs, want 0", got)
	}
}

func TestSessionSyncErrorKeepsSessionAlive(t *testing.T) {
	collab := newFakeCollab()
	collab.syncRepoErr = errors.New("rate limited")
	conn, framer, _ := startSession(t, collab, &ConnectionRegistry{})
	login(t, conn, framer, "alice")

	sendLine(t, conn, "/repos")
	resp := recv(t, framer)
	if !strings.Contains(resp, "Error syncing repos for alice") {
		t.Errorf("sync error not reported:\n%s", resp)
	}
	if !strings.Contains(resp, "Enter a new command") {
		t.Errorf("session should keep prompting after a failed sync:\n%s", resp)
	}

	sendLine(t, conn, "/help")
	if resp := recv(t, framer); !strings.Contains(resp, "Available commands:") {
		t.Errorf("session dead after failed sync:\n%s", resp)
	}
}

func TestSessionClientDisconnectBeforeLogin(t *testing.T) {
	registry := &ConnectionRegistry{}
	conn, _, done := startSession(t, newFakeCollab(), registry)

	_ = conn.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after client disconnect")
	}
	if got := registry.Count(); got != 0 {
		t.Errorf("registry count after disconnect = %d, want 0", got)
	}
}

func TestSessionsShareOnlyTheRegistry(t *testing.T) {
	registry := &ConnectionRegistry{}
	collab := newFakeCollab()

	const sessions = 4
	dones := make([]chan struct{}, 0, sessions)
	for i := 0; i < sessions; i++ {
		conn, framer, done := startSession(t, collab, registry)
		dones = append(dones, done)

		login(t, conn, framer, "alice")
		sendLine(t, conn, "bye")
		recv(t, framer)
	}

	for _, done := range dones {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("session did not finish")
		}
	}
	if got := registry.Count(); got != 0 {
		t.Errorf("registry count = %d, want 0", got)
	}
}
