package server

import (
	"context"
	"fmt"

	"github.com/muurk/ghsync/internal/protocol"
	"github.com/muurk/ghsync/internal/report"
)

// commandHandler builds the response body for one command. Handlers never
// write to the connection themselves; the command loop frames the result and
// appends the prompt.
type commandHandler func(s *Session) string

// handlers maps exact command tokens to their handlers. No prefix matching,
// no case folding: "/Repos" is not a command.
var handlers = map[string]commandHandler{
	protocol.CmdSyncRepos:     cmdSyncRepos,
	protocol.CmdSyncFollowers: cmdSyncFollowers,
	protocol.CmdListRepos:     cmdListRepos,
	protocol.CmdListFollowers: cmdListFollowers,
	protocol.CmdHelp:          cmdHelp,
	protocol.CmdHelpAlias:     cmdHelp,
}

// dispatch routes one trimmed command token. Unknown tokens get the
// not-recognized body; the session stays open either way.
func dispatch(s *Session, command string) string {
	h, ok := handlers[command]
	if !ok {
		return report.NotRecognizedText
	}
	return h(s)
}

func cmdSyncRepos(s *Session) string {
	if err := s.ensureStore(); err != nil {
		return fmt.Sprintf("Error: storage unavailable: %v\n", err)
	}

	synced, err := s.collab.SyncRepos(context.Background(), s.st, s.login)
	if err != nil {
		return fmt.Sprintf("Error syncing repos for %s: %v\n", s.login, err)
	}
	s.refreshStatus()

	rows, err := s.collab.ShowRepos(s.st, s.login)
	if err != nil {
		return fmt.Sprintf("Error listing repos for %s: %v\n", s.login, err)
	}
	return report.SyncedRepos(s.login, s.status.LastSyncRepos, rows, synced)
}

func cmdSyncFollowers(s *Session) string {
	if err := s.ensureStore(); err != nil {
		return fmt.Sprintf("Error: storage unavailable: %v\n", err)
	}

	synced, err := s.collab.SyncFollowers(context.Background(), s.st, s.login)
	if err != nil {
		return fmt.Sprintf("Error syncing followers for %s: %v\n", s.login, err)
	}
	s.refreshStatus()

	rows, err := s.collab.ShowFollowers(s.st, s.login)
	if err != nil {
		return fmt.Sprintf("Error listing followers for %s: %v\n", s.login, err)
	}
	return report.SyncedFollowers(s.login, s.status.LastSyncFollowers, rows, synced)
}

func cmdListRepos(s *Session) string {
	if err := s.ensureStore(); err != nil {
		return fmt.Sprintf("Error: storage unavailable: %v\n", err)
	}

	rows, err := s.collab.ShowRepos(s.st, s.login)
	if err != nil {
		return fmt.Sprintf("Error listing repos for %s: %v\n", s.login, err)
	}
	return report.Repos(s.login, s.status.LastSyncRepos, rows)
}

func cmdListFollowers(s *Session) string {
	if err := s.ensureStore(); err != nil {
		return fmt.Sprintf("Error: storage unavailable: %v\n", err)
	}

	rows, err := s.collab.ShowFollowers(s.st, s.login)
	if err != nil {
		return fmt.Sprintf("Error listing followers for %s: %v\n", s.login, err)
	}
	return report.Followers(s.login, s.status.LastSyncFollowers, rows)
}

func cmdHelp(_ *Session) string {
	return report.HelpText()
}
