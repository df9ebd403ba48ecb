package protocol

import (
	"fmt"
	"strings"
)

// Command tokens understood by the server. Dispatch is by exact match;
// only the terminate keyword is case folded.
const (
	CmdSyncRepos     = "/repos"
	CmdSyncFollowers = "/followers"
	CmdListRepos     = "/repos_local"
	CmdListFollowers = "/followers_local"
	CmdHelp          = "/help"
	CmdHelpAlias     = "help"

	// TerminateKeyword closes the session. It is accepted case-insensitively
	// during both the login and command phases.
	TerminateKeyword = "bye"
)

// ErrorLoginTag prefixes every failed-login response. The client keys on it
// to decide whether to retry with another login on the same connection.
const ErrorLoginTag = "ERROR_LOGIN"

// Prompt is appended to every successful response except the terminate
// acknowledgement.
const Prompt = "\nEnter a new command. Type /help to list the available commands.\n"

// IsTerminate reports whether a trimmed message is the terminate keyword.
func IsTerminate(msg string) bool {
	return strings.EqualFold(msg, TerminateKeyword)
}

// Framing selects how the byte stream is split into logical messages.
// Both ends of a connection must use the same framing.
type Framing string

const (
	// FramingNewline terminates each message with a single '\n'. Suitable for
	// line-oriented tools (nc, telnet) where a human reads the raw stream.
	FramingNewline Framing = "newline"

	// FramingMarker terminates each message with EndMarker. Required when
	// responses span multiple lines and the receiver needs to know where a
	// message ends; this is what ghsync-client uses.
	FramingMarker Framing = "marker"
)

// EndMarker is the explicit end-of-message sentinel used by marker framing.
const EndMarker = "\n<<END_OF_MESSAGE>>\n"

// ParseFraming validates a framing name from a flag or config file.
func ParseFraming(s string) (Framing, error) {
	switch Framing(s) {
	case FramingNewline:
		return FramingNewline, nil
	case FramingMarker:
		return FramingMarker, nil
	default:
		return "", fmt.Errorf("unknown framing %q (expected %q or %q)", s, FramingNewline, FramingMarker)
	}
}

// Delimiter returns the byte sequence that terminates each message.
func (f Framing) Delimiter() []byte {
	if f == FramingMarker {
		return []byte(EndMarker)
	}
	return []byte("\n")
}
