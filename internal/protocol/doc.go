// Package protocol defines the ghsync wire protocol: the command tokens,
// the trailing prompt, the ERROR_LOGIN tag, and the message framing.
//
// # Protocol Overview
//
// The protocol is plain UTF-8 text over a stream connection. The client
// sends a GitHub login, then commands; the server answers each message with
// exactly one response. Request/response strictly alternate - there is no
// pipelining.
//
// # Framing
//
// Two framing conventions are supported as configuration of one Framer:
//
//   - newline: every message ends with '\n'
//   - marker:  every message ends with "\n<<END_OF_MESSAGE>>\n"
//
// Both sides of a connection must agree on the framing. Marker framing is
// required when the receiver must see a multi-line response as one message
// (ghsync-client uses it); newline framing suits interactive use with nc or
// telnet, where a human reads the raw stream.
//
// # Message Atomicity
//
// The Framer retains unconsumed bytes across reads, so a message (or its
// delimiter) split across several TCP segments is still delivered whole and
// exactly once. A handler never sees a partial message.
package protocol
