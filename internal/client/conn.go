package client

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/muurk/ghsync/internal/protocol"
)

// DefaultDialTimeout bounds the TCP connect; reads have no deadline because
// a sync command can legitimately take a while.
const DefaultDialTimeout = 10 * time.Second

// ErrLoginRejected is returned by Login when the server answers with the
// ERROR_LOGIN tag. The connection stays usable for another attempt.
var ErrLoginRejected = errors.New("login rejected")

// Client is one connection to a ghsync server. It is not safe for
// concurrent use; the protocol is strictly request/response.
type Client struct {
	conn    net.Conn
	framing protocol.Framing
	framer  *protocol.Framer
}

// Dial connects to a server and prepares the framer. The framing must match
// what the server was started with.
func Dial(addr string, framing protocol.Framing) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, DefaultDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return &Client{
		conn:    conn,
		framing: framing,
		framer:  protocol.NewFramer(conn, framing),
	}, nil
}

// RemoteAddr returns the server address this client is connected to.
func (c *Client) RemoteAddr() string {
	if ra := c.conn.RemoteAddr(); ra != nil {
		return ra.String()
	}
	return ""
}

// Login submits a candidate login and returns the server's response. On an
// ERROR_LOGIN answer the response text is returned together with
// ErrLoginRejected so the caller can show it and retry on the same
// connection.
func (c *Client) Login(login string) (string, error) {
	resp, err := c.Send(login)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(resp, protocol.ErrorLoginTag) {
		return resp, ErrLoginRejected
	}
	return resp, nil
}

// Send writes one message and reads one response.
func (c *Client) Send(msg string) (string, error) {
	if err := protocol.WriteMessage(c.conn, c.framing, msg); err != nil {
		return "", fmt.Errorf("sending %q: %w", msg, err)
	}
	resp, err := c.framer.Next()
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return resp, nil
}

// Terminate sends the terminate keyword and returns the server's
// acknowledgement. The connection is closed afterwards either way.
func (c *Client) Terminate() (string, error) {
	resp, err := c.Send(protocol.TerminateKeyword)
	closeErr := c.conn.Close()
	if err != nil {
		return "", err
	}
	if closeErr != nil {
		return resp, closeErr
	}
	return resp, nil
}

// Close closes the connection without the terminate handshake.
func (c *Client) Close() error {
	return c.conn.Close()
}
