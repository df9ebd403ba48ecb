package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muurk/ghsync/internal/protocol"
)

// RunREPL drives a session over plain reader/writer streams: login phase
// with retries, then a command loop until terminate, EOF on input, or a
// server-side close. Used when stdin is not a terminal (pipes, scripts);
// the interactive terminal lives in the tui subpackage.
func RunREPL(c *Client, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	// Login phase.
	fmt.Fprint(out, "Enter your GitHub login: ")
	loggedIn := false
	for !loggedIn {
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Fprint(out, "Enter your GitHub login: ")
			continue
		}
		if protocol.IsTerminate(line) {
			ack, err := c.Terminate()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ack)
			return nil
		}

		resp, err := c.Login(line)
		if errors.Is(err, ErrLoginRejected) {
			fmt.Fprintln(out, resp)
			fmt.Fprint(out, "Enter your GitHub login: ")
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, resp)
		loggedIn = true
	}

	// Command phase.
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if protocol.IsTerminate(line) {
			ack, err := c.Terminate()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ack)
			return nil
		}

		resp, err := c.Send(line)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, resp)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Input ended without a terminate; close without the handshake.
	return c.Close()
}
