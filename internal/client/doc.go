// Package client implements the connection side of the ghsync protocol:
// dialing a server, the login handshake with ERROR_LOGIN retries, and the
// request/response command exchange. The interactive terminal lives in the
// tui subpackage.
package client
