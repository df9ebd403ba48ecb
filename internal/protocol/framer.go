package protocol

import (
	"bytes"
	"io"
	"strings"
)

// readChunkSize is the size of a single read from the transport.
const readChunkSize = 4096

// Framer turns a raw byte stream into a sequence of logical messages.
//
// Bytes read from the transport are retained across calls until a full
// delimiter is seen, so a delimiter split across two reads is reassembled
// correctly. Decoding is permissive: invalid UTF-8 is replaced, never fatal.
type Framer struct {
	r     io.Reader
	delim []byte
	buf   []byte
}

// NewFramer creates a Framer reading from r with the given framing.
func NewFramer(r io.Reader, framing Framing) *Framer {
	return &Framer{
		r:     r,
		delim: framing.Delimiter(),
	}
}

// Next returns the next logical message with the delimiter stripped.
//
// When the peer closes the stream, any bytes still buffered are returned as
// a final partial message; the call after that (or the first call on an
// already-empty stream) returns io.EOF.
func (f *Framer) Next() (string, error) {
	for {
		// A complete message may already be buffered.
		if i := bytes.Index(f.buf, f.delim); i >= 0 {
			msg := decode(f.buf[:i])
			rest := f.buf[i+len(f.delim):]
			f.buf = append(f.buf[:0:0], rest...)
			return msg, nil
		}

		chunk := make([]byte, readChunkSize)
		n, err := f.r.Read(chunk)
		if n > 0 {
			f.buf = append(f.buf, chunk[:n]...)
			continue
		}
		if err == nil {
			continue
		}
		if err == io.EOF {
			// Peer closed: drain the remainder as a final partial message.
			if len(f.buf) > 0 {
				msg := decode(f.buf)
				f.buf = nil
				return msg, nil
			}
			return "", io.EOF
		}
		return "", err
	}
}

// WriteMessage writes one logical message followed by the framing delimiter.
func WriteMessage(w io.Writer, framing Framing, msg string) error {
	buf := make([]byte, 0, len(msg)+len(framing.Delimiter()))
	buf = append(buf, msg...)
	buf = append(buf, framing.Delimiter()...)
	_, err := w.Write(buf)
	return err
}

// decode converts raw bytes to a string, replacing invalid UTF-8 sequences
// instead of failing the read.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
