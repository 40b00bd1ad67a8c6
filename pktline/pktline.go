// Package pktline implements Git's pkt-line framing used by the Smart-HTTP
// v2 protocol: a 4-byte lowercase-hex length prefix followed by a payload,
// plus the two reserved zero-length control frames (flush, delimiter).
//
// See https://git-scm.com/docs/gitprotocol-common and
// https://git-scm.com/docs/protocol-v2.
package pktline

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	// lengthSize is the size of the hex length prefix.
	lengthSize = 4

	// MaxDataSize is the maximum payload size of a single data frame.
	MaxDataSize = 65516
)

// ErrDataTooLarge is returned by Writer.Add when payload exceeds MaxDataSize.
var ErrDataTooLarge = errors.New("pktline: payload exceeds maximum frame size")

// Writer builds a pkt-line byte stream by appending frames. Methods are
// chainable; if any Add call exceeds MaxDataSize the error is latched and
// returned by Take, mirroring the deferred-error style of bufio.Writer.
type Writer struct {
	buf bytes.Buffer
	err error
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Add appends a data frame carrying payload verbatim. If payload is too
// large the error is latched and all further writes become no-ops.
func (w *Writer) Add(payload []byte) *Writer {
	if w.err != nil {
		return w
	}
	if len(payload) > MaxDataSize {
		w.err = fmt.Errorf("%w: %d bytes", ErrDataTooLarge, len(payload))
		return w
	}
	fmt.Fprintf(&w.buf, "%04x", len(payload)+lengthSize)
	w.buf.Write(payload)
	return w
}

// AddString is Add for a string payload.
func (w *Writer) AddString(payload string) *Writer {
	return w.Add([]byte(payload))
}

// Flush appends the flush-pkt ("0000").
func (w *Writer) Flush() *Writer {
	if w.err != nil {
		return w
	}
	w.buf.WriteString("0000")
	return w
}

// Delimit appends the delimiter-pkt ("0001").
func (w *Writer) Delimit() *Writer {
	if w.err != nil {
		return w
	}
	w.buf.WriteString("0001")
	return w
}

// Take returns the accumulated bytes, or an error if any Add call along
// the way exceeded MaxDataSize.
func (w *Writer) Take() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}
