package pktline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Kind identifies the type of a decoded pkt-line frame.
type Kind int

const (
	// Data is a regular frame carrying a payload.
	Data Kind = iota
	// Flush is the zero-length "0000" control frame.
	Flush
	// Delimiter is the "0001" control frame (protocol v2 section separator).
	Delimiter
)

// Line is one decoded pkt-line frame. Payload is nil unless Kind == Data.
type Line struct {
	Kind    Kind
	Payload []byte
}

var (
	// ErrInvalidHexLength is returned when the 4-byte length prefix is not
	// valid hex (upper- or lowercase digits are accepted).
	ErrInvalidHexLength = errors.New("pktline: invalid hex length")
	// ErrReservedLength is returned for the reserved lengths 0002/0003.
	ErrReservedLength = errors.New("pktline: invalid frame (reserved length)")
	// ErrUnexpectedEOF is returned when the underlying stream ends with a
	// partial frame buffered.
	ErrUnexpectedEOF = errors.New("pktline: unexpected EOF in packet line")

	// errNeedMore is an internal sentinel: Decoder.Next needs more bytes
	// fed via Decoder.Feed before it can produce a Line.
	errNeedMore = errors.New("pktline: need more data")
)

// Decoder is a pull-based stateful parser: bytes arrive via Feed in
// whatever chunking the caller's I/O layer provides, and Next is called
// repeatedly to drain however many complete frames are now available.
// Decoder never blocks and never performs I/O itself.
type Decoder struct {
	buf  bytes.Buffer
	want int  // expected payload size once a header has been read, -1 if awaiting header
	eof  bool // true once the caller has signaled end of stream via Feed(nil)
}

// NewDecoder returns an empty Decoder awaiting its first header.
func NewDecoder() *Decoder {
	return &Decoder{want: -1}
}

// Feed appends newly-arrived bytes from the underlying stream. Passing a
// nil (or zero-length) slice after the stream has ended signals clean EOF;
// subsequent Next calls will return ErrUnexpectedEOF if a partial frame
// remains buffered, or io.EOF if the buffer is empty.
func (d *Decoder) Feed(chunk []byte) {
	if len(chunk) == 0 {
		d.eof = true
		return
	}
	d.buf.Write(chunk)
}

// Next returns the next fully-buffered frame. When no complete frame is
// yet available, it returns errNeedMore (exported only as a predicate via
// IsNeedMore) so the caller's I/O loop knows to Feed more and retry.
func (d *Decoder) Next() (Line, error) {
	for {
		if d.want < 0 {
			if d.buf.Len() < 4 {
				if d.eof {
					if d.buf.Len() == 0 {
						return Line{}, io.EOF
					}
					return Line{}, ErrUnexpectedEOF
				}
				return Line{}, errNeedMore
			}
			header := d.buf.Next(4)
			n, err := parseHexLength(header)
			if err != nil {
				return Line{}, err
			}
			switch {
			case n == 0:
				return Line{Kind: Flush}, nil
			case n == 1:
				return Line{Kind: Delimiter}, nil
			case n == 2 || n == 3:
				return Line{}, ErrReservedLength
			default:
				d.want = n - 4
			}
			continue
		}

		if d.buf.Len() < d.want {
			if d.eof {
				return Line{}, ErrUnexpectedEOF
			}
			return Line{}, errNeedMore
		}
		payload := d.buf.Next(d.want)
		d.want = -1
		// payload aliases the Decoder's internal buffer; copy it out so
		// callers may retain it past the next Feed/Next call.
		out := make([]byte, len(payload))
		copy(out, payload)
		return Line{Kind: Data, Payload: out}, nil
	}
}

// IsNeedMore reports whether err indicates the Decoder needs more bytes
// before it can produce another Line.
func IsNeedMore(err error) bool {
	return errors.Is(err, errNeedMore)
}

func parseHexLength(header []byte) (int, error) {
	var v int
	for _, c := range header {
		var digit int
		switch {
		case c >= '0' && c <= '9':
			digit = int(c - '0')
		case c >= 'a' && c <= 'f':
			digit = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			digit = int(c-'A') + 10
		default:
			return 0, ErrInvalidHexLength
		}
		v = v*16 + digit
	}
	return v, nil
}

// Scanner drains a Decoder by pulling chunks from an underlying io.Reader,
// presenting a simple Scan() (Line, error) interface to callers that don't
// need to manage the feed loop themselves.
type Scanner struct {
	r   io.Reader
	dec *Decoder
}

// NewScanner wraps r with a fresh Decoder.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: r, dec: NewDecoder()}
}

// Scan reads from the underlying reader, in whatever chunk sizes it
// delivers, until a complete frame is available, then returns it. It
// returns io.EOF once the stream is exhausted with no partial frame
// pending.
func (s *Scanner) Scan() (Line, error) {
	chunk := make([]byte, 32*1024)
	for {
		line, err := s.dec.Next()
		if err == nil {
			return line, nil
		}
		if !IsNeedMore(err) {
			return Line{}, err
		}
		n, rerr := s.r.Read(chunk)
		if n > 0 {
			s.dec.Feed(chunk[:n])
		}
		if rerr != nil {
			if rerr == io.EOF {
				s.dec.Feed(nil)
				continue
			}
			return Line{}, fmt.Errorf("pktline: reading stream: %w", rerr)
		}
	}
}
