package pktline

import "strings"

// BandKind identifies which side-band channel a demultiplexed frame
// belongs to, per the "side-band-64k" capability used during the fetch
// pack negotiation.
type BandKind int

const (
	// BandPackData carries raw packfile bytes (channel 1).
	BandPackData BandKind = iota
	// BandProgress carries human-readable progress text (channel 2).
	BandProgress
	// BandError carries a fatal error message from the remote (channel 3).
	BandError
	// BandUnknown is any other or empty frame; the original bytes are kept
	// verbatim in Band.Raw.
	BandUnknown
)

// Band is one demultiplexed side-band frame.
type Band struct {
	Kind BandKind
	// Data holds the payload with the channel byte stripped, for
	// BandPackData. Text holds the UTF-8 (lossy) decoded payload for
	// BandProgress and BandError. Raw holds the untouched frame bytes for
	// BandUnknown (including the empty-payload case).
	Data []byte
	Text string
	Raw  []byte
}

// DecodeSideBand splits a pkt-line data frame's payload into its side-band
// channel. An empty payload, or one whose first byte isn't 1, 2, or 3, is
// classified BandUnknown and returned untouched in Raw.
func DecodeSideBand(payload []byte) Band {
	if len(payload) == 0 {
		return Band{Kind: BandUnknown, Raw: payload}
	}
	switch payload[0] {
	case 1:
		return Band{Kind: BandPackData, Data: payload[1:]}
	case 2:
		return Band{Kind: BandProgress, Text: strings.ToValidUTF8(string(payload[1:]), "�")}
	case 3:
		return Band{Kind: BandError, Text: strings.ToValidUTF8(string(payload[1:]), "�")}
	default:
		return Band{Kind: BandUnknown, Raw: payload}
	}
}
