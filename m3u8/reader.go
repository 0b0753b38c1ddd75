package m3u8

/*
 This file defines functions related to playlist parsing.
*/

import (
	"bytes"
	"errors"
	"fmt"
)

var ErrInvalidArgument = errors.New("invalid argument")
var ErrMalformedHeader = errors.New("#EXTM3U absent")
var ErrUnsupportedDirective = errors.New("unsupported directive")

// Decode parses the manifest in data into a new playlist that stores up to
// segments segments and variants variants. If strict is true then the
// first unrecognized #EXT tag is an error. Negative capacities are an
// ErrInvalidArgument.
func Decode(data []byte, segments, variants int, strict bool) (*Playlist, error) {
	if segments < 0 || variants < 0 {
		return nil, ErrInvalidArgument
	}
	p := NewPlaylist(segments, variants)
	if err := p.Decode(data, strict); err != nil {
		return nil, err
	}
	return p, nil
}

// Decode parses the manifest in data into p. Segments and variants are
// stored in the backing arrays of p.Segments and p.Variants up to their
// capacity; SegmentCount and VariantCount report the full counts.
//
// If strict is true then the first unrecognized #EXT tag makes Decode return
// an error wrapping ErrUnsupportedDirective; otherwise such tags are skipped.
// Lines starting with '#' but not '#EXT' are comments in both modes.
//
// On error p keeps its previous field values. The contents of the backing
// arrays are then unspecified.
func (p *Playlist) Decode(data []byte, strict bool) error {
	if p == nil || len(data) == 0 {
		return ErrInvalidArgument
	}
	state := decodingState{
		segments: newBounded(p.Segments),
		variants: newBounded(p.Variants),
	}
	if err := state.decode(data, strict); err != nil {
		return err
	}
	*p = Playlist{
		TargetDuration: state.targetDuration,
		SeqNo:          state.seqNo,
		Closed:         state.closed,
		Segments:       state.segments.items,
		Variants:       state.variants.items,
		SegmentCount:   state.segments.total,
		VariantCount:   state.variants.total,
	}
	return nil
}

// Internal structure for decoding a manifest. A pending value is set by a
// tag line and consumed by the next URI line.
type decodingState struct {
	targetDuration Micros
	seqNo          int64
	closed         bool
	segments       bounded[Segment]
	variants       bounded[Variant]
	duration       Micros
	bandwidth      int64
	tagInf         bool // duration is pending
	tagStreamInf   bool // bandwidth is pending
}

func (state *decodingState) decode(data []byte, strict bool) error {
	sc := newLineScanner(data)
	if !bytes.Equal(sc.header(), tagM3U) {
		return ErrMalformedHeader
	}
	for {
		line, lineNo, ok := sc.next()
		if !ok {
			return nil
		}
		if err := state.decodeLine(data, line, strict); err != nil {
			return fmt.Errorf("line %d: %q: %w", lineNo, line, err)
		}
	}
}

// Parse one line of a manifest.
func (state *decodingState) decodeLine(data, line []byte, strict bool) error {
	kind, value := recognize(line)
	switch kind {
	case dirTargetDuration:
		// malformed values leave the previous target duration
		if sec, _, ok := ParseInt(value); ok {
			state.targetDuration = Micros(satMulSigned(sec, microsPerSecond))
		}
	case dirMediaSequence:
		if seq, _, ok := ParseInt(value); ok {
			state.seqNo = seq
		}
	case dirEndList:
		state.closed = true
	case dirExtInf:
		dur, _, _ := extInfFields(value)
		state.duration, _, state.tagInf = ParseMicros(dur)
	case dirStreamInf:
		state.bandwidth, state.tagStreamInf = ParseBandwidth(value)
	case dirUnsupported:
		if strict {
			return ErrUnsupportedDirective
		}
	case dirURI:
		uri := spanOf(data, line)
		switch {
		case state.tagInf:
			state.segments.write(Segment{Duration: state.duration, URI: uri})
			state.tagInf = false
		case state.tagStreamInf:
			state.variants.write(Variant{Bandwidth: state.bandwidth, URI: uri})
			state.tagStreamInf = false
		}
	}
	return nil
}
