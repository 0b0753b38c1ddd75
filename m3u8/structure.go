package m3u8

/*
 This file defines data structures related to package.
*/

import (
	"math"
	"time"
)

const (
	// minVer is the lowest protocol version written by Encode.
	minVer = uint8(1)

	// fracVer is the version that introduced floating point EXTINF durations.
	// [Protocol Version Compatibility]
	fracVer = uint8(3)

	// microsPerSecond is the fixed-point scale of all parsed durations.
	microsPerSecond = 1_000_000
)

// Span addresses a substring of the buffer passed to Decode or DecodeEvents.
// It does not own the bytes: the caller must keep that buffer alive and
// unmodified for as long as spans are read.
type Span struct {
	Offset int // Offset of the first byte in the source buffer
	Len    int // Len is the number of bytes
}

// End returns the offset one past the last byte of the span.
func (s Span) End() int {
	return s.Offset + s.Len
}

// Empty reports whether the span addresses no bytes.
func (s Span) Empty() bool {
	return s.Len == 0
}

// Bytes returns the bytes of data addressed by s without copying.
// It returns nil when s does not lie within data.
func (s Span) Bytes(data []byte) []byte {
	if s.Offset < 0 || s.Len < 0 || s.End() > len(data) {
		return nil
	}
	return data[s.Offset:s.End():s.End()]
}

// String returns a copy of the bytes of data addressed by s.
func (s Span) String(data []byte) string {
	return string(s.Bytes(data))
}

// spanOf returns the span of sub, which must be resliced from data.
func spanOf(data, sub []byte) Span {
	return Span{Offset: cap(data) - cap(sub), Len: len(sub)}
}

// Micros is a duration in microseconds, the fixed-point unit of all
// parsed playlist times.
type Micros int64

// Duration converts m to a time.Duration, saturating at the representable range.
func (m Micros) Duration() time.Duration {
	const limit = math.MaxInt64 / int64(time.Microsecond)
	switch {
	case int64(m) > limit:
		return time.Duration(math.MaxInt64)
	case int64(m) < -limit:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(m) * time.Microsecond
}

// Seconds returns m as floating point seconds.
func (m Micros) Seconds() float64 {
	return float64(m) / microsPerSecond
}

// Playlist is the structured result of Decode. It covers both media
// playlists (segments) and master playlists (variants); a single manifest
// may carry both.
//
// Segments and Variants are output buffers owned by the caller. Their
// capacity bounds how many items Decode stores; SegmentCount and
// VariantCount keep counting past that capacity.
type Playlist struct {
	TargetDuration Micros    // EXT-X-TARGETDURATION
	SeqNo          int64     // EXT-X-MEDIA-SEQUENCE
	Closed         bool      // EXT-X-ENDLIST was seen
	Segments       []Segment // stored segments, len <= cap supplied by caller
	Variants       []Variant // stored variants, len <= cap supplied by caller
	SegmentCount   int       // number of segments in the manifest
	VariantCount   int       // number of variants in the manifest
}

// NewPlaylist returns a playlist that stores up to segments segments and
// variants variants.
func NewPlaylist(segments, variants int) *Playlist {
	return &Playlist{
		Segments: make([]Segment, 0, segments),
		Variants: make([]Variant, 0, variants),
	}
}

// Truncated reports whether the manifest held more segments or variants
// than the playlist could store.
func (p *Playlist) Truncated() bool {
	return p.SegmentCount > len(p.Segments) || p.VariantCount > len(p.Variants)
}

// Segment is a media segment: an EXTINF duration and the URI line after it.
type Segment struct {
	Duration Micros // EXTINF first parameter
	URI      Span   // URI line
}

// Variant is a media playlist reference in a master playlist.
type Variant struct {
	Bandwidth int64 // BANDWIDTH attribute of EXT-X-STREAM-INF
	URI       Span  // URI line
}

// EventKind is the type of a demux event.
type EventKind uint32

const (
	EventURI            EventKind = 0
	EventExtInf         EventKind = 1
	EventStreamInf      EventKind = 2
	EventTargetDuration EventKind = 3
	EventMediaSequence  EventKind = 4
	EventEndList        EventKind = 5
	EventUnknown        EventKind = 255
)

func (k EventKind) String() string {
	switch k {
	case EventURI:
		return "URI"
	case EventExtInf:
		return "EXTINF"
	case EventStreamInf:
		return "EXT-X-STREAM-INF"
	case EventTargetDuration:
		return "EXT-X-TARGETDURATION"
	case EventMediaSequence:
		return "EXT-X-MEDIA-SEQUENCE"
	case EventEndList:
		return "EXT-X-ENDLIST"
	}
	return "Unknown"
}

// Event is one tag or URI line of a manifest. The meaning of the spans and
// values depends on Kind:
//
//	EventTargetDuration  A: value text, ValueA: seconds in microseconds
//	EventMediaSequence   A: value text, ValueA: sequence number
//	EventExtInf          A: duration text, B: title, ValueA: duration in microseconds
//	EventStreamInf       A: attribute list, ValueA: BANDWIDTH (0 if absent)
//	EventEndList         no payload
//	EventURI             A: the URI line
//	EventUnknown         A: the whole line
//
// Malformed numbers yield 0.
type Event struct {
	Kind   EventKind
	Line   int  // 1-based line number, blank lines included
	A      Span // primary span
	B      Span // secondary span
	ValueA int64
	ValueB int64
}

// EventsResult summarizes a DecodeEvents call.
type EventsResult struct {
	Total     int  // events in the manifest
	Written   int  // events stored in the output slice
	Truncated bool // the output slice was too small
}

/*
[Protocol Version Compatibility]: https://datatracker.ietf.org/doc/html/draft-pantos-hls-rfc8216bis-16#section-8
*/
