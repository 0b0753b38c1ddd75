package m3u8

/*
 This file defines functions related to playlist generation.
*/

import (
	"bytes"
	"errors"
	"strconv"
)

var ErrShortBuffer = errors.New("buffer too small")

var versionHeader = []byte("#EXTM3U\n#EXT-X-VERSION:")

// WriteVersionHeader writes "#EXTM3U\n#EXT-X-VERSION:<version>\n" to dst and
// returns the number of bytes written. Nothing past them is touched.
// It fails with ErrInvalidArgument for an empty dst and with ErrShortBuffer
// when the header does not fit.
func WriteVersionHeader(dst []byte, version int) (int, error) {
	if len(dst) == 0 {
		return 0, ErrInvalidArgument
	}
	var num [20]byte
	digits := strconv.AppendInt(num[:0], int64(version), 10)
	n := len(versionHeader) + len(digits) + 1
	if len(dst) < n {
		return 0, ErrShortBuffer
	}
	copy(dst, versionHeader)
	copy(dst[len(versionHeader):], digits)
	dst[n-1] = '\n'
	return n, nil
}

// Encode writes the playlist as a manifest. data must be the buffer the
// playlist was decoded from, since URIs are spans into it. Only stored
// segments and variants are written, with the tags Decode recognizes, so
// decoding the result in strict mode yields the same values as p.
//
// No EXT-X-VERSION line is written. Use CalcMinVersion and
// WriteVersionHeader where a versioned header is needed.
func (p *Playlist) Encode(data []byte) *bytes.Buffer {
	buf := new(bytes.Buffer)
	buf.WriteString("#EXTM3U\n")

	if p.TargetDuration != 0 {
		buf.WriteString("#EXT-X-TARGETDURATION:")
		buf.WriteString(strconv.FormatInt(targetSeconds(p.TargetDuration), 10))
		buf.WriteRune('\n')
	}
	if p.SeqNo != 0 {
		buf.WriteString("#EXT-X-MEDIA-SEQUENCE:")
		buf.WriteString(strconv.FormatInt(p.SeqNo, 10))
		buf.WriteRune('\n')
	}

	for _, seg := range p.Segments {
		buf.WriteString("#EXTINF:")
		writeMicros(buf, seg.Duration)
		buf.WriteString(",\n")
		buf.Write(seg.URI.Bytes(data))
		buf.WriteRune('\n')
	}

	for _, vnt := range p.Variants {
		buf.WriteString("#EXT-X-STREAM-INF:BANDWIDTH=")
		buf.WriteString(strconv.FormatInt(vnt.Bandwidth, 10))
		buf.WriteRune('\n')
		buf.Write(vnt.URI.Bytes(data))
		buf.WriteRune('\n')
	}

	if p.Closed {
		buf.WriteString("#EXT-X-ENDLIST\n")
	}
	return buf
}

// targetSeconds rounds a target duration up to whole seconds.
func targetSeconds(m Micros) int64 {
	sec := int64(m) / microsPerSecond
	if int64(m)%microsPerSecond > 0 {
		sec++
	}
	return sec
}

// writeMicros writes m as decimal seconds with at most six fraction digits
// and no trailing zeros.
func writeMicros(buf *bytes.Buffer, m Micros) {
	u := uint64(m)
	if m < 0 {
		buf.WriteRune('-')
		u = uint64(-(m + 1)) + 1
	}
	buf.WriteString(strconv.FormatUint(u/microsPerSecond, 10))
	frac := u % microsPerSecond
	if frac == 0 {
		return
	}
	var digits [fracDigits]byte
	for i := fracDigits - 1; i >= 0; i-- {
		digits[i] = byte('0' + frac%10)
		frac /= 10
	}
	buf.WriteRune('.')
	buf.Write(bytes.TrimRight(digits[:], "0"))
}
