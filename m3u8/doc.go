/*
Package m3u8 parses HLS m3u8 manifests that are already in memory,
without copying any text out of them.

HLS (HTTP Live Streaming) playlists are line oriented. Tag lines start with
'#', every other non-empty line is a URI. A media playlist lists segments,
each URI preceded by an EXTINF tag with its duration. A master playlist
lists variants, each URI preceded by an EXT-X-STREAM-INF tag with its
bandwidth. The protocol is described in [IETF RFC8216][rfc8216] and its
successor drafts [rfc8216bis].

## Structure and design of the code

The package supports a deliberately small tag set: EXT-X-TARGETDURATION,
EXT-X-MEDIA-SEQUENCE, EXT-X-ENDLIST, EXTINF and EXT-X-STREAM-INF, plus the
#EXTM3U header, which must be the first line.

There are two ways to decode a manifest:

  - Playlist.Decode fills a Playlist with the target duration, media
    sequence, end-of-list flag, segments and variants. A duration or
    bandwidth declared on a tag line is consumed by exactly the next URI
    line. In strict mode an unrecognized #EXT tag is an error, otherwise it
    is skipped.
  - DecodeEvents reports one Event per tag or URI line, including unknown
    tags and comments, which is useful for callers that want to apply the
    playlist themselves.

Text is never copied. URIs, titles and attribute lists are returned as a
Span, an offset and length into the buffer given to the decoder. The caller
keeps that buffer alive and unmodified while spans are in use.

Outputs are bounded by the caller. Playlist.Decode stores at most
cap(p.Segments) segments and cap(p.Variants) variants, and DecodeEvents at
most len(events) events, but counting always continues to the end of the
manifest. A first call with no room returns the sizes for a second call.

Times are fixed-point microseconds (Micros). Numbers saturate instead of
overflowing, so decoding never fails on large values.

For writing, WriteVersionHeader writes a manifest header into a fixed
buffer and Playlist.Encode writes the decoded playlist back as a manifest.

Decoding a master playlist:

	data, _ := os.ReadFile("master.m3u8")
	p := NewPlaylist(0, 16)
	if err := p.Decode(data, false); err != nil {
		return err
	}
	for _, v := range p.Variants {
		fmt.Println(v.Bandwidth, v.URI.String(data))
	}

Sizing an event slice:

	res, _ := DecodeEvents(data, nil)
	events := make([]Event, res.Total)
	_, _ = DecodeEvents(data, events)

[rfc8216]: https://tools.ietf.org/html/rfc8216
[rfc8216bis]: https://tools.ietf.org/html/draft-pantos-rfc8216bis
*/
package m3u8
