package m3u8

/*
Playlist parsing tests.
*/

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"testing"

	"github.com/matryer/is"
)

const basicPlaylist = "#EXTM3U\n#EXT-X-TARGETDURATION:10\n#EXTINF:9.1,\nseg0.ts\n" +
	"#EXT-X-STREAM-INF:BANDWIDTH=12345\nlow.m3u8\n#EXT-X-ENDLIST\n"

func readTestFile(t *testing.T, fileName string) []byte {
	t.Helper()
	data, err := os.ReadFile(fileName)
	if err != nil {
		t.Fatalf("read %s: %v", fileName, err)
	}
	return data
}

func TestDecodeBasicPlaylist(t *testing.T) {
	is := is.New(t)
	data := []byte(basicPlaylist)
	p := NewPlaylist(4, 4)
	err := p.Decode(data, false)
	is.NoErr(err) // must decode playlist

	is.Equal(p.TargetDuration, Micros(10_000_000)) // target duration must be 10s
	is.True(p.Closed)                              // EXT-X-ENDLIST must close the playlist
	is.Equal(p.SeqNo, int64(0))                    // no media sequence
	is.Equal(p.SegmentCount, 1)                    // one segment
	is.Equal(p.VariantCount, 1)                    // one variant
	is.Equal(len(p.Segments), 1)
	is.Equal(len(p.Variants), 1)
	is.Equal(p.Segments[0].Duration, Micros(9_100_000))  // segment duration 9.1s
	is.Equal(p.Segments[0].URI.String(data), "seg0.ts")  // segment URI
	is.Equal(p.Variants[0].Bandwidth, int64(12345))      // variant bandwidth
	is.Equal(p.Variants[0].URI.String(data), "low.m3u8") // variant URI
	is.True(!p.Truncated())                              // everything fits
}

func TestDecodeStrictRejectsUnknownTag(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXT-X-UNKNOWN:1\nseg0.ts\n")
	p := NewPlaylist(4, 4)
	err := p.Decode(data, true)
	is.True(errors.Is(err, ErrUnsupportedDirective))      // strict mode must reject the tag
	is.Equal(StatusCode(err), StatusUnsupportedDirective) // status -3
	is.Equal(p.SegmentCount, 0)                           // nothing committed
	is.Equal(p.VariantCount, 0)
	is.Equal(len(p.Segments), 0)
	is.Equal(len(p.Variants), 0)
}

func TestDecodeLenientSkipsUnknownTag(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXT-X-UNKNOWN:1\nseg0.ts\n")
	p := NewPlaylist(4, 4)
	err := p.Decode(data, false)
	is.NoErr(err)               // lenient mode skips the tag
	is.Equal(p.SegmentCount, 0) // bare URI has nothing to consume
	is.Equal(p.VariantCount, 0)
}

func TestDecodeStrictErrorHasLineNumber(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXT-X-TARGETDURATION:4\n\n#EXT-X-VERSION:3\n")
	_, err := Decode(data, 1, 1, true)
	is.True(errors.Is(err, ErrUnsupportedDirective))
	is.Equal(err.Error(), `line 4: "#EXT-X-VERSION:3": unsupported directive`)
}

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrInvalidArgument},
		{"missing", "#EXT-X-TARGETDURATION:10\n", ErrMalformedHeader},
		{"not first", "#EXT-X-VERSION:3\n#EXTM3U\n", ErrMalformedHeader},
		{"blank first line", "\n#EXTM3U\n", ErrMalformedHeader},
		{"leading space", " #EXTM3U\n", ErrMalformedHeader},
		{"trailing text", "#EXTM3U8\n", ErrMalformedHeader},
		{"lowercase", "#extm3u\n", ErrMalformedHeader},
		{"only header", "#EXTM3U", nil},
		{"crlf header", "#EXTM3U\r\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			p := NewPlaylist(1, 1)
			err := p.Decode([]byte(tt.input), false)
			if tt.wantErr == nil {
				is.NoErr(err)
				return
			}
			is.True(errors.Is(err, tt.wantErr)) // must fail with the expected error
		})
	}
}

func TestDecodeNilPlaylist(t *testing.T) {
	is := is.New(t)
	var p *Playlist
	err := p.Decode([]byte("#EXTM3U\n"), false)
	is.True(errors.Is(err, ErrInvalidArgument)) // nil receiver is an invalid argument
}

func TestDecodeNegativeCapacity(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXTINF:1,\na.ts\n")

	p, err := Decode(data, -1, 0, false)
	is.True(errors.Is(err, ErrInvalidArgument)) // negative segment capacity
	is.True(p == nil)

	p, err = Decode(data, 0, -1, true)
	is.True(errors.Is(err, ErrInvalidArgument)) // negative variant capacity
	is.True(p == nil)

	p, err = Decode(data, 0, 0, false)
	is.NoErr(err) // zero capacity only counts
	is.Equal(p.SegmentCount, 1)
}

func TestDecodeExtInf(t *testing.T) {
	const header = "#EXTM3U\n#EXT-X-TARGETDURATION:10\n%s\n1.ts\n"

	tests := []struct {
		extInf      string
		wantSegment bool
		wantDur     Micros
	}{
		{"#EXTINF:10.000,", true, 10_000_000},
		{"#EXTINF:10.000,Title", true, 10_000_000},
		{"#EXTINF:10.000,Title,Track", true, 10_000_000},
		{"#EXTINF:10", true, 10_000_000},
		{"#EXTINF:9.1,", true, 9_100_000},
		{"#EXTINF:1.1234567,", true, 1_123_456},
		{"#EXTINF:0.000001,", true, 1},
		{"#EXTINF: 4.5,", true, 4_500_000},
		{"#EXTINF:.5,", true, 500_000},
		{"#EXTINF:3.,", true, 3_000_000},
		{"#EXTINF:-1,", true, -1_000_000},
		{"#EXTINF:invalid,", false, 0},
		{"#EXTINF:,Title", false, 0},
	}

	for nr, tt := range tests {
		t.Run(fmt.Sprintf("case-%d", nr), func(t *testing.T) {
			is := is.New(t)
			data := []byte(fmt.Sprintf(header, tt.extInf))
			p := NewPlaylist(1, 1)
			err := p.Decode(data, true)
			is.NoErr(err) // must decode playlist
			if !tt.wantSegment {
				is.Equal(p.SegmentCount, 0) // unparsable duration leaves nothing pending
				return
			}
			is.Equal(p.SegmentCount, 1)
			is.Equal(p.Segments[0].Duration, tt.wantDur)
			is.Equal(p.Segments[0].URI.String(data), "1.ts")
		})
	}
}

func TestDecodePendingDurationConsumedOnce(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXTINF:4,\na.ts\nb.ts\n")
	p := NewPlaylist(4, 4)
	is.NoErr(p.Decode(data, true))
	is.Equal(p.SegmentCount, 1) // second URI has no EXTINF
	is.Equal(p.Segments[0].URI.String(data), "a.ts")
}

func TestDecodeExtInfOverwritesPending(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXTINF:4,\n#EXTINF:5,\na.ts\n")
	p := NewPlaylist(4, 4)
	is.NoErr(p.Decode(data, true))
	is.Equal(p.SegmentCount, 1)                         // first EXTINF yields no segment
	is.Equal(p.Segments[0].Duration, Micros(5_000_000)) // last EXTINF wins
}

func TestDecodeSegmentBeforeVariant(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXTINF:4,\n#EXT-X-STREAM-INF:BANDWIDTH=1\nv.m3u8\nw.m3u8\n")
	p := NewPlaylist(4, 4)
	is.NoErr(p.Decode(data, true))
	is.Equal(p.SegmentCount, 1) // EXTINF is consumed first
	is.Equal(p.Segments[0].URI.String(data), "v.m3u8")
	is.Equal(p.VariantCount, 1) // bandwidth stays pending for the next URI
	is.Equal(p.Variants[0].URI.String(data), "w.m3u8")
	is.Equal(p.Variants[0].Bandwidth, int64(1))
}

func TestDecodeStreamInfWithoutBandwidth(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=100\n#EXT-X-STREAM-INF:CODECS=\"avc1\"\nv.m3u8\n")
	p := NewPlaylist(4, 4)
	is.NoErr(p.Decode(data, true))
	is.Equal(p.VariantCount, 0) // STREAM-INF without BANDWIDTH clears the pending value
}

// BANDWIDTH= is found by substring search, so the first occurrence wins even
// inside another attribute name or a quoted value.
func TestDecodeBandwidthSubstringMatch(t *testing.T) {
	tests := []struct {
		attrs string
		want  int64
	}{
		{"BANDWIDTH=900,AVERAGE-BANDWIDTH=500", 900},
		{"AVERAGE-BANDWIDTH=500,BANDWIDTH=900", 500},
		{`NAME="BANDWIDTH=1",BANDWIDTH=2`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.attrs, func(t *testing.T) {
			is := is.New(t)
			data := []byte("#EXTM3U\n#EXT-X-STREAM-INF:" + tt.attrs + "\nv.m3u8\n")
			p := NewPlaylist(1, 1)
			is.NoErr(p.Decode(data, true))
			is.Equal(p.VariantCount, 1)
			is.Equal(p.Variants[0].Bandwidth, tt.want)
		})
	}
}

func TestDecodeHeaderValues(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXT-X-TARGETDURATION:6\n#EXT-X-MEDIA-SEQUENCE:42\n" +
		"#EXT-X-TARGETDURATION:abc\n#EXT-X-MEDIA-SEQUENCE: 7\n")
	p := NewPlaylist(0, 0)
	is.NoErr(p.Decode(data, true))
	is.Equal(p.TargetDuration, Micros(6_000_000)) // malformed value keeps the previous one
	is.Equal(p.SeqNo, int64(42))                  // leading space is malformed
	is.True(!p.Closed)
}

func TestDecodeSaturatingValues(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXT-X-TARGETDURATION:99999999999999999999\n" +
		"#EXT-X-MEDIA-SEQUENCE:-99999999999999999999\n#EXTINF:99999999999999999999.5,\nhuge.ts\n")
	p := NewPlaylist(1, 0)
	is.NoErr(p.Decode(data, true))
	is.Equal(p.TargetDuration, Micros(math.MaxInt64))
	is.Equal(p.SeqNo, int64(math.MinInt64))
	is.Equal(p.Segments[0].Duration, Micros(math.MaxInt64))
}

func TestDecodeCapacity(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXTINF:1,\na.ts\n#EXTINF:2,\nb.ts\n#EXTINF:3,\nc.ts\n" +
		"#EXT-X-STREAM-INF:BANDWIDTH=1\nv1.m3u8\n#EXT-X-STREAM-INF:BANDWIDTH=2\nv2.m3u8\n")

	p := NewPlaylist(2, 1)
	is.NoErr(p.Decode(data, false))
	is.Equal(p.SegmentCount, 3) // logical count keeps going
	is.Equal(len(p.Segments), 2)
	is.Equal(p.Segments[1].URI.String(data), "b.ts")
	is.Equal(p.VariantCount, 2)
	is.Equal(len(p.Variants), 1)
	is.Equal(p.Variants[0].URI.String(data), "v1.m3u8")
	is.True(p.Truncated())

	counts := new(Playlist)
	is.NoErr(counts.Decode(data, false))
	is.Equal(counts.SegmentCount, 3) // count only pass
	is.Equal(counts.VariantCount, 2)
	is.Equal(len(counts.Segments), 0)
	is.Equal(len(counts.Variants), 0)

	// second pass with exact sizes
	exact := NewPlaylist(counts.SegmentCount, counts.VariantCount)
	is.NoErr(exact.Decode(data, false))
	is.True(!exact.Truncated())
	is.Equal(len(exact.Segments), 3)
	is.Equal(len(exact.Variants), 2)
}

func TestDecodeReusesPlaylist(t *testing.T) {
	is := is.New(t)
	p := NewPlaylist(4, 4)
	first := []byte("#EXTM3U\n#EXT-X-MEDIA-SEQUENCE:3\n#EXTINF:1,\na.ts\n#EXTINF:1,\nb.ts\n#EXT-X-ENDLIST\n")
	is.NoErr(p.Decode(first, false))
	is.Equal(p.SegmentCount, 2)

	second := []byte("#EXTM3U\n#EXTINF:2,\nc.ts\n")
	is.NoErr(p.Decode(second, false))
	is.Equal(p.SegmentCount, 1) // previous results are replaced
	is.Equal(p.SeqNo, int64(0))
	is.True(!p.Closed)
	is.Equal(cap(p.Segments), 4) // backing array is kept
	is.Equal(p.Segments[0].URI.String(second), "c.ts")
}

func TestDecodeErrorKeepsPlaylist(t *testing.T) {
	is := is.New(t)
	p := NewPlaylist(4, 4)
	is.NoErr(p.Decode([]byte("#EXTM3U\n#EXT-X-MEDIA-SEQUENCE:9\n"), true))

	err := p.Decode([]byte("#EXTM3U\n#EXT-X-MEDIA-SEQUENCE:1\n#EXTINF:1,\na.ts\n#EXT-X-KEY:METHOD=NONE\n"), true)
	is.True(errors.Is(err, ErrUnsupportedDirective))
	is.Equal(p.SeqNo, int64(9)) // values of the failed call are discarded
	is.Equal(p.SegmentCount, 0)

	err = p.Decode([]byte("#EXTM4U\n"), true)
	is.True(errors.Is(err, ErrMalformedHeader))
	is.Equal(p.SeqNo, int64(9))
}

func TestDecodeCRLFAndBlankLines(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\r\n\r\n#EXT-X-TARGETDURATION:2\r\n#EXTINF:2,\r\n\r\n\nseg.ts\r\n#EXT-X-ENDLIST\r\n")
	p := NewPlaylist(1, 0)
	is.NoErr(p.Decode(data, true))
	is.Equal(p.TargetDuration, Micros(2_000_000))
	is.Equal(p.SegmentCount, 1)                        // blank lines do not consume the pending duration
	is.Equal(p.Segments[0].URI.String(data), "seg.ts") // carriage return is stripped
	is.True(p.Closed)
}

func TestDecodeComments(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n# comment\n#EXTINF:1,\n#another comment\na.ts\n")
	p := NewPlaylist(1, 0)
	is.NoErr(p.Decode(data, true)) // comments are not directives, even in strict mode
	is.Equal(p.SegmentCount, 1)
	is.Equal(p.Segments[0].URI.String(data), "a.ts")
}

func TestDecodeRepeatedHeader(t *testing.T) {
	is := is.New(t)
	data := []byte("#EXTM3U\n#EXTM3U\n")
	is.NoErr(new(Playlist).Decode(data, false))
	err := new(Playlist).Decode(data, true)
	is.True(errors.Is(err, ErrUnsupportedDirective)) // #EXTM3U is only valid as the first line
}

func TestDecodeEndListPrefix(t *testing.T) {
	is := is.New(t)
	p := new(Playlist)
	is.NoErr(p.Decode([]byte("#EXTM3U\n#EXT-X-ENDLIST:ignored\n"), true))
	is.True(p.Closed) // EXT-X-ENDLIST matches as a prefix
}

func TestDecodeMasterPlaylist(t *testing.T) {
	is := is.New(t)
	data := readTestFile(t, "sample-playlists/master.m3u8")
	p, err := Decode(data, 0, 8, false)
	is.NoErr(err)               // must decode playlist
	is.Equal(p.VariantCount, 5) // must be 5 variants
	is.Equal(p.SegmentCount, 0)
	bandwidths := []int64{300000, 600000, 850000, 1000000, 1500000}
	for i, v := range p.Variants {
		is.Equal(v.Bandwidth, bandwidths[i])
		is.Equal(v.URI.String(data), fmt.Sprintf("chunklist-b%d.m3u8", bandwidths[i]))
	}

	_, err = Decode(data, 0, 8, true)
	is.True(errors.Is(err, ErrUnsupportedDirective)) // EXT-X-VERSION is not supported in strict mode
}

func TestDecodeMediaPlaylist(t *testing.T) {
	is := is.New(t)
	data := readTestFile(t, "sample-playlists/media.m3u8")
	p, err := Decode(data, 8, 0, false)
	is.NoErr(err) // must decode playlist

	is.Equal(p.TargetDuration, Micros(12_000_000)) // target duration must be 12
	is.Equal(p.SeqNo, int64(1))
	is.True(p.Closed) // closed (VOD) playlist
	expected := []struct {
		dur Micros
		uri string
	}{
		{11_875_000, "media_w1_1.ts"},
		{12_000_000, "media_w1_2.ts"},
		{10_500_000, "media_w1_3.ts"},
		{4_041_667, "media_w1_4.ts"},
	}
	is.Equal(len(p.Segments), len(expected))
	for i, seg := range p.Segments {
		is.Equal(seg.Duration, expected[i].dur)
		is.Equal(seg.URI.String(data), expected[i].uri)
	}
}

func TestDecodeLiveMediaPlaylistStrict(t *testing.T) {
	is := is.New(t)
	data := readTestFile(t, "sample-playlists/media-live.m3u8")
	p, err := Decode(data, 8, 0, true)
	is.NoErr(err) // only supported tags and a comment
	is.Equal(p.SeqNo, int64(100))
	is.Equal(p.SegmentCount, 3)
	is.True(!p.Closed) // live playlist
	is.Equal(p.Segments[2].Duration, Micros(5_005_000))
}

func TestDecodeSpansWithinBuffer(t *testing.T) {
	for _, name := range []string{"master.m3u8", "media.m3u8", "media-live.m3u8"} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			data := readTestFile(t, "sample-playlists/"+name)
			p, err := Decode(data, 16, 16, false)
			is.NoErr(err)
			spans := make([]Span, 0, len(p.Segments)+len(p.Variants))
			for _, s := range p.Segments {
				spans = append(spans, s.URI)
			}
			for _, v := range p.Variants {
				spans = append(spans, v.URI)
			}
			for _, s := range spans {
				is.True(s.Offset >= 0 && s.End() <= len(data)) // span inside buffer
				is.True(s.Len > 0)                             // URI lines are never empty
				is.True(data[s.Offset] != '#')                 // URI is not a tag
			}
		})
	}
}

func TestDecodeDeterministic(t *testing.T) {
	is := is.New(t)
	data := readTestFile(t, "sample-playlists/media.m3u8")
	a, err := Decode(data, 2, 2, false)
	is.NoErr(err)
	b, err := Decode(data, 2, 2, false)
	is.NoErr(err)
	is.True(reflect.DeepEqual(a, b)) // same input must give same output
}

func TestDecodeDoesNotAllocate(t *testing.T) {
	is := is.New(t)
	data := readTestFile(t, "sample-playlists/media.m3u8")
	p := NewPlaylist(8, 8)
	allocs := testing.AllocsPerRun(100, func() {
		if err := p.Decode(data, false); err != nil {
			t.Fatal(err)
		}
	})
	is.Equal(allocs, 0.0) // decoding into a sized playlist must not allocate
}

/****************
 *  Benchmarks  *
 ****************/

func BenchmarkDecodeMasterPlaylist(b *testing.B) {
	data, err := os.ReadFile("sample-playlists/master.m3u8")
	if err != nil {
		b.Fatal(err)
	}
	p := NewPlaylist(0, 16)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := p.Decode(data, false); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeMediaPlaylist(b *testing.B) {
	data, err := os.ReadFile("sample-playlists/media.m3u8")
	if err != nil {
		b.Fatal(err)
	}
	p := NewPlaylist(16, 0)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := p.Decode(data, false); err != nil {
			b.Fatal(err)
		}
	}
}
