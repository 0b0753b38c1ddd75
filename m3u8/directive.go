package m3u8

import "bytes"

// directive classifies one non-empty manifest line.
type directive uint8

const (
	dirURI directive = iota
	dirTargetDuration
	dirMediaSequence
	dirEndList
	dirExtInf
	dirStreamInf
	dirUnsupported // any other #EXT line
	dirComment     // any other # line
)

var (
	tagM3U            = []byte("#EXTM3U")
	tagExt            = []byte("#EXT")
	tagTargetDuration = []byte("#EXT-X-TARGETDURATION:")
	tagMediaSequence  = []byte("#EXT-X-MEDIA-SEQUENCE:")
	tagEndList        = []byte("#EXT-X-ENDLIST")
	tagExtInf         = []byte("#EXTINF:")
	tagStreamInf      = []byte("#EXT-X-STREAM-INF:")
)

// directives is matched in order, first prefix wins.
var directives = [...]struct {
	prefix []byte
	kind   directive
}{
	{tagTargetDuration, dirTargetDuration},
	{tagMediaSequence, dirMediaSequence},
	{tagEndList, dirEndList},
	{tagExtInf, dirExtInf},
	{tagStreamInf, dirStreamInf},
}

// recognize classifies line and returns the text following the matched
// prefix. For URI, comment and unsupported lines the value is the whole line.
// #EXTM3U is only valid as the header and is unsupported anywhere else.
func recognize(line []byte) (directive, []byte) {
	if len(line) == 0 || line[0] != '#' {
		return dirURI, line
	}
	for _, d := range directives {
		if bytes.HasPrefix(line, d.prefix) {
			return d.kind, line[len(d.prefix):]
		}
	}
	if bytes.HasPrefix(line, tagExt) {
		return dirUnsupported, line
	}
	return dirComment, line
}

// extInfFields splits an EXTINF value into the duration text and the title.
// hasTitle is false when the value has no comma.
func extInfFields(value []byte) (dur, title []byte, hasTitle bool) {
	if i := bytes.IndexByte(value, ','); i >= 0 {
		return value[:i], value[i+1:], true
	}
	return value, nil, false
}
