package m3u8

import (
	"fmt"
	"net/url"
)

// Resolve parses the URI addressed by s in data and resolves it against
// base, the location of the playlist. A nil base returns the URI as written.
func (s Span) Resolve(data []byte, base *url.URL) (*url.URL, error) {
	raw := s.Bytes(data)
	if raw == nil {
		return nil, fmt.Errorf("span %d+%d outside buffer of %d bytes: %w", s.Offset, s.Len, len(data), ErrInvalidArgument)
	}
	ref, err := url.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse uri: %w", err)
	}
	if base == nil {
		return ref, nil
	}
	return base.ResolveReference(ref), nil
}
