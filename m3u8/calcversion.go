package m3u8

func updateMin(ver *uint8, reason *string, newVer uint8, newReason string) {
	if newVer <= *ver { // only update if higher version
		return
	}
	*ver = newVer
	*reason = newReason
}

// CalcMinVersion returns the minimal version of the HLS protocol that is
// required to encode the stored segments and variants according to the
// [HLS Protocol Version Compatibility].
// The reason is a human-readable string explaining why the version is required.
func (p *Playlist) CalcMinVersion() (ver uint8, reason string) {
	ver = minVer
	reason = "minimal version supported by this library"

	// A Playlist MUST indicate an EXT-X-VERSION of 3 or higher if it contains:
	// *  Floating-point EXTINF duration values.
	for _, seg := range p.Segments {
		if seg.Duration%microsPerSecond != 0 {
			updateMin(&ver, &reason, fracVer, "floating point EXTINF duration")
			break
		}
	}

	return ver, reason
}

/*
[HLS Protocol Version Compatibility]: https://datatracker.ietf.org/doc/html/draft-pantos-hls-rfc8216bis-16#section-8
*/
