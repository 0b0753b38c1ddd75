package m3u8

/*
 This file defines the flat event decoding of a manifest.
*/

import "bytes"

// DecodeEvents classifies every non-empty line after the #EXTM3U header and
// stores one Event per line into events, in line order, up to len(events).
// Scanning always runs to the end of data, so the result's Total is the
// number of events the whole manifest yields even when events is too small.
//
// Passing a nil or empty events slice counts events without storing any;
// Truncated is then false. A caller can use that pass to size the slice for
// a second call.
//
// Unrecognized #EXT tags and comment lines are reported as EventUnknown.
// Spans in the events address data.
func DecodeEvents(data []byte, events []Event) (EventsResult, error) {
	var res EventsResult
	if len(data) == 0 {
		return res, ErrInvalidArgument
	}
	sc := newLineScanner(data)
	if !bytes.Equal(sc.header(), tagM3U) {
		return res, ErrMalformedHeader
	}
	out := newBounded(events[:0:len(events)])
	for {
		line, lineNo, ok := sc.next()
		if !ok {
			break
		}
		if !out.write(lineEvent(data, line, lineNo)) && len(events) > 0 {
			res.Truncated = true
		}
	}
	res.Total = out.total
	res.Written = len(out.items)
	return res, nil
}

// Events returns all events of the manifest in data. It counts the events
// first and then decodes them into a slice of exactly that size.
func Events(data []byte) ([]Event, error) {
	res, err := DecodeEvents(data, nil)
	if err != nil {
		return nil, err
	}
	events := make([]Event, res.Total)
	if _, err = DecodeEvents(data, events); err != nil {
		return nil, err
	}
	return events, nil
}

// lineEvent builds the event of one non-empty line. Malformed numbers are 0.
func lineEvent(data, line []byte, lineNo int) Event {
	ev := Event{Line: lineNo}
	kind, value := recognize(line)
	switch kind {
	case dirTargetDuration:
		ev.Kind = EventTargetDuration
		ev.A = spanOf(data, value)
		ev.ValueA = satMulSigned(orZero(ParseInt(value)), microsPerSecond)
	case dirMediaSequence:
		ev.Kind = EventMediaSequence
		ev.A = spanOf(data, value)
		ev.ValueA = orZero(ParseInt(value))
	case dirEndList:
		ev.Kind = EventEndList
	case dirExtInf:
		ev.Kind = EventExtInf
		dur, title, hasTitle := extInfFields(value)
		ev.A = spanOf(data, dur)
		if hasTitle {
			ev.B = spanOf(data, title)
		}
		ev.ValueA = int64(microsOrZero(ParseMicros(dur)))
	case dirStreamInf:
		ev.Kind = EventStreamInf
		ev.A = spanOf(data, value)
		ev.ValueA, _ = ParseBandwidth(value)
	case dirURI:
		ev.Kind = EventURI
		ev.A = spanOf(data, line)
	default:
		ev.Kind = EventUnknown
		ev.A = spanOf(data, line)
	}
	return ev
}
