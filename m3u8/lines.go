package m3u8

import "bytes"

// lineScanner walks a buffer record by record. Records are separated by
// '\n' and lose one trailing '\r'. Line numbers count every record,
// blank ones included.
type lineScanner struct {
	data []byte
	pos  int // offset of the next record, len(data)+1 once exhausted
	line int // line number of the last record returned
}

func newLineScanner(data []byte) lineScanner {
	return lineScanner{data: data}
}

// record returns the next raw record, which may be empty.
func (s *lineScanner) record() ([]byte, bool) {
	if s.pos > len(s.data) {
		return nil, false
	}
	rest := s.data[s.pos:]
	var rec []byte
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rec = rest[:i]
		s.pos += i + 1
	} else {
		rec = rest
		s.pos = len(s.data) + 1
	}
	s.line++
	return trimCR(rec), true
}

// header returns the first record of the buffer.
func (s *lineScanner) header() []byte {
	rec, _ := s.record()
	return rec
}

// next returns the next non-empty record and its line number.
func (s *lineScanner) next() ([]byte, int, bool) {
	for {
		rec, ok := s.record()
		if !ok {
			return nil, s.line, false
		}
		if len(rec) > 0 {
			return rec, s.line, true
		}
	}
}

// trimCR removes one trailing '\r'.
func trimCR(line []byte) []byte {
	if l := len(line); l > 0 && line[l-1] == '\r' {
		return line[:l-1]
	}
	return line
}
