package m3u8

import "errors"

// Status codes returned by StatusCode.
const (
	StatusOK                   = 0
	StatusInvalidArgument      = -1
	StatusMalformedHeader      = -2
	StatusUnsupportedDirective = -3
	StatusOther                = -4
)

// StatusCode maps an error returned by this package to the integer status
// used by C callers of the parser: 0 for success and a negative code per
// error class.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	case errors.Is(err, ErrMalformedHeader):
		return StatusMalformedHeader
	case errors.Is(err, ErrUnsupportedDirective):
		return StatusUnsupportedDirective
	}
	return StatusOther
}
