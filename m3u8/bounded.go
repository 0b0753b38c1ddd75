package m3u8

// bounded is a fixed-capacity output list. Writes past the capacity are
// dropped but still counted, so total is always the logical length.
type bounded[T any] struct {
	items []T
	total int
}

// newBounded stores into the backing array of buf, up to cap(buf) items.
func newBounded[T any](buf []T) bounded[T] {
	return bounded[T]{items: buf[:0]}
}

// write stores v if there is room and reports whether it did.
func (b *bounded[T]) write(v T) bool {
	b.total++
	if len(b.items) == cap(b.items) {
		return false
	}
	b.items = append(b.items, v)
	return true
}
