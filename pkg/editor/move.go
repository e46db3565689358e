package editor

// move relocates the element at from to index to, shifting the elements in
// between. It returns a new slice and leaves items untouched.
func move[T any](items []T, from, to int) []T {
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	item := items[from]
	out = append(out, item)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = item
	return out
}
