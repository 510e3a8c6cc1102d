package filter

import "iter"

// Limit caps the sequence at the first n items. A limit of zero means no
// limit: the source sequence is returned unchanged. The cap is lazy; once n
// items have been yielded the source is never drawn from again, so Limit is
// safe on unbounded sequences. Negative limits are a caller bug and behave
// like an already exhausted sequence.
func Limit[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	switch {
	case n == 0:
		return seq
	case n < 0:
		return func(func(T) bool) {}
	}

	return func(yield func(T) bool) {
		taken := 0
		for v := range seq {
			if !yield(v) {
				return
			}
			taken++
			if taken >= n {
				return
			}
		}
	}
}
