package cfg

// cmpOr returns the first of its arguments that is not equal to the zero
// value. It mirrors cmp.Or from the Go 1.22 standard library, which is not
// available on the Go 1.21 toolchain this module builds with.
func cmpOr[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}
