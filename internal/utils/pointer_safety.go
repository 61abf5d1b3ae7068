package utils

// Ptr returns a pointer to v. Handy for building scope literals.
func Ptr[T any](v T) *T {
	return &v
}

// Value safely dereferences p, returning the zero value when p is nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
