// Package slices holds the generic slice helpers used across the module that
// golang.org/x/exp/slices does not provide.
package slices

// Remap converts every element of s through f, keeping order.
func Remap[S ~[]T, T, U any](s S, f func(int, T) U) []U {
	res := make([]U, len(s))
	for i, item := range s {
		res[i] = f(i, item)
	}
	return res
}

// Repeat returns n copies of v.
func Repeat[T any](v T, n int) []T {
	res := make([]T, n)
	for i := range res {
		res[i] = v
	}
	return res
}
