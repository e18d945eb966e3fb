// Package perm enumerates permutations for exhaustive layer ordering.
//
// The number of orderings of a layer grows factorially, so callers are
// expected to bound n themselves; [Factorial] helps decide whether an
// enumeration is affordable.
package perm

import "iter"

// Seq returns the identity permutation [0, 1, ..., n-1].
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n!, or 1 for n <= 1.
// 21! overflows int64; keep n small.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// All yields every permutation of [0, 1, ..., n-1] using Heap's algorithm.
// The identity permutation is always yielded first, and each permutation
// differs from the previous one by a single swap.
//
// The yielded slice is reused between iterations; clone it to keep it.
// For n <= 0, All yields a single empty permutation.
func All(n int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		p := Seq(n)
		if !yield(p) {
			return
		}
		state := make([]int, len(p))
		for i := 0; i < len(p); {
			if state[i] < i {
				if i&1 == 0 {
					p[0], p[i] = p[i], p[0]
				} else {
					p[state[i]], p[i] = p[i], p[state[i]]
				}
				if !yield(p) {
					return
				}
				state[i]++
				i = 0
			} else {
				state[i] = 0
				i++
			}
		}
	}
}

// Apply returns items rearranged so that result[i] = items[p[i]].
func Apply[T any](items []T, p []int) []T {
	out := make([]T, len(p))
	for i, j := range p {
		out[i] = items[j]
	}
	return out
}
