// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package rank

import "sort"

// Less reports whether a ranks strictly below b.
// The ordering must be total for Sorted to be deterministic.
type Less[T any] func(a, b T) bool

// TopK keeps the k highest-ranked values pushed into it.
// It is backed by a min-heap whose root is the weakest retained value,
// so each Push costs O(log k) and a full pass over n values is O(n log k).
//
// TopK is not safe for concurrent use; callers build one per computation.
type TopK[T any] struct {
	heap []T
	k    int
	less Less[T]
}

// NewTopK creates a selector that retains at most k values ordered by less.
// A k of zero or less retains nothing.
func NewTopK[T any](k int, less Less[T]) *TopK[T] {
	if k < 0 {
		k = 0
	}
	return &TopK[T]{
		heap: make([]T, 0, k),
		k:    k,
		less: less,
	}
}

// Push offers a value. It returns true if the value was retained.
func (t *TopK[T]) Push(v T) bool {
	if t.k == 0 {
		return false
	}

	if len(t.heap) < t.k {
		t.heap = append(t.heap, v)
		t.bubbleUp(len(t.heap) - 1)
		return true
	}

	// Full: replace the root only if v outranks it.
	if !t.less(t.heap[0], v) {
		return false
	}
	t.heap[0] = v
	t.bubbleDown(0)
	return true
}

// Len returns the number of retained values.
func (t *TopK[T]) Len() int {
	return len(t.heap)
}

// Min returns the weakest retained value.
func (t *TopK[T]) Min() (T, bool) {
	var zero T
	if len(t.heap) == 0 {
		return zero, false
	}
	return t.heap[0], true
}

// Sorted returns the retained values from highest to lowest rank.
// The selector itself is left untouched.
func (t *TopK[T]) Sorted() []T {
	out := make([]T, len(t.heap))
	copy(out, t.heap)
	sort.SliceStable(out, func(i, j int) bool {
		return t.less(out[j], out[i])
	})
	return out
}

// Select is a convenience wrapper that returns the top k of values.
func Select[T any](values []T, k int, less Less[T]) []T {
	top := NewTopK(k, less)
	for _, v := range values {
		top.Push(v)
	}
	return top.Sorted()
}

// bubbleUp moves the element at index i up to its correct position.
func (t *TopK[T]) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !t.less(t.heap[i], t.heap[parent]) {
			break
		}
		t.heap[i], t.heap[parent] = t.heap[parent], t.heap[i]
		i = parent
	}
}

// bubbleDown moves the element at index i down to its correct position.
func (t *TopK[T]) bubbleDown(i int) {
	n := len(t.heap)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && t.less(t.heap[left], t.heap[smallest]) {
			smallest = left
		}
		if right < n && t.less(t.heap[right], t.heap[smallest]) {
			smallest = right
		}
		if smallest == i {
			return
		}

		t.heap[i], t.heap[smallest] = t.heap[smallest], t.heap[i]
		i = smallest
	}
}
