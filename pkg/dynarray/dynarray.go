// Package dynarray is a growable array with the same power-of-two growth
// rule as strbuf, holding values of any type.
package dynarray

import (
	"errors"
	"fmt"

	"clz-go/internal/capacity"
)

// BaseCapacity is the smallest capacity an Array can have.
const BaseCapacity = 8

// findStart is the cursor value before the first FindNext.
const findStart = -1

var ErrOutOfBounds = errors.New("dynarray: index out of bounds")

// Array is not safe for concurrent use.
type Array[T any] struct {
	items []T // len(items) is the capacity
	n     int
	find  int
}

func New[T any]() *Array[T] {
	return NewSize[T](BaseCapacity)
}

// NewSize returns an empty array with at least min slots. Like make, it panics
// when min is too large to represent.
func NewSize[T any](min int) *Array[T] {
	return &Array[T]{items: make([]T, capacity.For(min, BaseCapacity)), find: findStart}
}

func (a *Array[T]) Len() int { return a.n }

func (a *Array[T]) Cap() int { return len(a.items) }

func (a *Array[T]) grow(need int) {
	if need <= len(a.items) {
		return
	}
	items := make([]T, capacity.For(need, BaseCapacity))
	copy(items, a.items[:a.n])
	a.items = items
}

// Append adds v at the end.
func (a *Array[T]) Append(v T) {
	a.grow(a.n + 1)
	a.items[a.n] = v
	a.n++
}

// Insert puts v before index; index Len() appends.
func (a *Array[T]) Insert(index int, v T) error {
	if index < 0 || index > a.n {
		return fmt.Errorf("%w: insert at %d, length %d", ErrOutOfBounds, index, a.n)
	}
	a.grow(a.n + 1)
	copy(a.items[index+1:], a.items[index:a.n])
	a.items[index] = v
	a.n++
	return nil
}

func (a *Array[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= a.n {
		return zero, fmt.Errorf("%w: get %d, length %d", ErrOutOfBounds, index, a.n)
	}
	return a.items[index], nil
}

func (a *Array[T]) Set(index int, v T) error {
	if index < 0 || index >= a.n {
		return fmt.Errorf("%w: set %d, length %d", ErrOutOfBounds, index, a.n)
	}
	a.items[index] = v
	return nil
}

// RemoveAt deletes the element at index and returns it.
func (a *Array[T]) RemoveAt(index int) (T, error) {
	v, err := a.Get(index)
	if err != nil {
		return v, err
	}
	copy(a.items[index:], a.items[index+1:a.n])
	a.n--
	var zero T
	a.items[a.n] = zero
	return v, nil
}

// RemoveFirst deletes the first element matching pred and reports whether one was found.
func (a *Array[T]) RemoveFirst(pred func(T) bool) bool {
	i := a.Find(pred)
	if i < 0 {
		return false
	}
	_, _ = a.RemoveAt(i)
	return true
}

// RemoveAll deletes every element matching pred, keeping the order of the rest,
// and returns how many were removed. The find cursor is reset.
func (a *Array[T]) RemoveAll(pred func(T) bool) int {
	w := 0
	for i := 0; i < a.n; i++ {
		if !pred(a.items[i]) {
			a.items[w] = a.items[i]
			w++
		}
	}
	removed := a.n - w
	clear(a.items[w:a.n])
	a.n = w
	a.FindReset()
	return removed
}

// ForEach calls fn on every element in order.
func (a *Array[T]) ForEach(fn func(T)) {
	for i := 0; i < a.n; i++ {
		fn(a.items[i])
	}
}

// ForEachIf calls fn on the elements matching pred.
func (a *Array[T]) ForEachIf(pred func(T) bool, fn func(T)) {
	a.ForEachIfElse(pred, fn, nil)
}

// ForEachIfElse calls ifFn on the elements matching pred and elseFn on the rest.
// Either consumer may be nil.
func (a *Array[T]) ForEachIfElse(pred func(T) bool, ifFn, elseFn func(T)) {
	for i := 0; i < a.n; i++ {
		v := a.items[i]
		switch {
		case pred(v):
			if ifFn != nil {
				ifFn(v)
			}
		case elseFn != nil:
			elseFn(v)
		}
	}
}

// Find returns the index of the first element matching pred, or -1.
func (a *Array[T]) Find(pred func(T) bool) int {
	for i := 0; i < a.n; i++ {
		if pred(a.items[i]) {
			return i
		}
	}
	return -1
}

// FindNext resumes the search after the previous match. It returns -1 once
// no element is left, and keeps returning -1 until FindReset.
func (a *Array[T]) FindNext(pred func(T) bool) int {
	if a.find >= a.n {
		return -1
	}
	for i := a.find + 1; i < a.n; i++ {
		if pred(a.items[i]) {
			a.find = i
			return i
		}
	}
	a.find = a.n
	return -1
}

func (a *Array[T]) FindReset() { a.find = findStart }

// Compress shrinks the capacity to the smallest power of two holding the elements.
func (a *Array[T]) Compress() {
	size := capacity.For(a.n, BaseCapacity)
	if size == len(a.items) {
		return
	}
	items := make([]T, size)
	copy(items, a.items[:a.n])
	a.items = items
}

// Clear drops every element and keeps the capacity.
func (a *Array[T]) Clear() {
	clear(a.items[:a.n])
	a.n = 0
	a.FindReset()
}

// Values returns a copy of the elements.
func (a *Array[T]) Values() []T {
	out := make([]T, a.n)
	copy(out, a.items[:a.n])
	return out
}
