package strbuf

import (
	"errors"
	"fmt"
)

// Allocator hands out storage for buffers. Alloc must return at least size bytes;
// their contents are unspecified, so recycled slices need not be zeroed. Free is
// called exactly once for every slice a buffer stops using.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(p []byte)
}

// HeapAllocator allocates from the Go heap. Free is a no-op; the collector reclaims storage.
type HeapAllocator struct{}

// Alloc returns zeroed heap storage. Sizes the runtime cannot serve fail with
// ErrAllocationFailed instead of panicking.
func (HeapAllocator) Alloc(size int) (p []byte, err error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrAllocationFailed, size)
	}
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("%w: %d bytes: %v", ErrAllocationFailed, size, r)
		}
	}()
	return make([]byte, size), nil
}

func (HeapAllocator) Free([]byte) {}

// LimitAllocator refuses any request larger than Max bytes and delegates the rest to Next
// (HeapAllocator when nil). It makes memory pressure reproducible.
type LimitAllocator struct {
	Max  int
	Next Allocator
}

func (l LimitAllocator) Alloc(size int) ([]byte, error) {
	if l.Max > 0 && size > l.Max {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrAllocationFailed, size, l.Max)
	}
	return l.next().Alloc(size)
}

func (l LimitAllocator) Free(p []byte) {
	l.next().Free(p)
}

func (l LimitAllocator) next() Allocator {
	if l.Next == nil {
		return HeapAllocator{}
	}
	return l.Next
}

// allocate asks a for size bytes and normalises any failure to ErrAllocationFailed.
func allocate(a Allocator, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrAllocationFailed, size)
	}
	p, err := a.Alloc(size)
	if err != nil {
		if !errors.Is(err, ErrAllocationFailed) {
			err = fmt.Errorf("%w: %v", ErrAllocationFailed, err)
		}
		return nil, err
	}
	if len(p) < size {
		return nil, fmt.Errorf("%w: allocator returned %d of %d bytes", ErrAllocationFailed, len(p), size)
	}
	return p[:size], nil
}
