// Package strbuf implements a growable, NUL-terminated byte buffer whose
// capacity is always a power of two no smaller than BaseCapacity.
//
// A Buffer is owned by one writer at a time and does no locking. Every
// operation either succeeds and leaves the buffer valid, or fails and leaves it
// exactly as it was. Operations that need new storage allocate it first, copy,
// swap it into the Buffer and only then release the old storage.
//
// String arguments follow C-string rules: they are cut at their first NUL byte,
// so the content of a Buffer never contains NUL.
package strbuf

import (
	"fmt"
	"strings"

	"clz-go/internal/capacity"
)

// BaseCapacity is the smallest capacity a Buffer can have.
const BaseCapacity = 32

// Buffer is a growable byte string. The zero value is not usable; create
// buffers with New, NewSize, NewString or Clone.
type Buffer struct {
	data  []byte // len(data) is the capacity, data[n] == 0
	n     int
	alloc Allocator
}

// Option configures a Buffer at construction.
type Option func(*Buffer)

// WithAllocator makes the Buffer, and its clones, draw storage from a.
func WithAllocator(a Allocator) Option {
	return func(b *Buffer) {
		if a != nil {
			b.alloc = a
		}
	}
}

// New returns an empty buffer with BaseCapacity.
func New(opts ...Option) (*Buffer, error) {
	return NewSize(BaseCapacity, opts...)
}

// NewSize returns an empty buffer whose capacity is BaseCapacity when min <= BaseCapacity,
// otherwise the least power of two >= min.
func NewSize(min int, opts ...Option) (*Buffer, error) {
	b := &Buffer{alloc: HeapAllocator{}}
	for _, opt := range opts {
		opt(b)
	}
	size, err := sizeFor(min)
	if err != nil {
		return nil, err
	}
	data, err := allocate(b.alloc, size)
	if err != nil {
		return nil, err
	}
	data[0] = 0
	b.data = data
	return b, nil
}

// NewString returns a buffer holding s with the smallest fitting capacity.
func NewString(s string, opts ...Option) (*Buffer, error) {
	s = cstr(s)
	b, err := NewSize(len(s)+1, opts...)
	if err != nil {
		return nil, err
	}
	b.n = copy(b.data, s)
	b.data[b.n] = 0
	return b, nil
}

// Clone returns an independent copy of b. With preserveCap the copy has b's
// capacity, otherwise the smallest capacity that fits the content.
func (b *Buffer) Clone(preserveCap bool) (*Buffer, error) {
	if err := b.live(); err != nil {
		return nil, err
	}
	size := capacity.For(b.n+1, BaseCapacity)
	if preserveCap {
		size = len(b.data)
	}
	data, err := allocate(b.alloc, size)
	if err != nil {
		return nil, err
	}
	copy(data, b.data[:b.n+1])
	return &Buffer{data: data, n: b.n, alloc: b.alloc}, nil
}

// Release returns the storage to the allocator. Any later mutation fails with ErrReleased.
func (b *Buffer) Release() {
	if b.data == nil {
		return
	}
	old := b.data
	b.data = nil
	b.n = 0
	b.alloc.Free(old)
}

// Cap returns the capacity in bytes, terminator included.
func (b *Buffer) Cap() int { return len(b.data) }

// Len returns the number of content bytes.
func (b *Buffer) Len() int { return b.n }

func (b *Buffer) String() string {
	if b.data == nil {
		return ""
	}
	return string(b.data[:b.n])
}

// Bytes returns a copy of the content without the terminator.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.n)
	copy(out, b.data[:b.n])
	return out
}

// Resize grows the capacity to hold at least min bytes. It reports whether the
// storage changed; a min that already fits is a no-op. A min smaller than
// Len()+1 is rejected with ErrTooSmall. Resize never shrinks, see Compress.
func (b *Buffer) Resize(min int) (bool, error) {
	if err := b.live(); err != nil {
		return false, err
	}
	if min < b.n+1 {
		return false, fmt.Errorf("%w: %d < %d", ErrTooSmall, min, b.n+1)
	}
	size, err := sizeFor(min)
	if err != nil {
		return false, err
	}
	if size <= len(b.data) {
		return false, nil
	}
	if err := b.realloc(size); err != nil {
		return false, err
	}
	return true, nil
}

// Compress shrinks the capacity to the smallest power of two that holds the content.
func (b *Buffer) Compress() error {
	if err := b.live(); err != nil {
		return err
	}
	size := capacity.For(b.n+1, BaseCapacity)
	if size == len(b.data) {
		return nil
	}
	return b.realloc(size)
}

// Reset clears the content and keeps the capacity.
func (b *Buffer) Reset() {
	if b.data == nil {
		return
	}
	b.setLen(0)
}

func (b *Buffer) live() error {
	if b.data == nil {
		return ErrReleased
	}
	return nil
}

// ensure makes room for need bytes, terminator included.
func (b *Buffer) ensure(need int) error {
	if need <= len(b.data) {
		return nil
	}
	_, err := b.Resize(need)
	return err
}

// realloc moves the content into fresh storage of exactly size bytes.
func (b *Buffer) realloc(size int) error {
	data, err := allocate(b.alloc, size)
	if err != nil {
		return err
	}
	copy(data, b.data[:b.n+1])
	b.swap(data, b.n)
	return nil
}

// swap installs data holding n content bytes and frees the previous storage.
func (b *Buffer) swap(data []byte, n int) {
	old := b.data
	b.data = data
	b.setLen(n)
	b.alloc.Free(old)
}

func (b *Buffer) setLen(n int) {
	b.n = n
	b.data[n] = 0
}

// growTo is the capacity for a rebuilt buffer of n content bytes; it never shrinks.
func (b *Buffer) growTo(n int) (int, error) {
	if n < 0 || n >= capacity.Max {
		return 0, fmt.Errorf("%w: %d content bytes", ErrAllocationFailed, n)
	}
	size, err := sizeFor(n + 1)
	if err != nil {
		return 0, err
	}
	return max(len(b.data), size), nil
}

// sizeFor rounds a request of n bytes to a capacity, failing when it cannot be represented.
func sizeFor(n int) (int, error) {
	size := capacity.For(n, BaseCapacity)
	if size < 0 {
		return 0, fmt.Errorf("%w: %d bytes exceeds %d", ErrAllocationFailed, n, capacity.Max)
	}
	return size, nil
}

func cstr(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}
