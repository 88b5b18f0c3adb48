package strbuf

import (
	"bytes"
	"fmt"
)

// IndexByte returns the offset of the first c, or NotFound and ErrNotFound.
func (b *Buffer) IndexByte(c byte) (int, error) {
	return found(bytes.IndexByte(b.content(), c), c == 0)
}

// LastIndexByte returns the offset of the last c, or NotFound and ErrNotFound.
func (b *Buffer) LastIndexByte(c byte) (int, error) {
	return found(bytes.LastIndexByte(b.content(), c), c == 0)
}

// Index returns the offset of the first occurrence of s. An empty s matches at 0.
func (b *Buffer) Index(s string) (int, error) {
	s = cstr(s)
	if s == "" {
		return 0, nil
	}
	return found(bytes.Index(b.content(), []byte(s)), false)
}

// LastIndex returns the offset of the last occurrence of s. An empty s matches at 0.
func (b *Buffer) LastIndex(s string) (int, error) {
	s = cstr(s)
	if s == "" {
		return 0, nil
	}
	return found(bytes.LastIndex(b.content(), []byte(s)), false)
}

// Count returns the number of non-overlapping occurrences of s; zero for an empty s.
func (b *Buffer) Count(s string) int {
	s = cstr(s)
	if s == "" {
		return 0
	}
	return bytes.Count(b.content(), []byte(s))
}

func (b *Buffer) HasPrefix(s string) bool {
	return bytes.HasPrefix(b.content(), []byte(cstr(s)))
}

func (b *Buffer) HasSuffix(s string) bool {
	return bytes.HasSuffix(b.content(), []byte(cstr(s)))
}

// Equal reports whether b and o hold the same content. A nil o equals nothing.
func (b *Buffer) Equal(o *Buffer) bool {
	if o == nil {
		return false
	}
	return bytes.Equal(b.content(), o.content())
}

// ReplaceByte replaces the first c with v in place and returns its offset.
func (b *Buffer) ReplaceByte(c, v byte) (int, error) {
	if v == 0 {
		return GeneralFail, fmt.Errorf("%w: NUL replacement", ErrInvalidArgument)
	}
	i, err := b.IndexByte(c)
	if err != nil {
		return i, err
	}
	b.data[i] = v
	return i, nil
}

// ReplaceAllByte replaces every c with v in place and returns the count.
func (b *Buffer) ReplaceAllByte(c, v byte) int {
	if c == 0 || v == 0 {
		return 0
	}
	count := 0
	for i, x := range b.content() {
		if x == c {
			b.data[i] = v
			count++
		}
	}
	return count
}

// Replace replaces the first occurrence of old with repl and returns the offset
// of the match. A miss returns NotFound and ErrNotFound; an allocation failure
// returns GeneralFail and leaves b unchanged.
func (b *Buffer) Replace(old, repl string) (int, error) {
	if err := b.live(); err != nil {
		return GeneralFail, err
	}
	old, repl = cstr(old), cstr(repl)
	if old == "" {
		return NotFound, ErrNotFound
	}
	i, err := b.Index(old)
	if err != nil {
		return i, err
	}
	n := b.n - len(old) + len(repl)
	size, err := b.growTo(n)
	if err != nil {
		return GeneralFail, err
	}
	data, err := allocate(b.alloc, size)
	if err != nil {
		return GeneralFail, err
	}
	copy(data, b.data[:i])
	copy(data[i:], repl)
	copy(data[i+len(repl):], b.data[i+len(old):b.n])
	b.swap(data, n)
	return i, nil
}

// ReplaceAll replaces every non-overlapping occurrence of old, scanning left to
// right, and returns the number of replacements. An empty old replaces nothing.
func (b *Buffer) ReplaceAll(old, repl string) (int, error) {
	if err := b.live(); err != nil {
		return 0, err
	}
	old, repl = cstr(old), cstr(repl)
	count := b.Count(old)
	if count == 0 {
		return 0, nil
	}
	n := b.n + count*(len(repl)-len(old))
	size, err := b.growTo(n)
	if err != nil {
		return 0, err
	}
	data, err := allocate(b.alloc, size)
	if err != nil {
		return 0, err
	}
	src, w := b.content(), 0
	for {
		i := bytes.Index(src, []byte(old))
		if i < 0 {
			break
		}
		w += copy(data[w:], src[:i])
		w += copy(data[w:], repl)
		src = src[i+len(old):]
	}
	copy(data[w:], src)
	b.swap(data, n)
	return count, nil
}

func (b *Buffer) content() []byte {
	if b.data == nil {
		return nil
	}
	return b.data[:b.n]
}

func found(i int, nul bool) (int, error) {
	if i < 0 || nul {
		return NotFound, ErrNotFound
	}
	return i, nil
}
