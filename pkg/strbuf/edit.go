package strbuf

import (
	"fmt"
	"strings"
)

// TrimRange keeps only [start, end). end is clamped to Len(); a start at or past
// the end clears the content. The capacity is kept.
func (b *Buffer) TrimRange(start, end int) error {
	if err := b.live(); err != nil {
		return err
	}
	if start < 0 || end < 0 {
		return fmt.Errorf("%w: trim [%d, %d)", ErrOutOfBounds, start, end)
	}
	end = min(end, b.n)
	if start >= end {
		b.setLen(0)
		return nil
	}
	copy(b.data, b.data[start:end])
	b.setLen(end - start)
	return nil
}

// TrimLength truncates the content to at most n bytes.
func (b *Buffer) TrimLength(n int) error {
	return b.TrimRange(0, n)
}

// TrimLeft strips leading spaces.
func (b *Buffer) TrimLeft() { b.TrimLeftByte(' ') }

// TrimLeftByte strips every leading c.
func (b *Buffer) TrimLeftByte(c byte) {
	i := 0
	for i < b.n && b.data[i] == c {
		i++
	}
	if i == 0 {
		return
	}
	copy(b.data, b.data[i:b.n])
	b.setLen(b.n - i)
}

// TrimRight strips trailing spaces.
func (b *Buffer) TrimRight() { b.TrimRightByte(' ') }

// TrimRightByte strips every trailing c. An empty buffer is left alone.
func (b *Buffer) TrimRightByte(c byte) {
	i := b.n
	for i > 0 && b.data[i-1] == c {
		i--
	}
	if i != b.n {
		b.setLen(i)
	}
}

// PadLeft prepends copies of c until the content is exactly size bytes.
// A content longer than size is an error.
func (b *Buffer) PadLeft(c byte, size int) error {
	pad, err := b.padding(c, size)
	if err != nil || pad == "" {
		return err
	}
	return b.insertRaw(0, pad)
}

// PadRight appends copies of c until the content is exactly size bytes.
func (b *Buffer) PadRight(c byte, size int) error {
	pad, err := b.padding(c, size)
	if err != nil || pad == "" {
		return err
	}
	return b.appendRaw(pad)
}

func (b *Buffer) padding(c byte, size int) (string, error) {
	if err := b.live(); err != nil {
		return "", err
	}
	if c == 0 {
		return "", fmt.Errorf("%w: NUL padding", ErrInvalidArgument)
	}
	if b.n > size {
		return "", fmt.Errorf("%w: length %d exceeds pad size %d", ErrOutOfBounds, b.n, size)
	}
	return strings.Repeat(string(c), size-b.n), nil
}

// RemoveAt deletes the byte at index.
func (b *Buffer) RemoveAt(index int) error {
	if err := b.live(); err != nil {
		return err
	}
	if index < 0 || index >= b.n {
		return fmt.Errorf("%w: remove at %d, length %d", ErrOutOfBounds, index, b.n)
	}
	copy(b.data[index:], b.data[index+1:b.n])
	b.setLen(b.n - 1)
	return nil
}

// RemoveRange deletes [start, end), clamping end to Len().
func (b *Buffer) RemoveRange(start, end int) error {
	if err := b.live(); err != nil {
		return err
	}
	if start < 0 || start >= end || start >= b.n {
		return fmt.Errorf("%w: remove [%d, %d), length %d", ErrOutOfBounds, start, end, b.n)
	}
	end = min(end, b.n)
	copy(b.data[start:], b.data[end:b.n])
	b.setLen(b.n - (end - start))
	return nil
}

// ToLower maps ASCII upper case letters to lower case.
func (b *Buffer) ToLower() {
	for i, c := range b.content() {
		if 'A' <= c && c <= 'Z' {
			b.data[i] = c + 'a' - 'A'
		}
	}
}

// ToUpper maps ASCII lower case letters to upper case.
func (b *Buffer) ToUpper() {
	for i, c := range b.content() {
		if 'a' <= c && c <= 'z' {
			b.data[i] = c - ('a' - 'A')
		}
	}
}

// Reverse reverses the content bytes.
func (b *Buffer) Reverse() {
	s := b.content()
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
