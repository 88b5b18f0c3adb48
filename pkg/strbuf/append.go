package strbuf

import (
	"fmt"
	"math/big"
	"strconv"
)

// AppendByte appends c. Appending NUL is a no-op.
func (b *Buffer) AppendByte(c byte) error {
	if c == 0 {
		return b.live()
	}
	return b.appendRaw(string(c))
}

// AppendString appends s.
func (b *Buffer) AppendString(s string) error {
	return b.appendRaw(cstr(s))
}

// AppendStringN appends at most n bytes of s.
func (b *Buffer) AppendStringN(s string, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", ErrOutOfBounds, n)
	}
	s = cstr(s)
	if n < len(s) {
		s = s[:n]
	}
	return b.appendRaw(s)
}

func (b *Buffer) appendRaw(s string) error {
	if err := b.live(); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	if err := b.ensure(b.n + len(s) + 1); err != nil {
		return err
	}
	copy(b.data[b.n:], s)
	b.setLen(b.n + len(s))
	return nil
}

// AppendInt appends i in decimal.
func (b *Buffer) AppendInt(i int) error { return b.appendRaw(strconv.Itoa(i)) }

func (b *Buffer) AppendInt32(i int32) error { return b.appendRaw(strconv.FormatInt(int64(i), 10)) }

func (b *Buffer) AppendInt64(i int64) error { return b.appendRaw(strconv.FormatInt(i, 10)) }

func (b *Buffer) AppendUint(u uint) error { return b.appendRaw(strconv.FormatUint(uint64(u), 10)) }

func (b *Buffer) AppendUint32(u uint32) error { return b.appendRaw(strconv.FormatUint(uint64(u), 10)) }

func (b *Buffer) AppendUint64(u uint64) error { return b.appendRaw(strconv.FormatUint(u, 10)) }

// AppendBigInt appends an integer of arbitrary width in decimal.
func (b *Buffer) AppendBigInt(x *big.Int) error {
	if x == nil {
		return fmt.Errorf("%w: nil integer", ErrInvalidArgument)
	}
	return b.appendRaw(x.Text(10))
}

// WriteLine appends s followed by a newline.
func (b *Buffer) WriteLine(s string) error {
	if err := b.AppendString(s); err != nil {
		return err
	}
	return b.appendRaw("\n")
}

// Writef appends a formatted string.
func (b *Buffer) Writef(format string, args ...any) error {
	return b.AppendString(fmt.Sprintf(format, args...))
}
