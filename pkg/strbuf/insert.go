package strbuf

import (
	"fmt"
	"math/big"
	"strconv"
)

// InsertByte inserts c before index. Inserting NUL is a no-op.
func (b *Buffer) InsertByte(index int, c byte) error {
	if c == 0 {
		return b.checkInsert(index)
	}
	return b.insertRaw(index, string(c))
}

// InsertString inserts s before index. Index Len() appends.
func (b *Buffer) InsertString(index int, s string) error {
	return b.insertRaw(index, cstr(s))
}

// InsertStringN inserts at most maxlen bytes of s before index.
func (b *Buffer) InsertStringN(index int, s string, maxlen int) error {
	if maxlen < 0 {
		return fmt.Errorf("%w: negative length %d", ErrOutOfBounds, maxlen)
	}
	s = cstr(s)
	if maxlen < len(s) {
		s = s[:maxlen]
	}
	return b.insertRaw(index, s)
}

func (b *Buffer) checkInsert(index int) error {
	if err := b.live(); err != nil {
		return err
	}
	if index < 0 || index > b.n {
		return fmt.Errorf("%w: insert at %d, length %d", ErrOutOfBounds, index, b.n)
	}
	return nil
}

// insertRaw builds prefix, s and suffix into fresh storage, then swaps it in.
func (b *Buffer) insertRaw(index int, s string) error {
	if err := b.checkInsert(index); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	n := b.n + len(s)
	size, err := b.growTo(n)
	if err != nil {
		return err
	}
	data, err := allocate(b.alloc, size)
	if err != nil {
		return err
	}
	copy(data, b.data[:index])
	copy(data[index:], s)
	copy(data[index+len(s):], b.data[index:b.n])
	b.swap(data, n)
	return nil
}

func (b *Buffer) InsertInt(index int, i int) error {
	return b.insertRaw(index, strconv.Itoa(i))
}

func (b *Buffer) InsertInt32(index int, i int32) error {
	return b.insertRaw(index, strconv.FormatInt(int64(i), 10))
}

func (b *Buffer) InsertInt64(index int, i int64) error {
	return b.insertRaw(index, strconv.FormatInt(i, 10))
}

func (b *Buffer) InsertUint(index int, u uint) error {
	return b.insertRaw(index, strconv.FormatUint(uint64(u), 10))
}

func (b *Buffer) InsertUint32(index int, u uint32) error {
	return b.insertRaw(index, strconv.FormatUint(uint64(u), 10))
}

func (b *Buffer) InsertUint64(index int, u uint64) error {
	return b.insertRaw(index, strconv.FormatUint(u, 10))
}

func (b *Buffer) InsertBigInt(index int, x *big.Int) error {
	if x == nil {
		return fmt.Errorf("%w: nil integer", ErrInvalidArgument)
	}
	return b.insertRaw(index, x.Text(10))
}
