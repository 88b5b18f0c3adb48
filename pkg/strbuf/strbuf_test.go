package strbuf

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clz-go/internal/capacity"
)

// countingAllocator tracks outstanding storage so tests can check that every
// swap releases exactly what it replaced.
type countingAllocator struct {
	max    int
	allocs int
	frees  int
}

func (a *countingAllocator) Alloc(size int) ([]byte, error) {
	if a.max > 0 && size > a.max {
		return nil, fmt.Errorf("%w: %d", ErrAllocationFailed, size)
	}
	a.allocs++
	return make([]byte, size), nil
}

func (a *countingAllocator) Free([]byte) { a.frees++ }

func (a *countingAllocator) live() int { return a.allocs - a.frees }

func mustString(t *testing.T, s string, opts ...Option) *Buffer {
	t.Helper()
	b, err := NewString(s, opts...)
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	assert.Equal(t, BaseCapacity, b.Cap())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "", b.String())

	b = mustString(t, "hello")
	assert.Equal(t, "hello", b.String())
	assert.Equal(t, BaseCapacity, b.Cap())
}

func TestNewSizeRounding(t *testing.T) {
	for n := 0; n <= 2048; n++ {
		b, err := NewSize(n)
		require.NoError(t, err)
		c := b.Cap()
		require.True(t, capacity.IsPow2(c), "cap %d for %d", c, n)
		if n <= BaseCapacity {
			require.Equal(t, BaseCapacity, c, "min %d", n)
		} else {
			require.GreaterOrEqual(t, c, n)
			require.Less(t, c/2, n)
		}
	}

	small := []int{0, 1, 2, 3, 4, 7, 8, 15, 16, 20, 30, 32}
	for _, n := range small {
		b, err := NewSize(n)
		require.NoError(t, err)
		assert.Equal(t, 32, b.Cap())
	}
	b, err := NewSize(33)
	require.NoError(t, err)
	assert.Equal(t, 64, b.Cap())
	b, err = NewSize(BaseCapacity + 2)
	require.NoError(t, err)
	assert.Equal(t, BaseCapacity*2, b.Cap())
}

func TestNewStringCutsAtNUL(t *testing.T) {
	b := mustString(t, "abc\x00def")
	assert.Equal(t, "abc", b.String())
	require.NoError(t, b.AppendString("x\x00y"))
	assert.Equal(t, "abcx", b.String())
	require.NoError(t, b.AppendByte(0))
	assert.Equal(t, 4, b.Len())
}

func TestAppendCrossesBoundary(t *testing.T) {
	s := strings.Repeat("a", 31)
	b := mustString(t, s)
	require.Equal(t, 32, b.Cap())

	require.NoError(t, b.AppendByte('X'))
	assert.Equal(t, 32, b.Len())
	assert.Equal(t, 64, b.Cap())
	assert.Equal(t, s+"X", b.String())
}

func TestAppendFamily(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	require.NoError(t, b.AppendString("n="))
	require.NoError(t, b.AppendInt(-42))
	require.NoError(t, b.AppendByte(' '))
	require.NoError(t, b.AppendInt32(math.MinInt32))
	require.NoError(t, b.AppendByte(' '))
	require.NoError(t, b.AppendInt64(math.MaxInt64))
	require.NoError(t, b.AppendByte(' '))
	require.NoError(t, b.AppendUint(0))
	require.NoError(t, b.AppendByte(' '))
	require.NoError(t, b.AppendUint32(math.MaxUint32))
	require.NoError(t, b.AppendByte(' '))
	require.NoError(t, b.AppendUint64(math.MaxUint64))
	assert.Equal(t, "n=-42 -2147483648 9223372036854775807 0 4294967295 18446744073709551615", b.String())

	b.Reset()
	x, _ := new(big.Int).SetString("-340282366920938463463374607431768211455", 10)
	require.NoError(t, b.AppendBigInt(x))
	assert.Equal(t, "-340282366920938463463374607431768211455", b.String())
	assert.ErrorIs(t, b.AppendBigInt(nil), ErrInvalidArgument)
}

func TestAppendStringN(t *testing.T) {
	b := mustString(t, "ab")
	require.NoError(t, b.AppendStringN("cdef", 2))
	assert.Equal(t, "abcd", b.String())
	require.NoError(t, b.AppendStringN("xy", 10))
	assert.Equal(t, "abcdxy", b.String())
	require.NoError(t, b.AppendStringN("zzz", 0))
	assert.Equal(t, "abcdxy", b.String())
	assert.ErrorIs(t, b.AppendStringN("z", -1), ErrOutOfBounds)
}

func TestWriteHelpers(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	require.NoError(t, b.AppendString("Hello, "))
	require.NoError(t, b.WriteLine("World!"))
	require.NoError(t, b.Writef("Number: %d", 42))
	assert.Equal(t, "Hello, World!\nNumber: 42", b.String())

	b.Reset()
	assert.Equal(t, "", b.String())
	assert.Equal(t, BaseCapacity, b.Cap())
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name  string
		start string
		index int
		s     string
		max   int
		want  string
	}{
		{"head", "world", 0, "hello ", 100, "hello world"},
		{"middle", "helo", 2, "l", 100, "hello"},
		{"end", "abc", 3, "def", 100, "abcdef"},
		{"bounded", "ad", 1, "bcXYZ", 2, "abcd"},
		{"empty", "abc", 1, "", 100, "abc"},
		{"into empty", "", 0, "abc", 100, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustString(t, tt.start)
			require.NoError(t, b.InsertStringN(tt.index, tt.s, tt.max))
			assert.Equal(t, tt.want, b.String())
		})
	}
}

func TestInsertOutOfBounds(t *testing.T) {
	b := mustString(t, "abc")
	assert.ErrorIs(t, b.InsertString(4, "x"), ErrOutOfBounds)
	assert.ErrorIs(t, b.InsertString(-1, "x"), ErrOutOfBounds)
	assert.ErrorIs(t, b.InsertByte(10, 'x'), ErrOutOfBounds)
	assert.ErrorIs(t, b.InsertByte(10, 0), ErrOutOfBounds)
	assert.Equal(t, "abc", b.String())
}

func TestInsertFamily(t *testing.T) {
	b := mustString(t, "[]")
	require.NoError(t, b.InsertInt(1, -7))
	require.NoError(t, b.InsertByte(0, '>'))
	require.NoError(t, b.InsertUint64(b.Len(), 18446744073709551615))
	require.NoError(t, b.InsertInt32(0, 1))
	require.NoError(t, b.InsertInt64(0, -2))
	require.NoError(t, b.InsertUint(0, 3))
	require.NoError(t, b.InsertUint32(0, 4))
	require.NoError(t, b.InsertBigInt(0, big.NewInt(5)))
	assert.Equal(t, "543-21>[-7]18446744073709551615", b.String())
}

func TestInsertAtEndEqualsAppend(t *testing.T) {
	for _, s := range []string{"", "x", strings.Repeat("long ", 20)} {
		a := mustString(t, "prefix-")
		b := mustString(t, "prefix-")
		require.NoError(t, a.AppendString(s))
		require.NoError(t, b.InsertString(b.Len(), s))
		assert.Equal(t, a.String(), b.String())
	}
}

func TestInsertSwapsStorage(t *testing.T) {
	ca := &countingAllocator{}
	b := mustString(t, "ac", WithAllocator(ca))
	require.NoError(t, b.InsertByte(1, 'b'))
	assert.Equal(t, "abc", b.String())
	assert.Equal(t, 2, ca.allocs)
	assert.Equal(t, 1, ca.live())

	b.Release()
	assert.Equal(t, 0, ca.live())
	b.Release()
	assert.Equal(t, 0, ca.live())
}

func TestResize(t *testing.T) {
	b := mustString(t, "Hello.")

	changed, err := b.Resize(3)
	assert.ErrorIs(t, err, ErrTooSmall)
	assert.False(t, changed)

	changed, err = b.Resize(20)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 32, b.Cap())

	changed, err = b.Resize(100)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 128, b.Cap())
	assert.Equal(t, "Hello.", b.String())

	changed, err = b.Resize(50)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 128, b.Cap())
}

func TestOversizedRequestsFail(t *testing.T) {
	if capacity.Max < 1<<40 {
		t.Skip("needs a 64-bit int")
	}
	tests := []struct {
		name string
		min  int
	}{
		{"max int", math.MaxInt},
		{"above max", capacity.Max + 1},
		{"max power of two", capacity.Max},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustString(t, "Hello.")
			changed, err := b.Resize(tt.min)
			assert.ErrorIs(t, err, ErrAllocationFailed)
			assert.False(t, changed)
			assert.Equal(t, "Hello.", b.String())
			assert.Equal(t, 32, b.Cap())

			_, err = NewSize(tt.min)
			assert.ErrorIs(t, err, ErrAllocationFailed)
		})
	}
}

func TestCompress(t *testing.T) {
	b, err := NewSize(1024)
	require.NoError(t, err)
	require.NoError(t, b.AppendString("Hello."))
	require.Equal(t, 1024, b.Cap())

	require.NoError(t, b.Compress())
	assert.Equal(t, 32, b.Cap())
	assert.Equal(t, "Hello.", b.String())

	long := strings.Repeat("z", 100)
	b, err = NewSize(4096)
	require.NoError(t, err)
	require.NoError(t, b.AppendString(long))
	require.NoError(t, b.Compress())
	assert.Equal(t, 128, b.Cap())
	assert.Equal(t, long, b.String())
}

func TestClone(t *testing.T) {
	b, err := NewSize(512)
	require.NoError(t, err)
	require.NoError(t, b.AppendString("clone me"))

	same, err := b.Clone(true)
	require.NoError(t, err)
	assert.Equal(t, b.String(), same.String())
	assert.Equal(t, b.Len(), same.Len())
	assert.Equal(t, 512, same.Cap())

	fit, err := b.Clone(false)
	require.NoError(t, err)
	assert.Equal(t, b.String(), fit.String())
	assert.Equal(t, 32, fit.Cap())

	require.NoError(t, fit.AppendByte('!'))
	assert.Equal(t, "clone me", b.String())
	assert.True(t, b.Equal(same))
	assert.False(t, b.Equal(fit))
	assert.False(t, b.Equal(nil))
}

func TestAllocationFailureLeavesBufferIntact(t *testing.T) {
	ca := &countingAllocator{max: 32}
	b := mustString(t, "abc", WithAllocator(ca))
	long := strings.Repeat("x", 40)

	ops := map[string]func() error{
		"append": func() error { return b.AppendString(long) },
		"insert": func() error { return b.InsertString(1, long) },
		"pad":    func() error { return b.PadLeft('-', 64) },
		"resize": func() error { _, err := b.Resize(33); return err },
		"replace": func() error {
			i, err := b.Replace("b", long)
			assert.Equal(t, GeneralFail, i)
			return err
		},
		"replace all": func() error { _, err := b.ReplaceAll("b", long); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(), ErrAllocationFailed)
			assert.Equal(t, "abc", b.String())
			assert.Equal(t, 32, b.Cap())
			assert.Equal(t, 1, ca.live())
		})
	}

	_, err := NewSize(64, WithAllocator(LimitAllocator{Max: 32}))
	assert.ErrorIs(t, err, ErrAllocationFailed)
}

func TestFind(t *testing.T) {
	b := mustString(t, "abcabc")

	i, err := b.IndexByte('b')
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	i, err = b.LastIndexByte('b')
	require.NoError(t, err)
	assert.Equal(t, 4, i)
	i, err = b.IndexByte('z')
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, NotFound, i)
	_, err = b.IndexByte(0)
	assert.ErrorIs(t, err, ErrNotFound)

	i, err = b.Index("ca")
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	i, err = b.LastIndex("bc")
	require.NoError(t, err)
	assert.Equal(t, 4, i)
	_, err = b.LastIndex("cb")
	assert.ErrorIs(t, err, ErrNotFound)

	i, err = b.Index("")
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	i, err = b.LastIndex("")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	assert.Equal(t, 2, b.Count("abc"))
	assert.True(t, b.HasPrefix("abca"))
	assert.True(t, b.HasSuffix("cabc"))
}

func TestFindEmptyBuffer(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	_, err = b.IndexByte('a')
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = b.LastIndexByte('a')
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = b.Index("a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = b.LastIndex("a")
	assert.ErrorIs(t, err, ErrNotFound)
	i, err := b.Index("")
	require.NoError(t, err)
	assert.Equal(t, 0, i)
}

func TestReplaceByte(t *testing.T) {
	b := mustString(t, "a.b.c")
	i, err := b.ReplaceByte('.', '/')
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Equal(t, "a/b.c", b.String())

	_, err = b.ReplaceByte('?', '/')
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = b.ReplaceByte('a', 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, 2, b.ReplaceAllByte('/', '-')+b.ReplaceAllByte('.', '-'))
	assert.Equal(t, "a-b-c", b.String())
	assert.Equal(t, 0, b.ReplaceAllByte('x', 'y'))
	assert.Equal(t, 0, b.ReplaceAllByte('a', 0))
}

func TestReplace(t *testing.T) {
	b := mustString(t, "one two two")
	i, err := b.Replace("two", "three")
	require.NoError(t, err)
	assert.Equal(t, 4, i)
	assert.Equal(t, "one three two", b.String())

	i, err = b.Replace("four", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, NotFound, i)

	_, err = b.Replace("", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	i, err = b.Replace("one ", "")
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.Equal(t, "three two", b.String())
}

func TestReplaceAll(t *testing.T) {
	b := mustString(t, "aXbXcX")
	n, err := b.ReplaceAll("X", "YZ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "aYZbYZcYZ", b.String())

	n, err = b.ReplaceAll("YZ", "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", b.String())

	b = mustString(t, "aaaa")
	n, err = b.ReplaceAll("aa", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "bb", b.String())

	n, err = b.ReplaceAll("", "x")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	b = mustString(t, strings.Repeat("ab", 15))
	n, err = b.ReplaceAll("b", "bbbb")
	require.NoError(t, err)
	assert.Equal(t, 15, n)
	assert.Equal(t, strings.Repeat("abbbb", 15), b.String())
	assert.Equal(t, 128, b.Cap())
}

func TestTrimRange(t *testing.T) {
	tests := []struct {
		start, end int
		want       string
	}{
		{0, 6, "abcdef"},
		{1, 3, "bc"},
		{2, 100, "cdef"},
		{6, 8, ""},
		{4, 2, ""},
		{3, 3, ""},
	}
	for _, tt := range tests {
		b, err := NewSize(64)
		require.NoError(t, err)
		require.NoError(t, b.AppendString("abcdef"))
		require.NoError(t, b.TrimRange(tt.start, tt.end))
		assert.Equal(t, tt.want, b.String(), "trim [%d, %d)", tt.start, tt.end)
		assert.Equal(t, 64, b.Cap())
	}

	b := mustString(t, "abc")
	assert.ErrorIs(t, b.TrimRange(-1, 2), ErrOutOfBounds)
	require.NoError(t, b.TrimRange(0, b.Len()))
	assert.Equal(t, "abc", b.String())
	require.NoError(t, b.TrimLength(2))
	assert.Equal(t, "ab", b.String())
}

func TestTrimChars(t *testing.T) {
	b := mustString(t, "   padded  ")
	b.TrimLeft()
	assert.Equal(t, "padded  ", b.String())
	b.TrimRight()
	assert.Equal(t, "padded", b.String())

	b = mustString(t, "xxxx")
	b.TrimRightByte('x')
	assert.Equal(t, "", b.String())

	b = mustString(t, "xxxx")
	b.TrimLeftByte('x')
	assert.Equal(t, "", b.String())

	b, err := New()
	require.NoError(t, err)
	b.TrimLeft()
	b.TrimRight()
	assert.Equal(t, "", b.String())
}

func TestPad(t *testing.T) {
	b := mustString(t, "42")
	require.NoError(t, b.PadLeft('0', 5))
	assert.Equal(t, "00042", b.String())
	require.NoError(t, b.PadRight('.', 8))
	assert.Equal(t, "00042...", b.String())
	require.NoError(t, b.PadRight('.', 8))
	assert.Equal(t, "00042...", b.String())

	assert.ErrorIs(t, b.PadLeft('0', 3), ErrOutOfBounds)
	assert.ErrorIs(t, b.PadRight(0, 10), ErrInvalidArgument)
	assert.Equal(t, "00042...", b.String())
}

func TestRemove(t *testing.T) {
	b := mustString(t, "abcdef")
	require.NoError(t, b.RemoveRange(1, 3))
	assert.Equal(t, "adef", b.String())

	require.NoError(t, b.RemoveAt(0))
	assert.Equal(t, "def", b.String())
	require.NoError(t, b.RemoveAt(2))
	assert.Equal(t, "de", b.String())
	assert.ErrorIs(t, b.RemoveAt(2), ErrOutOfBounds)

	assert.ErrorIs(t, b.RemoveRange(1, 1), ErrOutOfBounds)
	assert.ErrorIs(t, b.RemoveRange(2, 5), ErrOutOfBounds)
	require.NoError(t, b.RemoveRange(1, 50))
	assert.Equal(t, "d", b.String())
}

func TestCaseAndReverse(t *testing.T) {
	b := mustString(t, "Hello, World! 123")
	b.ToUpper()
	assert.Equal(t, "HELLO, WORLD! 123", b.String())
	b.ToLower()
	assert.Equal(t, "hello, world! 123", b.String())
	b.Reverse()
	assert.Equal(t, "321 !dlrow ,olleh", b.String())

	b = mustString(t, "\xc3\xa9")
	b.ToUpper()
	assert.Equal(t, "\xc3\xa9", b.String())
}

func TestReleased(t *testing.T) {
	b := mustString(t, "gone")
	b.Release()

	assert.Equal(t, 0, b.Cap())
	assert.Equal(t, "", b.String())
	assert.ErrorIs(t, b.AppendString("x"), ErrReleased)
	assert.ErrorIs(t, b.InsertString(0, "x"), ErrReleased)
	assert.ErrorIs(t, b.Compress(), ErrReleased)
	_, err := b.Clone(true)
	assert.ErrorIs(t, err, ErrReleased)
	_, err = b.ReplaceAll("a", "b")
	assert.ErrorIs(t, err, ErrReleased)
	b.Reverse()
	b.TrimRight()
}
