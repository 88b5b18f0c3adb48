// Package buffers recycles buffer storage through per-size sync.Pools.
package buffers

import (
	"fmt"
	"math/bits"
	"sync"

	"clz-go/internal/capacity"
	"clz-go/pkg/strbuf"
)

// MaxPooledSize is the largest storage kept for reuse; bigger requests go
// straight to the heap and are left to the collector.
const MaxPooledSize = 1 << 20

// BufferPool keeps one sync.Pool per power-of-two size class. It implements
// strbuf.Allocator and is safe for concurrent use.
type BufferPool struct {
	pools [bits.UintSize]sync.Pool
}

func NewBufferPool() *BufferPool {
	return &BufferPool{}
}

var _ strbuf.Allocator = (*BufferPool)(nil)

// Alloc returns a slice of exactly size bytes. Recycled slices are not zeroed.
func (p *BufferPool) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", strbuf.ErrAllocationFailed, size)
	}
	class := capacity.NextPow2(size)
	if class < 0 || class > MaxPooledSize {
		return strbuf.HeapAllocator{}.Alloc(size)
	}
	if v := p.pools[bits.Len(uint(class))].Get(); v != nil {
		buf := *(v.(*[]byte))
		return buf[:size], nil
	}
	return make([]byte, size, class), nil
}

// Free hands buffer back for reuse. Slices not produced by Alloc are dropped.
func (p *BufferPool) Free(buffer []byte) {
	c := cap(buffer)
	if !capacity.IsPow2(c) || c > MaxPooledSize {
		return
	}
	buffer = buffer[:c]
	p.pools[bits.Len(uint(c))].Put(&buffer)
}
