// Package registry owns a set of named buffers and serialises access to
// each one, so a Buffer keeps exactly one writer at a time.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"clz-go/pkg/dynarray"
	"clz-go/pkg/log"
	"clz-go/pkg/strbuf"
)

var (
	ErrExists   = errors.New("registry: buffer already exists")
	ErrNotFound = errors.New("registry: no buffer with this name")
	ErrBadName  = errors.New("registry: invalid buffer name")
)

type entry struct {
	mu  sync.Mutex
	buf *strbuf.Buffer
}

// retire releases the buffer; a nil buf marks the entry as gone for With.
func (e *entry) retire() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buf != nil {
		e.buf.Release()
		e.buf = nil
	}
}

type named struct {
	name string
	e    *entry
}

type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	opts    []strbuf.Option
}

// New returns an empty registry whose buffers are built with opts.
func New(opts ...strbuf.Option) *Registry {
	return &Registry{entries: make(map[string]*entry), opts: opts}
}

// Options returns the construction options applied to every buffer.
func (r *Registry) Options() []strbuf.Option { return r.opts }

// Create makes a buffer holding init with at least minCap capacity.
func (r *Registry) Create(name, init string, minCap int) error {
	b, err := strbuf.NewSize(max(minCap, len(init)+1), r.opts...)
	if err != nil {
		return err
	}
	if err := b.AppendString(init); err != nil {
		b.Release()
		return err
	}
	if err := r.Adopt(name, b); err != nil {
		b.Release()
		return err
	}
	return nil
}

// Adopt takes ownership of b under name.
func (r *Registry) Adopt(name string, b *strbuf.Buffer) error {
	if name == "" {
		return ErrBadName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %q", ErrExists, name)
	}
	r.entries[name] = &entry{buf: b}
	log.Debug().Str("buffer", name).Int("capacity", b.Cap()).Msg("buffer created")
	return nil
}

// Put installs b under name, releasing any buffer it replaces.
func (r *Registry) Put(name string, b *strbuf.Buffer) error {
	if name == "" {
		return ErrBadName
	}
	r.mu.Lock()
	old, ok := r.entries[name]
	r.entries[name] = &entry{buf: b}
	r.mu.Unlock()
	if ok {
		old.retire()
	}
	log.Debug().Str("buffer", name).Bool("replaced", ok).Msg("buffer installed")
	return nil
}

// With runs fn while holding exclusive access to the named buffer. When a Put
// or Delete retires the entry between lookup and lock, the name is looked up again.
func (r *Registry) With(name string, fn func(*strbuf.Buffer) error) error {
	e, ok := r.lookup(name)
	for {
		if !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		e.mu.Lock()
		if e.buf != nil {
			defer e.mu.Unlock()
			return fn(e.buf)
		}
		e.mu.Unlock()
		cur, found := r.lookup(name)
		if cur == e {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		e, ok = cur, found
	}
}

func (r *Registry) lookup(name string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Delete releases the named buffer.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	e, ok := r.entries[name]
	delete(r.entries, name)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	e.retire()
	log.Debug().Str("buffer", name).Msg("buffer released")
	return nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	names := dynarray.NewSize[string](len(r.entries))
	for name := range r.entries {
		names.Append(name)
	}
	r.mu.RUnlock()
	out := names.Values()
	sort.Strings(out)
	return out
}

// Sweep releases every buffer matching pred and returns how many went.
func (r *Registry) Sweep(pred func(name string, b *strbuf.Buffer) bool) int {
	r.mu.Lock()
	doomed := dynarray.NewSize[named](len(r.entries))
	for name, e := range r.entries {
		doomed.Append(named{name, e})
	}
	doomed.RemoveAll(func(n named) bool {
		n.e.mu.Lock()
		defer n.e.mu.Unlock()
		return n.e.buf == nil || !pred(n.name, n.e.buf)
	})
	doomed.ForEach(func(n named) { delete(r.entries, n.name) })
	r.mu.Unlock()

	doomed.ForEach(func(n named) {
		n.e.retire()
		log.Debug().Str("buffer", n.name).Msg("buffer released")
	})
	return doomed.Len()
}

// Close releases every buffer.
func (r *Registry) Close() {
	n := r.Sweep(func(string, *strbuf.Buffer) bool { return true })
	log.Debug().Int("buffers", n).Msg("registry closed")
}
