// Package store persists named buffer snapshots in a bbolt database,
// optionally compressing the content with zstd.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.etcd.io/bbolt"

	"clz-go/pkg/strbuf"
)

var (
	ErrNoSnapshot = errors.New("store: no snapshot with this name")
	ErrCorrupt    = errors.New("store: corrupt snapshot")
)

const bucketName = "snapshots"

const (
	flagPlain byte = 0
	flagZstd  byte = 1
)

// header: flag(1) | capacity(8) | saved unix nanos(8)
const headerLen = 17

// Snapshot is what a stored buffer looks like once decoded.
type Snapshot struct {
	Name     string
	Content  string
	Capacity int
	SavedAt  time.Time
}

type Store struct {
	db       *bbolt.DB
	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// Open opens or creates the database at path.
func Open(path string, compress bool) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd: failed to initialize encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("zstd: failed to initialize decoder: %w", err)
	}
	return &Store{db: db, compress: compress, encoder: enc, decoder: dec}, nil
}

func (s *Store) Close() error {
	s.decoder.Close()
	return errors.Join(s.encoder.Close(), s.db.Close())
}

// Save records the content and capacity of b under name, replacing any previous snapshot.
func (s *Store) Save(name string, b *strbuf.Buffer) error {
	content := []byte(b.String())
	flag := flagPlain
	if s.compress && len(content) > 0 {
		content = s.encoder.EncodeAll(content, nil)
		flag = flagZstd
	}
	value := make([]byte, headerLen, headerLen+len(content))
	value[0] = flag
	binary.BigEndian.PutUint64(value[1:9], uint64(b.Cap()))
	binary.BigEndian.PutUint64(value[9:17], uint64(time.Now().UnixNano()))
	value = append(value, content...)

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(name), value)
	})
}

// Get decodes the snapshot stored under name.
func (s *Store) Get(name string) (Snapshot, error) {
	var raw []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: %q", ErrNoSnapshot, name)
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.decode(name, raw)
}

// Load rebuilds a buffer from the snapshot under name, with the saved capacity.
func (s *Store) Load(name string, opts ...strbuf.Option) (*strbuf.Buffer, error) {
	snap, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	b, err := strbuf.NewSize(snap.Capacity, opts...)
	if err != nil {
		return nil, err
	}
	if err := b.AppendString(snap.Content); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// List returns the snapshot names in order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	sort.Strings(names)
	return names, err
}

func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %q", ErrNoSnapshot, name)
		}
		return bucket.Delete([]byte(name))
	})
}

func (s *Store) decode(name string, raw []byte) (Snapshot, error) {
	if len(raw) < headerLen {
		return Snapshot{}, fmt.Errorf("%w: %q is %d bytes", ErrCorrupt, name, len(raw))
	}
	snap := Snapshot{
		Name:     name,
		Capacity: int(binary.BigEndian.Uint64(raw[1:9])),
		SavedAt:  time.Unix(0, int64(binary.BigEndian.Uint64(raw[9:17]))),
	}
	content := raw[headerLen:]
	switch raw[0] {
	case flagPlain:
	case flagZstd:
		out, err := s.decoder.DecodeAll(content, nil)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %q: %v", ErrCorrupt, name, err)
		}
		content = out
	default:
		return Snapshot{}, fmt.Errorf("%w: %q has flag %d", ErrCorrupt, name, raw[0])
	}
	snap.Content = string(content)
	return snap, nil
}
