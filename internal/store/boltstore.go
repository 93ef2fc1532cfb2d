package store

import (
	"encoding/json"
	"fmt"
	"os"

	"go.etcd.io/bbolt"

	"github.com/heysubinoy/jsonkv/pkg/kv"
)

// BoltStore is a bbolt-backed implementation of the kv.Store
// interface. All entries live in a single bucket; values are stored
// as their raw JSON bytes. bbolt allows only one read-write
// transaction at a time, so every check-then-act sequence is atomic.
type BoltStore struct {
	db     *bbolt.DB
	bucket []byte
}

// Compile-time check to ensure BoltStore implements kv.Store.
var _ kv.Store = (*BoltStore)(nil)

// NewBoltStore opens (or creates) the database file and ensures the
// bucket exists.
func NewBoltStore(file string, mode os.FileMode, bucket string) (*BoltStore, error) {
	db, err := bbolt.Open(file, mode, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open db file %s: %w", file, err)
	}

	s := &BoltStore{
		db:     db,
		bucket: []byte(bucket),
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}

	return s, nil
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Create(key string, value json.RawMessage) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b.Get([]byte(key)) != nil {
			return kv.ErrKeyExists
		}
		return b.Put([]byte(key), value)
	})
}

func (s *BoltStore) Get(key string) (json.RawMessage, error) {
	var value json.RawMessage

	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return kv.ErrNotFound
		}
		// v is only valid inside the transaction.
		value = append(json.RawMessage(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *BoltStore) Replace(key string, value json.RawMessage) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b.Get([]byte(key)) == nil {
			return kv.ErrNotFound
		}
		return b.Put([]byte(key), value)
	})
}

func (s *BoltStore) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b.Get([]byte(key)) == nil {
			return kv.ErrNotFound
		}
		return b.Delete([]byte(key))
	})
}

func (s *BoltStore) Count() (int, error) {
	count := 0

	err := s.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	if err != nil {
		return -1, err
	}
	return count, nil
}
