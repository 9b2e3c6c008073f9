package store

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/inovacc/gistvault/internal/encoding"
	"go.etcd.io/bbolt"
)

const boltBucketLocal = "local" // key: storage key -> raw value

type Bolt struct {
	storage *bbolt.DB
}

// NewBolt opens (or creates) a Bolt database at path.
func NewBolt(path string) (*Bolt, error) {
	if err := encoding.EnsureDir(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database %s: %w", path, err)
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketLocal))
		return err
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

func (b *Bolt) Ping() error {
	return b.storage.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (b *Bolt) Get(key string) ([]byte, error) {
	var out []byte

	err := b.storage.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucketLocal)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}

		// bbolt values are only valid inside the transaction
		out = append([]byte(nil), v...)

		return nil
	})

	return out, err
}

func (b *Bolt) Set(key string, value []byte) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketLocal)).Put([]byte(key), value)
	})
}

func (b *Bolt) Delete(key string) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketLocal)).Delete([]byte(key))
	})
}

func (b *Bolt) Keys() ([]string, error) {
	var keys []string

	err := b.storage.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketLocal)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})

	return keys, err
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.storage.Close()
}
