package cache

import (
	"errors"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/kryptapp/krypt/internal/storage"
)

const (
	TransferCountKey = "transactionCount"
)

// Cache is a small persistent key-value store for values that must survive a restart
type Cache struct {
	db *badger.DB
}

// New opens or creates the cache in dir
func New(dir string) (*Cache, error) {
	if !storage.Exists(dir) {
		err := storage.CreateDir(dir)
		if err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the value stored under key, false if there is none
func (c *Cache) Get(key string) (string, bool, error) {
	var value string
	found := false

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			value = string(val)
			found = true
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}

	return value, found, nil
}

// Set overwrites the value stored under key
func (c *Cache) Set(key, value string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (c *Cache) TransferCount() (int64, bool, error) {
	v, ok, err := c.Get(TransferCountKey)
	if err != nil || !ok {
		return 0, false, err
	}

	count, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, err
	}

	return count, true, nil
}

func (c *Cache) SetTransferCount(count int64) error {
	return c.Set(TransferCountKey, strconv.FormatInt(count, 10))
}
