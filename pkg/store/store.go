// Package store is the persistent storage of tally, backed by bbolt.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"src.tally.sh/pkg/logutil"
	"src.tally.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

const (
	bucketProgram = "program"
	bucketState   = "state"
)

// The following functions are called in NewStoreFromDB to initialize the
// database.
var initDB = map[string](func(*bolt.Tx) error){}

// DBStore is the permanent storage backend for tally. It is not thread-safe.
// In particular, the store may be closed while another goroutine is still
// accessing the store.
type DBStore interface {
	storedefs.Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

func dbWithDefaultOptions(dbname string) (*bolt.DB, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: 1 * time.Second})
	return db, err
}

// NewStore creates a new Store from the given file.
func NewStore(dbname string) (DBStore, error) {
	db, err := dbWithDefaultOptions(dbname)
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB. If the buckets cannot be
// initialized, db is closed and the error is returned.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			err := fn(tx)
			if err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the store.
func (s *dbStore) Close() error {
	return s.db.Close()
}
