package store

import (
	bolt "go.etcd.io/bbolt"

	"src.tally.sh/pkg/compile"
	. "src.tally.sh/pkg/store/storedefs"
)

func init() {
	initDB["initialize program table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketProgram))
		return err
	}
}

// PutProgram stores a compiled program under the given name, in the object
// format, replacing any program with the same name.
func (s *dbStore) PutProgram(name string, p *compile.Program) error {
	data, err := compile.Marshal(p)
	if err != nil {
		return err
	}
	logger.Printf("storing program %s, %d bytes", name, len(data))
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketProgram))
		return b.Put([]byte(name), data)
	})
}

// Program retrieves the program stored under the given name.
func (s *dbStore) Program(name string) (*compile.Program, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketProgram))
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNoProgram
		}
		// v is only valid during the transaction.
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return compile.Unmarshal(data)
}

// Programs returns the names of all stored programs, sorted.
func (s *dbStore) Programs() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketProgram))
		return b.ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// DelProgram deletes a stored program. Deleting a program that does not exist
// is not an error.
func (s *dbStore) DelProgram(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketProgram))
		return b.Delete([]byte(name))
	})
}
