package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"

	"src.tally.sh/pkg/eval"
	. "src.tally.sh/pkg/store/storedefs"
)

func init() {
	initDB["initialize state table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		return err
	}
}

// PutState stores the bindings of env under the given name, as a YAML list
// that keeps the order in which they were bound.
func (s *dbStore) PutState(name string, env *eval.Env) error {
	data, err := yaml.Marshal(env.Bindings())
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		return b.Put([]byte(name), data)
	})
}

// State retrieves the state stored under the given name.
func (s *dbStore) State(name string) (*eval.Env, error) {
	var bindings []eval.Binding
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNoState
		}
		if err := yaml.Unmarshal(v, &bindings); err != nil {
			return fmt.Errorf("bad state %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return eval.EnvFromBindings(bindings), nil
}

// DelState deletes a stored state.
func (s *dbStore) DelState(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		return b.Delete([]byte(name))
	})
}
