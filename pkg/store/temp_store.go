package store

import (
	"fmt"
	"os"

	"src.tally.sh/pkg/testutil"
)

// MustTempStore returns a Store backed by a temporary file for testing. The
// Store and its file are removed when the test finishes.
func MustTempStore(c testutil.Cleanuper) DBStore {
	f, err := os.CreateTemp("", "tally.test")
	if err != nil {
		panic(fmt.Sprintf("open temp file: %v", err))
	}
	st, err := NewStore(f.Name())
	if err != nil {
		panic(fmt.Sprintf("create Store instance: %v", err))
	}
	c.Cleanup(func() {
		st.Close()
		f.Close()
		err = os.Remove(f.Name())
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to remove temp file:", err)
		}
	})
	return st
}
