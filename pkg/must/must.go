// Package must wraps functions that return errors into ones that panic
// instead. It is meant for tests and setup code where an error means the
// environment itself is broken.
package must

import (
	"os"
	"path/filepath"
)

// OK panics if err is not nil.
func OK(err error) {
	if err != nil {
		panic(err)
	}
}

// OK1 is like OK, and returns v when err is nil.
func OK1[T any](v T, err error) T {
	OK(err)
	return v
}

// OK2 is like OK, and returns v1 and v2 when err is nil.
func OK2[T1, T2 any](v1 T1, v2 T2, err error) (T1, T2) {
	OK(err)
	return v1, v2
}

// Pipe returns the read and write ends of a new pipe.
func Pipe() (r, w *os.File) { return OK2(os.Pipe()) }

// Chdir changes the working directory.
func Chdir(dir string) { OK(os.Chdir(dir)) }

// ReadFileString returns the content of a file as a string.
func ReadFileString(name string) string { return string(OK1(os.ReadFile(name))) }

// WriteFile writes data to a source or object file, creating missing parent
// directories first.
func WriteFile(name, data string) {
	OK(os.MkdirAll(filepath.Dir(name), 0700))
	OK(os.WriteFile(name, []byte(data), 0600))
}
