//go:build linux || darwin || freebsd

package sys

import (
	"os"
	"testing"

	"github.com/creack/pty"
)

func TestIsATTY_Terminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("cannot open pty: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if !IsATTY(tty.Fd()) {
		t.Errorf("IsATTY(tty) = false, want true")
	}
}

func TestIsATTY_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if IsATTY(w.Fd()) {
		t.Errorf("IsATTY(pipe) = true, want false")
	}
}
