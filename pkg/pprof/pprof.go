// Package pprof adds profiling support to the tally binaries.
package pprof

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"runtime/trace"

	"src.tally.sh/pkg/logutil"
	"src.tally.sh/pkg/prog"
)

var logger = logutil.GetLogger("[pprof] ")

// Program adds support for the -cpuprofile, -allocsprofile and -exectrace
// flags. It always returns prog.NextProgram, with cleanups that finish
// writing the profiles once the chosen program has run.
type Program struct {
	cpuProfile    string
	allocsProfile string
	execTrace     string
}

func (p *Program) RegisterFlags(f *prog.FlagSet) {
	f.StringVar(&p.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	f.StringVar(&p.allocsProfile, "allocsprofile", "", "write memory allocation profile to file")
	f.StringVar(&p.execTrace, "exectrace", "", "write execution trace to file")
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	var cleanups []func([3]*os.File)
	if f := create(fds[2], p.cpuProfile, "CPU profile"); f != nil {
		if err := pprof.StartCPUProfile(f); err != nil {
			warn(fds[2], "CPU profile", err)
			f.Close()
		} else {
			cleanups = append(cleanups, func([3]*os.File) {
				pprof.StopCPUProfile()
				f.Close()
			})
		}
	}
	if f := create(fds[2], p.execTrace, "execution trace"); f != nil {
		if err := trace.Start(f); err != nil {
			warn(fds[2], "execution trace", err)
			f.Close()
		} else {
			cleanups = append(cleanups, func([3]*os.File) {
				trace.Stop()
				f.Close()
			})
		}
	}
	if f := create(fds[2], p.allocsProfile, "memory allocation profile"); f != nil {
		cleanups = append(cleanups, func(fds [3]*os.File) {
			if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
				fmt.Fprintln(fds[2], "Warning: cannot write memory allocation profile:", err)
			}
			f.Close()
		})
	}
	return prog.NextProgram(cleanups...)
}

// Returns nil if name is empty or the file cannot be created.
func create(stderr io.Writer, name, what string) *os.File {
	if name == "" {
		return nil
	}
	f, err := os.Create(name)
	if err != nil {
		warn(stderr, what, err)
		return nil
	}
	logger.Printf("writing %s to %s", what, name)
	return f
}

func warn(stderr io.Writer, what string, err error) {
	fmt.Fprintf(stderr, "Warning: cannot create %s: %v\n", what, err)
	fmt.Fprintf(stderr, "Continuing without %s.\n", what)
}
