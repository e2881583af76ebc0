// Tallyvm runs tally bytecode objects produced by tallyc.
package main

import (
	"os"

	"src.tally.sh/pkg/buildinfo"
	"src.tally.sh/pkg/pprof"
	"src.tally.sh/pkg/prog"
	"src.tally.sh/pkg/tallyvm"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &pprof.Program{}, &tallyvm.Program{})))
}
