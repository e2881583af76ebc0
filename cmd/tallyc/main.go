// Tallyc compiles tally programs to bytecode objects, assembly listings or C.
package main

import (
	"os"

	"src.tally.sh/pkg/buildinfo"
	"src.tally.sh/pkg/pprof"
	"src.tally.sh/pkg/prog"
	"src.tally.sh/pkg/tallyc"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &pprof.Program{}, &tallyc.Program{})))
}
