// Tally interprets programs written in tally, a small language of integer
// variables, arithmetic, conditionals and counted loops. With -lsp, it runs a
// language server instead.
package main

import (
	"os"

	"src.tally.sh/pkg/buildinfo"
	"src.tally.sh/pkg/interp"
	"src.tally.sh/pkg/lsp"
	"src.tally.sh/pkg/pprof"
	"src.tally.sh/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &pprof.Program{}, &lsp.Program{}, &interp.Program{})))
}
