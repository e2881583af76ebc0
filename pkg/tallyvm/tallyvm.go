// Package tallyvm is the subprogram that runs compiled tally programs.
package tallyvm

import (
	"os"
	"time"

	"src.tally.sh/pkg/compile"
	"src.tally.sh/pkg/interp"
	"src.tally.sh/pkg/prog"
	"src.tally.sh/pkg/store"
	"src.tally.sh/pkg/vm"
)

// Program is the bytecode runner subprogram.
type Program struct {
	echo bool
	json *bool
	db   *string
	time *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.echo, "echo", false, "Print the value of each expression statement")
	p.json = fs.JSON()
	p.db = fs.DB()
	p.time = fs.Time()
}

// Run runs the object file named by the argument. With -db, the argument
// instead names a program in the database, either by its stored name or by
// its source file, and the final state is saved there under the stored name.
func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) != 1 {
		return prog.BadUsage("need exactly one object file or program name")
	}
	var prg *compile.Program
	var err error
	if *p.db != "" {
		prg, err = loadProgram(*p.db, interp.ProgramName(args[0]))
	} else {
		prg, err = readObject(args[0])
	}
	if err != nil {
		return interp.ShowError(fds, err, *p.json)
	}

	cfg := vm.Config{}
	if p.echo {
		cfg.Echo = fds[1]
	}
	defer prog.ReportTime(fds, *p.time, "ran", time.Now())
	env, err := vm.Run(prg, cfg)
	if err != nil {
		return interp.ShowError(fds, err, *p.json)
	}
	if *p.db != "" {
		if err := interp.SaveState(*p.db, interp.ProgramName(args[0]), env); err != nil {
			return err
		}
	}
	return interp.WriteEnv(fds[1], env, *p.json)
}

func readObject(fname string) (*compile.Program, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	return compile.Unmarshal(data)
}

func loadProgram(dbPath, name string) (*compile.Program, error) {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Program(name)
}
