// Package interp is the subprogram that interprets tally files.
package interp

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"src.tally.sh/pkg/diag"
	"src.tally.sh/pkg/eval"
	"src.tally.sh/pkg/logutil"
	"src.tally.sh/pkg/parse"
	"src.tally.sh/pkg/prog"
	"src.tally.sh/pkg/store"
)

var logger = logutil.GetLogger("[interp] ")

// Program is the interpreter subprogram.
type Program struct {
	echo, ast bool
	json      *bool
	db        *string
	time      *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.echo, "echo", false, "Print the value of each expression statement")
	fs.BoolVar(&p.ast, "ast", false, "Print the syntax tree instead of running")
	p.json = fs.JSON()
	p.db = fs.DB()
	p.time = fs.Time()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) != 1 {
		return prog.BadUsage("need exactly one file")
	}
	src, err := ReadSource(args[0])
	if err != nil {
		return err
	}

	if p.ast {
		tree, err := parse.Parse(src)
		if err != nil {
			return ShowError(fds, err, *p.json)
		}
		parse.PPrint(fds[1], tree.Root)
		return nil
	}

	cfg := eval.Config{}
	if p.echo {
		cfg.Echo = fds[1]
	}
	defer prog.ReportTime(fds, *p.time, "ran", time.Now())
	env, err := eval.EvalSource(src, cfg)
	if err != nil {
		return ShowError(fds, err, *p.json)
	}
	if *p.db != "" {
		if err := SaveState(*p.db, ProgramName(src.Name), env); err != nil {
			return err
		}
	}
	return WriteEnv(fds[1], env, *p.json)
}

// ReadSource reads a source file.
func ReadSource(fname string) (parse.Source, error) {
	code, err := os.ReadFile(fname)
	if err != nil {
		return parse.Source{}, err
	}
	return parse.Source{Name: fname, Code: string(code)}, nil
}

// ShowError writes err to stderr, or to stdout in JSON when json is true. It
// returns an error that causes the program to exit with 2 without printing
// anything further.
func ShowError(fds [3]*os.File, err error, json bool) error {
	if json {
		fds[1].Write(errorToJSON(err))
		fds[1].WriteString("\n")
	} else {
		diag.ShowError(fds[2], err)
	}
	return prog.Exit(2)
}

// WriteEnv writes the bindings of env to w, either as "name = value" lines or
// as a JSON array.
func WriteEnv(w io.Writer, env *eval.Env, asJSON bool) error {
	if !asJSON {
		_, err := io.WriteString(w, env.String())
		return err
	}
	data, err := json.Marshal(env.Bindings())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// ProgramName returns the name a program and its final state are stored
// under: the base name of its file without the .tly extension. Names without
// a directory or extension are returned unchanged.
func ProgramName(fname string) string {
	return strings.TrimSuffix(filepath.Base(fname), ".tly")
}

// SaveState saves env to the database at dbPath under the given name.
func SaveState(dbPath, name string, env *eval.Env) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Printf("saving state of %s to %s", name, dbPath)
	return st.PutState(name, env)
}
