// Package tallyc is the subprogram that compiles tally files.
package tallyc

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"src.tally.sh/pkg/compile"
	"src.tally.sh/pkg/interp"
	"src.tally.sh/pkg/logutil"
	"src.tally.sh/pkg/parse"
	"src.tally.sh/pkg/prog"
	"src.tally.sh/pkg/store"
)

var logger = logutil.GetLogger("[tallyc] ")

// Program is the compiler subprogram.
type Program struct {
	emit     string
	out      string
	optimize bool
	json     *bool
	db       *string
	time     *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.StringVar(&p.emit, "emit", "yaml", "Output form: asm, yaml, c or exe")
	fs.StringVar(&p.out, "o", "", "Path of the output file; stdout if empty and -db is not given")
	fs.BoolVar(&p.optimize, "O", false, "Fold constant expressions")
	p.json = fs.JSON()
	p.db = fs.DB()
	p.time = fs.Time()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) != 1 {
		return prog.BadUsage("need exactly one file")
	}
	switch p.emit {
	case "asm", "yaml", "c":
	case "exe":
		if p.out == "" {
			return prog.BadUsage("-emit exe needs -o")
		}
	default:
		return prog.BadUsage("-emit should be asm, yaml, c or exe")
	}
	src, err := interp.ReadSource(args[0])
	if err != nil {
		return err
	}
	defer prog.ReportTime(fds, *p.time, "compiled", time.Now())
	tree, err := parse.Parse(src)
	if err != nil {
		return interp.ShowError(fds, err, *p.json)
	}
	if p.optimize {
		tree = compile.Optimize(tree)
	}
	prg, err := compile.Compile(tree, compile.Config{})
	if err != nil {
		return interp.ShowError(fds, err, *p.json)
	}

	if *p.db != "" {
		name := interp.ProgramName(src.Name)
		if err := saveProgram(*p.db, name, prg); err != nil {
			return err
		}
		if p.out == "" {
			return nil
		}
	}

	var buf bytes.Buffer
	switch p.emit {
	case "asm":
		buf.WriteString(prg.Disassemble())
	case "yaml":
		data, err := compile.Marshal(prg)
		if err != nil {
			return err
		}
		buf.Write(data)
	case "c", "exe":
		if err := compile.EmitC(&buf, tree); err != nil {
			return interp.ShowError(fds, err, *p.json)
		}
	}
	if p.emit == "exe" {
		return buildExe(buf.Bytes(), p.out)
	}

	if p.out == "" {
		_, err = fds[1].Write(buf.Bytes())
		return err
	}
	logger.Printf("writing %s output to %s", p.emit, p.out)
	return os.WriteFile(p.out, buf.Bytes(), 0644)
}

func saveProgram(dbPath, name string, p *compile.Program) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Printf("saving program %s to %s", name, dbPath)
	return st.PutProgram(name, p)
}

// Returns the C compiler to use: $CC if set, cc otherwise.
func cCompiler() string {
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}
	return "cc"
}

// buildExe compiles the C source csrc into an executable at out.
func buildExe(csrc []byte, out string) error {
	dir, err := os.MkdirTemp("", "tallyc")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	cfile := filepath.Join(dir, "main.c")
	if err := os.WriteFile(cfile, csrc, 0644); err != nil {
		return err
	}
	cc := cCompiler()
	logger.Printf("building %s with %s", out, cc)
	msg, err := exec.Command(cc, "-o", out, cfile).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w\n%s", cc, err, bytes.TrimSpace(msg))
	}
	return nil
}
