package compile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"src.tally.sh/pkg/diag"
	"src.tally.sh/pkg/parse"
)

// ObjectFormat identifies the version of the object format. It is written to
// and checked on every object.
const ObjectFormat = "tally-bytecode/1"

type object struct {
	Format string     `yaml:"format"`
	Source objSource  `yaml:"source"`
	Names  []string   `yaml:"names,flow"`
	Hidden int        `yaml:"hidden"`
	Code   []objInstr `yaml:"code"`
}

type objSource struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

type objInstr struct {
	Op   string `yaml:"op"`
	Arg  int64  `yaml:"arg,omitempty"`
	From int    `yaml:"from"`
	To   int    `yaml:"to"`
}

// Marshal encodes a program in the YAML object format.
func Marshal(p *Program) ([]byte, error) {
	obj := object{
		Format: ObjectFormat,
		Source: objSource{p.Source.Name, p.Source.Code},
		Names:  p.Names,
		Hidden: p.Hidden,
		Code:   make([]objInstr, len(p.Code)),
	}
	for i, in := range p.Code {
		obj.Code[i] = objInstr{in.Op.String(), in.Arg, in.From, in.To}
	}
	return yaml.Marshal(&obj)
}

// Unmarshal decodes a program in the YAML object format and checks it.
func Unmarshal(data []byte) (*Program, error) {
	var obj object
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("bad object: %w", err)
	}
	if obj.Format != ObjectFormat {
		return nil, fmt.Errorf("bad object: format is %q, should be %q", obj.Format, ObjectFormat)
	}
	p := &Program{
		Source: parse.Source{Name: obj.Source.Name, Code: obj.Source.Code},
		Names:  obj.Names,
		Hidden: obj.Hidden,
		Code:   make([]Instr, len(obj.Code)),
	}
	for i, in := range obj.Code {
		op, ok := OpFromString(in.Op)
		if !ok {
			return nil, fmt.Errorf("bad object: instruction %d: unknown opcode %q", i, in.Op)
		}
		p.Code[i] = Instr{op, in.Arg, diag.Ranging{From: in.From, To: in.To}}
	}
	if err := p.Check(); err != nil {
		return nil, err
	}
	return p, nil
}
