// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X src.tally.sh/pkg/buildinfo.Var=value" to "go build" or
// "go get".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"src.tally.sh/pkg/prog"
)

// VersionBase identifies the version of tally. On development commits, it
// identifies the next release.
const VersionBase = "0.1.0"

// VersionSuffix is appended to VersionBase to build the full version string.
// It can be overridden with -ldflags when building. If left empty, it is
// derived from the module version recorded by the Go toolchain.
var VersionSuffix = ""

// Reproducible identifies whether the build is reproducible. This can be
// overridden with -ldflags when building.
var Reproducible = "false"

// Type contains all the build information fields.
type Type struct {
	Version      string `json:"version"`
	Reproducible bool   `json:"reproducible"`
	GoVersion    string `json:"goversion"`
}

// Value contains all the build information.
var Value = Type{
	Version:      VersionBase + versionSuffix(VersionSuffix, readBuildInfo()),
	Reproducible: Reproducible == "true",
	GoVersion:    runtime.Version(),
}

func readBuildInfo() *debug.BuildInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return bi
}

func versionSuffix(override string, bi *debug.BuildInfo) string {
	if override != "" {
		return override
	}
	if bi == nil || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return "-dev.unknown"
	}
	return "-dev+" + bi.Main.Version
}

// Program is the buildinfo subprogram.
type Program struct {
	version, buildinfo bool
	json               *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "Output the version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "Output information about the build and quit")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	switch {
	case p.buildinfo:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value))
		} else {
			fmt.Fprintln(fds[1], "Version:", Value.Version)
			fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
			fmt.Fprintln(fds[1], "Reproducible build:", Value.Reproducible)
		}
	case p.version:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value.Version))
		} else {
			fmt.Fprintln(fds[1], Value.Version)
		}
	default:
		return prog.ErrNextProgram
	}
	return nil
}

func mustToJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
