// Package invocation renders a bench configuration into a simulator command line.
//
// The token shape is fixed:
//
//	<tool> -o <output_file> -I <source_dir> -D<NAME>=<value>... <testbench_file>
//
// Building is pure. It reads no files or environment and never changes the
// configuration, so equal inputs always produce equal token sequences.
package invocation

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/roach88/motorbench/internal/bench"
)

// Default layout values, matching the bench repository tree.
const (
	DefaultTool         = "iverilog"
	DefaultSourceDir    = "src"
	DefaultTestbenchDir = "testbenches"
	DefaultSimDir       = "sim"

	testbenchExt = ".v"
	outputExt    = ".vvp"
)

// Paths names the tool and files of one invocation.
type Paths struct {
	Tool          string
	SourceDir     string
	TestbenchFile string
	OutputFile    string
}

// Layout describes where testbenches live and where compiled output goes.
type Layout struct {
	Tool         string
	SourceDir    string
	TestbenchDir string
	SimDir       string
}

// DefaultLayout returns the iverilog layout: src/, testbenches/, sim/.
func DefaultLayout() Layout {
	return Layout{
		Tool:         DefaultTool,
		SourceDir:    DefaultSourceDir,
		TestbenchDir: DefaultTestbenchDir,
		SimDir:       DefaultSimDir,
	}
}

// PathsFor resolves the paths of a scenario's testbench within the layout.
// Empty layout fields fall back to the defaults.
func (l Layout) PathsFor(s bench.Scenario) Paths {
	d := DefaultLayout()
	if l.Tool == "" {
		l.Tool = d.Tool
	}
	if l.SourceDir == "" {
		l.SourceDir = d.SourceDir
	}
	if l.TestbenchDir == "" {
		l.TestbenchDir = d.TestbenchDir
	}
	if l.SimDir == "" {
		l.SimDir = d.SimDir
	}

	tb := s.Testbench()
	return Paths{
		Tool:          l.Tool,
		SourceDir:     l.SourceDir,
		TestbenchFile: filepath.ToSlash(filepath.Join(l.TestbenchDir, tb+testbenchExt)),
		OutputFile:    filepath.ToSlash(filepath.Join(l.SimDir, tb+outputExt)),
	}
}

// Invocation is an ordered, immutable command line.
type Invocation struct {
	tokens []string
}

// New wraps an explicit token sequence, tool first.
func New(tokens ...string) Invocation {
	return Invocation{tokens: append([]string(nil), tokens...)}
}

// Build renders cfg and paths into an Invocation.
func Build(cfg bench.Config, paths Paths) Invocation {
	defines := cfg.Defines()
	tokens := make([]string, 0, 6+len(defines))
	tokens = append(tokens,
		paths.Tool,
		"-o", paths.OutputFile,
		"-I", paths.SourceDir,
	)
	for _, d := range defines {
		tokens = append(tokens, DefineFlag(d))
	}
	tokens = append(tokens, paths.TestbenchFile)
	return Invocation{tokens: tokens}
}

// DefineFlag renders a define as a single -DNAME=value token.
func DefineFlag(d bench.Define) string {
	return "-D" + d.String()
}

// Tokens returns a copy of the command line.
func (inv Invocation) Tokens() []string {
	return append([]string(nil), inv.tokens...)
}

// Tool returns the executable name.
func (inv Invocation) Tool() string {
	if len(inv.tokens) == 0 {
		return ""
	}
	return inv.tokens[0]
}

// Args returns the arguments after the executable.
func (inv Invocation) Args() []string {
	if len(inv.tokens) < 2 {
		return nil
	}
	return append([]string(nil), inv.tokens[1:]...)
}

// OutputFile returns the value following -o.
func (inv Invocation) OutputFile() string {
	for i := 0; i+1 < len(inv.tokens); i++ {
		if inv.tokens[i] == "-o" {
			return inv.tokens[i+1]
		}
	}
	return ""
}

// Equal reports whether both invocations have identical tokens.
func (inv Invocation) Equal(other Invocation) bool {
	return slices.Equal(inv.tokens, other.tokens)
}

// String joins the tokens with spaces, for display only.
func (inv Invocation) String() string {
	return strings.Join(inv.tokens, " ")
}
