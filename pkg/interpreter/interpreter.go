// Package interpreter evaluates parsed programs against a runtime
// environment. Control flow inside loops and functions travels as
// sentinel error values consumed at the loop or call boundary.
package interpreter

import (
	"bufio"
	"io"
	"os"

	"go.uber.org/zap"

	"giulio/interpreter-go/pkg/ast"
	"giulio/interpreter-go/pkg/runtime"
)

// Interpreter evaluates programs. One interpreter owns one global
// environment; REPL sessions reuse it across inputs.
type Interpreter struct {
	global  *runtime.Environment
	modules *moduleLoader
	stdout  io.Writer
	stdin   *bufio.Reader
	logger  *zap.Logger

	// ProgramArgs backs std.env.args().
	ProgramArgs []string
}

// Option configures an interpreter.
type Option func(*Interpreter)

// WithStdout redirects builtin output.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// WithStdin sets the reader backing the input builtin.
func WithStdin(r io.Reader) Option {
	return func(i *Interpreter) { i.stdin = bufio.NewReader(r) }
}

// WithLogger attaches a logger for module-loading diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Interpreter) { i.logger = logger }
}

// WithSearchPaths sets the directories consulted when resolving
// imports, highest priority first.
func WithSearchPaths(paths []string) Option {
	return func(i *Interpreter) { i.modules.searchPaths = paths }
}

// WithProgramArgs sets the arguments exposed to the evaluated program.
func WithProgramArgs(args []string) Option {
	return func(i *Interpreter) { i.ProgramArgs = args }
}

// New builds an interpreter with builtins registered in the global
// scope.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global: runtime.NewEnvironment(nil),
		stdout: os.Stdout,
		stdin:  bufio.NewReader(os.Stdin),
		logger: zap.NewNop(),
	}
	i.modules = newModuleLoader(i)
	for _, opt := range opts {
		opt(i)
	}
	i.registerBuiltins()
	return i
}

// Global exposes the global environment, mainly for REPL inspection.
func (i *Interpreter) Global() *runtime.Environment {
	return i.global
}

// Run evaluates a program in the global scope and returns the value of
// its final statement.
func (i *Interpreter) Run(program *ast.Program) (runtime.Value, error) {
	return i.evaluateProgram(program, i.global)
}

func (i *Interpreter) evaluateProgram(program *ast.Program, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.Null
	for _, stmt := range program.Statements {
		var err error
		result, err = i.evaluateStatement(stmt, env)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Control-flow signals. They travel the error path and never escape
// the construct that consumes them.
type breakSignal struct{}
type continueSignal struct{}

type returnSignal struct {
	value runtime.Value
}

func (breakSignal) Error() string    { return "break outside loop" }
func (continueSignal) Error() string { return "continue outside loop" }
func (returnSignal) Error() string   { return "return outside function" }
