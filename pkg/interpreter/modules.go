package interpreter

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"giulio/interpreter-go/pkg/ast"
	"giulio/interpreter-go/pkg/parser"
	"giulio/interpreter-go/pkg/runtime"
)

// moduleLoader resolves import paths to modules. Loaded modules are
// cached by canonical path, so a module's top level runs once per
// interpreter no matter how many files import it.
type moduleLoader struct {
	interp      *Interpreter
	searchPaths []string
	cache       map[string]*runtime.ModuleValue
	loading     map[string]bool
}

func newModuleLoader(interp *Interpreter) *moduleLoader {
	return &moduleLoader{
		interp:  interp,
		cache:   make(map[string]*runtime.ModuleValue),
		loading: make(map[string]bool),
	}
}

func (i *Interpreter) evaluateImport(stmt *ast.ImportStatement, env *runtime.Environment) (runtime.Value, error) {
	module, err := i.modules.load(stmt.Path)
	if err != nil {
		return nil, err
	}
	if stmt.Names == nil {
		env.Define(stmt.Path[len(stmt.Path)-1], module)
		return runtime.Null, nil
	}
	for _, name := range stmt.Names {
		value, ok := module.Exports[name]
		if !ok {
			return nil, runtime.NewError(runtime.UndefinedMember, "module %s has no export '%s'", module.Name, name)
		}
		env.Define(name, value)
	}
	return runtime.Null, nil
}

func (l *moduleLoader) load(path []string) (*runtime.ModuleValue, error) {
	dotted := strings.Join(path, ".")
	if path[0] == "std" {
		if module, ok := l.cache[dotted]; ok {
			return module, nil
		}
		module, err := l.interp.loadStdModule(dotted)
		if err != nil {
			return nil, err
		}
		l.cache[dotted] = module
		return module, nil
	}
	file, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	if module, ok := l.cache[file]; ok {
		return module, nil
	}
	if l.loading[file] {
		return nil, runtime.NewError(runtime.ImportCycle, "import cycle detected at module %s", dotted)
	}
	l.interp.logger.Debug("loading module", zap.String("module", dotted), zap.String("file", file))
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, runtime.NewError(runtime.ModuleNotFound, "cannot read module %s: %v", dotted, err)
	}
	program, err := parser.Parse(string(source))
	if err != nil {
		return nil, runtime.NewError(runtime.InvalidOperation, "module %s: %v", dotted, err)
	}
	l.loading[file] = true
	defer delete(l.loading, file)

	// Module files evaluate in their own scope; builtins stay visible
	// through the global parent.
	scope := l.interp.global.Extend()
	if _, err := l.interp.evaluateProgram(program, scope); err != nil {
		return nil, err
	}
	module := &runtime.ModuleValue{Name: dotted, Exports: scope.Snapshot()}
	l.cache[file] = module
	return module, nil
}

// resolve maps a dotted path to a .giu file under the search paths,
// first match wins.
func (l *moduleLoader) resolve(path []string) (string, error) {
	rel := filepath.Join(path...) + ".giu"
	for _, dir := range l.searchPaths {
		candidate := filepath.Join(dir, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, nil
			}
			return abs, nil
		}
	}
	return "", runtime.NewError(runtime.ModuleNotFound, "module %s not found", strings.Join(path, "."))
}
