package interpreter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"giulio/interpreter-go/pkg/parser"
	"giulio/interpreter-go/pkg/runtime"
)

func writeModule(t *testing.T, dir, name, source string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}
}

func runWithModules(t *testing.T, dir, source string) (runtime.Value, string, error) {
	t.Helper()
	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var out bytes.Buffer
	interp := New(WithStdout(&out), WithSearchPaths([]string{dir}))
	result, err := interp.Run(program)
	return result, out.String(), err
}

func TestImportBindsModuleObject(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "utils/strings.giu", `
		fn shout(s) { return s + "!"; }
		let greeting = "hello";
	`)
	result, _, err := runWithModules(t, dir, `
		import utils.strings;
		strings.shout(strings.greeting);
	`)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	s, ok := result.(*runtime.StringValue)
	if !ok || s.Value != "hello!" {
		t.Fatalf("expected \"hello!\", got %#v", result)
	}
}

func TestSelectiveImportBindsNamesDirectly(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "utils/strings.giu", `
		fn shout(s) { return s + "!"; }
		fn whisper(s) { return s + "..."; }
	`)
	result, _, err := runWithModules(t, dir, `
		import utils.strings.{shout, whisper};
		shout("a") + whisper("b");
	`)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	s := result.(*runtime.StringValue)
	if s.Value != "a!b..." {
		t.Fatalf("unexpected result %q", s.Value)
	}
}

func TestSelectiveImportOfMissingExport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "m.giu", "let x = 1;")
	_, _, err := runWithModules(t, dir, "import m.{missing};")
	rerr, ok := err.(*runtime.Error)
	if !ok || rerr.Kind != runtime.UndefinedMember {
		t.Fatalf("expected UndefinedMember, got %v", err)
	}
}

func TestModuleEvaluatesOnce(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "loud.giu", `println("loaded");`)
	writeModule(t, dir, "a.giu", "import loud;")
	writeModule(t, dir, "b.giu", "import loud;")
	_, out, err := runWithModules(t, dir, `
		import a;
		import b;
		import loud;
	`)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if out != "loaded\n" {
		t.Fatalf("module top level must run once, got %q", out)
	}
}

func TestImportCycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.giu", "import b;")
	writeModule(t, dir, "b.giu", "import a;")
	_, _, err := runWithModules(t, dir, "import a;")
	rerr, ok := err.(*runtime.Error)
	if !ok || rerr.Kind != runtime.ImportCycle {
		t.Fatalf("expected ImportCycle, got %v", err)
	}
}

func TestModuleNotFound(t *testing.T) {
	_, _, err := runWithModules(t, t.TempDir(), "import nope;")
	rerr, ok := err.(*runtime.Error)
	if !ok || rerr.Kind != runtime.ModuleNotFound {
		t.Fatalf("expected ModuleNotFound, got %v", err)
	}
}

func TestSearchPathPriority(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeModule(t, first, "m.giu", "let origin = \"first\";")
	writeModule(t, second, "m.giu", "let origin = \"second\";")
	program, err := parser.Parse("import m; m.origin;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	interp := New(WithStdout(&bytes.Buffer{}), WithSearchPaths([]string{first, second}))
	result, err := interp.Run(program)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if result.(*runtime.StringValue).Value != "first" {
		t.Fatalf("first search path must win, got %#v", result)
	}
}

func TestStdMathModule(t *testing.T) {
	result, _ := evalSource(t, `
		import std.math;
		math.clamp(15, 0, 10) + math.sqrt(49) + math.min(3, 4);
	`)
	wantInt(t, result, 20)
}

func TestStdStringModule(t *testing.T) {
	result, _ := evalSource(t, `
		import std.string.{reverse, repeat};
		reverse("abc") + repeat("x", 2);
	`)
	s := result.(*runtime.StringValue)
	if s.Value != "cbaxx" {
		t.Fatalf("unexpected result %q", s.Value)
	}
}

func TestStdJSONRoundTrip(t *testing.T) {
	result, _ := evalSource(t, `
		import std.json;
		let encoded = json.serialize({"b": [1, 2], "a": null});
		let decoded = json.deserialize(encoded);
		decoded["b"][1];
	`)
	wantInt(t, result, 2)
}

func TestStdJSONRejectsFloats(t *testing.T) {
	evalError(t, `
		import std.json;
		json.deserialize("1.5");
	`, runtime.TypeMismatch)
}

func TestStdIOModule(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "out.txt")
	program, err := parser.Parse(`
		import std.io;
		io.write_file(path, "one");
		io.append_file(path, "two");
		io.read_file(path);
	`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	interp := New(WithStdout(&bytes.Buffer{}))
	interp.Global().Define("path", &runtime.StringValue{Value: file})
	result, err := interp.Run(program)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if result.(*runtime.StringValue).Value != "onetwo" {
		t.Fatalf("unexpected file content %#v", result)
	}
}

func TestStdEnvArgs(t *testing.T) {
	program, err := parser.Parse(`
		import std.env;
		env.args();
	`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	interp := New(WithStdout(&bytes.Buffer{}), WithProgramArgs([]string{"one", "two"}))
	result, err := interp.Run(program)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	arr := result.(*runtime.ArrayValue)
	if len(arr.Elements) != 2 || arr.Elements[1].(*runtime.StringValue).Value != "two" {
		t.Fatalf("unexpected args %#v", arr.Elements)
	}
}
