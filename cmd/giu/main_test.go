package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunScriptFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hello.giu")
	writeFile(t, script, `println("hi");`)
	if code := run([]string{"run", script}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
}

func TestRunBareScriptArgument(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hello.giu")
	writeFile(t, script, "let x = 1 + 1;")
	if code := run([]string{script}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
}

func TestRunMissingFileFails(t *testing.T) {
	if code := run([]string{"run", filepath.Join(t.TempDir(), "nope.giu")}); code == 0 {
		t.Fatal("missing file must fail")
	}
}

func TestRunReportsRuntimeError(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "boom.giu")
	writeFile(t, script, "1 / 0;")
	if code := run([]string{"run", script}); code == 0 {
		t.Fatal("runtime errors must set a non-zero exit code")
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.giu")
	bad := filepath.Join(dir, "bad.giu")
	writeFile(t, good, "let x = 1;")
	writeFile(t, bad, "let = ;")
	if code := run([]string{"check", good}); code != 0 {
		t.Fatal("valid file must pass check")
	}
	if code := run([]string{"check", bad}); code == 0 {
		t.Fatal("invalid file must fail check")
	}
	// Check never executes the program.
	effect := filepath.Join(dir, "effect.giu")
	writeFile(t, effect, `import std.io; io.write_file("`+filepath.ToSlash(filepath.Join(dir, "out.txt"))+`", "x");`)
	if code := run([]string{"check", effect}); code != 0 {
		t.Fatal("check must only parse")
	}
	if _, err := os.Stat(filepath.Join(dir, "out.txt")); err == nil {
		t.Fatal("check must not run the program")
	}
}

func TestVersionAndHelp(t *testing.T) {
	if code := run([]string{"--version"}); code != 0 {
		t.Fatal("--version must succeed")
	}
	if code := run([]string{"--help"}); code != 0 {
		t.Fatal("--help must succeed")
	}
}

func TestUnknownCommand(t *testing.T) {
	if code := run([]string{"frobnicate"}); code == 0 {
		t.Fatal("unknown commands must fail")
	}
}

func TestRunUsesManifestMain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "giu.yml"), "name: demo\nmain: src/main.giu\n")
	writeFile(t, filepath.Join(dir, "src", "main.giu"), `println("from manifest");`)
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(prev)
	if code := run([]string{"run"}); code != 0 {
		t.Fatal("manifest main must run")
	}
}

func TestRunResolvesImportsNextToEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "helper.giu"), "fn two() { return 2; }")
	writeFile(t, filepath.Join(dir, "main.giu"), `
		import helper;
		println(helper.two());
	`)
	if code := run([]string{"run", filepath.Join(dir, "main.giu")}); code != 0 {
		t.Fatal("imports next to the entry must resolve")
	}
}
