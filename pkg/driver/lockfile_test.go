package driver

import (
	"path/filepath"
	"testing"
)

func TestLockfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)

	lock := NewLockfile("demo", "0.1.0")
	lock.Pin(&LockedPackage{Name: "strutils", Source: "git+https://example.com/strutils.git", Reference: "tag:v1", Revision: "abc123"})
	lock.Pin(&LockedPackage{Name: "local", Source: "path:../local"})
	if err := lock.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Root != "demo" || loaded.Tool != "0.1.0" {
		t.Fatalf("header lost: %#v", loaded)
	}
	pkg, ok := loaded.Find("strutils")
	if !ok || pkg.Revision != "abc123" || pkg.Reference != "tag:v1" {
		t.Fatalf("unexpected pin %#v", pkg)
	}
}

func TestLockfileWriteSortsPackages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)
	lock := NewLockfile("demo", "0.1.0")
	lock.Pin(&LockedPackage{Name: "zeta", Source: "path:z"})
	lock.Pin(&LockedPackage{Name: "alpha", Source: "path:a"})
	if err := lock.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Packages[0].Name != "alpha" || loaded.Packages[1].Name != "zeta" {
		t.Fatalf("packages not sorted: %#v", loaded.Packages)
	}
}

func TestLockfilePinReplaces(t *testing.T) {
	lock := NewLockfile("demo", "0.1.0")
	lock.Pin(&LockedPackage{Name: "dep", Revision: "old"})
	lock.Pin(&LockedPackage{Name: "dep", Revision: "new"})
	if len(lock.Packages) != 1 || lock.Packages[0].Revision != "new" {
		t.Fatalf("pin must replace: %#v", lock.Packages)
	}
}

func TestLoadLockfileRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)
	writeFileHelper(t, path, "root: demo\nextra: nope\n")
	if _, err := LoadLockfile(path); err == nil {
		t.Fatal("unknown keys must be rejected")
	}
}
