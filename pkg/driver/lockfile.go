package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// LockFileName sits next to giu.yml and pins resolved dependencies.
const LockFileName = "giu.lock"

// Lockfile records the exact revision each dependency resolved to.
type Lockfile struct {
	Root     string           `yaml:"root"`
	Tool     string           `yaml:"tool"`
	Packages []*LockedPackage `yaml:"packages"`
}

// LockedPackage pins one dependency.
type LockedPackage struct {
	Name      string `yaml:"name"`
	Source    string `yaml:"source"`
	Reference string `yaml:"reference,omitempty"`
	Revision  string `yaml:"revision,omitempty"`
}

// NewLockfile builds an empty lockfile for a project.
func NewLockfile(projectName, toolVersion string) *Lockfile {
	return &Lockfile{Root: projectName, Tool: toolVersion}
}

// LoadLockfile reads giu.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var lock Lockfile
	if err := decoder.Decode(&lock); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("lockfile: %s is empty", path)
		}
		return nil, fmt.Errorf("lockfile: parse %s: %w", path, err)
	}
	return &lock, nil
}

// Write persists the lockfile with packages in name order.
func (l *Lockfile) Write(path string) error {
	sort.Slice(l.Packages, func(a, b int) bool {
		return l.Packages[a].Name < l.Packages[b].Name
	})
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("lockfile: encode: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("lockfile: replace %s: %w", path, err)
	}
	return nil
}

// Find returns the pinned entry for a dependency name.
func (l *Lockfile) Find(name string) (*LockedPackage, bool) {
	for _, pkg := range l.Packages {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return nil, false
}

// Pin inserts or replaces the entry for a dependency.
func (l *Lockfile) Pin(pkg *LockedPackage) {
	for i, existing := range l.Packages {
		if existing.Name == pkg.Name {
			l.Packages[i] = pkg
			return
		}
	}
	l.Packages = append(l.Packages, pkg)
}

// LockfilePath returns the giu.lock path for a manifest.
func LockfilePath(manifest *Manifest) string {
	return filepath.Join(manifest.Dir(), LockFileName)
}
