// Package driver holds the project-level tooling around the
// interpreter: the giu.yml manifest, the giu.lock lockfile, dependency
// installation, and user settings.
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the manifest looked up when resolving a project.
const ManifestFileName = "giu.yml"

// Manifest represents the parsed contents of giu.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	License      string
	Authors      []string
	Main         string
	Dependencies map[string]*DependencySpec
	DepOrder     []string
}

// DependencySpec describes one dependency descriptor in the manifest.
type DependencySpec struct {
	Version string
	Git     string
	Rev     string
	Tag     string
	Branch  string
	Path    string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses giu.yml from disk, returning a validated
// manifest. Unknown keys are rejected.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks up from dir looking for giu.yml.
func FindManifest(dir string) (string, bool) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(current, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// Dir returns the directory containing the manifest file.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Main != "" && !strings.HasSuffix(m.Main, ".giu") {
		errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must point to a .giu file", m.Main))
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}
	for _, name := range m.DepOrder {
		dep := m.Dependencies[name]
		if dep == nil {
			continue
		}
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d == nil {
		return errs
	}
	if d.Path != "" && (d.Version != "" || d.Git != "") {
		errs = append(errs, "path overrides cannot specify version or git source")
	}
	if d.Git == "" && (d.Rev != "" || d.Tag != "" || d.Branch != "") {
		errs = append(errs, "rev, tag, and branch apply only to git sources")
	}
	refs := 0
	for _, ref := range []string{d.Rev, d.Tag, d.Branch} {
		if ref != "" {
			refs++
		}
	}
	if refs > 1 {
		errs = append(errs, "specify at most one of rev, tag, or branch")
	}
	if d.Git == "" && d.Path == "" {
		errs = append(errs, "must specify git or path")
	}
	if d.Version != "" && !isValidVersionConstraint(d.Version) {
		errs = append(errs, fmt.Sprintf("invalid version constraint %q", d.Version))
	}
	return errs
}

var versionConstraintPattern = regexp.MustCompile(`^(~>|>=|<=|>|<|=|\^)?\s*[0-9]+(\.[0-9]+){0,2}([0-9A-Za-z\-\+\.]*)?$`)

func isValidVersionConstraint(input string) bool {
	s := strings.TrimSpace(input)
	if s == "" {
		return false
	}
	if s == "*" {
		return true
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || !versionConstraintPattern.MatchString(part) {
			return false
		}
	}
	return true
}

// sanitizeSegment strips characters that would break filesystem paths
// derived from manifest names.
func sanitizeSegment(s string) string {
	var b strings.Builder
	for _, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			b.WriteRune(ch)
		}
	}
	return b.String()
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	License      string        `yaml:"license"`
	Authors      stringList    `yaml:"authors"`
	Main         string        `yaml:"main"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

type dependencyMap struct {
	items map[string]*DependencySpec
	order []string
}

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         sanitizeSegment(strings.TrimSpace(mf.Name)),
		Version:      strings.TrimSpace(mf.Version),
		License:      strings.TrimSpace(mf.License),
		Authors:      mf.Authors.Clone(),
		Main:         strings.TrimSpace(mf.Main),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies.items)),
		DepOrder:     append([]string(nil), mf.Dependencies.order...),
	}
	for name, dep := range mf.Dependencies.items {
		result.Dependencies[name] = dep.clone()
	}
	return result
}

func (d *DependencySpec) clone() *DependencySpec {
	if d == nil {
		return nil
	}
	copied := *d
	return &copied
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	dm.items = make(map[string]*DependencySpec)
	dm.order = nil
	if value.Kind == 0 {
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(valNode); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		dm.items[key] = dep.clone()
		dm.order = append(dm.order, key)
	}
	return nil
}

func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*d = DependencySpec{}
			return nil
		}
		// A bare string is a git URL shorthand.
		*d = DependencySpec{Git: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Version string `yaml:"version"`
			Git     string `yaml:"git"`
			Rev     string `yaml:"rev"`
			Tag     string `yaml:"tag"`
			Branch  string `yaml:"branch"`
			Path    string `yaml:"path"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Version: strings.TrimSpace(raw.Version),
			Git:     strings.TrimSpace(raw.Git),
			Rev:     strings.TrimSpace(raw.Rev),
			Tag:     strings.TrimSpace(raw.Tag),
			Branch:  strings.TrimSpace(raw.Branch),
			Path:    strings.TrimSpace(raw.Path),
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}
