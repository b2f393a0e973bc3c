package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// Installer materialises manifest dependencies under the package cache
// and pins the result into the lockfile.
type Installer struct {
	CacheDir string
	Logger   *zap.Logger
}

// NewInstaller builds an installer rooted at cacheDir, usually
// GiuHome()/packages.
func NewInstaller(cacheDir string, logger *zap.Logger) *Installer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{CacheDir: cacheDir, Logger: logger}
}

// GiuHome resolves the per-user tool directory. GIU_HOME overrides the
// default of ~/.giu.
func GiuHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("GIU_HOME")); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(userHome, ".giu"), nil
}

// Install resolves every dependency in the manifest, honoring existing
// lockfile pins unless update is set, and returns the search paths the
// interpreter should consult for imports. When only names are given,
// update applies to those dependencies alone.
func (ins *Installer) Install(manifest *Manifest, lock *Lockfile, update bool, only ...string) ([]string, error) {
	for _, name := range only {
		if _, ok := manifest.Dependencies[name]; !ok {
			return nil, fmt.Errorf("dependency %q is not declared in %s", name, ManifestFileName)
		}
	}
	var searchPaths []string
	for _, name := range manifest.DepOrder {
		spec := manifest.Dependencies[name]
		if spec == nil {
			continue
		}
		dir, err := ins.installOne(manifest, lock, name, spec, update && selected(only, name))
		if err != nil {
			return nil, err
		}
		searchPaths = append(searchPaths, dir)
	}
	return searchPaths, nil
}

func selected(only []string, name string) bool {
	if len(only) == 0 {
		return true
	}
	for _, n := range only {
		if n == name {
			return true
		}
	}
	return false
}

func (ins *Installer) installOne(manifest *Manifest, lock *Lockfile, name string, spec *DependencySpec, update bool) (string, error) {
	if spec.Path != "" {
		dir := spec.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(manifest.Dir(), dir)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("dependency %q: path %s is not a directory", name, dir)
		}
		lock.Pin(&LockedPackage{Name: name, Source: "path:" + spec.Path})
		return dir, nil
	}

	targetDir := filepath.Join(ins.CacheDir, sanitizeSegment(name))
	pinned, hasPin := lock.Find(name)
	if hasPin && !update && !strings.HasPrefix(pinned.Source, "path:") {
		if info, err := os.Stat(targetDir); err == nil && info.IsDir() {
			return targetDir, nil
		}
	}

	ins.Logger.Info("fetching dependency",
		zap.String("name", name),
		zap.String("url", spec.Git))

	revision := gitRevision(spec, pinned, update)
	commit, err := ins.fetch(targetDir, spec.Git, revision)
	if err != nil {
		return "", fmt.Errorf("dependency %q: %w", name, err)
	}
	lock.Pin(&LockedPackage{
		Name:      name,
		Source:    "git+" + spec.Git,
		Reference: referenceDescriptor(spec),
		Revision:  commit,
	})
	return targetDir, nil
}

// gitRevision picks what to check out: the explicit spec reference, the
// lockfile pin when not updating, or the remote HEAD.
func gitRevision(spec *DependencySpec, pinned *LockedPackage, update bool) plumbing.Revision {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev)
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag)
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch)
	}
	if pinned != nil && !update && pinned.Revision != "" {
		return plumbing.Revision(pinned.Revision)
	}
	return plumbing.Revision("HEAD")
}

func referenceDescriptor(spec *DependencySpec) string {
	switch {
	case spec.Rev != "":
		return spec.Rev
	case spec.Tag != "":
		return "tag:" + spec.Tag
	case spec.Branch != "":
		return "branch:" + spec.Branch
	default:
		return ""
	}
}

// fetch clones the repository into a staging directory, checks out the
// requested revision, and swaps it into place.
func (ins *Installer) fetch(targetDir, url string, revision plumbing.Revision) (string, error) {
	if url == "" {
		return "", fmt.Errorf("git URL required")
	}
	if err := os.MkdirAll(ins.CacheDir, 0o755); err != nil {
		return "", err
	}
	tmpDir, err := os.MkdirTemp(ins.CacheDir, "fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.RemoveAll(targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return hash.String(), nil
}
