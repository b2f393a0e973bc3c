// Command giu runs .giu programs, checks them for syntax errors,
// manages project dependencies, and hosts an interactive session.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"giulio/interpreter-go/pkg/driver"
	"giulio/interpreter-go/pkg/interpreter"
	"giulio/interpreter-go/pkg/lexer"
	"giulio/interpreter-go/pkg/parser"
)

const cliToolVersion = "giu 0.1.0"

var errManifestNotFound = errors.New("giu.yml not found")

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	verbose := false
	filtered := args[:0:0]
	for _, arg := range args {
		if arg == "--verbose" {
			verbose = true
			continue
		}
		filtered = append(filtered, arg)
	}
	args = filtered

	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err == nil {
			logger = dev
		}
	}
	defer logger.Sync()

	if len(args) == 0 {
		return runRepl(logger)
	}
	switch args[0] {
	case "--help", "-h", "help":
		printUsage(os.Stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:], logger)
	case "check":
		return runCheck(args[1:])
	case "deps":
		return runDeps(args[1:], logger)
	default:
		if strings.HasSuffix(args[0], ".giu") {
			return runEntry(args, logger)
		}
		fail("unknown command %q", args[0])
		printUsage(os.Stderr)
		return 1
	}
}

func runEntry(args []string, logger *zap.Logger) int {
	watch := false
	var rest []string
	for _, arg := range args {
		if arg == "--watch" || arg == "-w" {
			watch = true
			continue
		}
		rest = append(rest, arg)
	}

	entry, programArgs, searchPaths, code := resolveEntry(rest, logger)
	if code != 0 {
		return code
	}
	if watch {
		return runWatch(entry, programArgs, searchPaths, logger)
	}
	return executeEntry(entry, programArgs, searchPaths, logger)
}

// resolveEntry determines what to run: an explicit .giu file, or the
// manifest's main. Remaining arguments pass through to the program.
func resolveEntry(args []string, logger *zap.Logger) (entry string, programArgs []string, searchPaths []string, code int) {
	if len(args) > 0 && strings.HasSuffix(args[0], ".giu") {
		entry = args[0]
		programArgs = args[1:]
		if _, err := os.Stat(entry); err != nil {
			fail("cannot open %s: %v", entry, err)
			return "", nil, nil, 1
		}
		manifest, err := loadManifestFrom(filepath.Dir(entry))
		if err != nil && !errors.Is(err, errManifestNotFound) {
			fail("%v", err)
			return "", nil, nil, 1
		}
		searchPaths, code = collectSearchPaths(entry, manifest, logger)
		return entry, programArgs, searchPaths, code
	}

	manifest, err := loadManifestFrom(".")
	if err != nil {
		if errors.Is(err, errManifestNotFound) {
			fail("giu run requires a .giu file or a giu.yml with a main entry")
		} else {
			fail("%v", err)
		}
		return "", nil, nil, 1
	}
	if manifest.Main == "" {
		fail("manifest %s has no main entry", manifest.Path)
		return "", nil, nil, 1
	}
	entry = filepath.Join(manifest.Dir(), manifest.Main)
	if _, err := os.Stat(entry); err != nil {
		fail("manifest main %s: %v", manifest.Main, err)
		return "", nil, nil, 1
	}
	searchPaths, code = collectSearchPaths(entry, manifest, logger)
	return entry, args, searchPaths, code
}

// collectSearchPaths builds the import resolution list: the entry's
// directory, the project root, and every installed dependency.
func collectSearchPaths(entry string, manifest *driver.Manifest, logger *zap.Logger) ([]string, int) {
	paths := []string{filepath.Dir(entry)}
	if manifest != nil {
		paths = append(paths, manifest.Dir())
		if len(manifest.DepOrder) > 0 {
			lock, err := loadLockfileForManifest(manifest)
			if err != nil {
				fail("%v", err)
				return nil, 1
			}
			home, err := driver.GiuHome()
			if err != nil {
				fail("%v", err)
				return nil, 1
			}
			installer := driver.NewInstaller(filepath.Join(home, "packages"), logger)
			depPaths, err := installer.Install(manifest, lock, false)
			if err != nil {
				fail("%v", err)
				return nil, 1
			}
			if err := lock.Write(driver.LockfilePath(manifest)); err != nil {
				fail("%v", err)
				return nil, 1
			}
			paths = append(paths, depPaths...)
		}
	}
	if extra := os.Getenv("GIU_PATH"); extra != "" {
		for _, path := range filepath.SplitList(extra) {
			if path != "" {
				paths = append(paths, path)
			}
		}
	}
	return dedupePaths(paths), 0
}

func dedupePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	return out
}

func executeEntry(entry string, programArgs, searchPaths []string, logger *zap.Logger) int {
	source, err := os.ReadFile(entry)
	if err != nil {
		fail("cannot read %s: %v", entry, err)
		return 1
	}
	program, err := parser.Parse(string(source))
	if err != nil {
		fail("%s: %v", entry, err)
		return 1
	}
	interp := interpreter.New(
		interpreter.WithLogger(logger),
		interpreter.WithSearchPaths(searchPaths),
		interpreter.WithProgramArgs(programArgs),
	)
	if _, err := interp.Run(program); err != nil {
		fail("%v", err)
		return 1
	}
	return 0
}

// runCheck parses the given files and reports the first syntax error
// in each without executing anything.
func runCheck(args []string) int {
	if len(args) == 0 {
		fail("giu check requires at least one .giu file")
		return 1
	}
	failed := 0
	for _, path := range args {
		source, err := os.ReadFile(path)
		if err != nil {
			fail("cannot read %s: %v", path, err)
			failed++
			continue
		}
		if _, err := lexer.Tokenize(string(source)); err != nil {
			fail("%s: %v", path, err)
			failed++
			continue
		}
		if _, err := parser.Parse(string(source)); err != nil {
			fail("%s: %v", path, err)
			failed++
			continue
		}
		fmt.Fprintln(os.Stdout, accentStyle.Render("ok")+" "+path)
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func runDeps(args []string, logger *zap.Logger) int {
	if len(args) == 0 {
		fail("giu deps requires a subcommand: install or update")
		return 1
	}
	update := false
	var only []string
	switch args[0] {
	case "install":
	case "update":
		update = true
		only = args[1:]
	default:
		fail("unknown deps subcommand %q", args[0])
		return 1
	}

	manifest, err := loadManifestFrom(".")
	if err != nil {
		fail("%v", err)
		return 1
	}
	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		fail("%v", err)
		return 1
	}
	home, err := driver.GiuHome()
	if err != nil {
		fail("%v", err)
		return 1
	}
	installer := driver.NewInstaller(filepath.Join(home, "packages"), logger)
	if _, err := installer.Install(manifest, lock, update, only...); err != nil {
		fail("%v", err)
		return 1
	}
	if err := lock.Write(driver.LockfilePath(manifest)); err != nil {
		fail("%v", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "%s %d dependencies\n", accentStyle.Render("pinned"), len(lock.Packages))
	return 0
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, ok := driver.FindManifest(start)
	if !ok {
		return nil, errManifestNotFound
	}
	return driver.LoadManifest(path)
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	path := driver.LockfilePath(manifest)
	lock, err := driver.LoadLockfile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return driver.NewLockfile(manifest.Name, cliToolVersion), nil
		}
		return nil, err
	}
	return lock, nil
}

func fail(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errStyle.Render("error:")+" "+fmt.Sprintf(format, args...))
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, accentStyle.Render("giu")+": run and manage giu programs")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  giu                         start an interactive session")
	fmt.Fprintln(w, "  giu run [--watch] [file]    run a file or the manifest main")
	fmt.Fprintln(w, "  giu check <file>...         parse files without running them")
	fmt.Fprintln(w, "  giu deps install            fetch dependencies and write giu.lock")
	fmt.Fprintln(w, "  giu deps update [dep ...]   refetch dependencies, ignoring pins")
	fmt.Fprintln(w, "  giu --version               print the tool version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, faintStyle.Render("  --verbose enables diagnostic logging on any command"))
}
