package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"giulio/interpreter-go/pkg/driver"
	"giulio/interpreter-go/pkg/interpreter"
	"giulio/interpreter-go/pkg/parser"
	"giulio/interpreter-go/pkg/runtime"
)

// runRepl hosts an interactive session over a single interpreter, so
// bindings persist between inputs.
func runRepl(logger *zap.Logger) int {
	home, err := driver.GiuHome()
	if err != nil {
		fail("%v", err)
		return 1
	}
	settings, err := driver.LoadSettings(home)
	if err != nil {
		fail("%v", err)
		return 1
	}
	if !settings.Output.Color {
		errStyle = lipgloss.NewStyle()
		accentStyle = lipgloss.NewStyle()
		faintStyle = lipgloss.NewStyle()
	}

	var searchPaths []string
	if manifest, err := loadManifestFrom("."); err == nil {
		paths, code := collectSearchPaths(manifest.Path, manifest, logger)
		if code != 0 {
			return code
		}
		searchPaths = paths
	}

	interp := interpreter.New(
		interpreter.WithLogger(logger),
		interpreter.WithSearchPaths(searchPaths),
	)

	fmt.Fprintln(os.Stdout, accentStyle.Render(cliToolVersion)+faintStyle.Render("  (type exit to leave)"))
	scanner := bufio.NewScanner(os.Stdin)
	var history []string
	for {
		fmt.Fprint(os.Stdout, settings.Repl.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		line := scanner.Text()
		switch line {
		case "":
			continue
		case "exit", "quit":
			return 0
		case "history":
			for _, entry := range history {
				fmt.Fprintln(os.Stdout, faintStyle.Render(entry))
			}
			continue
		}
		history = append(history, line)
		if max := settings.Repl.HistorySize; max > 0 && len(history) > max {
			history = history[len(history)-max:]
		}
		program, err := parser.Parse(line)
		if err != nil {
			fail("%v", err)
			continue
		}
		result, err := interp.Run(program)
		if err != nil {
			fail("%v", err)
			continue
		}
		if _, isNull := result.(*runtime.NullValue); !isNull {
			fmt.Fprintln(os.Stdout, faintStyle.Render(settings.Repl.ResultPrefix)+interpreter.Inspect(result))
		}
	}
}
