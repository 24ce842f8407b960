package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"slip/interpreter-go/pkg/driver"
	"slip/interpreter-go/pkg/interpreter"
	"slip/interpreter-go/pkg/lexer"
	"slip/interpreter-go/pkg/parser"
	"slip/interpreter-go/pkg/runtime"
)

const cliToolVersion = "slip-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return runREPL()
	}
	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "repl":
		return runREPL()
	case "deps":
		return runDeps(args[1:])
	case "run":
		return runEntry(args[1:])
	default:
		return runEntry(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stdout, `slip - a small Scheme-like language

Usage:
  slip                      start a REPL
  slip <file.slip>          evaluate a source file
  slip run [target|file]    evaluate a manifest target or source file
  slip repl                 start a REPL
  slip deps install         fetch manifest dependencies into the cache
  slip deps update [name]   re-resolve all or named dependencies
  slip version              print the tool version`)
}

func runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	if len(args) == 0 {
		manifest, err := loadManifestFrom(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "slip run requires a target or source file (%v)\n", err)
			return 1
		}
		target, err := manifest.DefaultTarget()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
		entryPath, err := manifest.MainPath(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to resolve target entrypoint: %v\n", err)
			return 1
		}
		return executeEntry(entryPath)
	}

	candidate := args[0]
	if !looksLikePathCandidate(candidate) {
		if manifest, err := loadManifestFrom("."); err == nil {
			if target, ok := manifest.FindTarget(candidate); ok {
				entryPath, err := manifest.MainPath(target)
				if err != nil {
					fmt.Fprintf(os.Stderr, "failed to resolve target %q: %v\n", candidate, err)
					return 1
				}
				return executeEntry(entryPath)
			}
		}
	}
	return executeEntry(candidate)
}

func executeEntry(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return 1
	}
	result, err := evalSource(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintln(os.Stdout, runtime.Render(result))
	return 0
}

// evalSource runs the whole pipeline on one unit of source text.
func evalSource(src string) (runtime.Value, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	nodes, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return interpreter.Interpret(nodes)
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.Contains(arg, "/") || strings.Contains(arg, "\\") {
		return true
	}
	if filepath.Ext(arg) == ".slip" {
		return true
	}
	return strings.HasPrefix(arg, ".")
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	manifestPath, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func resolveSlipHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("SLIP_HOME")); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".slip"), nil
}

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "slip deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "slip deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runDepsInstall()
	case "update":
		return runDepsUpdate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, string, bool, error) {
	lockPath := filepath.Join(filepath.Dir(manifest.Path), driver.LockfileName)
	lock, err := driver.LoadLockfile(lockPath)
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			return nil, lockPath, false, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
		}
		return lock, lockPath, false, nil
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lock.Path = lockPath
		return lock, lockPath, true, nil
	default:
		return nil, lockPath, false, fmt.Errorf("failed to read lockfile: %w", err)
	}
}

func runDepsInstall() int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestFileName, err)
		return 1
	}
	cacheDir, err := resolveSlipHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve SLIP_HOME: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheDir)

	lock, lockPath, lockCreated, err := loadLockfileForManifest(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	lock.Tool = cliToolVersion

	installer := driver.NewInstaller(manifest, cacheDir)
	changed, logs, err := installer.Install(lock)
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return 1
	}

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lockPath)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lockPath)
	}

	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}

func runDepsUpdate(targets []string) int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestFileName, err)
		return 1
	}
	cacheDir, err := resolveSlipHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve SLIP_HOME: %v\n", err)
		return 1
	}
	lock, lockPath, lockCreated, err := loadLockfileForManifest(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	// Dropping a lock entry forces the installer to re-resolve it.
	if len(targets) == 0 {
		lock.Packages = nil
	} else {
		updateSet := make(map[string]struct{}, len(targets))
		for _, target := range targets {
			if _, ok := manifest.Dependencies[target]; !ok {
				fmt.Fprintf(os.Stderr, "dependency %q not declared in manifest\n", target)
				return 1
			}
			updateSet[target] = struct{}{}
		}
		kept := lock.Packages[:0]
		for _, pkg := range lock.Packages {
			if pkg == nil {
				continue
			}
			if _, ok := updateSet[pkg.Name]; !ok {
				kept = append(kept, pkg)
			}
		}
		lock.Packages = kept
	}

	lock.Tool = cliToolVersion
	installer := driver.NewInstaller(manifest, cacheDir)
	changed, logs, err := installer.Install(lock)
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to update dependencies: %v\n", err)
		return 1
	}

	if changed || lockCreated {
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "Updated %s: %s\n", driver.LockfileName, lockPath)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lockPath)
	}
	fmt.Fprintln(os.Stdout, "Dependencies updated.")
	return 0
}
