package driver

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

const sampleManifest = `name: demo
version: 1.2.3
authors:
  - Ada
targets:
  main:
    main: src/main.slip
  bench:
    main: src/bench.slip
dependencies:
  mathlib:
    git: https://example.com/mathlib.git
    tag: v2
`

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), sampleManifest)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if m.Name != "demo" || m.Version != "1.2.3" {
		t.Fatalf("name/version = %q/%q", m.Name, m.Version)
	}
	if !reflect.DeepEqual(m.Authors, []string{"Ada"}) {
		t.Fatalf("authors = %v", m.Authors)
	}
	if !reflect.DeepEqual(m.TargetOrder, []string{"main", "bench"}) {
		t.Fatalf("target order = %v", m.TargetOrder)
	}
	dep := m.Dependencies["mathlib"]
	if dep == nil || dep.Git != "https://example.com/mathlib.git" || dep.Tag != "v2" {
		t.Fatalf("dependency = %+v", dep)
	}
}

func TestDefaultTargetIsFirstDeclared(t *testing.T) {
	path := writeManifest(t, t.TempDir(), sampleManifest)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	target, err := m.DefaultTarget()
	if err != nil {
		t.Fatalf("DefaultTarget failed: %v", err)
	}
	if target.Name != "main" {
		t.Fatalf("default target = %q, want main", target.Name)
	}
}

func TestDefaultTargetMissing(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "name: demo\n")
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if _, err := m.DefaultTarget(); err != ErrNoTarget {
		t.Fatalf("err = %v, want ErrNoTarget", err)
	}
}

func TestFindTarget(t *testing.T) {
	path := writeManifest(t, t.TempDir(), sampleManifest)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if _, ok := m.FindTarget("bench"); !ok {
		t.Fatal("bench target not found")
	}
	if _, ok := m.FindTarget("missing"); ok {
		t.Fatal("missing target found")
	}
}

func TestMainPathRelativeToManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, sampleManifest)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	target, _ := m.FindTarget("main")
	got, err := m.MainPath(target)
	if err != nil {
		t.Fatalf("MainPath failed: %v", err)
	}
	want := filepath.Join(dir, "src", "main.slip")
	if got != want {
		t.Fatalf("MainPath = %q, want %q", got, want)
	}
}

func TestManifestValidation(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		issue    string
	}{
		{
			name:     "missing name",
			contents: "version: 1.0.0\n",
			issue:    "name must be provided",
		},
		{
			name:     "target without main",
			contents: "name: demo\ntargets:\n  main:\n    main: \"\"\n",
			issue:    `target "main" requires a main entrypoint`,
		},
		{
			name:     "dependency without git",
			contents: "name: demo\ndependencies:\n  lib:\n    rev: abc\n",
			issue:    "dependencies.lib: must specify a git source",
		},
		{
			name:     "conflicting pins",
			contents: "name: demo\ndependencies:\n  lib:\n    git: https://example.com/lib.git\n    tag: v1\n    branch: main\n",
			issue:    "dependencies.lib: rev, tag, and branch are mutually exclusive",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.contents)
			_, err := LoadManifest(path)
			if err == nil {
				t.Fatal("LoadManifest succeeded, want validation error")
			}
			if !strings.Contains(err.Error(), tc.issue) {
				t.Fatalf("error = %q, want it to mention %q", err, tc.issue)
			}
		})
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "name: demo\nbogus: true\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("LoadManifest accepted an unknown field")
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, sampleManifest)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest failed: %v", err)
	}
	if found != filepath.Join(root, ManifestFileName) {
		t.Fatalf("FindManifest = %q", found)
	}
}

func TestFindManifestMissing(t *testing.T) {
	if _, err := FindManifest(t.TempDir()); err == nil {
		t.Fatal("FindManifest succeeded in an empty tree")
	}
}

func TestLockfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockfileName)

	lock := NewLockfile("demo", "slip-cli 0.1.0-dev")
	lock.Packages = append(lock.Packages,
		&LockedPackage{Name: "zeta", Git: "https://example.com/zeta.git", Rev: "bbb"},
		&LockedPackage{Name: "alpha", Git: "https://example.com/alpha.git", Rev: "aaa"},
	)
	if err := WriteLockfile(lock, path); err != nil {
		t.Fatalf("WriteLockfile failed: %v", err)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile failed: %v", err)
	}
	if loaded.Root != "demo" || loaded.Tool != "slip-cli 0.1.0-dev" {
		t.Fatalf("root/tool = %q/%q", loaded.Root, loaded.Tool)
	}
	if len(loaded.Packages) != 2 {
		t.Fatalf("packages = %d, want 2", len(loaded.Packages))
	}
	// WriteLockfile sorts by name.
	if loaded.Packages[0].Name != "alpha" || loaded.Packages[1].Name != "zeta" {
		t.Fatalf("package order = %s, %s", loaded.Packages[0].Name, loaded.Packages[1].Name)
	}
	if pkg := loaded.Find("alpha"); pkg == nil || pkg.Rev != "aaa" {
		t.Fatalf("Find(alpha) = %+v", pkg)
	}
	if loaded.Find("missing") != nil {
		t.Fatal("Find(missing) returned an entry")
	}
}
